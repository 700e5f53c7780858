package domain

import "github.com/google/uuid"

// ComputeNetBalances folds all active entries of an event into one signed
// net balance per person. For an EXPENSE the payer's balance increases by
// the entry total and each participant's balance decreases by their resolved
// allocation; for an INCOME the signs invert.
//
// The fold starts from zero for every person in the event, so a full
// recomputation always replaces the previous snapshot rather than patching
// it.
func ComputeNetBalances(people []uuid.UUID, entries []*Entry, participantsByEntry map[uuid.UUID][]*EntryParticipant) []NetBalance {
	deltas := make(map[uuid.UUID]Amount, len(people))
	for _, personID := range people {
		deltas[personID] = Amount{}
	}

	for _, entry := range entries {
		if !entry.Active() {
			continue
		}

		payerSign := int64(1)
		if entry.Type == EntryTypeIncome {
			payerSign = -1
		}

		payerDelta := entry.Amount
		if payerSign < 0 {
			payerDelta = payerDelta.Neg()
		}
		deltas[entry.PayerPersonID] = deltas[entry.PayerPersonID].Add(payerDelta)

		for _, participant := range participantsByEntry[entry.ID] {
			share := participant.ResolvedAmount
			if payerSign > 0 {
				share = share.Neg()
			}
			deltas[participant.PersonID] = deltas[participant.PersonID].Add(share)
		}
	}

	balances := make([]NetBalance, len(people))
	for i, personID := range people {
		balances[i] = NetBalance{
			PersonID: ParticipantIDOf(personID),
			Amount:   deltas[personID],
		}
	}

	return balances
}
