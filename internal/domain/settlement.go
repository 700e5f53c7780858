package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SettlementAlgorithm enumerates the supported settlement policies.
type SettlementAlgorithm string

const (
	// SettlementMinTransfer minimizes the number of transfers by greedily
	// matching the largest creditor with the largest debtor.
	SettlementMinTransfer SettlementAlgorithm = "MIN_TRANSFER"

	// SettlementPairwise produces direct pairwise settlements in a single
	// deterministic pass over ids, without transfer minimization.
	SettlementPairwise SettlementAlgorithm = "PAIRWISE"
)

// ParseSettlementAlgorithm parses a settlement algorithm identifier.
func ParseSettlementAlgorithm(raw string) (SettlementAlgorithm, error) {
	switch SettlementAlgorithm(strings.ToUpper(strings.TrimSpace(raw))) {
	case SettlementMinTransfer:
		return SettlementMinTransfer, nil
	case SettlementPairwise:
		return SettlementPairwise, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, raw)
	}
}

// NetBalance is one person's signed net position within an event. Positive
// means the person is owed money, negative means the person owes money.
type NetBalance struct {
	PersonID ParticipantID
	Amount   Amount
}

// SettlementTransfer is a directed payment instruction that, applied to all
// net balances, moves them toward zero.
type SettlementTransfer struct {
	FromPersonID ParticipantID
	ToPersonID   ParticipantID
	Amount       Amount
}

// SettlementStrategy converts a set of net balances into directed transfers.
// Implementations are pure and deterministic for equal inputs.
type SettlementStrategy interface {
	Settle(netBalances []NetBalance) []SettlementTransfer
}

// StrategyFor returns the strategy implementing the given algorithm.
func StrategyFor(algorithm SettlementAlgorithm) (SettlementStrategy, error) {
	switch algorithm {
	case SettlementMinTransfer:
		return MinTransferStrategy{}, nil
	case SettlementPairwise:
		return PairwiseStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

type settlementBucket struct {
	personID ParticipantID
	units    int64
}

func splitBuckets(netBalances []NetBalance) (creditors, debtors []settlementBucket) {
	for _, b := range netBalances {
		units := b.Amount.MinorUnits()
		switch {
		case units > 0:
			creditors = append(creditors, settlementBucket{personID: b.PersonID, units: units})
		case units < 0:
			debtors = append(debtors, settlementBucket{personID: b.PersonID, units: -units})
		}
	}
	return creditors, debtors
}

// MinTransferStrategy greedily matches the largest outstanding creditor and
// debtor buckets first, which tends toward fewer transfers for the same
// balance set than pairwise netting.
type MinTransferStrategy struct{}

// Settle implements SettlementStrategy.
func (MinTransferStrategy) Settle(netBalances []NetBalance) []SettlementTransfer {
	creditors, debtors := splitBuckets(netBalances)

	byRemainingDesc := func(buckets []settlementBucket) {
		sort.Slice(buckets, func(a, b int) bool {
			if buckets[a].units != buckets[b].units {
				return buckets[a].units > buckets[b].units
			}
			return buckets[a].personID.Less(buckets[b].personID)
		})
	}

	var transfers []SettlementTransfer
	for len(creditors) > 0 && len(debtors) > 0 {
		byRemainingDesc(creditors)
		byRemainingDesc(debtors)

		creditor := &creditors[0]
		debtor := &debtors[0]
		units := min(creditor.units, debtor.units)
		if units <= 0 {
			break
		}

		transfers = append(transfers, SettlementTransfer{
			FromPersonID: debtor.personID,
			ToPersonID:   creditor.personID,
			Amount:       AmountFromMinorUnits(units),
		})

		creditor.units -= units
		debtor.units -= units
		if creditor.units == 0 {
			creditors = creditors[1:]
		}
		if debtor.units == 0 {
			debtors = debtors[1:]
		}
	}

	return transfers
}

// PairwiseStrategy iterates debtors in ascending id order and pays creditors
// in ascending id order until each debt reaches zero. It may produce more
// transfers than MinTransferStrategy but is stable under any unrelated
// reordering of the id space.
type PairwiseStrategy struct{}

// Settle implements SettlementStrategy.
func (PairwiseStrategy) Settle(netBalances []NetBalance) []SettlementTransfer {
	creditors, debtors := splitBuckets(netBalances)

	byID := func(buckets []settlementBucket) {
		sort.Slice(buckets, func(a, b int) bool {
			return buckets[a].personID.Less(buckets[b].personID)
		})
	}
	byID(creditors)
	byID(debtors)

	var transfers []SettlementTransfer
	for d := range debtors {
		remaining := debtors[d].units
		for c := range creditors {
			if remaining == 0 {
				break
			}
			if creditors[c].units == 0 {
				continue
			}

			units := min(remaining, creditors[c].units)
			transfers = append(transfers, SettlementTransfer{
				FromPersonID: debtors[d].personID,
				ToPersonID:   creditors[c].personID,
				Amount:       AmountFromMinorUnits(units),
			})

			remaining -= units
			creditors[c].units -= units
		}
	}

	return transfers
}

// CounterpartyAmount is one leg of a balance line: how much is owed to or by
// a single counterparty.
type CounterpartyAmount struct {
	CounterpartyPersonID ParticipantID
	Amount               Amount
}

// BalanceLine is one person's view of an event balance sheet: net position
// plus the settling transfers they participate in.
type BalanceLine struct {
	PersonID ParticipantID
	Net      Amount
	Owes     []CounterpartyAmount
	OwedBy   []CounterpartyAmount
}

// BuildBalanceLines assembles per-person balance lines from settlement
// transfers, one line per person in input order, counterparties sorted by
// ascending id.
func BuildBalanceLines(people []ParticipantID, netByPerson map[ParticipantID]Amount, transfers []SettlementTransfer) []BalanceLine {
	owes := make(map[ParticipantID][]CounterpartyAmount)
	owedBy := make(map[ParticipantID][]CounterpartyAmount)
	for _, t := range transfers {
		owes[t.FromPersonID] = append(owes[t.FromPersonID], CounterpartyAmount{
			CounterpartyPersonID: t.ToPersonID,
			Amount:               t.Amount,
		})
		owedBy[t.ToPersonID] = append(owedBy[t.ToPersonID], CounterpartyAmount{
			CounterpartyPersonID: t.FromPersonID,
			Amount:               t.Amount,
		})
	}

	byCounterparty := func(legs []CounterpartyAmount) {
		sort.Slice(legs, func(a, b int) bool {
			return legs[a].CounterpartyPersonID.Less(legs[b].CounterpartyPersonID)
		})
	}

	lines := make([]BalanceLine, len(people))
	for i, personID := range people {
		personOwes := owes[personID]
		personOwedBy := owedBy[personID]
		byCounterparty(personOwes)
		byCounterparty(personOwedBy)

		lines[i] = BalanceLine{
			PersonID: personID,
			Net:      netByPerson[personID],
			Owes:     personOwes,
			OwedBy:   personOwedBy,
		}
	}

	return lines
}
