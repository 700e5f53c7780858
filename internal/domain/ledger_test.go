package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func personUUID(t *testing.T, n int) uuid.UUID {
	t.Helper()
	return pid(t, n).UUID()
}

func ledgerEntry(t *testing.T, entryType EntryType, total string, payer uuid.UUID) *Entry {
	t.Helper()
	return &Entry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		Type:          entryType,
		Name:          fmt.Sprintf("%s entry", entryType),
		Amount:        mustAmount(t, total),
		Currency:      "EUR",
		PayerPersonID: payer,
		OccurredAt:    time.Now(),
	}
}

func resolvedShare(t *testing.T, entryID, personID uuid.UUID, amount string) *EntryParticipant {
	t.Helper()
	return &EntryParticipant{
		EntryID:        entryID,
		PersonID:       personID,
		SplitMode:      SplitModeEven,
		ResolvedAmount: mustAmount(t, amount),
	}
}

func TestComputeNetBalances_Expense(t *testing.T) {
	t.Parallel()

	alice := personUUID(t, 1)
	bob := personUUID(t, 2)
	carol := personUUID(t, 3)

	entry := ledgerEntry(t, EntryTypeExpense, "9.0000", alice)
	participants := map[uuid.UUID][]*EntryParticipant{
		entry.ID: {
			resolvedShare(t, entry.ID, alice, "3.0000"),
			resolvedShare(t, entry.ID, bob, "3.0000"),
			resolvedShare(t, entry.ID, carol, "3.0000"),
		},
	}

	balances := ComputeNetBalances([]uuid.UUID{alice, bob, carol}, []*Entry{entry}, participants)

	want := map[int]string{1: "6.0000", 2: "-3.0000", 3: "-3.0000"}
	for i, n := range []int{1, 2, 3} {
		if balances[i].PersonID != pid(t, n) {
			t.Fatalf("balance %d for wrong person: %s", i, balances[i].PersonID)
		}
		if balances[i].Amount.String() != want[n] {
			t.Errorf("person %d: got %s, want %s", n, balances[i].Amount, want[n])
		}
	}
}

func TestComputeNetBalances_IncomeInvertsSigns(t *testing.T) {
	t.Parallel()

	alice := personUUID(t, 1)
	bob := personUUID(t, 2)

	entry := ledgerEntry(t, EntryTypeIncome, "10.0000", alice)
	participants := map[uuid.UUID][]*EntryParticipant{
		entry.ID: {
			resolvedShare(t, entry.ID, alice, "5.0000"),
			resolvedShare(t, entry.ID, bob, "5.0000"),
		},
	}

	balances := ComputeNetBalances([]uuid.UUID{alice, bob}, []*Entry{entry}, participants)

	// Alice collected 10.0000 on behalf of both, so she owes Bob his share.
	if balances[0].Amount.String() != "-5.0000" {
		t.Errorf("collector: got %s, want -5.0000", balances[0].Amount)
	}
	if balances[1].Amount.String() != "5.0000" {
		t.Errorf("beneficiary: got %s, want 5.0000", balances[1].Amount)
	}
}

func TestComputeNetBalances_SkipsDeletedEntries(t *testing.T) {
	t.Parallel()

	alice := personUUID(t, 1)
	bob := personUUID(t, 2)

	deletedAt := time.Now()
	deleted := ledgerEntry(t, EntryTypeExpense, "100.0000", alice)
	deleted.DeletedAt = &deletedAt

	active := ledgerEntry(t, EntryTypeExpense, "4.0000", bob)
	participants := map[uuid.UUID][]*EntryParticipant{
		deleted.ID: {
			resolvedShare(t, deleted.ID, alice, "50.0000"),
			resolvedShare(t, deleted.ID, bob, "50.0000"),
		},
		active.ID: {
			resolvedShare(t, active.ID, alice, "2.0000"),
			resolvedShare(t, active.ID, bob, "2.0000"),
		},
	}

	balances := ComputeNetBalances([]uuid.UUID{alice, bob}, []*Entry{deleted, active}, participants)

	if balances[0].Amount.String() != "-2.0000" {
		t.Errorf("alice: got %s, want -2.0000", balances[0].Amount)
	}
	if balances[1].Amount.String() != "2.0000" {
		t.Errorf("bob: got %s, want 2.0000", balances[1].Amount)
	}
}

func TestComputeNetBalances_MultipleEntriesAccumulate(t *testing.T) {
	t.Parallel()

	alice := personUUID(t, 1)
	bob := personUUID(t, 2)

	dinner := ledgerEntry(t, EntryTypeExpense, "30.0000", alice)
	taxi := ledgerEntry(t, EntryTypeExpense, "10.0000", bob)
	participants := map[uuid.UUID][]*EntryParticipant{
		dinner.ID: {
			resolvedShare(t, dinner.ID, alice, "15.0000"),
			resolvedShare(t, dinner.ID, bob, "15.0000"),
		},
		taxi.ID: {
			resolvedShare(t, taxi.ID, alice, "5.0000"),
			resolvedShare(t, taxi.ID, bob, "5.0000"),
		},
	}

	balances := ComputeNetBalances([]uuid.UUID{alice, bob}, []*Entry{dinner, taxi}, participants)

	if balances[0].Amount.String() != "10.0000" {
		t.Errorf("alice: got %s, want 10.0000", balances[0].Amount)
	}
	if balances[1].Amount.String() != "-10.0000" {
		t.Errorf("bob: got %s, want -10.0000", balances[1].Amount)
	}

	sum := int64(0)
	for _, b := range balances {
		sum += b.Amount.MinorUnits()
	}
	if sum != 0 {
		t.Fatalf("net balances should sum to zero, got %d minor units", sum)
	}
}

func TestComputeNetBalances_NoEntries(t *testing.T) {
	t.Parallel()

	alice := personUUID(t, 1)
	balances := ComputeNetBalances([]uuid.UUID{alice}, nil, nil)

	if len(balances) != 1 || !balances[0].Amount.IsZero() {
		t.Fatalf("expected a single zero balance, got %+v", balances)
	}
}
