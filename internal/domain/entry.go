package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxEntryNameLength = 200

// EntryType distinguishes money flowing out of the group from money flowing in.
type EntryType string

const (
	EntryTypeExpense EntryType = "EXPENSE"
	EntryTypeIncome  EntryType = "INCOME"
)

// ParseEntryType parses an entry type identifier.
func ParseEntryType(raw string) (EntryType, error) {
	switch EntryType(strings.ToUpper(strings.TrimSpace(raw))) {
	case EntryTypeExpense:
		return EntryTypeExpense, nil
	case EntryTypeIncome:
		return EntryTypeIncome, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, raw)
	}
}

// Entry is one monetary entry of an event, paid by one person and split
// among its participants.
type Entry struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	Type          EntryType
	Name          string
	Amount        Amount
	Currency      CurrencyCode
	PayerPersonID uuid.UUID
	OccurredAt    time.Time
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Active reports whether the entry still contributes to balances.
func (e *Entry) Active() bool {
	return e.DeletedAt == nil
}

// ValidateEntryName validates an entry name.
func ValidateEntryName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEntryName)
	}
	if len(trimmed) > MaxEntryNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidEntryName, MaxEntryNameLength)
	}
	return nil
}

// EntryParticipant is one persisted allocation row of an entry: the original
// split instruction plus the resolved amount the calculator produced for it.
type EntryParticipant struct {
	EntryID        uuid.UUID
	PersonID       uuid.UUID
	SplitMode      SplitMode
	SplitPercent   *Percentage
	SplitAmount    *Amount
	ResolvedAmount Amount
	CreatedAt      time.Time
}

// BalanceSnapshot is the persisted net balance of one person for one event,
// recomputed in full whenever the event's entry set changes.
type BalanceSnapshot struct {
	EventID    uuid.UUID
	PersonID   uuid.UUID
	NetAmount  Amount
	ComputedAt time.Time
}
