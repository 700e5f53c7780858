package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxEventNameLength   = 160
	MaxTimezoneLength    = 64
	MaxDisplayNameLength = 120
)

// Event is a group-expense ledger scope: one base currency, one set of
// people, one set of entries.
type Event struct {
	ID                 uuid.UUID
	Name               string
	BaseCurrency       CurrencyCode
	Timezone           string
	DefaultAlgorithm   SettlementAlgorithm
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ArchivedAt         *time.Time
}

// Archived reports whether the event has been archived.
func (e *Event) Archived() bool {
	return e.ArchivedAt != nil
}

// ValidateEventName validates an event name.
func ValidateEventName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEventName)
	}
	if len(trimmed) > MaxEventNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidEventName, MaxEventNameLength)
	}
	return nil
}

// ValidateTimezone validates an IANA timezone identifier.
func ValidateTimezone(tz string) error {
	trimmed := strings.TrimSpace(tz)
	if trimmed == "" {
		return fmt.Errorf("%w: timezone cannot be empty", ErrInvalidTimezone)
	}
	if len(trimmed) > MaxTimezoneLength {
		return fmt.Errorf("%w: timezone exceeds %d characters", ErrInvalidTimezone, MaxTimezoneLength)
	}
	if _, err := time.LoadLocation(trimmed); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return nil
}

// Person is a split participant within one event. People exist per event and
// are not shared across events.
type Person struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParticipantID returns the person's id as a split participant id.
func (p *Person) ParticipantID() ParticipantID {
	return ParticipantIDOf(p.ID)
}

// ValidateDisplayName validates a person display name.
func ValidateDisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: display name cannot be empty", ErrInvalidDisplayName)
	}
	if len(trimmed) > MaxDisplayNameLength {
		return fmt.Errorf("%w: display name exceeds %d characters", ErrInvalidDisplayName, MaxDisplayNameLength)
	}
	return nil
}

// InviteToken grants joining access to an event via an opaque token.
type InviteToken struct {
	Token     string
	EventID   uuid.UUID
	CreatedAt time.Time
	ExpiresAt *time.Time
	RevokedAt *time.Time
}

// Usable reports whether the token can still be redeemed at the given time.
func (t *InviteToken) Usable(now time.Time) bool {
	if t.RevokedAt != nil {
		return false
	}
	if t.ExpiresAt != nil && !t.ExpiresAt.After(now) {
		return false
	}
	return true
}
