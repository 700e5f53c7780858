package domain

import "errors"

var (
	// Money value errors
	ErrAmountScale          = errors.New("amount must have scale 4")
	ErrAmountNotPositive    = errors.New("amount must be greater than zero")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrPercentScale         = errors.New("percent must have scale 2")
	ErrPercentOutOfRange    = errors.New("percent must be greater than zero and at most 100.00")
	ErrInvalidCurrency      = errors.New("currency must be a 3-letter uppercase ISO code")
	ErrInvalidParticipantID = errors.New("participant id must be a valid UUID")

	// Split errors
	ErrAllocationMismatch = errors.New("computed allocations do not match total amount")
	ErrUnknownSplitMode   = errors.New("unknown split mode")

	// Settlement errors
	ErrUnknownAlgorithm = errors.New("unknown settlement algorithm")

	// Event errors
	ErrEventNotFound    = errors.New("event not found")
	ErrEventArchived    = errors.New("event is archived")
	ErrInvalidEventName = errors.New("invalid event name")
	ErrInvalidTimezone  = errors.New("invalid timezone")

	// Person errors
	ErrPersonNotFound     = errors.New("person not found")
	ErrPersonNotInEvent   = errors.New("person does not belong to this event")
	ErrInvalidDisplayName = errors.New("invalid display name")

	// Entry errors
	ErrEntryNotFound    = errors.New("entry not found")
	ErrCurrencyMismatch = errors.New("entry currency must match event base currency")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidEntryName = errors.New("invalid entry name")

	// Invite errors
	ErrInviteNotFound = errors.New("invite token is invalid or expired")
)
