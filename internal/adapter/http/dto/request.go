package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// CreateEventRequest represents a request to create an event.
type CreateEventRequest struct {
	Name             string `json:"name"`
	BaseCurrency     string `json:"base_currency"`
	Timezone         string `json:"timezone,omitempty"`
	DefaultAlgorithm string `json:"default_algorithm,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEventRequest) ToUseCaseInput() usecase.CreateEventInput {
	return usecase.CreateEventInput{
		Name:             r.Name,
		BaseCurrency:     r.BaseCurrency,
		Timezone:         r.Timezone,
		DefaultAlgorithm: r.DefaultAlgorithm,
	}
}

// UpdateEventRequest represents a partial event update. Absent fields
// are left unchanged.
type UpdateEventRequest struct {
	Name             *string `json:"name,omitempty"`
	Timezone         *string `json:"timezone,omitempty"`
	DefaultAlgorithm *string `json:"default_algorithm,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEventRequest) ToUseCaseInput() usecase.UpdateEventInput {
	return usecase.UpdateEventInput{
		Name:             r.Name,
		Timezone:         r.Timezone,
		DefaultAlgorithm: r.DefaultAlgorithm,
	}
}

// AddPersonRequest represents a request to add an event member.
type AddPersonRequest struct {
	DisplayName string `json:"display_name"`
}

// UpdatePersonRequest represents a request to rename an event member.
type UpdatePersonRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateInviteRequest represents a request to create an invite token.
type CreateInviteRequest struct {
	TTLHours int `json:"ttl_hours,omitempty"`
}

// JoinInviteRequest represents a request to join an event via invite.
type JoinInviteRequest struct {
	DisplayName string `json:"display_name"`
}

// SplitItem is one participant's share declaration. Percent and amount
// are decimal strings so no precision is lost in transit.
type SplitItem struct {
	PersonID uuid.UUID `json:"person_id"`
	Mode     string    `json:"mode"`
	Percent  string    `json:"percent,omitempty"`
	Amount   string    `json:"amount,omitempty"`
}

func (s *SplitItem) toUseCaseInput() (usecase.EntrySplitInput, error) {
	mode, err := domain.ParseSplitMode(s.Mode)
	if err != nil {
		return usecase.EntrySplitInput{}, err
	}

	input := usecase.EntrySplitInput{
		PersonID: s.PersonID,
		Mode:     mode,
	}

	if s.Percent != "" {
		percent, err := domain.NewPercentageFromString(s.Percent)
		if err != nil {
			return usecase.EntrySplitInput{}, err
		}
		input.Percent = &percent
	}
	if s.Amount != "" {
		amount, err := domain.NewAmountFromString(s.Amount)
		if err != nil {
			return usecase.EntrySplitInput{}, err
		}
		input.Amount = &amount
	}

	return input, nil
}

// CreateEntryRequest represents a request to create an entry.
type CreateEntryRequest struct {
	Type          string      `json:"type"`
	Name          string      `json:"name"`
	Amount        string      `json:"amount"`
	Currency      string      `json:"currency"`
	PayerPersonID uuid.UUID   `json:"payer_person_id"`
	OccurredAt    *time.Time  `json:"occurred_at,omitempty"`
	Note          string      `json:"note,omitempty"`
	Splits        []SplitItem `json:"splits"`
}

// ToUseCaseInput converts to use case input, parsing all decimal strings.
func (r *CreateEntryRequest) ToUseCaseInput(eventID uuid.UUID) (usecase.CreateEntryInput, error) {
	entryType, amount, currency, splits, err := parseEntryFields(r.Type, r.Amount, r.Currency, r.Splits)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	return usecase.CreateEntryInput{
		EventID:       eventID,
		Type:          entryType,
		Name:          r.Name,
		Amount:        amount,
		Currency:      currency,
		PayerPersonID: r.PayerPersonID,
		OccurredAt:    r.OccurredAt,
		Note:          r.Note,
		Splits:        splits,
	}, nil
}

// UpdateEntryRequest represents a request to replace an entry.
type UpdateEntryRequest struct {
	Type          string      `json:"type"`
	Name          string      `json:"name"`
	Amount        string      `json:"amount"`
	Currency      string      `json:"currency"`
	PayerPersonID uuid.UUID   `json:"payer_person_id"`
	OccurredAt    *time.Time  `json:"occurred_at,omitempty"`
	Note          string      `json:"note,omitempty"`
	Splits        []SplitItem `json:"splits"`
}

// ToUseCaseInput converts to use case input, parsing all decimal strings.
func (r *UpdateEntryRequest) ToUseCaseInput() (usecase.UpdateEntryInput, error) {
	entryType, amount, currency, splits, err := parseEntryFields(r.Type, r.Amount, r.Currency, r.Splits)
	if err != nil {
		return usecase.UpdateEntryInput{}, err
	}

	return usecase.UpdateEntryInput{
		Type:          entryType,
		Name:          r.Name,
		Amount:        amount,
		Currency:      currency,
		PayerPersonID: r.PayerPersonID,
		OccurredAt:    r.OccurredAt,
		Note:          r.Note,
		Splits:        splits,
	}, nil
}

// PreviewSplitRequest represents a request to preview a split.
type PreviewSplitRequest struct {
	TotalAmount string      `json:"total_amount"`
	Currency    string      `json:"currency"`
	Splits      []SplitItem `json:"splits"`
}

// ToUseCaseInput converts to use case input, parsing all decimal strings.
func (r *PreviewSplitRequest) ToUseCaseInput() (usecase.PreviewSplitInput, error) {
	total, err := domain.NewAmountFromString(r.TotalAmount)
	if err != nil {
		return usecase.PreviewSplitInput{}, fmt.Errorf("total_amount: %w", err)
	}

	currency, err := domain.NewCurrencyCode(r.Currency)
	if err != nil {
		return usecase.PreviewSplitInput{}, err
	}

	splits, err := parseSplitItems(r.Splits)
	if err != nil {
		return usecase.PreviewSplitInput{}, err
	}

	return usecase.PreviewSplitInput{
		TotalAmount: total,
		Currency:    currency,
		Splits:      splits,
	}, nil
}

func parseEntryFields(rawType, rawAmount, rawCurrency string, items []SplitItem) (domain.EntryType, domain.Amount, domain.CurrencyCode, []usecase.EntrySplitInput, error) {
	entryType, err := domain.ParseEntryType(rawType)
	if err != nil {
		return "", domain.Amount{}, "", nil, err
	}

	amount, err := domain.NewAmountFromString(rawAmount)
	if err != nil {
		return "", domain.Amount{}, "", nil, fmt.Errorf("amount: %w", err)
	}
	if _, err := domain.NewPositiveAmount(amount.Decimal()); err != nil {
		return "", domain.Amount{}, "", nil, fmt.Errorf("amount: %w", err)
	}

	currency, err := domain.NewCurrencyCode(rawCurrency)
	if err != nil {
		return "", domain.Amount{}, "", nil, err
	}

	splits, err := parseSplitItems(items)
	if err != nil {
		return "", domain.Amount{}, "", nil, err
	}

	return entryType, amount, currency, splits, nil
}

func parseSplitItems(items []SplitItem) ([]usecase.EntrySplitInput, error) {
	splits := make([]usecase.EntrySplitInput, len(items))
	for i := range items {
		split, err := items[i].toUseCaseInput()
		if err != nil {
			return nil, fmt.Errorf("splits[%d]: %w", i, err)
		}
		splits[i] = split
	}
	return splits, nil
}
