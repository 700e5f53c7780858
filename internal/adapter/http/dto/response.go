package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	BaseCurrency     string     `json:"base_currency"`
	Timezone         string     `json:"timezone"`
	DefaultAlgorithm string     `json:"default_algorithm"`
	Archived         bool       `json:"archived"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ArchivedAt       *time.Time `json:"archived_at,omitempty"`
}

// EventFromDomain converts a domain event to a response.
func EventFromDomain(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:               e.ID,
		Name:             e.Name,
		BaseCurrency:     string(e.BaseCurrency),
		Timezone:         e.Timezone,
		DefaultAlgorithm: string(e.DefaultAlgorithm),
		Archived:         e.Archived(),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		ArchivedAt:       e.ArchivedAt,
	}
}

// EventsFromDomain converts domain events to responses.
func EventsFromDomain(events []*domain.Event) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = EventFromDomain(e)
	}
	return result
}

// ListEventsResponse wraps an event listing.
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
}

// PersonResponse represents an event member in API responses.
type PersonResponse struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// PersonFromDomain converts a domain person to a response.
func PersonFromDomain(p *domain.Person) *PersonResponse {
	return &PersonResponse{
		ID:          p.ID,
		EventID:     p.EventID,
		DisplayName: p.DisplayName,
		CreatedAt:   p.CreatedAt,
	}
}

// PeopleFromDomain converts domain people to responses.
func PeopleFromDomain(people []*domain.Person) []*PersonResponse {
	result := make([]*PersonResponse, len(people))
	for i, p := range people {
		result[i] = PersonFromDomain(p)
	}
	return result
}

// ListPeopleResponse wraps a member listing.
type ListPeopleResponse struct {
	People []*PersonResponse `json:"people"`
	Total  int64             `json:"total"`
}

// InviteResponse represents an invite token in API responses.
type InviteResponse struct {
	Token     string     `json:"token"`
	EventID   uuid.UUID  `json:"event_id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// InviteFromDomain converts a domain invite token to a response.
func InviteFromDomain(t *domain.InviteToken) *InviteResponse {
	return &InviteResponse{
		Token:     t.Token,
		EventID:   t.EventID,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
		RevokedAt: t.RevokedAt,
	}
}

// InvitesFromDomain converts domain invite tokens to responses.
func InvitesFromDomain(invites []*domain.InviteToken) []*InviteResponse {
	result := make([]*InviteResponse, len(invites))
	for i, t := range invites {
		result[i] = InviteFromDomain(t)
	}
	return result
}

// EntryParticipantResponse is one resolved share in an entry response.
// Amounts are fixed-scale decimal strings.
type EntryParticipantResponse struct {
	PersonID       uuid.UUID `json:"person_id"`
	Mode           string    `json:"mode"`
	Percent        string    `json:"percent,omitempty"`
	DeclaredAmount string    `json:"declared_amount,omitempty"`
	ResolvedAmount string    `json:"resolved_amount"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID            uuid.UUID                   `json:"id"`
	EventID       uuid.UUID                   `json:"event_id"`
	Type          string                      `json:"type"`
	Name          string                      `json:"name"`
	Amount        string                      `json:"amount"`
	Currency      string                      `json:"currency"`
	PayerPersonID uuid.UUID                   `json:"payer_person_id"`
	OccurredAt    time.Time                   `json:"occurred_at"`
	Note          string                      `json:"note,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	Participants  []*EntryParticipantResponse `json:"participants,omitempty"`
}

// EntryFromDomain converts a domain entry and its participants to a response.
func EntryFromDomain(e *domain.Entry, participants []*domain.EntryParticipant) *EntryResponse {
	resp := &EntryResponse{
		ID:            e.ID,
		EventID:       e.EventID,
		Type:          string(e.Type),
		Name:          e.Name,
		Amount:        e.Amount.String(),
		Currency:      string(e.Currency),
		PayerPersonID: e.PayerPersonID,
		OccurredAt:    e.OccurredAt,
		Note:          e.Note,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}

	for _, p := range participants {
		pr := &EntryParticipantResponse{
			PersonID:       p.PersonID,
			Mode:           string(p.SplitMode),
			ResolvedAmount: p.ResolvedAmount.String(),
		}
		if p.SplitPercent != nil {
			pr.Percent = p.SplitPercent.String()
		}
		if p.SplitAmount != nil {
			pr.DeclaredAmount = p.SplitAmount.String()
		}
		resp.Participants = append(resp.Participants, pr)
	}

	return resp
}

// EntriesFromDomain converts domain entries to responses without splits.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e, nil)
	}
	return result
}

// ListEntriesResponse wraps an entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// CounterpartyResponse is one leg of a balance line.
type CounterpartyResponse struct {
	PersonID uuid.UUID `json:"person_id"`
	Amount   string    `json:"amount"`
}

// BalanceLineResponse is one person's row in a balance response.
type BalanceLineResponse struct {
	PersonID    uuid.UUID              `json:"person_id"`
	DisplayName string                 `json:"display_name"`
	Net         string                 `json:"net"`
	Owes        []CounterpartyResponse `json:"owes"`
	OwedBy      []CounterpartyResponse `json:"owed_by"`
}

// TransferResponse is one suggested settling payment.
type TransferResponse struct {
	FromPersonID uuid.UUID `json:"from_person_id"`
	ToPersonID   uuid.UUID `json:"to_person_id"`
	Amount       string    `json:"amount"`
}

// BalancesResponse represents an event's settlement picture.
type BalancesResponse struct {
	EventID    uuid.UUID             `json:"event_id"`
	Algorithm  string                `json:"algorithm"`
	ComputedAt time.Time             `json:"computed_at"`
	Lines      []BalanceLineResponse `json:"lines"`
	Transfers  []TransferResponse    `json:"transfers"`
}

// BalancesFromView converts a use case balance view to a response.
func BalancesFromView(view *usecase.BalanceView) *BalancesResponse {
	resp := &BalancesResponse{
		EventID:    view.EventID,
		Algorithm:  string(view.Algorithm),
		ComputedAt: view.ComputedAt,
		Lines:      make([]BalanceLineResponse, len(view.Lines)),
		Transfers:  make([]TransferResponse, len(view.Transfers)),
	}

	for i, line := range view.Lines {
		resp.Lines[i] = BalanceLineResponse{
			PersonID:    line.PersonID,
			DisplayName: line.DisplayName,
			Net:         line.Net.String(),
			Owes:        counterpartiesFromView(line.Owes),
			OwedBy:      counterpartiesFromView(line.OwedBy),
		}
	}
	for i, t := range view.Transfers {
		resp.Transfers[i] = TransferResponse{
			FromPersonID: t.FromPersonID,
			ToPersonID:   t.ToPersonID,
			Amount:       t.Amount.String(),
		}
	}

	return resp
}

func counterpartiesFromView(legs []usecase.CounterpartyView) []CounterpartyResponse {
	result := make([]CounterpartyResponse, len(legs))
	for i, leg := range legs {
		result[i] = CounterpartyResponse{
			PersonID: leg.PersonID,
			Amount:   leg.Amount.String(),
		}
	}
	return result
}

// SplitPreviewAllocationResponse is one previewed share.
type SplitPreviewAllocationResponse struct {
	PersonID uuid.UUID `json:"person_id"`
	Amount   string    `json:"amount"`
}

// SplitPreviewResponse represents a computed split preview.
type SplitPreviewResponse struct {
	TotalAmount string                           `json:"total_amount"`
	Currency    string                           `json:"currency"`
	Mode        string                           `json:"mode"`
	Allocations []SplitPreviewAllocationResponse `json:"allocations"`
}

// SplitPreviewFromUseCase converts a use case preview to a response.
func SplitPreviewFromUseCase(preview *usecase.SplitPreview) *SplitPreviewResponse {
	resp := &SplitPreviewResponse{
		TotalAmount: preview.TotalAmount.String(),
		Currency:    string(preview.Currency),
		Mode:        string(preview.Mode),
		Allocations: make([]SplitPreviewAllocationResponse, len(preview.Allocations)),
	}
	for i, a := range preview.Allocations {
		resp.Allocations[i] = SplitPreviewAllocationResponse{
			PersonID: a.PersonID,
			Amount:   a.Amount.String(),
		}
	}
	return resp
}
