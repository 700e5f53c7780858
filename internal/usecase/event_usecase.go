package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/domain"
)

// EventUseCase handles event, membership and invite business logic.
type EventUseCase struct {
	eventRepo  EventRepository
	personRepo PersonRepository
	inviteRepo InviteRepository
	idGen      IDGenerator
	tokenGen   TokenGenerator
	clock      Clock
}

// NewEventUseCase creates a new EventUseCase.
func NewEventUseCase(
	eventRepo EventRepository,
	personRepo PersonRepository,
	inviteRepo InviteRepository,
	idGen IDGenerator,
	tokenGen TokenGenerator,
	clock Clock,
) *EventUseCase {
	return &EventUseCase{
		eventRepo:  eventRepo,
		personRepo: personRepo,
		inviteRepo: inviteRepo,
		idGen:      idGen,
		tokenGen:   tokenGen,
		clock:      clock,
	}
}

// CreateEventInput represents input for creating an event.
type CreateEventInput struct {
	Name             string
	BaseCurrency     string
	Timezone         string
	DefaultAlgorithm string
}

// CreateEvent creates a new event.
func (uc *EventUseCase) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	if err := domain.ValidateEventName(input.Name); err != nil {
		return nil, err
	}

	currency, err := domain.NewCurrencyCode(input.BaseCurrency)
	if err != nil {
		return nil, err
	}

	timezone := input.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if err := domain.ValidateTimezone(timezone); err != nil {
		return nil, err
	}

	algorithm := domain.SettlementMinTransfer
	if input.DefaultAlgorithm != "" {
		algorithm, err = domain.ParseSettlementAlgorithm(input.DefaultAlgorithm)
		if err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	event := &domain.Event{
		ID:               uc.idGen.Generate(),
		Name:             input.Name,
		BaseCurrency:     currency,
		Timezone:         timezone,
		DefaultAlgorithm: algorithm,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// GetEvent retrieves an event by ID.
func (uc *EventUseCase) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return uc.eventRepo.GetByID(ctx, id)
}

// ListEventsInput represents input for listing events.
type ListEventsInput struct {
	Limit  int
	Offset int
}

// ListEvents lists events with pagination.
func (uc *EventUseCase) ListEvents(ctx context.Context, input ListEventsInput) ([]*domain.Event, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageLimit
	}
	if input.Limit > MaxPageLimit {
		input.Limit = MaxPageLimit
	}

	return uc.eventRepo.List(ctx, input.Limit, input.Offset)
}

// UpdateEventInput represents the mutable event fields. Nil fields are
// left unchanged.
type UpdateEventInput struct {
	Name             *string
	Timezone         *string
	DefaultAlgorithm *string
}

// UpdateEvent applies a partial update to an event.
func (uc *EventUseCase) UpdateEvent(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*domain.Event, error) {
	event, err := uc.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Archived() {
		return nil, domain.ErrEventArchived
	}

	if input.Name != nil {
		if err := domain.ValidateEventName(*input.Name); err != nil {
			return nil, err
		}
		event.Name = *input.Name
	}

	if input.Timezone != nil {
		if err := domain.ValidateTimezone(*input.Timezone); err != nil {
			return nil, err
		}
		event.Timezone = *input.Timezone
	}

	if input.DefaultAlgorithm != nil {
		algorithm, err := domain.ParseSettlementAlgorithm(*input.DefaultAlgorithm)
		if err != nil {
			return nil, err
		}
		event.DefaultAlgorithm = algorithm
	}

	event.UpdatedAt = uc.clock.Now()

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// ArchiveEvent marks an event read-only. Archiving is idempotent.
func (uc *EventUseCase) ArchiveEvent(ctx context.Context, id uuid.UUID) error {
	event, err := uc.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.Archived() {
		return nil
	}

	return uc.eventRepo.Archive(ctx, id, uc.clock.Now())
}

// AddPersonInput represents input for adding a person to an event.
type AddPersonInput struct {
	EventID     uuid.UUID
	DisplayName string
}

// AddPerson adds a new member to an event.
func (uc *EventUseCase) AddPerson(ctx context.Context, input AddPersonInput) (*domain.Person, error) {
	if err := domain.ValidateDisplayName(input.DisplayName); err != nil {
		return nil, err
	}

	event, err := uc.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if event.Archived() {
		return nil, domain.ErrEventArchived
	}

	now := uc.clock.Now()
	person := &domain.Person{
		ID:          uc.idGen.Generate(),
		EventID:     event.ID,
		DisplayName: input.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}

	return person, nil
}

// UpdatePersonInput represents input for renaming an event member.
type UpdatePersonInput struct {
	PersonID    uuid.UUID
	DisplayName string
}

// UpdatePerson renames an event member.
func (uc *EventUseCase) UpdatePerson(ctx context.Context, input UpdatePersonInput) (*domain.Person, error) {
	if err := domain.ValidateDisplayName(input.DisplayName); err != nil {
		return nil, err
	}

	person, err := uc.personRepo.GetByID(ctx, input.PersonID)
	if err != nil {
		return nil, err
	}

	event, err := uc.eventRepo.GetByID(ctx, person.EventID)
	if err != nil {
		return nil, err
	}
	if event.Archived() {
		return nil, domain.ErrEventArchived
	}

	person.DisplayName = input.DisplayName
	person.UpdatedAt = uc.clock.Now()

	if err := uc.personRepo.Update(ctx, person); err != nil {
		return nil, err
	}

	return person, nil
}

// ListPeople lists the members of an event.
func (uc *EventUseCase) ListPeople(ctx context.Context, eventID uuid.UUID) ([]*domain.Person, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	return uc.personRepo.ListByEvent(ctx, eventID)
}

// CreateInviteInput represents input for creating an invite token.
type CreateInviteInput struct {
	EventID uuid.UUID
	TTL     time.Duration
}

// CreateInvite issues a new invite token for an event.
func (uc *EventUseCase) CreateInvite(ctx context.Context, input CreateInviteInput) (*domain.InviteToken, error) {
	event, err := uc.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if event.Archived() {
		return nil, domain.ErrEventArchived
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = InviteTokenTTL
	}

	now := uc.clock.Now()
	expiresAt := now.Add(ttl)
	invite := &domain.InviteToken{
		Token:     uc.tokenGen.Generate(),
		EventID:   event.ID,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}

	if err := uc.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}

	return invite, nil
}

// RevokeInvite invalidates an invite token.
func (uc *EventUseCase) RevokeInvite(ctx context.Context, token string) error {
	invite, err := uc.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if invite.RevokedAt != nil {
		return nil
	}

	return uc.inviteRepo.Revoke(ctx, token, uc.clock.Now())
}

// ListInvites lists the invite tokens of an event.
func (uc *EventUseCase) ListInvites(ctx context.Context, eventID uuid.UUID) ([]*domain.InviteToken, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	return uc.inviteRepo.ListByEvent(ctx, eventID)
}

// JoinViaInviteInput represents input for joining an event with a token.
type JoinViaInviteInput struct {
	Token       string
	DisplayName string
}

// JoinViaInvite redeems a usable invite token and adds the caller as a
// new event member.
func (uc *EventUseCase) JoinViaInvite(ctx context.Context, input JoinViaInviteInput) (*domain.Person, error) {
	invite, err := uc.inviteRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if !invite.Usable(uc.clock.Now()) {
		return nil, domain.ErrInviteNotFound
	}

	return uc.AddPerson(ctx, AddPersonInput{
		EventID:     invite.EventID,
		DisplayName: input.DisplayName,
	})
}
