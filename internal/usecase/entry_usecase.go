package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/infrastructure/metrics"
)

// EntryUseCase handles entry business logic. Every entry mutation
// recomputes the event's balance snapshots inside the same transaction,
// so readers never observe an entry set and a snapshot set that disagree.
type EntryUseCase struct {
	txManager  TransactionManager
	eventRepo  EventRepository
	personRepo PersonRepository
	entryRepo  EntryRepository
	snapRepo   SnapshotRepository
	calculator *domain.SplitCalculator
	retrier    Retrier
	cache      Cache
	idGen      IDGenerator
	clock      Clock
	logger     zerolog.Logger
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	eventRepo EventRepository,
	personRepo PersonRepository,
	entryRepo EntryRepository,
	snapRepo SnapshotRepository,
	calculator *domain.SplitCalculator,
	retrier Retrier,
	cache Cache,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:  txManager,
		eventRepo:  eventRepo,
		personRepo: personRepo,
		entryRepo:  entryRepo,
		snapRepo:   snapRepo,
		calculator: calculator,
		retrier:    retrier,
		cache:      cache,
		idGen:      idGen,
		clock:      clock,
		logger:     logger,
	}
}

// EntrySplitInput is one participant's share declaration.
type EntrySplitInput struct {
	PersonID uuid.UUID
	Mode     domain.SplitMode
	Percent  *domain.Percentage
	Amount   *domain.Amount
}

// CreateEntryInput represents input for creating an entry.
type CreateEntryInput struct {
	EventID       uuid.UUID
	Type          domain.EntryType
	Name          string
	Amount        domain.Amount
	Currency      domain.CurrencyCode
	PayerPersonID uuid.UUID
	OccurredAt    *time.Time
	Note          string
	Splits        []EntrySplitInput
}

// CreateEntry creates an entry, resolves its splits and recomputes the
// event's balance snapshots atomically.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, []*domain.EntryParticipant, error) {
	event, people, err := uc.loadWritableEvent(ctx, input.EventID)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateEntryName(input.Name); err != nil {
		return nil, nil, err
	}
	if input.Currency != event.BaseCurrency {
		return nil, nil, fmt.Errorf("%w: entry %s, event %s", domain.ErrCurrencyMismatch, input.Currency, event.BaseCurrency)
	}
	if err := uc.checkMembership(people, input.PayerPersonID, input.Splits); err != nil {
		return nil, nil, err
	}

	allocations, err := uc.resolveSplits(input.Amount, input.Currency, input.Splits)
	if err != nil {
		return nil, nil, err
	}

	now := uc.clock.Now()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	entry := &domain.Entry{
		ID:            uc.idGen.Generate(),
		EventID:       event.ID,
		Type:          input.Type,
		Name:          input.Name,
		Amount:        input.Amount,
		Currency:      input.Currency,
		PayerPersonID: input.PayerPersonID,
		OccurredAt:    occurredAt,
		Note:          input.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	participants := uc.buildParticipants(entry, input.Splits, allocations, now)

	err = uc.retrier.Retry(ctx, func() error {
		return uc.inSnapshotTx(ctx, event.ID, func(tx Transaction) error {
			return uc.entryRepo.Create(ctx, tx, entry, participants)
		})
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.IncEntryMutation("create")
	uc.invalidateBalances(ctx, event.ID)

	return entry, participants, nil
}

// UpdateEntryInput represents input for replacing an entry's content.
// The split set is replaced in full, not patched.
type UpdateEntryInput struct {
	Type          domain.EntryType
	Name          string
	Amount        domain.Amount
	Currency      domain.CurrencyCode
	PayerPersonID uuid.UUID
	OccurredAt    *time.Time
	Note          string
	Splits        []EntrySplitInput
}

// UpdateEntry replaces an entry and recomputes the event's snapshots.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id uuid.UUID, input UpdateEntryInput) (*domain.Entry, []*domain.EntryParticipant, error) {
	entry, _, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !entry.Active() {
		return nil, nil, domain.ErrEntryNotFound
	}

	event, people, err := uc.loadWritableEvent(ctx, entry.EventID)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateEntryName(input.Name); err != nil {
		return nil, nil, err
	}
	if input.Currency != event.BaseCurrency {
		return nil, nil, fmt.Errorf("%w: entry %s, event %s", domain.ErrCurrencyMismatch, input.Currency, event.BaseCurrency)
	}
	if err := uc.checkMembership(people, input.PayerPersonID, input.Splits); err != nil {
		return nil, nil, err
	}

	allocations, err := uc.resolveSplits(input.Amount, input.Currency, input.Splits)
	if err != nil {
		return nil, nil, err
	}

	now := uc.clock.Now()
	entry.Type = input.Type
	entry.Name = input.Name
	entry.Amount = input.Amount
	entry.Currency = input.Currency
	entry.PayerPersonID = input.PayerPersonID
	entry.Note = input.Note
	entry.UpdatedAt = now
	if input.OccurredAt != nil {
		entry.OccurredAt = *input.OccurredAt
	}
	participants := uc.buildParticipants(entry, input.Splits, allocations, now)

	err = uc.retrier.Retry(ctx, func() error {
		return uc.inSnapshotTx(ctx, event.ID, func(tx Transaction) error {
			return uc.entryRepo.Update(ctx, tx, entry, participants)
		})
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.IncEntryMutation("update")
	uc.invalidateBalances(ctx, event.ID)

	return entry, participants, nil
}

// DeleteEntry soft-deletes an entry and recomputes the event's snapshots.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, _, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !entry.Active() {
		return domain.ErrEntryNotFound
	}

	event, _, err := uc.loadWritableEvent(ctx, entry.EventID)
	if err != nil {
		return err
	}

	now := uc.clock.Now()
	err = uc.retrier.Retry(ctx, func() error {
		return uc.inSnapshotTx(ctx, event.ID, func(tx Transaction) error {
			return uc.entryRepo.SoftDelete(ctx, tx, entry.ID, now)
		})
	})
	if err != nil {
		return err
	}

	metrics.IncEntryMutation("delete")
	uc.invalidateBalances(ctx, event.ID)

	return nil
}

// GetEntry retrieves an active entry with its participants.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id uuid.UUID) (*domain.Entry, []*domain.EntryParticipant, error) {
	entry, participants, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !entry.Active() {
		return nil, nil, domain.ErrEntryNotFound
	}

	return entry, participants, nil
}

// ListEntriesInput represents input for listing an event's entries.
type ListEntriesInput struct {
	EventID uuid.UUID
	Limit   int
	Offset  int
}

// ListEntries lists an event's active entries, newest first.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageLimit
	}
	if input.Limit > MaxPageLimit {
		input.Limit = MaxPageLimit
	}

	if _, err := uc.eventRepo.GetByID(ctx, input.EventID); err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByEvent(ctx, input.EventID, input.Limit, input.Offset)
}

func (uc *EntryUseCase) loadWritableEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, []*domain.Person, error) {
	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event.Archived() {
		return nil, nil, domain.ErrEventArchived
	}

	people, err := uc.personRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	return event, people, nil
}

func (uc *EntryUseCase) checkMembership(people []*domain.Person, payerID uuid.UUID, splits []EntrySplitInput) error {
	members := make(map[uuid.UUID]bool, len(people))
	for _, p := range people {
		members[p.ID] = true
	}

	if !members[payerID] {
		return fmt.Errorf("%w: payer %s", domain.ErrPersonNotInEvent, payerID)
	}
	for _, s := range splits {
		if !members[s.PersonID] {
			return fmt.Errorf("%w: %s", domain.ErrPersonNotInEvent, s.PersonID)
		}
	}

	return nil
}

// resolveSplits validates the declared split set and computes the final
// per-participant allocations.
func (uc *EntryUseCase) resolveSplits(total domain.Amount, currency domain.CurrencyCode, splits []EntrySplitInput) (map[uuid.UUID]domain.Amount, error) {
	instructions, err := buildSplitInstructions(splits)
	if err != nil {
		return nil, err
	}

	request, err := domain.NewSplitCalculationRequest(total, currency, instructions)
	if err != nil {
		return nil, err
	}

	result, err := uc.calculator.Calculate(request)
	if err != nil {
		if errors.Is(err, domain.ErrAllocationMismatch) {
			uc.logger.Error().
				Err(err).
				Str("total", total.String()).
				Str("mode", string(request.Mode())).
				Msg("split allocations diverged from entry total")
		}
		return nil, err
	}

	metrics.IncSplitComputed(string(request.Mode()))

	allocations := make(map[uuid.UUID]domain.Amount, len(result.Allocations))
	for _, a := range result.Allocations {
		allocations[a.ParticipantID.UUID()] = a.Amount
	}

	return allocations, nil
}

func (uc *EntryUseCase) buildParticipants(entry *domain.Entry, splits []EntrySplitInput, allocations map[uuid.UUID]domain.Amount, now time.Time) []*domain.EntryParticipant {
	participants := make([]*domain.EntryParticipant, len(splits))
	for i, s := range splits {
		participants[i] = &domain.EntryParticipant{
			EntryID:        entry.ID,
			PersonID:       s.PersonID,
			SplitMode:      s.Mode,
			SplitPercent:   s.Percent,
			SplitAmount:    s.Amount,
			ResolvedAmount: allocations[s.PersonID],
			CreatedAt:      now,
		}
	}

	return participants
}

// inSnapshotTx runs an entry mutation and the full snapshot recomputation
// for its event in one transaction. The event row is locked first so
// concurrent mutations of the same event serialize.
func (uc *EntryUseCase) inSnapshotTx(ctx context.Context, eventID uuid.UUID, mutate func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.eventRepo.GetByIDForUpdate(ctx, tx, eventID); err != nil {
		return err
	}

	if err := mutate(tx); err != nil {
		return err
	}

	if err := uc.recomputeSnapshots(ctx, tx, eventID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// recomputeSnapshots rebuilds the event's balance snapshots from scratch
// out of its active entries.
func (uc *EntryUseCase) recomputeSnapshots(ctx context.Context, tx Transaction, eventID uuid.UUID) error {
	defer func(start time.Time) {
		metrics.ObserveSnapshotRecompute(time.Since(start))
	}(time.Now())

	people, err := uc.personRepo.ListByEventTx(ctx, tx, eventID)
	if err != nil {
		return err
	}

	entries, participantsByEntry, err := uc.entryRepo.ListActiveByEventTx(ctx, tx, eventID)
	if err != nil {
		return err
	}

	personIDs := make([]uuid.UUID, len(people))
	for i, p := range people {
		personIDs[i] = p.ID
	}

	balances := domain.ComputeNetBalances(personIDs, entries, participantsByEntry)

	now := uc.clock.Now()
	snapshots := make([]*domain.BalanceSnapshot, len(balances))
	for i, b := range balances {
		snapshots[i] = &domain.BalanceSnapshot{
			EventID:    eventID,
			PersonID:   b.PersonID.UUID(),
			NetAmount:  b.Amount,
			ComputedAt: now,
		}
	}

	return uc.snapRepo.ReplaceForEvent(ctx, tx, eventID, snapshots)
}

func (uc *EntryUseCase) invalidateBalances(ctx context.Context, eventID uuid.UUID) {
	if uc.cache == nil {
		return
	}

	for _, algorithm := range []domain.SettlementAlgorithm{domain.SettlementMinTransfer, domain.SettlementPairwise} {
		key := balanceCacheKey(eventID, algorithm)
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("failed to invalidate balance cache")
		}
	}
}

func balanceCacheKey(eventID uuid.UUID, algorithm domain.SettlementAlgorithm) string {
	return fmt.Sprintf("balances:%s:%s", eventID, algorithm)
}
