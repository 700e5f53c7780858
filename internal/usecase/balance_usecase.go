package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/infrastructure/metrics"
)

// BalanceUseCase assembles event balance views from persisted snapshots
// and a settlement strategy.
type BalanceUseCase struct {
	eventRepo  EventRepository
	personRepo PersonRepository
	snapRepo   SnapshotRepository
	cache      Cache
	logger     zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	eventRepo EventRepository,
	personRepo PersonRepository,
	snapRepo SnapshotRepository,
	cache Cache,
	logger zerolog.Logger,
) *BalanceUseCase {
	return &BalanceUseCase{
		eventRepo:  eventRepo,
		personRepo: personRepo,
		snapRepo:   snapRepo,
		cache:      cache,
		logger:     logger,
	}
}

// BalanceView is the complete settlement picture of one event.
type BalanceView struct {
	EventID    uuid.UUID                   `json:"event_id"`
	Algorithm  domain.SettlementAlgorithm  `json:"algorithm"`
	ComputedAt time.Time                   `json:"computed_at"`
	Lines      []BalanceLineView           `json:"lines"`
	Transfers  []SettlementTransferView    `json:"transfers"`
}

// BalanceLineView is one person's row in a balance view.
type BalanceLineView struct {
	PersonID    uuid.UUID            `json:"person_id"`
	DisplayName string               `json:"display_name"`
	Net         domain.Amount        `json:"net"`
	Owes        []CounterpartyView   `json:"owes"`
	OwedBy      []CounterpartyView   `json:"owed_by"`
}

// CounterpartyView is one leg of a balance line.
type CounterpartyView struct {
	PersonID uuid.UUID     `json:"person_id"`
	Amount   domain.Amount `json:"amount"`
}

// SettlementTransferView is a suggested settling payment.
type SettlementTransferView struct {
	FromPersonID uuid.UUID     `json:"from_person_id"`
	ToPersonID   uuid.UUID     `json:"to_person_id"`
	Amount       domain.Amount `json:"amount"`
}

// GetBalancesInput represents input for reading an event's balances.
// Algorithm overrides the event default when non-empty.
type GetBalancesInput struct {
	EventID   uuid.UUID
	Algorithm string
}

// GetBalances returns the event's balance view, settled with the chosen
// algorithm. Views are cached per event and algorithm.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, input GetBalancesInput) (*BalanceView, error) {
	event, err := uc.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	algorithm := event.DefaultAlgorithm
	if input.Algorithm != "" {
		algorithm, err = domain.ParseSettlementAlgorithm(input.Algorithm)
		if err != nil {
			return nil, err
		}
	}

	cacheKey := balanceCacheKey(event.ID, algorithm)
	if view, ok := uc.cachedView(ctx, cacheKey); ok {
		metrics.IncBalanceCacheHit()
		return view, nil
	}
	metrics.IncBalanceCacheMiss()

	view, err := uc.buildView(ctx, event, algorithm)
	if err != nil {
		return nil, err
	}

	uc.storeView(ctx, cacheKey, view)

	return view, nil
}

func (uc *BalanceUseCase) buildView(ctx context.Context, event *domain.Event, algorithm domain.SettlementAlgorithm) (*BalanceView, error) {
	people, err := uc.personRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	snapshots, err := uc.snapRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	netBySnapshot := make(map[uuid.UUID]*domain.BalanceSnapshot, len(snapshots))
	computedAt := time.Time{}
	for _, s := range snapshots {
		netBySnapshot[s.PersonID] = s
		if s.ComputedAt.After(computedAt) {
			computedAt = s.ComputedAt
		}
	}

	participantIDs := make([]domain.ParticipantID, len(people))
	netByPerson := make(map[domain.ParticipantID]domain.Amount, len(people))
	netBalances := make([]domain.NetBalance, len(people))
	for i, p := range people {
		participantID := p.ParticipantID()
		net := domain.Amount{}
		if s, ok := netBySnapshot[p.ID]; ok {
			net = s.NetAmount
		}

		participantIDs[i] = participantID
		netByPerson[participantID] = net
		netBalances[i] = domain.NetBalance{PersonID: participantID, Amount: net}
	}

	strategy, err := domain.StrategyFor(algorithm)
	if err != nil {
		return nil, err
	}

	transfers := strategy.Settle(netBalances)
	metrics.IncSettlementComputed(string(algorithm))
	lines := domain.BuildBalanceLines(participantIDs, netByPerson, transfers)

	nameByPerson := make(map[uuid.UUID]string, len(people))
	for _, p := range people {
		nameByPerson[p.ID] = p.DisplayName
	}

	view := &BalanceView{
		EventID:    event.ID,
		Algorithm:  algorithm,
		ComputedAt: computedAt,
		Lines:      make([]BalanceLineView, len(lines)),
		Transfers:  make([]SettlementTransferView, len(transfers)),
	}
	for i, line := range lines {
		view.Lines[i] = BalanceLineView{
			PersonID:    line.PersonID.UUID(),
			DisplayName: nameByPerson[line.PersonID.UUID()],
			Net:         line.Net,
			Owes:        counterpartyViews(line.Owes),
			OwedBy:      counterpartyViews(line.OwedBy),
		}
	}
	for i, t := range transfers {
		view.Transfers[i] = SettlementTransferView{
			FromPersonID: t.FromPersonID.UUID(),
			ToPersonID:   t.ToPersonID.UUID(),
			Amount:       t.Amount,
		}
	}

	return view, nil
}

func counterpartyViews(legs []domain.CounterpartyAmount) []CounterpartyView {
	views := make([]CounterpartyView, len(legs))
	for i, leg := range legs {
		views[i] = CounterpartyView{
			PersonID: leg.CounterpartyPersonID.UUID(),
			Amount:   leg.Amount,
		}
	}
	return views
}

func (uc *BalanceUseCase) cachedView(ctx context.Context, key string) (*BalanceView, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}

	var view BalanceView
	if err := json.Unmarshal(data, &view); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("dropping unreadable cached balance view")
		return nil, false
	}

	return &view, true
}

func (uc *BalanceUseCase) storeView(ctx context.Context, key string, view *BalanceView) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, BalanceCacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("failed to cache balance view")
	}
}
