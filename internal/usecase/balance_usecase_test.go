package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
	"github.com/tiagobluiz/splitbill/internal/usecase/mocks"
)

type balanceFixture struct {
	uc       *usecase.BalanceUseCase
	snapRepo *mocks.MockSnapshotRepository
	cache    *mocks.MockCache
	event    *domain.Event
}

func newBalanceFixture(t *testing.T, nets map[int]string) *balanceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	clock := mocks.MockClock{}

	eventRepo := mocks.NewMockEventRepository()
	personRepo := mocks.NewMockPersonRepository()
	snapRepo := mocks.NewMockSnapshotRepository()
	cache := mocks.NewMockCache(ctrl)

	event := &domain.Event{
		ID:               uuid.New(),
		Name:             "Trip",
		BaseCurrency:     "EUR",
		Timezone:         "UTC",
		DefaultAlgorithm: domain.SettlementMinTransfer,
		CreatedAt:        clock.Now(),
		UpdatedAt:        clock.Now(),
	}
	if err := eventRepo.Create(context.Background(), event); err != nil {
		t.Fatalf("seeding event: %v", err)
	}

	var snapshots []*domain.BalanceSnapshot
	for n, net := range nets {
		person := &domain.Person{
			ID:          personID(n),
			EventID:     event.ID,
			DisplayName: "Person",
			CreatedAt:   clock.Now(),
		}
		if err := personRepo.Create(context.Background(), person); err != nil {
			t.Fatalf("seeding person: %v", err)
		}
		snapshots = append(snapshots, &domain.BalanceSnapshot{
			EventID:    event.ID,
			PersonID:   person.ID,
			NetAmount:  amount(t, net),
			ComputedAt: clock.Now(),
		})
	}
	if err := snapRepo.ReplaceForEvent(context.Background(), nil, event.ID, snapshots); err != nil {
		t.Fatalf("seeding snapshots: %v", err)
	}

	return &balanceFixture{
		uc:       usecase.NewBalanceUseCase(eventRepo, personRepo, snapRepo, cache, zerolog.Nop()),
		snapRepo: snapRepo,
		cache:    cache,
		event:    event,
	}
}

func TestBalanceUseCase_GetBalances(t *testing.T) {
	f := newBalanceFixture(t, map[int]string{
		1: "6.0000",
		2: "-3.0000",
		3: "-3.0000",
	})

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), usecase.BalanceCacheTTL).Return(nil)

	view, err := f.uc.GetBalances(context.Background(), usecase.GetBalancesInput{EventID: f.event.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Algorithm != domain.SettlementMinTransfer {
		t.Errorf("expected event default algorithm, got %s", view.Algorithm)
	}
	if len(view.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d: %+v", len(view.Transfers), view.Transfers)
	}
	for _, tr := range view.Transfers {
		if tr.ToPersonID != personID(1) {
			t.Errorf("transfer should pay the creditor: %+v", tr)
		}
		if tr.Amount.String() != "3.0000" {
			t.Errorf("transfer amount: got %s, want 3.0000", tr.Amount)
		}
	}

	var creditor *usecase.BalanceLineView
	for i := range view.Lines {
		if view.Lines[i].PersonID == personID(1) {
			creditor = &view.Lines[i]
		}
	}
	if creditor == nil {
		t.Fatal("creditor line missing")
	}
	if creditor.Net.String() != "6.0000" || len(creditor.OwedBy) != 2 {
		t.Errorf("unexpected creditor line: %+v", creditor)
	}
}

func TestBalanceUseCase_AlgorithmOverride(t *testing.T) {
	f := newBalanceFixture(t, map[int]string{
		1: "5.0000",
		2: "-2.0000",
		3: "-3.0000",
	})

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	view, err := f.uc.GetBalances(context.Background(), usecase.GetBalancesInput{
		EventID:   f.event.ID,
		Algorithm: "pairwise",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Algorithm != domain.SettlementPairwise {
		t.Errorf("override not applied: %s", view.Algorithm)
	}

	_, err = f.uc.GetBalances(context.Background(), usecase.GetBalancesInput{
		EventID:   f.event.ID,
		Algorithm: "SPLITWISE",
	})
	if !errors.Is(err, domain.ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestBalanceUseCase_CacheHit(t *testing.T) {
	f := newBalanceFixture(t, map[int]string{1: "1.0000", 2: "-1.0000"})

	cached := &usecase.BalanceView{
		EventID:   f.event.ID,
		Algorithm: domain.SettlementMinTransfer,
	}
	data, err := json.Marshal(cached)
	if err != nil {
		t.Fatalf("marshaling cached view: %v", err)
	}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(data, nil)

	view, err := f.uc.GetBalances(context.Background(), usecase.GetBalancesInput{EventID: f.event.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.EventID != f.event.ID || len(view.Transfers) != 0 {
		t.Errorf("expected the cached view, got %+v", view)
	}
}

func TestBalanceUseCase_EventNotFound(t *testing.T) {
	f := newBalanceFixture(t, map[int]string{1: "0.0000"})

	_, err := f.uc.GetBalances(context.Background(), usecase.GetBalancesInput{EventID: uuid.New()})
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}
