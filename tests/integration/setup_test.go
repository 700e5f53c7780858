package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"

	adaptershttp "github.com/tiagobluiz/splitbill/internal/adapter/http"
	"github.com/tiagobluiz/splitbill/internal/adapter/http/handler"
	"github.com/tiagobluiz/splitbill/internal/adapter/repository/postgres"
	redisrepo "github.com/tiagobluiz/splitbill/internal/adapter/repository/redis"
	"github.com/tiagobluiz/splitbill/internal/domain"
	infraredis "github.com/tiagobluiz/splitbill/internal/infrastructure/redis"
	"github.com/tiagobluiz/splitbill/internal/usecase"
	"github.com/tiagobluiz/splitbill/tests/testutil"
)

// testServer wires the full stack against real Postgres and Redis.
type testServer struct {
	db     *testutil.TestDB
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	logger := zerolog.Nop()

	eventRepo := postgres.NewEventRepository(pool)
	personRepo := postgres.NewPersonRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	snapRepo := postgres.NewSnapshotRepository(pool)
	inviteRepo := postgres.NewInviteRepository(pool)
	txManager := postgres.NewTxManager(pool)
	retrier := postgres.NewRetrier(logger)
	cache := redisrepo.NewCache(redisClient)
	idGen := postgres.NewUUIDGenerator()
	tokenGen := postgres.NewULIDTokenGenerator()
	clock := usecase.SystemClock{}
	calculator := domain.NewSplitCalculator()

	eventUC := usecase.NewEventUseCase(eventRepo, personRepo, inviteRepo, idGen, tokenGen, clock)
	entryUC := usecase.NewEntryUseCase(txManager, eventRepo, personRepo, entryRepo, snapRepo, calculator, retrier, cache, idGen, clock, logger)
	balanceUC := usecase.NewBalanceUseCase(eventRepo, personRepo, snapRepo, cache, logger)
	splitUC := usecase.NewSplitUseCase(calculator, logger)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		EventHandler:     handler.NewEventHandler(eventUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		BalanceHandler:   handler.NewBalanceHandler(balanceUC),
		SplitHandler:     handler.NewSplitHandler(splitUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		Logger:           logger,
		IdempotencyStore: redisrepo.NewIdempotencyStore(redisClient),
	})

	return &testServer{db: testDB, router: router}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return out
}
