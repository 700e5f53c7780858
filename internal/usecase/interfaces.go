package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/domain"
)

// EventRepository defines data access for events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id uuid.UUID) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Archive(ctx context.Context, id uuid.UUID, archivedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Event, error)
}

// PersonRepository defines data access for event members.
type PersonRepository interface {
	Create(ctx context.Context, person *domain.Person) error
	Update(ctx context.Context, person *domain.Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Person, error)
	ListByEventTx(ctx context.Context, tx Transaction, eventID uuid.UUID) ([]*domain.Person, error)
}

// EntryRepository defines data access for entries and their splits.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error
	Update(ctx context.Context, tx Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error
	SoftDelete(ctx context.Context, tx Transaction, id uuid.UUID, deletedAt time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, []*domain.EntryParticipant, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]*domain.Entry, error)
	ListActiveByEventTx(ctx context.Context, tx Transaction, eventID uuid.UUID) ([]*domain.Entry, map[uuid.UUID][]*domain.EntryParticipant, error)
}

// SnapshotRepository defines data access for per-event balance snapshots.
type SnapshotRepository interface {
	ReplaceForEvent(ctx context.Context, tx Transaction, eventID uuid.UUID, snapshots []*domain.BalanceSnapshot) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.BalanceSnapshot, error)
}

// InviteRepository defines data access for invite tokens.
type InviteRepository interface {
	Create(ctx context.Context, invite *domain.InviteToken) error
	GetByToken(ctx context.Context, token string) (*domain.InviteToken, error)
	Revoke(ctx context.Context, token string, revokedAt time.Time) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.InviteToken, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique entity IDs.
type IDGenerator interface {
	Generate() uuid.UUID
}

// TokenGenerator generates opaque, sortable invite tokens.
type TokenGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
