package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// EventRepository implements usecase.EventRepository.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, name, base_currency, timezone, default_algorithm, created_at, updated_at, archived_at`

// Create creates a new event.
func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (id, name, base_currency, timezone, default_algorithm, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID,
		event.Name,
		string(event.BaseCurrency),
		event.Timezone,
		string(event.DefaultAlgorithm),
		timeToPgTimestamptz(event.CreatedAt),
		timeToPgTimestamptz(event.UpdatedAt),
	)

	return err
}

// GetByID retrieves an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)

	return scanEvent(row)
}

// GetByIDForUpdate retrieves an event by ID with a FOR UPDATE lock.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id uuid.UUID) (*domain.Event, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)

	return scanEvent(row)
}

// Update updates an event's mutable fields.
func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events
		SET name = $2, timezone = $3, default_algorithm = $4, updated_at = $5
		WHERE id = $1`,
		event.ID,
		event.Name,
		event.Timezone,
		string(event.DefaultAlgorithm),
		timeToPgTimestamptz(event.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// Archive marks an event as archived. Already archived events keep their
// original archive timestamp.
func (r *EventRepository) Archive(ctx context.Context, id uuid.UUID, archivedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events
		SET archived_at = COALESCE(archived_at, $2), updated_at = $2
		WHERE id = $1`,
		id,
		timeToPgTimestamptz(archivedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// List lists events with pagination, newest first.
func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		event      domain.Event
		currency   string
		algorithm  string
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
		archivedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&event.ID,
		&event.Name,
		&currency,
		&event.Timezone,
		&algorithm,
		&createdAt,
		&updatedAt,
		&archivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}

		return nil, err
	}

	event.BaseCurrency = domain.CurrencyCode(currency)
	event.DefaultAlgorithm = domain.SettlementAlgorithm(algorithm)
	event.CreatedAt = createdAt.Time
	event.UpdatedAt = updatedAt.Time
	event.ArchivedAt = pgTimestamptzToTimePtr(archivedAt)

	return &event, nil
}
