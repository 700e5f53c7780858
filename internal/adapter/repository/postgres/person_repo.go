package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// PersonRepository implements usecase.PersonRepository.
type PersonRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository creates a new PersonRepository.
func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

const personColumns = `id, event_id, display_name, created_at, updated_at`

// Create adds a new person to an event.
func (r *PersonRepository) Create(ctx context.Context, person *domain.Person) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_people (id, event_id, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		person.ID,
		person.EventID,
		person.DisplayName,
		timeToPgTimestamptz(person.CreatedAt),
		timeToPgTimestamptz(person.UpdatedAt),
	)

	return err
}

// Update rewrites a person's display name.
func (r *PersonRepository) Update(ctx context.Context, person *domain.Person) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE event_people
		SET display_name = $2, updated_at = $3
		WHERE id = $1`,
		person.ID,
		person.DisplayName,
		timeToPgTimestamptz(person.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPersonNotFound
	}

	return nil
}

// GetByID retrieves a person by ID.
func (r *PersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+personColumns+` FROM event_people WHERE id = $1`, id)

	return scanPerson(row)
}

// ListByEvent lists an event's members ordered by id.
func (r *PersonRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Person, error) {
	return r.listByEvent(ctx, r.pool, eventID)
}

// ListByEventTx lists an event's members inside a transaction.
func (r *PersonRepository) ListByEventTx(ctx context.Context, tx usecase.Transaction, eventID uuid.UUID) ([]*domain.Person, error) {
	return r.listByEvent(ctx, tx.(*Tx).PgxTx(), eventID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PersonRepository) listByEvent(ctx context.Context, q querier, eventID uuid.UUID) ([]*domain.Person, error) {
	rows, err := q.Query(ctx, `
		SELECT `+personColumns+` FROM event_people
		WHERE event_id = $1
		ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}

	return people, rows.Err()
}

func scanPerson(row pgx.Row) (*domain.Person, error) {
	var (
		person    domain.Person
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&person.ID, &person.EventID, &person.DisplayName, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPersonNotFound
		}

		return nil, err
	}

	person.CreatedAt = createdAt.Time
	person.UpdatedAt = updatedAt.Time

	return &person, nil
}
