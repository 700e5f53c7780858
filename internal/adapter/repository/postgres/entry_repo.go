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

// EntryRepository implements usecase.EntryRepository. Entry rows and their
// participant rows are always written together inside the caller's
// transaction so an entry can never be observed without its splits.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, event_id, entry_type, name, amount, currency, payer_person_id, occurred_at, note, created_at, updated_at, deleted_at`

const participantColumns = `entry_id, person_id, split_mode, split_percent, split_amount, resolved_amount, created_at`

// Create creates an entry and its participant rows.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO entries (id, event_id, entry_type, name, amount, currency, payer_person_id, occurred_at, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID,
		entry.EventID,
		string(entry.Type),
		entry.Name,
		amountToNumeric(entry.Amount),
		string(entry.Currency),
		entry.PayerPersonID,
		timeToPgTimestamptz(entry.OccurredAt),
		entry.Note,
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return r.insertParticipants(ctx, pgxTx, participants)
}

// Update replaces an entry's content and its whole participant set.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE entries
		SET entry_type = $2, name = $3, amount = $4, currency = $5, payer_person_id = $6,
		    occurred_at = $7, note = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL`,
		entry.ID,
		string(entry.Type),
		entry.Name,
		amountToNumeric(entry.Amount),
		string(entry.Currency),
		entry.PayerPersonID,
		timeToPgTimestamptz(entry.OccurredAt),
		entry.Note,
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	if _, err := pgxTx.Exec(ctx, `DELETE FROM entry_participants WHERE entry_id = $1`, entry.ID); err != nil {
		return err
	}

	return r.insertParticipants(ctx, pgxTx, participants)
}

// SoftDelete marks an entry as deleted. Participant rows are kept for audit.
func (r *EntryRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id uuid.UUID, deletedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE entries
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
		timeToPgTimestamptz(deletedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// GetByID retrieves an active entry and its participants.
func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, []*domain.EntryParticipant, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)

	entry, err := scanEntry(row)
	if err != nil {
		return nil, nil, err
	}

	participants, err := r.listParticipants(ctx, r.pool, []uuid.UUID{id})
	if err != nil {
		return nil, nil, err
	}

	return entry, participants[id], nil
}

// ListByEvent lists an event's active entries, newest occurrence first.
func (r *EntryRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY occurred_at DESC, id
		LIMIT $2 OFFSET $3`,
		eventID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListActiveByEventTx loads all active entries of an event with their
// participants inside a transaction, for snapshot recomputation.
func (r *EntryRepository) ListActiveByEventTx(ctx context.Context, tx usecase.Transaction, eventID uuid.UUID) ([]*domain.Entry, map[uuid.UUID][]*domain.EntryParticipant, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, nil, err
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}

	participants, err := r.listParticipants(ctx, pgxTx, ids)
	if err != nil {
		return nil, nil, err
	}

	return entries, participants, nil
}

func (r *EntryRepository) insertParticipants(ctx context.Context, tx pgx.Tx, participants []*domain.EntryParticipant) error {
	for _, p := range participants {
		var percent, declared pgtype.Numeric
		if p.SplitPercent != nil {
			percent = decimalToNumeric(p.SplitPercent.Decimal())
		}
		if p.SplitAmount != nil {
			declared = amountToNumeric(*p.SplitAmount)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO entry_participants (entry_id, person_id, split_mode, split_percent, split_amount, resolved_amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.EntryID,
			p.PersonID,
			string(p.SplitMode),
			percent,
			declared,
			amountToNumeric(p.ResolvedAmount),
			timeToPgTimestamptz(p.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *EntryRepository) listParticipants(ctx context.Context, q querier, entryIDs []uuid.UUID) (map[uuid.UUID][]*domain.EntryParticipant, error) {
	byEntry := make(map[uuid.UUID][]*domain.EntryParticipant, len(entryIDs))
	if len(entryIDs) == 0 {
		return byEntry, nil
	}

	rows, err := q.Query(ctx, `
		SELECT `+participantColumns+` FROM entry_participants
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, person_id`,
		entryIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		byEntry[participant.EntryID] = append(byEntry[participant.EntryID], participant)
	}

	return byEntry, rows.Err()
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry      domain.Entry
		entryType  string
		amount     pgtype.Numeric
		currency   string
		occurredAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
		deletedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.EventID,
		&entryType,
		&entry.Name,
		&amount,
		&currency,
		&entry.PayerPersonID,
		&occurredAt,
		&entry.Note,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Type = domain.EntryType(entryType)
	entry.Currency = domain.CurrencyCode(currency)
	entry.OccurredAt = occurredAt.Time
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time
	entry.DeletedAt = pgTimestamptzToTimePtr(deletedAt)

	entry.Amount, err = numericToAmount(amount)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func scanParticipant(row pgx.Row) (*domain.EntryParticipant, error) {
	var (
		participant domain.EntryParticipant
		mode        string
		percent     pgtype.Numeric
		declared    pgtype.Numeric
		resolved    pgtype.Numeric
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&participant.EntryID,
		&participant.PersonID,
		&mode,
		&percent,
		&declared,
		&resolved,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	participant.SplitMode = domain.SplitMode(mode)
	participant.CreatedAt = createdAt.Time

	if percent.Valid {
		p, err := numericToPercentage(percent)
		if err != nil {
			return nil, err
		}
		participant.SplitPercent = &p
	}
	if declared.Valid {
		a, err := numericToAmount(declared)
		if err != nil {
			return nil, err
		}
		participant.SplitAmount = &a
	}

	participant.ResolvedAmount, err = numericToAmount(resolved)
	if err != nil {
		return nil, err
	}

	return &participant, nil
}
