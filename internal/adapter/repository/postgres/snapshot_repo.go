package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// SnapshotRepository implements usecase.SnapshotRepository.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// ReplaceForEvent atomically replaces an event's snapshot set. Snapshots are
// derived state, so a full rewrite keeps them trivially consistent with the
// entry set that produced them.
func (r *SnapshotRepository) ReplaceForEvent(ctx context.Context, tx usecase.Transaction, eventID uuid.UUID, snapshots []*domain.BalanceSnapshot) error {
	pgxTx := tx.(*Tx).PgxTx()

	if _, err := pgxTx.Exec(ctx, `DELETE FROM balance_snapshots WHERE event_id = $1`, eventID); err != nil {
		return err
	}

	for _, s := range snapshots {
		_, err := pgxTx.Exec(ctx, `
			INSERT INTO balance_snapshots (event_id, person_id, net_amount, computed_at)
			VALUES ($1, $2, $3, $4)`,
			s.EventID,
			s.PersonID,
			amountToNumeric(s.NetAmount),
			timeToPgTimestamptz(s.ComputedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByEvent lists an event's snapshots ordered by person id.
func (r *SnapshotRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.BalanceSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT event_id, person_id, net_amount, computed_at FROM balance_snapshots
		WHERE event_id = $1
		ORDER BY person_id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*domain.BalanceSnapshot
	for rows.Next() {
		var (
			snapshot   domain.BalanceSnapshot
			net        pgtype.Numeric
			computedAt pgtype.Timestamptz
		)

		if err := rows.Scan(&snapshot.EventID, &snapshot.PersonID, &net, &computedAt); err != nil {
			return nil, err
		}

		snapshot.ComputedAt = computedAt.Time
		snapshot.NetAmount, err = numericToAmount(net)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, &snapshot)
	}

	return snapshots, rows.Err()
}
