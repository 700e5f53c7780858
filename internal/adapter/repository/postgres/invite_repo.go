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
)

// InviteRepository implements usecase.InviteRepository.
type InviteRepository struct {
	pool *pgxpool.Pool
}

// NewInviteRepository creates a new InviteRepository.
func NewInviteRepository(pool *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{pool: pool}
}

const inviteColumns = `token, event_id, created_at, expires_at, revoked_at`

// Create creates a new invite token.
func (r *InviteRepository) Create(ctx context.Context, invite *domain.InviteToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invite_tokens (token, event_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`,
		invite.Token,
		invite.EventID,
		timeToPgTimestamptz(invite.CreatedAt),
		timePtrToPgTimestamptz(invite.ExpiresAt),
	)

	return err
}

// GetByToken retrieves an invite by its token.
func (r *InviteRepository) GetByToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invite_tokens WHERE token = $1`, token)

	return scanInvite(row)
}

// Revoke marks an invite as revoked. Already revoked invites keep their
// original revocation timestamp.
func (r *InviteRepository) Revoke(ctx context.Context, token string, revokedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invite_tokens
		SET revoked_at = COALESCE(revoked_at, $2)
		WHERE token = $1`,
		token,
		timeToPgTimestamptz(revokedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInviteNotFound
	}

	return nil
}

// ListByEvent lists an event's invite tokens, newest first.
func (r *InviteRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.InviteToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+inviteColumns+` FROM invite_tokens
		WHERE event_id = $1
		ORDER BY created_at DESC, token`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*domain.InviteToken
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}

	return invites, rows.Err()
}

func scanInvite(row pgx.Row) (*domain.InviteToken, error) {
	var (
		invite    domain.InviteToken
		createdAt pgtype.Timestamptz
		expiresAt pgtype.Timestamptz
		revokedAt pgtype.Timestamptz
	)

	err := row.Scan(&invite.Token, &invite.EventID, &createdAt, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInviteNotFound
		}

		return nil, err
	}

	invite.CreatedAt = createdAt.Time
	invite.ExpiresAt = pgTimestamptzToTimePtr(expiresAt)
	invite.RevokedAt = pgTimestamptzToTimePtr(revokedAt)

	return &invite, nil
}
