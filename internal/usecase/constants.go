package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a snapshot recomputation transaction
	// so a slow connection cannot hold row locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultPageLimit and MaxPageLimit bound listing queries.
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	// BalanceCacheTTL is how long computed balance views stay cached.
	// Entry mutations invalidate the cache eagerly, so the TTL only
	// bounds staleness after a missed invalidation.
	BalanceCacheTTL = 5 * time.Minute

	// InviteTokenTTL is the default validity window for invite tokens.
	InviteTokenTTL = 7 * 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
