package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds every unit of work. On expiry the
	// transaction rolls back in full; partial application never survives.
	DefaultTransactionTimeout = 30 * time.Second

	// BalanceCacheTTL bounds staleness of the read-through balance cache.
	BalanceCacheTTL = 30 * time.Second
)
