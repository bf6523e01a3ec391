package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
)

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	// Get returns the entry without side effects. A pair that has never been
	// touched returns ok=false and no error; callers treat it as zeroed.
	Get(ctx context.Context, holder domain.Holder, currency string) (*domain.LedgerEntry, bool, error)
	// GetOrCreateForUpdate inserts a zeroed row if absent and returns the
	// row locked for the duration of tx. Safe under concurrent callers.
	GetOrCreateForUpdate(ctx context.Context, tx Transaction, holder domain.Holder, currency string) (*domain.LedgerEntry, error)
	// ApplyDelta adds signedAmount to the balance, bumps the matching
	// running total and the movement count in one statement, and returns
	// the updated row. No sign or floor validation happens here.
	ApplyDelta(ctx context.Context, tx Transaction, holder domain.Holder, currency string, signedAmount decimal.Decimal, updatedAt time.Time) (*domain.LedgerEntry, error)
	// CheckConsistency returns per-entry mismatches between the stored
	// balance and the signed sum of movements.
	CheckConsistency(ctx context.Context, limit int) ([]EntryMismatch, error)
}

// EntryMismatch reports one entry whose balance diverges from its movements.
type EntryMismatch struct {
	Holder      domain.Holder
	Currency    string
	Balance     decimal.Decimal
	MovementSum decimal.Decimal
}

// MovementRepository defines data access for movements. Append-only.
type MovementRepository interface {
	Append(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	ListByEntry(ctx context.Context, holder domain.Holder, currency string, limit, offset int) ([]*domain.Movement, error)
	SumSigned(ctx context.Context, holder domain.Holder, currency string) (decimal.Decimal, error)
}

// AccountDirectory resolves primary accounts and their supported currencies.
// Accounts are registered by an external system; the ledger only reads.
type AccountDirectory interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	SupportsCurrency(ctx context.Context, accountID, currency string) (bool, error)
}

// SubAccountDirectory resolves customer/exchanger sub-accounts.
type SubAccountDirectory interface {
	GetSubAccount(ctx context.Context, id string) (*domain.SubAccount, error)
}

// CodeRepository defines data access for activation codes.
type CodeRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.ActivationCode, error)
	// Claim conditionally marks the code used. Returns false when the code
	// was already used; the caller re-fetches for messaging.
	Claim(ctx context.Context, tx Transaction, code, accountID string, usedAt time.Time) (bool, error)
}

// HawalaRepository persists hawala business records.
type HawalaRepository interface {
	Create(ctx context.Context, tx Transaction, hawala *domain.Hawala) error
	GetByReference(ctx context.Context, reference string) (*domain.Hawala, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Hawala, error)
}

// ExchangeRepository persists exchange business records.
type ExchangeRepository interface {
	Create(ctx context.Context, tx Transaction, exchange *domain.Exchange) error
	GetByID(ctx context.Context, id string) (*domain.Exchange, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Exchange, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
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

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on retryable storage conflicts. The ledger
// core never retries on its own; callers opt in.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
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
