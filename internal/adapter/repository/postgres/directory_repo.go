package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/sarraf/internal/domain"
)

// AccountDirectory implements usecase.AccountDirectory over the accounts and
// account_currencies tables. Registration is owned by an external system so
// this adapter is read-only.
type AccountDirectory struct {
	pool *pgxpool.Pool
}

// NewAccountDirectory creates a new AccountDirectory.
func NewAccountDirectory(pool *pgxpool.Pool) *AccountDirectory {
	return &AccountDirectory{pool: pool}
}

// GetAccount retrieves an account by ID.
func (r *AccountDirectory) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, active FROM accounts WHERE id = $1`, id,
	).Scan(&account.ID, &account.Name, &account.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownAccount
		}

		return nil, translateError(err)
	}

	return &account, nil
}

// SupportsCurrency reports whether the account holds the currency.
func (r *AccountDirectory) SupportsCurrency(ctx context.Context, accountID, currency string) (bool, error) {
	var supported bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM account_currencies WHERE account_id = $1 AND currency = $2
		)`,
		accountID, currency,
	).Scan(&supported)
	if err != nil {
		return false, translateError(err)
	}

	return supported, nil
}

// SubAccountDirectory implements usecase.SubAccountDirectory.
type SubAccountDirectory struct {
	pool *pgxpool.Pool
}

// NewSubAccountDirectory creates a new SubAccountDirectory.
func NewSubAccountDirectory(pool *pgxpool.Pool) *SubAccountDirectory {
	return &SubAccountDirectory{pool: pool}
}

// GetSubAccount retrieves a sub-account by ID.
func (r *SubAccountDirectory) GetSubAccount(ctx context.Context, id string) (*domain.SubAccount, error) {
	var (
		sub       domain.SubAccount
		kind      string
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_account_id, kind, name, active, created_at
		 FROM subaccounts WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.OwnerAccountID, &kind, &sub.Name, &sub.Active, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownSubAccount
		}

		return nil, translateError(err)
	}

	sub.Kind = domain.SubAccountKind(kind)
	sub.CreatedAt = createdAt.Time

	return &sub, nil
}
