package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// ExchangeRepository implements usecase.ExchangeRepository.
type ExchangeRepository struct {
	pool *pgxpool.Pool
}

// NewExchangeRepository creates a new ExchangeRepository.
func NewExchangeRepository(pool *pgxpool.Pool) *ExchangeRepository {
	return &ExchangeRepository{pool: pool}
}

const exchangeColumns = `id, account_id, subaccount_id, sell_currency, sell_amount, buy_currency, buy_amount, created_at`

// Create inserts an exchange record inside the caller's transaction.
func (r *ExchangeRepository) Create(ctx context.Context, tx usecase.Transaction, exchange *domain.Exchange) error {
	pgxTx := pgxTxFrom(tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO exchanges (`+exchangeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		exchange.ID,
		exchange.AccountID,
		exchange.SubAccountID,
		exchange.SellCurrency,
		decimalToNumeric(exchange.SellAmount),
		exchange.BuyCurrency,
		decimalToNumeric(exchange.BuyAmount),
		timeToPgTimestamptz(exchange.CreatedAt),
	)

	return translateError(err)
}

// GetByID retrieves an exchange by ID.
func (r *ExchangeRepository) GetByID(ctx context.Context, id string) (*domain.Exchange, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1`, id)

	exchange, err := scanExchange(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExchangeNotFound
		}

		return nil, translateError(err)
	}

	return exchange, nil
}

// ListByAccount retrieves exchanges for an account, newest first.
func (r *ExchangeRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Exchange, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+exchangeColumns+` FROM exchanges
		 WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	exchanges := make([]*domain.Exchange, 0, limit)
	for rows.Next() {
		exchange, err := scanExchange(rows)
		if err != nil {
			return nil, translateError(err)
		}

		exchanges = append(exchanges, exchange)
	}

	return exchanges, translateError(rows.Err())
}

func scanExchange(row pgx.Row) (*domain.Exchange, error) {
	var (
		e          domain.Exchange
		sellAmount pgtype.Numeric
		buyAmount  pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)

	if err := row.Scan(&e.ID, &e.AccountID, &e.SubAccountID, &e.SellCurrency,
		&sellAmount, &e.BuyCurrency, &buyAmount, &createdAt); err != nil {
		return nil, err
	}

	e.SellAmount = numericToDecimal(sellAmount)
	e.BuyAmount = numericToDecimal(buyAmount)
	e.CreatedAt = createdAt.Time

	return &e, nil
}
