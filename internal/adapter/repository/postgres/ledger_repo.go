package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

const entryColumns = `holder_kind, holder_id, currency, balance, total_credits, total_debits, movement_count, created_at, updated_at`

// Get returns the entry without side effects. ok is false when the pair has
// never been touched.
func (r *LedgerRepository) Get(ctx context.Context, holder domain.Holder, currency string) (*domain.LedgerEntry, bool, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries
		 WHERE holder_kind = $1 AND holder_id = $2 AND currency = $3`,
		holder.Kind, holder.ID, currency,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, translateError(err)
	}

	return entry, true, nil
}

// GetOrCreateForUpdate inserts a zeroed row if absent and returns the row
// locked until the transaction ends. The unique key plus ON CONFLICT makes
// concurrent first touches of the same pair safe.
func (r *LedgerRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, holder domain.Holder, currency string) (*domain.LedgerEntry, error) {
	pgxTx := pgxTxFrom(tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO ledger_entries (holder_kind, holder_id, currency)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (holder_kind, holder_id, currency) DO NOTHING`,
		holder.Kind, holder.ID, currency,
	)
	if err != nil {
		return nil, translateError(err)
	}

	row := pgxTx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries
		 WHERE holder_kind = $1 AND holder_id = $2 AND currency = $3
		 FOR UPDATE`,
		holder.Kind, holder.ID, currency,
	)

	entry, err := scanEntry(row)
	if err != nil {
		return nil, translateError(err)
	}

	return entry, nil
}

// ApplyDelta moves the balance by signedAmount and maintains the running
// totals and movement count in one statement. Sign and floor are not
// checked here by design.
func (r *LedgerRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, holder domain.Holder, currency string, signedAmount decimal.Decimal, updatedAt time.Time) (*domain.LedgerEntry, error) {
	pgxTx := pgxTxFrom(tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`UPDATE ledger_entries SET
			balance        = balance + $4::numeric,
			total_credits  = total_credits + GREATEST($4::numeric, 0),
			total_debits   = total_debits + GREATEST(-$4::numeric, 0),
			movement_count = movement_count + 1,
			updated_at     = $5
		 WHERE holder_kind = $1 AND holder_id = $2 AND currency = $3
		 RETURNING `+entryColumns,
		holder.Kind, holder.ID, currency,
		decimalToNumeric(signedAmount), timeToPgTimestamptz(updatedAt),
	)

	entry, err := scanEntry(row)
	if err != nil {
		return nil, translateError(err)
	}

	return entry, nil
}

// CheckConsistency returns entries whose balance diverges from the signed
// sum of their movements.
func (r *LedgerRepository) CheckConsistency(ctx context.Context, limit int) ([]usecase.EntryMismatch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.holder_kind, e.holder_id, e.currency, e.balance,
			COALESCE(SUM(CASE WHEN m.direction = 'credit' THEN m.amount ELSE -m.amount END), 0) AS movement_sum
		 FROM ledger_entries e
		 LEFT JOIN movements m
			ON m.holder_kind = e.holder_kind AND m.holder_id = e.holder_id AND m.currency = e.currency
		 GROUP BY e.holder_kind, e.holder_id, e.currency, e.balance
		 HAVING e.balance <> COALESCE(SUM(CASE WHEN m.direction = 'credit' THEN m.amount ELSE -m.amount END), 0)
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var mismatches []usecase.EntryMismatch
	for rows.Next() {
		var (
			kind     string
			holderID string
			currency string
			balance  pgtype.Numeric
			movement pgtype.Numeric
		)

		if err := rows.Scan(&kind, &holderID, &currency, &balance, &movement); err != nil {
			return nil, translateError(err)
		}

		mismatches = append(mismatches, usecase.EntryMismatch{
			Holder:      domain.Holder{Kind: domain.HolderKind(kind), ID: holderID},
			Currency:    currency,
			Balance:     numericToDecimal(balance),
			MovementSum: numericToDecimal(movement),
		})
	}

	return mismatches, translateError(rows.Err())
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		kind          string
		holderID      string
		currency      string
		balance       pgtype.Numeric
		totalCredits  pgtype.Numeric
		totalDebits   pgtype.Numeric
		movementCount int64
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	if err := row.Scan(&kind, &holderID, &currency, &balance, &totalCredits, &totalDebits, &movementCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return &domain.LedgerEntry{
		Holder:        domain.Holder{Kind: domain.HolderKind(kind), ID: holderID},
		Currency:      currency,
		Balance:       numericToDecimal(balance),
		TotalCredits:  numericToDecimal(totalCredits),
		TotalDebits:   numericToDecimal(totalDebits),
		MovementCount: movementCount,
		CreatedAt:     createdAt.Time,
		UpdatedAt:     updatedAt.Time,
	}, nil
}
