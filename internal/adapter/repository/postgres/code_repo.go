package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// CodeRepository implements usecase.CodeRepository.
type CodeRepository struct {
	pool *pgxpool.Pool
}

// NewCodeRepository creates a new CodeRepository.
func NewCodeRepository(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

// GetByCode retrieves an activation code.
func (r *CodeRepository) GetByCode(ctx context.Context, code string) (*domain.ActivationCode, error) {
	var (
		ac        domain.ActivationCode
		usedAt    pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT code, is_used, used_by, used_at, created_at
		 FROM activation_codes WHERE code = $1`, code,
	).Scan(&ac.Code, &ac.IsUsed, &ac.UsedBy, &usedAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}

		return nil, translateError(err)
	}

	if usedAt.Valid {
		t := usedAt.Time
		ac.UsedAt = &t
	}
	ac.CreatedAt = createdAt.Time

	return &ac, nil
}

// Claim flips is_used in a single conditional update. The WHERE clause on
// is_used makes concurrent claimers race on row count, not on reads; exactly
// one caller sees claimed=true.
func (r *CodeRepository) Claim(ctx context.Context, tx usecase.Transaction, code, accountID string, usedAt time.Time) (bool, error) {
	pgxTx := pgxTxFrom(tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE activation_codes
		 SET is_used = TRUE, used_by = $2, used_at = $3
		 WHERE code = $1 AND is_used = FALSE`,
		code, accountID, timeToPgTimestamptz(usedAt),
	)
	if err != nil {
		return false, translateError(err)
	}

	return tag.RowsAffected() == 1, nil
}
