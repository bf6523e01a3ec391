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

// HawalaRepository implements usecase.HawalaRepository.
type HawalaRepository struct {
	pool *pgxpool.Pool
}

// NewHawalaRepository creates a new HawalaRepository.
func NewHawalaRepository(pool *pgxpool.Pool) *HawalaRepository {
	return &HawalaRepository{pool: pool}
}

const hawalaColumns = `id, reference, kind, account_id, currency, amount, sender_name, receiver_name, movement_id, created_at`

// Create inserts a hawala record inside the caller's transaction.
func (r *HawalaRepository) Create(ctx context.Context, tx usecase.Transaction, hawala *domain.Hawala) error {
	pgxTx := pgxTxFrom(tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO hawalas (`+hawalaColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		hawala.ID,
		hawala.Reference,
		hawala.Kind,
		hawala.AccountID,
		hawala.Currency,
		decimalToNumeric(hawala.Amount),
		hawala.SenderName,
		hawala.ReceiverName,
		hawala.MovementID,
		timeToPgTimestamptz(hawala.CreatedAt),
	)

	return translateError(err)
}

// GetByReference retrieves a hawala by its transfer reference.
func (r *HawalaRepository) GetByReference(ctx context.Context, reference string) (*domain.Hawala, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+hawalaColumns+` FROM hawalas WHERE reference = $1`, reference)

	hawala, err := scanHawala(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHawalaNotFound
		}

		return nil, translateError(err)
	}

	return hawala, nil
}

// ListByAccount retrieves hawalas for an account, newest first.
func (r *HawalaRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Hawala, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+hawalaColumns+` FROM hawalas
		 WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	hawalas := make([]*domain.Hawala, 0, limit)
	for rows.Next() {
		hawala, err := scanHawala(rows)
		if err != nil {
			return nil, translateError(err)
		}

		hawalas = append(hawalas, hawala)
	}

	return hawalas, translateError(rows.Err())
}

func scanHawala(row pgx.Row) (*domain.Hawala, error) {
	var (
		h         domain.Hawala
		kind      string
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&h.ID, &h.Reference, &kind, &h.AccountID, &h.Currency,
		&amount, &h.SenderName, &h.ReceiverName, &h.MovementID, &createdAt); err != nil {
		return nil, err
	}

	h.Kind = domain.HawalaKind(kind)
	h.Amount = numericToDecimal(amount)
	h.CreatedAt = createdAt.Time

	return &h, nil
}
