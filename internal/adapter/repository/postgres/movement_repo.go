package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository. Movements are
// append-only; there is no update or delete path.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

const movementColumns = `id, holder_kind, holder_id, currency, label, direction, amount, balance_before, balance_after, actor_id, actor_name, actor_role, description, created_at`

// Append inserts a movement inside the caller's transaction.
func (r *MovementRepository) Append(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := pgxTxFrom(tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO movements (`+movementColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		movement.ID,
		movement.Holder.Kind,
		movement.Holder.ID,
		movement.Currency,
		movement.Label,
		movement.Direction,
		decimalToNumeric(movement.Amount),
		decimalToNumeric(movement.BalanceBefore),
		decimalToNumeric(movement.BalanceAfter),
		movement.Actor.ID,
		movement.Actor.Name,
		movement.Actor.Role,
		movement.Description,
		timeToPgTimestamptz(movement.CreatedAt),
	)

	return translateError(err)
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)

	movement, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, translateError(err)
	}

	return movement, nil
}

// ListByEntry retrieves movements for an entry, newest first.
func (r *MovementRepository) ListByEntry(ctx context.Context, holder domain.Holder, currency string, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movementColumns+` FROM movements
		 WHERE holder_kind = $1 AND holder_id = $2 AND currency = $3
		 ORDER BY created_at DESC, id DESC
		 LIMIT $4 OFFSET $5`,
		holder.Kind, holder.ID, currency, limit, offset,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	movements := make([]*domain.Movement, 0, limit)
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, translateError(err)
		}

		movements = append(movements, movement)
	}

	return movements, translateError(rows.Err())
}

// SumSigned returns the signed sum of every movement on an entry.
func (r *MovementRepository) SumSigned(ctx context.Context, holder domain.Holder, currency string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)
		 FROM movements
		 WHERE holder_kind = $1 AND holder_id = $2 AND currency = $3`,
		holder.Kind, holder.ID, currency,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, translateError(err)
	}

	return numericToDecimal(sum), nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		m             domain.Movement
		kind          string
		direction     string
		label         string
		role          string
		amount        pgtype.Numeric
		balanceBefore pgtype.Numeric
		balanceAfter  pgtype.Numeric
		createdAt     pgtype.Timestamptz
	)

	if err := row.Scan(&m.ID, &kind, &m.Holder.ID, &m.Currency, &label, &direction,
		&amount, &balanceBefore, &balanceAfter,
		&m.Actor.ID, &m.Actor.Name, &role, &m.Description, &createdAt); err != nil {
		return nil, err
	}

	m.Holder.Kind = domain.HolderKind(kind)
	m.Label = domain.Label(label)
	m.Direction = domain.Direction(direction)
	m.Actor.Role = domain.ActorRole(role)
	m.Amount = numericToDecimal(amount)
	m.BalanceBefore = numericToDecimal(balanceBefore)
	m.BalanceAfter = numericToDecimal(balanceAfter)
	m.CreatedAt = createdAt.Time

	return &m, nil
}
