package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditColumns = `id, actor_id, actor_name, actor_role, action, resource_type, resource_id, before_state, after_state, status, error_message, created_at`

// CreateTx inserts an audit log inside the caller's transaction so the trail
// commits or rolls back with the state it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	pgxTx := pgxTxFrom(tx).PgxTx()

	beforeState, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}

	afterState, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx,
		`INSERT INTO audit_logs (`+auditColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		log.ID,
		log.ActorID,
		log.ActorName,
		log.ActorRole,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		beforeState,
		afterState,
		log.Status,
		log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return translateError(err)
}

// List retrieves audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE 1=1`
	args := []any{}

	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		query += fmt.Sprintf(` AND actor_id = $%d`, len(args))
	}

	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(` AND action = $%d`, len(args))
	}

	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		query += fmt.Sprintf(` AND resource_type = $%d`, len(args))
	}

	if filter.ResourceID != "" {
		args = append(args, filter.ResourceID)
		query += fmt.Sprintf(` AND resource_id = $%d`, len(args))
	}

	if filter.StartDate != nil {
		args = append(args, timeToPgTimestamptz(*filter.StartDate))
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}

	if filter.EndDate != nil {
		args = append(args, timeToPgTimestamptz(*filter.EndDate))
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}

	query += ` ORDER BY created_at DESC`

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0, limit)
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, translateError(err)
		}

		logs = append(logs, log)
	}

	return logs, translateError(rows.Err())
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}

	return json.Marshal(state)
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var (
		log         domain.AuditLog
		role        string
		beforeState []byte
		afterState  []byte
		createdAt   pgtype.Timestamptz
	)

	if err := row.Scan(&log.ID, &log.ActorID, &log.ActorName, &role, &log.Action,
		&log.ResourceType, &log.ResourceID, &beforeState, &afterState,
		&log.Status, &log.ErrorMessage, &createdAt); err != nil {
		return nil, err
	}

	if beforeState != nil {
		_ = json.Unmarshal(beforeState, &log.BeforeState)
	}
	if afterState != nil {
		_ = json.Unmarshal(afterState, &log.AfterState)
	}

	log.ActorRole = domain.ActorRole(role)
	log.CreatedAt = createdAt.Time

	return &log, nil
}
