package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository. Events are written in
// the same transaction as the state they describe; a dispatcher outside this
// service drains unpublished rows.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Create inserts an outbox event inside the caller's transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	pgxTx := pgxTxFrom(tx).PgxTx()

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx,
		`INSERT INTO outbox_events (id, aggregate_id, aggregate_type, event_type, payload, created_at, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID,
		event.AggregateID,
		event.AggregateType,
		event.EventType,
		payload,
		timeToPgTimestamptz(event.CreatedAt),
		event.Published,
	)

	return translateError(err)
}

// GetUnpublished retrieves unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at, published, published_at
		 FROM outbox_events
		 WHERE NOT published
		 ORDER BY created_at
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0, limit)
	for rows.Next() {
		var (
			event       domain.OutboxEvent
			payload     []byte
			createdAt   pgtype.Timestamptz
			publishedAt pgtype.Timestamptz
		)

		if err := rows.Scan(&event.ID, &event.AggregateID, &event.AggregateType,
			&event.EventType, &payload, &createdAt, &event.Published, &publishedAt); err != nil {
			return nil, translateError(err)
		}

		if payload != nil {
			_ = json.Unmarshal(payload, &event.Payload)
		}
		event.CreatedAt = createdAt.Time
		if publishedAt.Valid {
			t := publishedAt.Time
			event.PublishedAt = &t
		}

		events = append(events, &event)
	}

	return events, translateError(rows.Err())
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE outbox_events SET published = TRUE, published_at = $2 WHERE id = $1`,
		id, timeToPgTimestamptz(publishedAt),
	)

	return translateError(err)
}

// DeletePublished deletes published events older than the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM outbox_events WHERE published AND created_at < $1`,
		timeToPgTimestamptz(before),
	)

	return translateError(err)
}
