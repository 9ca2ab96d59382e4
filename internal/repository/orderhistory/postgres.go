package orderhistory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"surf-storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Insert(ctx context.Context, sessionID string, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	const q = `
INSERT INTO order_history (id, session_id, number, status, items, total_cents, pickup_spot, estimated_minutes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING
`
	_, err = r.pool.Exec(ctx, q,
		order.ID,
		sessionID,
		order.Number,
		string(order.Status),
		items,
		order.Total,
		order.PickupSpot,
		order.EstimatedMinutes,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}
	return nil
}

func (r *postgresRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id::text, number, status, items, total_cents, pickup_spot, estimated_minutes, created_at
FROM order_history
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var status string
		var items []byte
		if err := rows.Scan(&o.ID, &o.Number, &status, &items, &o.Total, &o.PickupSpot, &o.EstimatedMinutes, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		if len(items) > 0 {
			if err := json.Unmarshal(items, &o.Items); err != nil {
				return nil, fmt.Errorf("unmarshal items for %s: %w", o.ID, err)
			}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
