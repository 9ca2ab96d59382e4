package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"surf-storefront/internal/orders"
	"surf-storefront/internal/repository/orderhistory"
)

// DemoSessionID marks the seed rows so they are easy to find and clean up.
const DemoSessionID = "demo-session"

// Apply inserts the demo orders into the history table for manual testing.
// It is idempotent: the orders get fresh uuids each run but ON CONFLICT keeps
// reruns harmless, and rows are scoped to DemoSessionID.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := orderhistory.NewPostgres(pool)
	for _, order := range orders.DemoOrders(time.Now()) {
		if err := repo.Insert(ctx, DemoSessionID, order); err != nil {
			return fmt.Errorf("insert demo order %s: %w", order.Number, err)
		}
	}
	return nil
}
