package orderhistory

import (
	"context"

	"surf-storefront/internal/domain"
)

// Repository is the durable mirror of placed orders. The in-memory order list
// stays authoritative for the UI; this history exists for operators and
// survives restarts.
type Repository interface {
	Insert(ctx context.Context, sessionID string, order domain.Order) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Order, error)
}
