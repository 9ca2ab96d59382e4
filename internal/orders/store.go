package orders

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"surf-storefront/internal/domain"
)

const mirrorTimeout = 3 * time.Second

// History mirrors placed orders into durable storage, best-effort.
type History interface {
	Insert(ctx context.Context, sessionID string, order domain.Order) error
}

// Publisher announces placed orders to interested consumers.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, sessionID string, order domain.Order) error
}

// Store is one session's order list, newest first. Orders are only ever
// appended; statuses are display-only and never progress.
type Store struct {
	mu        sync.Mutex
	sessionID string
	orders    []domain.Order
	history   History
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

// New builds a Store seeded with the demo orders every fresh session shows.
// history and publisher may be nil.
func New(sessionID string, history History, publisher Publisher, logger *log.Logger) *Store {
	s := &Store{
		sessionID: sessionID,
		history:   history,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	s.orders = DemoOrders(s.now())
	return s
}

// DemoOrders returns the seed entries shown before any real order is placed.
func DemoOrders(now time.Time) []domain.Order {
	return []domain.Order{
		{
			ID:     uuid.NewString(),
			Number: "#4217",
			Status: domain.OrderReady,
			Items: []domain.CartLine{
				{ID: uuid.NewString(), ProductID: "flat-white", Name: "Flat White", Size: "medium", UnitPrice: 390, Quantity: 1},
				{ID: uuid.NewString(), ProductID: "croissant", Name: "Butter Croissant", UnitPrice: 220, Quantity: 2},
			},
			Total:            830,
			CreatedAt:        now.Add(-25 * time.Minute),
			EstimatedMinutes: 10,
			PickupSpot:       "Surf Coffee bar",
		},
		{
			ID:     uuid.NewString(),
			Number: "#3980",
			Status: domain.OrderCompleted,
			Items: []domain.CartLine{
				{ID: uuid.NewString(), ProductID: "raf", Name: "Raf", Size: "large", UnitPrice: 450, Quantity: 1},
			},
			Total:            450,
			CreatedAt:        now.Add(-2 * time.Hour),
			EstimatedMinutes: 15,
			PickupSpot:       "Surf Coffee bar",
		},
	}
}

// PlaceInput is the order data handed over by a completed checkout.
type PlaceInput struct {
	Number           string
	Items            []domain.CartLine
	Total            int64
	PickupSpot       string
	EstimatedMinutes int
	PlacedAt         time.Time
}

// Place prepends a new pending order built from the checkout result and
// mirrors it to history and the publisher without blocking the caller.
func (s *Store) Place(in PlaceInput) domain.Order {
	placedAt := in.PlacedAt
	if placedAt.IsZero() {
		placedAt = s.now()
	}
	order := domain.Order{
		ID:               uuid.NewString(),
		Number:           in.Number,
		Status:           domain.OrderPending,
		Items:            in.Items,
		Total:            in.Total,
		CreatedAt:        placedAt,
		EstimatedMinutes: in.EstimatedMinutes,
		PickupSpot:       in.PickupSpot,
	}

	s.mu.Lock()
	s.orders = append([]domain.Order{order}, s.orders...)
	s.mu.Unlock()

	s.mirror(order)
	return order
}

// List returns a value copy of the orders, newest first.
func (s *Store) List() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		o.Items = append([]domain.CartLine(nil), o.Items...)
		out[i] = o
	}
	return out
}

func (s *Store) mirror(order domain.Order) {
	if s.history == nil && s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if s.history != nil {
			if err := s.history.Insert(ctx, s.sessionID, order); err != nil && s.logger != nil {
				s.logger.Printf("order %s: history insert failed: %v", order.Number, err)
			}
		}
		if s.publisher != nil {
			if err := s.publisher.PublishOrderPlaced(ctx, s.sessionID, order); err != nil && s.logger != nil {
				s.logger.Printf("order %s: publish failed: %v", order.Number, err)
			}
		}
	}()
}
