package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"surf-storefront/internal/domain"
)

type recordingHistory struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (h *recordingHistory) Insert(_ context.Context, _ string, order domain.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orders = append(h.orders, order)
	return nil
}

func (h *recordingHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.orders)
}

type recordingPublisher struct {
	mu   sync.Mutex
	seen []string
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, _ string, order domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, order.Number)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func TestSeededWithDemoOrders(t *testing.T) {
	s := New("s1", nil, nil, nil)
	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 demo orders, got %d", len(list))
	}
	if list[0].Status != domain.OrderReady || list[1].Status != domain.OrderCompleted {
		t.Fatalf("unexpected demo statuses: %s, %s", list[0].Status, list[1].Status)
	}
}

func TestPlacePrependsPendingOrder(t *testing.T) {
	s := New("s1", nil, nil, nil)
	placed := s.Place(PlaceInput{
		Number:           "#1234",
		Items:            []domain.CartLine{{ID: "l1", ProductID: "cappuccino", Name: "Cappuccino", UnitPrice: 350, Quantity: 2}},
		Total:            700,
		PickupSpot:       "Surf Coffee bar",
		EstimatedMinutes: 15,
	})

	if placed.Status != domain.OrderPending {
		t.Fatalf("expected pending, got %s", placed.Status)
	}
	if placed.ID == "" {
		t.Fatal("expected a generated order id")
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(list))
	}
	if list[0].Number != "#1234" {
		t.Fatalf("new order must be first, got %s", list[0].Number)
	}
	if list[0].CreatedAt.IsZero() {
		t.Fatal("expected a placement timestamp")
	}
}

func TestPlaceMirrorsToHistoryAndPublisher(t *testing.T) {
	history := &recordingHistory{}
	publisher := &recordingPublisher{}
	s := New("s1", history, publisher, nil)

	s.Place(PlaceInput{Number: "#4321", Total: 350})

	deadline := time.Now().Add(2 * time.Second)
	for history.count() == 0 || publisher.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("mirror never ran: history=%d publisher=%d", history.count(), publisher.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestListReturnsValueCopies(t *testing.T) {
	s := New("s1", nil, nil, nil)
	first := s.List()
	first[0].Items[0].Quantity = 99

	if got := s.List()[0].Items[0].Quantity; got == 99 {
		t.Fatal("List must return value copies")
	}
}
