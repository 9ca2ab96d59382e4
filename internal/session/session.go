package session

import (
	"sync"
	"time"

	"surf-storefront/internal/cart"
	"surf-storefront/internal/checkout"
	"surf-storefront/internal/domain"
	"surf-storefront/internal/host"
	"surf-storefront/internal/navigator"
	"surf-storefront/internal/orders"
	"surf-storefront/internal/profile"
)

// Session is one Mini-App client: its cart, screen navigator, order list,
// profile flags and (while the checkout screen is mounted) a checkout
// session. The cart is the only state shared across screens and it has a
// single logical writer at a time, so the coarse mutex here only guards the
// checkout slot and the selection bookkeeping.
type Session struct {
	ID      string
	Host    host.Context
	Cart    *cart.Store
	Nav     *navigator.Navigator
	Orders  *orders.Store
	Profile *profile.Store

	checkoutCfg checkout.Config

	mu               sync.Mutex
	closed           bool
	checkout         *checkout.Session
	selectedCategory domain.Category
	selectedProduct  string
	createdAt        time.Time
	lastSeen         time.Time
}

// NavigateRequest is one screen-change request. Category and ProductID stage
// the selection committed together with the screen swap; CardRect, when
// present on a product navigation, requests the shared-element choreography.
type NavigateRequest struct {
	Target    domain.Screen   `json:"target"`
	Category  domain.Category `json:"category,omitempty"`
	ProductID string          `json:"productId,omitempty"`
	CardRect  *navigator.Rect `json:"cardRect,omitempty"`
}

// Navigate runs the request through the navigator. The selection is applied
// by the commit callback, i.e. only if and when the transition lands.
func (s *Session) Navigate(req NavigateRequest) (navigator.Transition, bool) {
	if req.CardRect != nil {
		s.Nav.CaptureCardRect(*req.CardRect)
	}

	var onCommitted func()
	switch req.Target {
	case domain.ScreenCategories:
		if req.Category != "" {
			cat := req.Category
			onCommitted = func() { s.selectCategory(cat) }
		}
	case domain.ScreenProduct:
		if req.ProductID != "" {
			id := req.ProductID
			onCommitted = func() { s.selectProduct(id) }
		}
	}
	return s.Nav.Go(req.Target, onCommitted)
}

// Back delegates to the navigator's return mapping.
func (s *Session) Back() (navigator.Transition, bool) {
	return s.Nav.Back()
}

func (s *Session) selectCategory(cat domain.Category) {
	s.mu.Lock()
	s.selectedCategory = cat
	s.mu.Unlock()
}

func (s *Session) selectProduct(id string) {
	s.mu.Lock()
	s.selectedProduct = id
	s.mu.Unlock()
}

func (s *Session) SelectedCategory() domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

func (s *Session) SelectedProduct() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedProduct
}

// StartCheckout mounts a fresh checkout session over the current cart
// snapshot. A previous unfinished session is discarded; an empty cart is
// rejected. A session released by eviction reports ErrSessionClosed: the
// caller raced the TTL cleanup and has to start over.
func (s *Session) StartCheckout() (*checkout.Session, error) {
	items := s.Cart.Lines()
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	total := s.Cart.TotalPrice()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if s.checkout != nil {
		s.checkout.Close()
	}
	s.checkout = checkout.New(items, total, s.checkoutCfg, nil)
	return s.checkout, nil
}

// Checkout returns the mounted checkout session, or nil.
func (s *Session) Checkout() *checkout.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

// CompleteCheckout is the "new order" action on the success step: it appends
// the placed order, clears the cart, records the profile flags and unmounts
// the checkout session.
func (s *Session) CompleteCheckout() (domain.Order, error) {
	s.mu.Lock()
	closed := s.closed
	cs := s.checkout
	s.mu.Unlock()
	if closed {
		return domain.Order{}, domain.ErrSessionClosed
	}
	if cs == nil {
		return domain.Order{}, domain.ErrInvalidStep
	}
	result, ok := cs.Result()
	if !ok {
		return domain.Order{}, domain.ErrInvalidStep
	}

	order := s.Orders.Place(orders.PlaceInput{
		Number:           result.Number,
		Items:            result.Items,
		Total:            result.Total,
		PickupSpot:       result.Details.PickupSpot,
		EstimatedMinutes: result.EstimatedMinutes,
		PlacedAt:         result.PlacedAt,
	})
	s.Cart.Clear()
	s.Profile.SetLastOrder(order.Number, order.EstimatedMinutes)

	s.mu.Lock()
	if s.checkout == cs {
		s.checkout = nil
	}
	s.mu.Unlock()
	cs.Close()
	return order, nil
}

// AbandonCheckout unmounts the checkout session, if any. Timer callbacks of
// the discarded session become no-ops.
func (s *Session) AbandonCheckout() {
	s.mu.Lock()
	cs := s.checkout
	s.checkout = nil
	s.mu.Unlock()
	if cs != nil {
		cs.Close()
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}

// Close releases the session's state machines. Checkout operations on a
// closed session report ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.AbandonCheckout()
	s.Nav.Close()
}
