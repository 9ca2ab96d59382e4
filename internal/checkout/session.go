package checkout

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"surf-storefront/internal/domain"
)

// Step is the checkout sub-state. The sequence is strictly linear:
// details → payment → success.
type Step string

const (
	StepDetails Step = "details"
	StepPayment Step = "payment"
	StepSuccess Step = "success"
)

type PickupKind string

const (
	PickupASAP      PickupKind = "asap"
	PickupScheduled PickupKind = "scheduled"
)

type PaymentMethod string

const (
	PayCard PaymentMethod = "card"
	PayCash PaymentMethod = "cash"
)

// PickupTime is asap or a scheduled hh:mm. The 08:00–22:00 window shown by
// the client is presentational only; it is not validated here.
type PickupTime struct {
	Kind PickupKind `json:"kind"`
	At   string     `json:"at,omitempty"`
}

// Details are the inputs captured on the first checkout step.
type Details struct {
	PickupSpot string     `json:"pickupSpot"`
	Pickup     PickupTime `json:"pickup"`
	Comment    string     `json:"comment,omitempty"`
}

// Config carries the simulated-processing delay and the fabricated ETA.
type Config struct {
	ProcessingDelay  time.Duration
	EstimatedMinutes int
	PickupSpot       string
}

func DefaultConfig() Config {
	return Config{
		ProcessingDelay:  1500 * time.Millisecond,
		EstimatedMinutes: 15,
		PickupSpot:       "Surf Coffee bar",
	}
}

// Result is handed to the completion callback once payment "processing"
// resolves. Items is the cart snapshot taken when the session started.
type Result struct {
	Number           string            `json:"number"`
	Items            []domain.CartLine `json:"items"`
	Total            int64             `json:"total"`
	Details          Details           `json:"details"`
	Method           PaymentMethod     `json:"method"`
	EstimatedMinutes int               `json:"estimatedMinutes"`
	PlacedAt         time.Time         `json:"placedAt"`
}

// Session is the short-lived checkout state machine for one attempt. It is
// created when the checkout screen mounts and discarded when it unmounts or
// completes; it is never persisted.
type Session struct {
	mu         sync.Mutex
	cfg        Config
	step       Step
	details    Details
	method     PaymentMethod
	items      []domain.CartLine
	total      int64
	number     string
	placedAt   time.Time
	processing bool

	done    chan struct{}
	closed  chan struct{}
	closeFn sync.Once

	onComplete func(Result)
	randInt    func(n int) int
}

// New snapshots the cart into a fresh session at the details step.
// onComplete, if set, fires once after processing resolves.
func New(items []domain.CartLine, total int64, cfg Config, onComplete func(Result)) *Session {
	if cfg.ProcessingDelay < 0 {
		cfg.ProcessingDelay = 0
	}
	snapshot := make([]domain.CartLine, len(items))
	for i, l := range items {
		l.Options = append([]string(nil), l.Options...)
		snapshot[i] = l
	}
	return &Session{
		cfg:        cfg,
		step:       StepDetails,
		details:    Details{PickupSpot: cfg.PickupSpot, Pickup: PickupTime{Kind: PickupASAP}},
		items:      snapshot,
		total:      total,
		done:       make(chan struct{}),
		closed:     make(chan struct{}),
		onComplete: onComplete,
		randInt:    rand.Intn,
	}
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) Details() Details {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details
}

// SetDetails updates the detail inputs; legal only on the details step.
func (s *Session) SetDetails(d Details) error {
	switch d.Pickup.Kind {
	case PickupASAP:
		d.Pickup.At = ""
	case PickupScheduled:
		if _, err := time.Parse("15:04", d.Pickup.At); err != nil {
			return fmt.Errorf("scheduled pickup time %q: %w", d.Pickup.At, err)
		}
	default:
		return fmt.Errorf("unknown pickup kind %q", d.Pickup.Kind)
	}
	if d.PickupSpot == "" {
		d.PickupSpot = s.cfg.PickupSpot
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepDetails {
		return domain.ErrInvalidStep
	}
	s.details = d
	return nil
}

// Advance moves details → payment. On payment and success it is a no-op:
// payment advances only through Pay, and success is terminal.
func (s *Session) Advance() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepDetails {
		s.step = StepPayment
	}
	return s.step
}

// Back moves payment → details and reports true. On details the caller owns
// the exit; on success there is no way back.
func (s *Session) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepPayment {
		s.step = StepDetails
		return true
	}
	return false
}

// Pay starts the simulated processing on the payment step. The delay always
// resolves into a synthesized order number; there is no failure path and no
// cancellation short of Close.
func (s *Session) Pay(method PaymentMethod) error {
	if method != PayCard && method != PayCash {
		return fmt.Errorf("unknown payment method %q", method)
	}
	s.mu.Lock()
	if s.step != StepPayment {
		s.mu.Unlock()
		return domain.ErrInvalidStep
	}
	if s.processing {
		s.mu.Unlock()
		return nil
	}
	s.processing = true
	s.method = method
	delay := s.cfg.ProcessingDelay
	s.mu.Unlock()

	go s.process(delay)
	return nil
}

func (s *Session) process(delay time.Duration) {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-s.closed:
			return
		}
	} else {
		select {
		case <-s.closed:
			return
		default:
		}
	}

	s.mu.Lock()
	// The source draws a random 4-digit number with no collision check
	// against existing orders; kept as-is.
	s.number = fmt.Sprintf("#%04d", 1000+s.randInt(9000))
	s.placedAt = time.Now()
	s.step = StepSuccess
	s.processing = false
	result := s.resultLocked()
	cb := s.onComplete
	s.mu.Unlock()

	close(s.done)
	if cb != nil {
		cb(result)
	}
}

// Processing reports whether the payment delay is running.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Result returns the completed order data; ok is false before success.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepSuccess {
		return Result{}, false
	}
	return s.resultLocked(), true
}

func (s *Session) resultLocked() Result {
	items := make([]domain.CartLine, len(s.items))
	copy(items, s.items)
	return Result{
		Number:           s.number,
		Items:            items,
		Total:            s.total,
		Details:          s.details,
		Method:           s.method,
		EstimatedMinutes: s.cfg.EstimatedMinutes,
		PlacedAt:         s.placedAt,
	}
}

// Done is closed when processing resolves into success.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close discards the session. A processing timer firing afterward is a no-op
// and the completion callback never runs.
func (s *Session) Close() {
	s.closeFn.Do(func() {
		close(s.closed)
	})
}
