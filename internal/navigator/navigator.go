package navigator

import (
	"context"
	"sync"
	"time"

	"surf-storefront/internal/domain"
)

// Timings are the named delays of the transition choreography. They encode
// the intended animation timing of the storefront, not tuning knobs; tests
// substitute zero-delay variants.
type Timings struct {
	// Short is the plain screen swap delay.
	Short time.Duration
	// Long is used for categories→product when a product card rectangle was
	// captured, leaving room for the shared-element animation.
	Long time.Duration
	// AnimationClear is how long after commit the shared-element flag stays up.
	AnimationClear time.Duration
	// Settle is the tail delay before the navigator accepts the next transition.
	Settle time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Short:          300 * time.Millisecond,
		Long:           450 * time.Millisecond,
		AnimationClear: 500 * time.Millisecond,
		Settle:         50 * time.Millisecond,
	}
}

// Rect is the viewport rectangle of a tapped product card, captured so the
// client can run a shared-element animation into the product screen.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Transition describes one accepted screen change so the client can drive its
// choreography with the same delays the navigator committed to.
type Transition struct {
	From     domain.Screen `json:"from"`
	To       domain.Screen `json:"to"`
	Delay    time.Duration `json:"-"`
	DelayMS  int64         `json:"delayMs"`
	Animated bool          `json:"animated"`
}

// Navigator is the screen state machine. At most one transition is in flight;
// requests during that window are dropped, not queued. The profile screen is
// an overlay flag on top of whatever screen is current.
type Navigator struct {
	mu       sync.Mutex
	timings  Timings
	current  domain.Screen
	previous domain.Screen

	inFlight      bool
	sharedElement bool
	cardRect      *Rect
	profileShown  bool

	idle    chan struct{}
	closed  chan struct{}
	closeFn sync.Once
}

func New(t Timings) *Navigator {
	idle := make(chan struct{})
	close(idle)
	return &Navigator{
		timings: t,
		current: domain.ScreenHome,
		idle:    idle,
		closed:  make(chan struct{}),
	}
}

// CaptureCardRect records the source rectangle of a tapped product card. The
// next categories→product transition consumes it and uses the long delay.
func (n *Navigator) CaptureCardRect(r Rect) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cardRect = &r
}

// Go requests a transition to target. It returns false when the request is
// dropped: a transition already in flight, an invalid target, or a closed
// navigator. onCommitted, if set, runs right before the screen swap so
// callers can stage selection state.
//
// Go(ScreenProfile) flips the overlay on synchronously with no transition.
func (n *Navigator) Go(target domain.Screen, onCommitted func()) (Transition, bool) {
	if !target.Valid() {
		return Transition{}, false
	}
	if target == domain.ScreenProfile {
		n.mu.Lock()
		n.profileShown = true
		tr := Transition{From: n.current, To: n.current}
		n.mu.Unlock()
		return tr, true
	}

	n.mu.Lock()
	select {
	case <-n.closed:
		n.mu.Unlock()
		return Transition{}, false
	default:
	}
	if n.inFlight {
		n.mu.Unlock()
		return Transition{}, false
	}

	animated := target == domain.ScreenProduct && n.current == domain.ScreenCategories && n.cardRect != nil
	delay := n.timings.Short
	if animated {
		delay = n.timings.Long
		n.cardRect = nil
		n.sharedElement = true
	}
	tr := Transition{
		From:     n.current,
		To:       target,
		Delay:    delay,
		DelayMS:  delay.Milliseconds(),
		Animated: animated,
	}
	n.inFlight = true
	n.idle = make(chan struct{})
	n.mu.Unlock()

	go n.run(tr, onCommitted)
	return tr, true
}

func (n *Navigator) run(tr Transition, onCommitted func()) {
	if !n.sleep(tr.Delay) {
		n.abort()
		return
	}

	if onCommitted != nil {
		onCommitted()
	}

	n.mu.Lock()
	// Cart and orders remember the screen they were opened from. Moves between
	// the two keep the original origin, and leaving checkout does not count as
	// opening the cart: checkout sits on top of the cart journey, so backing out
	// of it must not clobber where the cart itself came from.
	if (tr.To == domain.ScreenCart || tr.To == domain.ScreenOrders) &&
		n.current != domain.ScreenCart && n.current != domain.ScreenOrders &&
		n.current != domain.ScreenCheckout {
		n.previous = n.current
	}
	n.current = tr.To
	n.mu.Unlock()

	if tr.Animated {
		time.AfterFunc(n.timings.AnimationClear, func() {
			select {
			case <-n.closed:
				return
			default:
			}
			n.mu.Lock()
			n.sharedElement = false
			n.mu.Unlock()
		})
	}

	if !n.sleep(n.timings.Settle) {
		n.abort()
		return
	}

	n.mu.Lock()
	n.inFlight = false
	close(n.idle)
	n.mu.Unlock()
}

// sleep waits d or until the navigator closes; it reports whether the full
// delay elapsed.
func (n *Navigator) sleep(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-n.closed:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-n.closed:
		return false
	}
}

// abort releases waiters after Close interrupted an in-flight transition
// without committing any further state.
func (n *Navigator) abort() {
	n.mu.Lock()
	n.inFlight = false
	select {
	case <-n.idle:
	default:
		close(n.idle)
	}
	n.mu.Unlock()
}

// Back returns toward the remembered context: checkout to cart, cart and
// orders to the screen they were opened from, product to categories,
// categories to home. A shown profile overlay is dismissed instead. From home
// there is nowhere to go and the request is dropped.
func (n *Navigator) Back() (Transition, bool) {
	n.mu.Lock()
	if n.profileShown {
		n.profileShown = false
		tr := Transition{From: n.current, To: n.current}
		n.mu.Unlock()
		return tr, true
	}
	current := n.current
	previous := n.previous
	n.mu.Unlock()

	var target domain.Screen
	switch current {
	case domain.ScreenCheckout:
		target = domain.ScreenCart
	case domain.ScreenCart, domain.ScreenOrders:
		target = previous
		if target == "" {
			target = domain.ScreenHome
		}
	case domain.ScreenProduct:
		target = domain.ScreenCategories
	case domain.ScreenCategories:
		target = domain.ScreenHome
	default:
		return Transition{}, false
	}
	return n.Go(target, nil)
}

// HideProfile dismisses the profile overlay.
func (n *Navigator) HideProfile() {
	n.mu.Lock()
	n.profileShown = false
	n.mu.Unlock()
}

func (n *Navigator) Current() domain.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Previous() domain.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.previous
}

func (n *Navigator) InFlight() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inFlight
}

func (n *Navigator) SharedElementActive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sharedElement
}

func (n *Navigator) ProfileShown() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.profileShown
}

// WaitIdle blocks until no transition is in flight or ctx is done.
func (n *Navigator) WaitIdle(ctx context.Context) error {
	n.mu.Lock()
	idle := n.idle
	n.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the navigator. Timer callbacks firing afterward are no-ops.
func (n *Navigator) Close() {
	n.closeFn.Do(func() {
		close(n.closed)
	})
}
