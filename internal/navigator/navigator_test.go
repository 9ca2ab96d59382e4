package navigator

import (
	"context"
	"testing"
	"time"

	"surf-storefront/internal/domain"
)

// testTimings are small but distinguishable so delay selection is observable
// without the real animation choreography.
func testTimings() Timings {
	return Timings{
		Short:          time.Millisecond,
		Long:           5 * time.Millisecond,
		AnimationClear: time.Millisecond,
		Settle:         time.Millisecond,
	}
}

func waitIdle(t *testing.T, n *Navigator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.WaitIdle(ctx); err != nil {
		t.Fatalf("navigator never settled: %v", err)
	}
}

func mustGo(t *testing.T, n *Navigator, target domain.Screen, onCommitted func()) Transition {
	t.Helper()
	tr, ok := n.Go(target, onCommitted)
	if !ok {
		t.Fatalf("transition to %s was dropped", target)
	}
	waitIdle(t, n)
	return tr
}

func TestStartsAtHome(t *testing.T) {
	n := New(testTimings())
	defer n.Close()
	if got := n.Current(); got != domain.ScreenHome {
		t.Fatalf("expected home, got %s", got)
	}
}

func TestGoSwapsScreenAndRunsCommitCallback(t *testing.T) {
	n := New(testTimings())
	defer n.Close()

	committed := false
	mustGo(t, n, domain.ScreenCategories, func() {
		committed = true
		if got := n.Current(); got != domain.ScreenHome {
			t.Errorf("commit callback must run before the swap, current is %s", got)
		}
	})

	if !committed {
		t.Fatal("commit callback never ran")
	}
	if got := n.Current(); got != domain.ScreenCategories {
		t.Fatalf("expected categories, got %s", got)
	}
}

func TestSecondTransitionWhileInFlightIsDropped(t *testing.T) {
	timings := testTimings()
	timings.Short = 50 * time.Millisecond
	n := New(timings)
	defer n.Close()

	if _, ok := n.Go(domain.ScreenCategories, nil); !ok {
		t.Fatal("first transition dropped")
	}
	if _, ok := n.Go(domain.ScreenOrders, nil); ok {
		t.Fatal("second transition must be dropped while one is in flight")
	}

	waitIdle(t, n)
	if got := n.Current(); got != domain.ScreenCategories {
		t.Fatalf("dropped transition must have no effect on current, got %s", got)
	}
}

func TestLongDelayOnlyWithCapturedCardRect(t *testing.T) {
	timings := testTimings()
	n := New(timings)
	defer n.Close()

	mustGo(t, n, domain.ScreenCategories, nil)

	// No rect captured: plain short transition, not animated.
	tr := mustGo(t, n, domain.ScreenProduct, nil)
	if tr.Animated || tr.Delay != timings.Short {
		t.Fatalf("expected short unanimated transition, got animated=%v delay=%s", tr.Animated, tr.Delay)
	}

	mustGo(t, n, domain.ScreenCategories, nil)
	n.CaptureCardRect(Rect{X: 10, Y: 20, W: 160, H: 200})

	tr = mustGo(t, n, domain.ScreenProduct, nil)
	if !tr.Animated || tr.Delay != timings.Long {
		t.Fatalf("expected long animated transition, got animated=%v delay=%s", tr.Animated, tr.Delay)
	}

	// The rect is consumed: the next product entry is plain again.
	mustGo(t, n, domain.ScreenCategories, nil)
	tr = mustGo(t, n, domain.ScreenProduct, nil)
	if tr.Animated {
		t.Fatal("card rect must be consumed by the animated transition")
	}
}

func TestSharedElementFlagClears(t *testing.T) {
	n := New(testTimings())
	defer n.Close()

	mustGo(t, n, domain.ScreenCategories, nil)
	n.CaptureCardRect(Rect{W: 100, H: 100})
	mustGo(t, n, domain.ScreenProduct, nil)

	deadline := time.Now().Add(2 * time.Second)
	for n.SharedElementActive() {
		if time.Now().After(deadline) {
			t.Fatal("shared-element flag never cleared")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPreviousScreenBookkeeping(t *testing.T) {
	n := New(testTimings())
	defer n.Close()

	mustGo(t, n, domain.ScreenCategories, nil)
	mustGo(t, n, domain.ScreenProduct, nil)
	mustGo(t, n, domain.ScreenCart, nil)

	if got := n.Previous(); got != domain.ScreenProduct {
		t.Fatalf("expected previous=product, got %s", got)
	}

	// cart → orders must not overwrite the remembered origin.
	mustGo(t, n, domain.ScreenOrders, nil)
	if got := n.Previous(); got != domain.ScreenProduct {
		t.Fatalf("orders from cart must keep previous=product, got %s", got)
	}
}

func TestBackMapping(t *testing.T) {
	n := New(testTimings())
	defer n.Close()

	mustGo(t, n, domain.ScreenCategories, nil)
	mustGo(t, n, domain.ScreenProduct, nil)
	mustGo(t, n, domain.ScreenCart, nil)

	tr, ok := n.Back()
	if !ok {
		t.Fatal("back from cart dropped")
	}
	waitIdle(t, n)
	if tr.To != domain.ScreenProduct || n.Current() != domain.ScreenProduct {
		t.Fatalf("back from cart must return to product, got %s", n.Current())
	}

	tr, ok = n.Back()
	if !ok {
		t.Fatal("back from product dropped")
	}
	waitIdle(t, n)
	if n.Current() != domain.ScreenCategories {
		t.Fatalf("back from product must return to categories, got %s", n.Current())
	}

	mustGo(t, n, domain.ScreenCart, nil)
	mustGo(t, n, domain.ScreenCheckout, nil)
	if _, ok := n.Back(); !ok {
		t.Fatal("back from checkout dropped")
	}
	waitIdle(t, n)
	if n.Current() != domain.ScreenCart {
		t.Fatalf("back from checkout must return to cart, got %s", n.Current())
	}
}

func TestBackingOutOfCheckoutKeepsCartOrigin(t *testing.T) {
	n := New(testTimings())
	defer n.Close()

	mustGo(t, n, domain.ScreenCategories, nil)
	mustGo(t, n, domain.ScreenProduct, nil)
	mustGo(t, n, domain.ScreenCart, nil)
	mustGo(t, n, domain.ScreenCheckout, nil)

	if _, ok := n.Back(); !ok {
		t.Fatal("back from checkout dropped")
	}
	waitIdle(t, n)
	if n.Current() != domain.ScreenCart {
		t.Fatalf("back from checkout must return to cart, got %s", n.Current())
	}
	if got := n.Previous(); got != domain.ScreenProduct {
		t.Fatalf("returning from checkout must keep previous=product, got %s", got)
	}

	// The second back must continue the original journey, not bounce back
	// into checkout.
	if _, ok := n.Back(); !ok {
		t.Fatal("back from cart dropped")
	}
	waitIdle(t, n)
	if n.Current() != domain.ScreenProduct {
		t.Fatalf("back from cart after checkout must return to product, got %s", n.Current())
	}
}

func TestBackFromHomeIsDropped(t *testing.T) {
	n := New(testTimings())
	defer n.Close()
	if _, ok := n.Back(); ok {
		t.Fatal("back from home must be dropped")
	}
}

func TestProfileOverlay(t *testing.T) {
	n := New(testTimings())
	defer n.Close()

	mustGo(t, n, domain.ScreenCategories, nil)

	if _, ok := n.Go(domain.ScreenProfile, nil); !ok {
		t.Fatal("profile overlay request dropped")
	}
	if !n.ProfileShown() {
		t.Fatal("profile overlay must be shown")
	}
	if got := n.Current(); got != domain.ScreenCategories {
		t.Fatalf("profile is an overlay, current must stay categories, got %s", got)
	}

	// Back dismisses the overlay without a transition.
	if _, ok := n.Back(); !ok {
		t.Fatal("back with profile shown dropped")
	}
	if n.ProfileShown() {
		t.Fatal("back must dismiss the profile overlay")
	}
	if got := n.Current(); got != domain.ScreenCategories {
		t.Fatalf("dismissing the overlay must not navigate, got %s", got)
	}
}

func TestCloseDropsFurtherTransitions(t *testing.T) {
	n := New(testTimings())
	n.Close()
	if _, ok := n.Go(domain.ScreenCategories, nil); ok {
		t.Fatal("transition after close must be dropped")
	}
	if got := n.Current(); got != domain.ScreenHome {
		t.Fatalf("closed navigator must not move, got %s", got)
	}
}

func TestCloseMidTransitionDoesNotCommit(t *testing.T) {
	timings := testTimings()
	timings.Short = 200 * time.Millisecond
	n := New(timings)

	if _, ok := n.Go(domain.ScreenCategories, nil); !ok {
		t.Fatal("transition dropped")
	}
	n.Close()

	waitIdle(t, n)
	if got := n.Current(); got != domain.ScreenHome {
		t.Fatalf("transition interrupted by close must not commit, got %s", got)
	}
}

func TestInvalidScreenIsDropped(t *testing.T) {
	n := New(testTimings())
	defer n.Close()
	if _, ok := n.Go(domain.Screen("settings"), nil); ok {
		t.Fatal("unknown screen must be dropped")
	}
}
