package cart

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"surf-storefront/internal/domain"
	"surf-storefront/internal/repository/kv"
)

func cappuccino(qty int) domain.CartLine {
	return domain.CartLine{
		ProductID: "cappuccino",
		Name:      "Cappuccino",
		Size:      "medium",
		UnitPrice: 350,
		Quantity:  qty,
	}
}

func TestAddMergesSameConfiguration(t *testing.T) {
	s := New("s1", nil, nil)
	s.Add(cappuccino(1))
	s.Add(cappuccino(2))

	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
	if got := lines[0].Total(); got != 1050 {
		t.Fatalf("expected line total 1050, got %d", got)
	}
}

func TestAddKeepsDistinctConfigurationsApart(t *testing.T) {
	s := New("s1", nil, nil)
	s.Add(cappuccino(1))

	large := cappuccino(1)
	large.Size = "large"
	large.UnitPrice = 420
	s.Add(large)

	withMilk := cappuccino(1)
	withMilk.Options = []string{"oat milk"}
	withMilk.UnitPrice = 410
	s.Add(withMilk)

	if got := len(s.Lines()); got != 3 {
		t.Fatalf("expected 3 lines, got %d", got)
	}
}

func TestAddMergesRegardlessOfOptionOrder(t *testing.T) {
	s := New("s1", nil, nil)
	a := cappuccino(1)
	a.Options = []string{"oat milk", "vanilla"}
	b := cappuccino(1)
	b.Options = []string{"vanilla", "oat milk"}

	s.Add(a)
	s.Add(b)

	if got := len(s.Lines()); got != 1 {
		t.Fatalf("expected options to merge as a set, got %d lines", got)
	}
	if got := s.TotalItems(); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	s := New("s1", nil, nil)
	line := s.Add(cappuccino(2))

	s.UpdateQuantity(line.ID, 0)
	if got := s.Lines()[0].Quantity; got != 2 {
		t.Fatalf("quantity below 1 must be rejected silently, got %d", got)
	}

	s.UpdateQuantity(line.ID, -3)
	if got := s.Lines()[0].Quantity; got != 2 {
		t.Fatalf("negative quantity must be rejected silently, got %d", got)
	}

	s.UpdateQuantity(line.ID, 5)
	if got := s.Lines()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
}

func TestRemoveIsNoopWhenAbsent(t *testing.T) {
	s := New("s1", nil, nil)
	line := s.Add(cappuccino(1))

	s.Remove("missing")
	if got := len(s.Lines()); got != 1 {
		t.Fatalf("remove of unknown id must not change the cart, got %d lines", got)
	}

	s.Remove(line.ID)
	if got := len(s.Lines()); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}
}

func TestTotalsTrackMutations(t *testing.T) {
	s := New("s1", nil, nil)
	l1 := s.Add(cappuccino(2))
	croissant := domain.CartLine{ProductID: "croissant", Name: "Butter Croissant", UnitPrice: 220, Quantity: 1}
	s.Add(croissant)

	if got := s.TotalItems(); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
	if got := s.TotalPrice(); got != 920 {
		t.Fatalf("expected total 920, got %d", got)
	}

	s.UpdateQuantity(l1.ID, 1)
	if got := s.TotalPrice(); got != 570 {
		t.Fatalf("expected total 570, got %d", got)
	}

	s.Clear()
	if s.TotalItems() != 0 || s.TotalPrice() != 0 {
		t.Fatalf("expected empty totals after clear, got %d items / %d", s.TotalItems(), s.TotalPrice())
	}
}

func TestAddCoercesZeroQuantity(t *testing.T) {
	s := New("s1", nil, nil)
	line := s.Add(cappuccino(0))
	if line.Quantity != 1 {
		t.Fatalf("expected quantity coerced to 1, got %d", line.Quantity)
	}
}

func TestMirrorAndRestore(t *testing.T) {
	store := kv.NewMemory()
	s := New("s1", store, nil)
	s.Add(cappuccino(3))

	waitForMirror(t, store, "cart:s1", func(lines []domain.CartLine) bool {
		return len(lines) == 1 && lines[0].Quantity == 3
	})

	restored := Restore(context.Background(), "s1", store, nil)
	if got := restored.TotalItems(); got != 3 {
		t.Fatalf("expected restored cart with 3 items, got %d", got)
	}

	s.Clear()
	waitForMirror(t, store, "cart:s1", func(lines []domain.CartLine) bool {
		return len(lines) == 0
	})
}

// stallingStore blocks the first Save until released so tests can order
// concurrent mirror writes adversarially.
type stallingStore struct {
	kv.Store
	mu      sync.Mutex
	stalled bool
	release chan struct{}
}

func (s *stallingStore) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	first := !s.stalled
	s.stalled = true
	s.mu.Unlock()
	if first {
		<-s.release
	}
	return s.Store.Save(ctx, key, value)
}

func TestMirrorNeverRegressesToOlderSnapshot(t *testing.T) {
	inner := kv.NewMemory()
	release := make(chan struct{})
	store := &stallingStore{Store: inner, release: release}
	s := New("s1", store, nil)

	// The first mutation's mirror write stalls inside Save; the second must
	// still end up as the last persisted snapshot.
	s.Add(cappuccino(1))
	s.Add(cappuccino(1))
	close(release)

	waitForMirror(t, inner, "cart:s1", func(lines []domain.CartLine) bool {
		return len(lines) == 1 && lines[0].Quantity == 2
	})

	// Leave room for a straggling stale write, then confirm the snapshot
	// did not regress.
	time.Sleep(20 * time.Millisecond)
	data, err := inner.Load(context.Background(), "cart:s1")
	if err != nil {
		t.Fatalf("load mirror: %v", err)
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		t.Fatalf("unmarshal mirror: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("mirror regressed to an older snapshot: %+v", lines)
	}
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	restored := Restore(context.Background(), "fresh", kv.NewMemory(), nil)
	if got := restored.TotalItems(); got != 0 {
		t.Fatalf("expected empty cart, got %d items", got)
	}
}

// waitForMirror polls the KV store until the cart snapshot matches; the
// mirror write is fire-and-forget so tests cannot assert it synchronously.
func waitForMirror(t *testing.T, store kv.Store, key string, ok func([]domain.CartLine) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, err := store.Load(context.Background(), key)
		if err == nil {
			var lines []domain.CartLine
			if json.Unmarshal(data, &lines) == nil && ok(lines) {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("mirror snapshot for %s never reached expected state", key)
}
