package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"surf-storefront/internal/domain"
	"surf-storefront/internal/repository/kv"
)

const mirrorTimeout = 2 * time.Second

// Store holds one session's cart lines. Mutations never fail in the business
// sense; the KV mirror is written best-effort off the hot path and callers do
// not wait for it.
type Store struct {
	mu        sync.Mutex
	sessionID string
	lines     []domain.CartLine
	mirror    kv.Store
	logger    *log.Logger

	mirrorSeq uint64 // guarded by mu: last snapshot taken
	mirrorMu  sync.Mutex
	savedSeq  uint64 // guarded by mirrorMu: last snapshot written
}

// New builds an empty Store for a session. mirror may be nil.
func New(sessionID string, mirror kv.Store, logger *log.Logger) *Store {
	return &Store{sessionID: sessionID, mirror: mirror, logger: logger}
}

// Restore builds a Store preloaded from the mirror. A missing or unreadable
// snapshot yields an empty cart, never an error.
func Restore(ctx context.Context, sessionID string, mirror kv.Store, logger *log.Logger) *Store {
	s := New(sessionID, mirror, logger)
	if mirror == nil {
		return s
	}
	data, err := mirror.Load(ctx, s.mirrorKey())
	if err != nil {
		return s
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		if logger != nil {
			logger.Printf("cart %s: discarding unreadable mirror snapshot: %v", sessionID, err)
		}
		return s
	}
	s.lines = lines
	return s
}

// Stored reports whether the mirror holds a snapshot for the session.
func Stored(ctx context.Context, sessionID string, mirror kv.Store) bool {
	if mirror == nil {
		return false
	}
	s := Store{sessionID: sessionID}
	_, err := mirror.Load(ctx, s.mirrorKey())
	return err == nil
}

// Add merges the line into an existing one with the same product, size and
// options, or appends it. Quantity below 1 is coerced to 1.
func (s *Store) Add(line domain.CartLine) domain.CartLine {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if line.ID == "" {
		line.ID = uuid.NewString()
	}

	s.mu.Lock()
	key := line.MergeKey()
	for i := range s.lines {
		if s.lines[i].MergeKey() == key {
			s.lines[i].Quantity += line.Quantity
			merged := s.lines[i]
			s.mu.Unlock()
			s.mirrorState()
			return merged
		}
	}
	s.lines = append(s.lines, line)
	s.mu.Unlock()
	s.mirrorState()
	return line
}

// Remove deletes the line with the given id; absent ids are a no-op.
func (s *Store) Remove(lineID string) {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.mirrorState()
}

// UpdateQuantity sets the line's quantity. Values below 1 are rejected
// silently: deleting a line is an explicit Remove, never a side effect of a
// decrement racing past zero.
func (s *Store) UpdateQuantity(lineID string, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.mirrorState()
}

// Clear empties the cart and updates the mirror.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.mirrorState()
}

// Lines returns a value copy of the cart contents.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TotalItems is the sum of line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of line totals in minor units.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, l := range s.lines {
		total += l.Total()
	}
	return total
}

func (s *Store) snapshotLocked() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	for i, l := range s.lines {
		l.Options = append([]string(nil), l.Options...)
		out[i] = l
	}
	return out
}

func (s *Store) mirrorKey() string {
	return "cart:" + s.sessionID
}

// mirrorState writes the current snapshot off the hot path. Writes are
// sequenced so concurrent mutations can never leave an older snapshot as the
// last one persisted.
func (s *Store) mirrorState() {
	if s.mirror == nil {
		return
	}
	s.mu.Lock()
	s.mirrorSeq++
	seq := s.mirrorSeq
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	go func() {
		s.mirrorMu.Lock()
		defer s.mirrorMu.Unlock()
		if seq <= s.savedSeq {
			// A newer snapshot already landed.
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		data, err := json.Marshal(snapshot)
		if err == nil {
			err = s.mirror.Save(ctx, s.mirrorKey(), data)
		}
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("cart %s: mirror save failed: %v", s.sessionID, err)
			}
			return
		}
		s.savedSeq = seq
	}()
}
