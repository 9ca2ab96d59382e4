package profile

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"surf-storefront/internal/repository/kv"
)

const mirrorTimeout = 2 * time.Second

// Flags are the handful of per-session values the profile overlay shows and
// the storefront wants back across reloads.
type Flags struct {
	Name            string `json:"name,omitempty"`
	Address         string `json:"address,omitempty"`
	LastOrderNumber string `json:"lastOrderNumber,omitempty"`
	LastETAMinutes  int    `json:"lastEtaMinutes,omitempty"`
}

// Store holds one session's profile flags with a best-effort KV mirror.
type Store struct {
	mu        sync.Mutex
	sessionID string
	flags     Flags
	mirror    kv.Store
	logger    *log.Logger

	mirrorSeq uint64 // guarded by mu: last snapshot taken
	mirrorMu  sync.Mutex
	savedSeq  uint64 // guarded by mirrorMu: last snapshot written
}

// Restore builds a Store preloaded from the mirror; absence means defaults.
func Restore(ctx context.Context, sessionID string, mirror kv.Store, logger *log.Logger) *Store {
	s := &Store{sessionID: sessionID, mirror: mirror, logger: logger}
	if mirror == nil {
		return s
	}
	data, err := mirror.Load(ctx, s.mirrorKey())
	if err != nil {
		return s
	}
	var flags Flags
	if err := json.Unmarshal(data, &flags); err == nil {
		s.flags = flags
	}
	return s
}

// Stored reports whether the mirror holds flags for the session.
func Stored(ctx context.Context, sessionID string, mirror kv.Store) bool {
	if mirror == nil {
		return false
	}
	s := Store{sessionID: sessionID}
	_, err := mirror.Load(ctx, s.mirrorKey())
	return err == nil
}

func (s *Store) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

// Update applies the given fields; empty strings leave existing values alone.
func (s *Store) Update(f Flags) Flags {
	s.mu.Lock()
	if f.Name != "" {
		s.flags.Name = f.Name
	}
	if f.Address != "" {
		s.flags.Address = f.Address
	}
	if f.LastOrderNumber != "" {
		s.flags.LastOrderNumber = f.LastOrderNumber
	}
	if f.LastETAMinutes != 0 {
		s.flags.LastETAMinutes = f.LastETAMinutes
	}
	out := s.flags
	s.mu.Unlock()
	s.mirrorState()
	return out
}

// SetLastOrder records the most recent placed order for the profile overlay.
func (s *Store) SetLastOrder(number string, etaMinutes int) {
	s.mu.Lock()
	s.flags.LastOrderNumber = number
	s.flags.LastETAMinutes = etaMinutes
	s.mu.Unlock()
	s.mirrorState()
}

func (s *Store) mirrorKey() string {
	return "profile:" + s.sessionID
}

// mirrorState writes the current flags off the hot path, sequenced like the
// cart mirror so the last persisted snapshot is always the newest one.
func (s *Store) mirrorState() {
	if s.mirror == nil {
		return
	}
	s.mu.Lock()
	s.mirrorSeq++
	seq := s.mirrorSeq
	flags := s.flags
	s.mu.Unlock()

	go func() {
		s.mirrorMu.Lock()
		defer s.mirrorMu.Unlock()
		if seq <= s.savedSeq {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		data, err := json.Marshal(flags)
		if err == nil {
			err = s.mirror.Save(ctx, s.mirrorKey(), data)
		}
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("profile %s: mirror save failed: %v", s.sessionID, err)
			}
			return
		}
		s.savedSeq = seq
	}()
}
