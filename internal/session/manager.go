package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"surf-storefront/internal/cart"
	"surf-storefront/internal/checkout"
	"surf-storefront/internal/domain"
	"surf-storefront/internal/host"
	"surf-storefront/internal/navigator"
	"surf-storefront/internal/orders"
	"surf-storefront/internal/profile"
	"surf-storefront/internal/repository/kv"
)

// Config tunes the per-session state machines and the idle eviction.
type Config struct {
	Timings  navigator.Timings
	Checkout checkout.Config
	TTL      time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timings:  navigator.DefaultTimings(),
		Checkout: checkout.DefaultConfig(),
		TTL:      30 * time.Minute,
	}
}

// Deps are the external collaborators shared by all sessions. Any of them may
// be nil; sessions then run memory-only.
type Deps struct {
	KV        kv.Store
	History   orders.History
	Publisher orders.Publisher
	Logger    *log.Logger
}

// Manager owns the live sessions and evicts the ones idle past the TTL.
type Manager struct {
	cfg  Config
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewManager(cfg Config, deps Deps) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	m := &Manager{
		cfg:      cfg,
		deps:     deps,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.evictLoop()
	return m
}

// Create registers a new session, restoring the cart and profile mirrors when
// the KV collaborator has them.
func (m *Manager) Create(ctx context.Context, hostCtx host.Context) *Session {
	s := m.build(ctx, uuid.NewString(), hostCtx)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) build(ctx context.Context, id string, hostCtx host.Context) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		Host:        hostCtx.Normalize(),
		Cart:        cart.Restore(ctx, id, m.deps.KV, m.deps.Logger),
		Nav:         navigator.New(m.cfg.Timings),
		Orders:      orders.New(id, m.deps.History, m.deps.Publisher, m.deps.Logger),
		Profile:     profile.Restore(ctx, id, m.deps.KV, m.deps.Logger),
		checkoutCfg: m.cfg.Checkout,
		createdAt:   now,
		lastSeen:    now,
	}
}

// Get returns the session by id, refreshing its idle clock. An id that is not
// in memory but left a KV mirror, after an eviction or a process restart,
// comes back as a rebuilt session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(time.Now())
		return s, nil
	}
	return m.restore(ctx, id)
}

func (m *Manager) restore(ctx context.Context, id string) (*Session, error) {
	if m.deps.KV == nil {
		return nil, domain.ErrNotFound
	}
	if !cart.Stored(ctx, id, m.deps.KV) && !profile.Stored(ctx, id, m.deps.KV) {
		return nil, domain.ErrNotFound
	}
	// The host shell context is not mirrored; the rebuilt session runs on
	// defaults until the client registers again.
	s := m.build(ctx, id, host.Context{})

	m.mu.Lock()
	if live, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		s.Close()
		live.touch(time.Now())
		return live, nil
	}
	m.sessions[id] = s
	m.mu.Unlock()
	if m.deps.Logger != nil {
		m.deps.Logger.Printf("session %s restored from mirror", id)
	}
	return s, nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) evictLoop() {
	defer m.wg.Done()
	interval := m.cfg.TTL / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.evictExpired(time.Now())
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) evictExpired(now time.Time) {
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.expired(now, m.cfg.TTL) {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()
	for _, s := range expired {
		s.Close()
		if m.deps.Logger != nil {
			m.deps.Logger.Printf("session %s evicted after %s idle", s.ID, m.cfg.TTL)
		}
	}
}

// Close stops eviction and releases every live session.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	m.wg.Wait()

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		delete(m.sessions, id)
		sessions = append(sessions, s)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
