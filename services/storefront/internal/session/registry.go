// Package session maps shopper session ids to their cart, wishlist and
// notification manager.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/services/storefront/internal/notify"
	"github.com/utafrali/storefront/services/storefront/internal/storage"
	"github.com/utafrali/storefront/services/storefront/internal/store"
)

// Session is the state owned by one shopper.
type Session struct {
	ID            string
	Cart          *store.Cart
	Wishlist      *store.Wishlist
	Notifications *notify.Manager

	lastSeen time.Time
}

// Options configure a Registry.
type Options struct {
	// Storage is shared by every session; keys are namespaced per session.
	Storage storage.Storage
	// Notify is the template for every session's notification manager.
	Notify notify.Options
	Logger *slog.Logger
	// IdleTTL evicts sessions not seen for longer than this.
	IdleTTL time.Duration
}

// Registry creates sessions lazily and evicts idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	storage storage.Storage
	notify  notify.Options
	logger  *slog.Logger
	ttl     time.Duration
	nowFunc func() time.Time // injectable clock for testing
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = time.Hour
	}
	if opts.Notify.Logger == nil {
		opts.Notify.Logger = opts.Logger
	}
	return &Registry{
		sessions: make(map[string]*Session),
		storage:  opts.Storage,
		notify:   opts.Notify,
		logger:   opts.Logger,
		ttl:      opts.IdleTTL,
		nowFunc:  time.Now,
	}
}

// Get returns the session for id, creating it and restoring its persisted
// collections on first use.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.nowFunc()
		r.mu.Unlock()
		return s
	}
	r.mu.Unlock()

	s := r.build(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[id]; ok {
		existing.lastSeen = r.nowFunc()
		return existing
	}
	s.lastSeen = r.nowFunc()
	r.sessions[id] = s
	r.logger.InfoContext(ctx, "session created", slog.String("session", id))
	return s
}

func (r *Registry) build(ctx context.Context, id string) *Session {
	logger := r.logger.With(slog.String("session", id))

	nopts := r.notify
	nopts.Logger = logger
	n := notify.NewManager(nopts)

	var st storage.Storage
	if r.storage != nil {
		st = storage.WithPrefix(r.storage, storage.SessionPrefix(id))
	}
	sopts := store.Options{Storage: st, Notifier: n, Logger: logger}

	s := &Session{
		ID:            id,
		Cart:          store.NewCart(sopts),
		Wishlist:      store.NewWishlist(sopts),
		Notifications: n,
	}
	s.Cart.Load(ctx)
	s.Wishlist.Load(ctx)
	return s
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were evicted. Persisted collections are kept; notifications are cleared.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	now := r.nowFunc()
	var evicted []*Session
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			evicted = append(evicted, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range evicted {
		s.Notifications.ClearAll()
		r.logger.Info("session evicted", slog.String("session", s.ID))
	}
	return len(evicted)
}

// Run sweeps on every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close clears every session's notifications and drops all sessions.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Notifications.ClearAll()
	}
}

// Reset drops all sessions. It is equivalent to Close and exists for test
// lifecycles.
func (r *Registry) Reset() { r.Close() }

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
