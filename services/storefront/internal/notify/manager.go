// Package notify holds the per-session queue of ephemeral notifications,
// their dismissal timers and their screen anchors.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/services/storefront/internal/domain"
)

// Default lifetimes in milliseconds.
const (
	DefaultDurationMs = 4000
	ErrorDurationMs   = 6000
	AddedDurationMs   = 2000
)

// Spec describes a notification to enqueue. A nil DurationMs selects
// DefaultDurationMs; a zero value keeps the notification until dismissed.
type Spec struct {
	Kind       domain.NotificationKind
	Title      string
	Message    string
	DurationMs *int
	Anchor     AnchorSource
	Action     *domain.Action
}

// Duration is a helper for filling Spec.DurationMs.
func Duration(ms int) *int { return &ms }

// Options configure a Manager. Zero fields take their defaults.
type Options struct {
	Logger    *slog.Logger
	Scheduler Scheduler
	Now       func() time.Time

	// Viewport is assumed when an anchor source does not report its own.
	Viewport          domain.Size
	MobileBreakpoint  float64
	AnchorOffset      float64
	MobileBottomInset float64
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Scheduler == nil {
		o.Scheduler = TimerScheduler{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Viewport.Width <= 0 {
		o.Viewport = domain.Size{Width: 1280, Height: 800}
	}
	if o.MobileBreakpoint <= 0 {
		o.MobileBreakpoint = 640
	}
	if o.AnchorOffset == 0 {
		o.AnchorOffset = 10
	}
	if o.MobileBottomInset == 0 {
		o.MobileBottomInset = 100
	}
	return o
}

type entry struct {
	n      domain.Notification
	cancel CancelHandle
}

// Manager is an ordered set of live notifications. It is safe for
// concurrent use; timer callbacks and callers share one lock.
type Manager struct {
	opts Options

	mu      sync.Mutex
	order   []string
	entries map[string]*entry
}

// NewManager creates an empty Manager.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:    opts.withDefaults(),
		entries: make(map[string]*entry),
	}
}

// Add enqueues a notification and returns its id. Positive durations arm a
// one-shot dismissal timer.
func (m *Manager) Add(s Spec) string {
	kind := s.Kind
	if !kind.IsValid() {
		kind = domain.KindInfo
	}
	dur := DefaultDurationMs
	if s.DurationMs != nil {
		dur = max(*s.DurationMs, 0)
	}
	anchor, placement := m.anchorFor(s.Anchor)

	n := domain.Notification{
		ID:         uuid.NewString(),
		Kind:       kind,
		Title:      s.Title,
		Message:    s.Message,
		DurationMs: dur,
		Anchor:     anchor,
		Placement:  placement,
		Action:     s.Action,
		CreatedAt:  m.opts.Now().UTC(),
	}

	m.mu.Lock()
	e := &entry{n: n}
	m.entries[n.ID] = e
	m.order = append(m.order, n.ID)
	if dur > 0 {
		id := n.ID
		e.cancel = m.opts.Scheduler.Schedule(time.Duration(dur)*time.Millisecond, func() {
			m.expire(id)
		})
	}
	m.mu.Unlock()

	notificationsActive.Inc()
	m.opts.Logger.Debug("notification added",
		slog.String("notification_id", n.ID),
		slog.String("kind", string(kind)),
		slog.Int("duration_ms", dur),
		slog.String("placement", string(placement)),
	)
	return n.ID
}

// Remove dismisses the notification and cancels its timer. Unknown ids are
// ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok {
		m.drop(id)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	if e.cancel != nil {
		e.cancel.Cancel()
	}
	notificationsActive.Dec()
}

// ClearAll dismisses every notification and cancels every timer.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	dropped := make([]*entry, 0, len(m.entries))
	for _, id := range m.order {
		dropped = append(dropped, m.entries[id])
	}
	m.order = nil
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range dropped {
		if e.cancel != nil {
			e.cancel.Cancel()
		}
	}
	notificationsActive.Sub(float64(len(dropped)))
}

// expire is the timer callback. It is a no-op once the id is gone.
func (m *Manager) expire(id string) {
	m.mu.Lock()
	_, ok := m.entries[id]
	if ok {
		m.drop(id)
	}
	m.mu.Unlock()

	if ok {
		notificationsActive.Dec()
		m.opts.Logger.Debug("notification expired", slog.String("notification_id", id))
	}
}

// drop must be called with m.mu held.
func (m *Manager) drop(id string) {
	delete(m.entries, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Active returns the live notifications in arrival order.
func (m *Manager) Active() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Notification, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id].n)
	}
	return out
}

// Len returns the number of live notifications.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Partitioned splits live notifications by how the UI renders them.
type Partitioned struct {
	Anchored []domain.Notification `json:"anchored"`
	Stacked  []domain.Notification `json:"stacked"`
}

// Partition returns anchored and stacked notifications, each in arrival
// order.
func (m *Manager) Partition() Partitioned {
	p := Partitioned{Anchored: []domain.Notification{}, Stacked: []domain.Notification{}}
	for _, n := range m.Active() {
		if n.Anchored() {
			p.Anchored = append(p.Anchored, n)
		} else {
			p.Stacked = append(p.Stacked, n)
		}
	}
	return p
}

// Invoke runs the notification's action and dismisses it. It reports false
// when the id is unknown or carries no action.
// The notification is dequeued before the action runs, so concurrent calls
// for one id run the action at most once.
func (m *Manager) Invoke(id string) bool {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok || e.n.Action == nil {
		m.mu.Unlock()
		return false
	}
	m.drop(id)
	m.mu.Unlock()

	if e.cancel != nil {
		e.cancel.Cancel()
	}
	notificationsActive.Dec()

	if e.n.Action.Invoke != nil {
		e.n.Action.Invoke()
	}
	return true
}

// Success enqueues a success notification with the default lifetime.
func (m *Manager) Success(title, message string, action *domain.Action) string {
	return m.Add(Spec{Kind: domain.KindSuccess, Title: title, Message: message, Action: action})
}

// Error enqueues an error notification that stays for six seconds.
func (m *Manager) Error(title, message string, action *domain.Action) string {
	return m.Add(Spec{Kind: domain.KindError, Title: title, Message: message, Action: action, DurationMs: Duration(ErrorDurationMs)})
}

// Warning enqueues a warning notification with the default lifetime.
func (m *Manager) Warning(title, message string, action *domain.Action) string {
	return m.Add(Spec{Kind: domain.KindWarning, Title: title, Message: message, Action: action})
}

// Info enqueues an info notification with the default lifetime.
func (m *Manager) Info(title, message string, action *domain.Action) string {
	return m.Add(Spec{Kind: domain.KindInfo, Title: title, Message: message, Action: action})
}

// AddedToCart confirms a cart addition.
func (m *Manager) AddedToCart(origin AnchorSource) string {
	return m.Add(Spec{Kind: domain.KindSuccess, Title: "Added to cart", DurationMs: Duration(AddedDurationMs), Anchor: origin})
}

// AddedToWishlist confirms a wishlist addition.
func (m *Manager) AddedToWishlist(origin AnchorSource) string {
	return m.Add(Spec{Kind: domain.KindSuccess, Title: "Added to wishlist", DurationMs: Duration(AddedDurationMs), Anchor: origin})
}
