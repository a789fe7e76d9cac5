package domain

import "time"

// NotificationKind is the severity of a notification.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
)

// IsValid reports whether k is one of the four known kinds.
func (k NotificationKind) IsValid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	}
	return false
}

// Placement says where the UI renders a notification.
type Placement string

const (
	// PlacementStacked renders in the shared corner stack, in arrival order.
	PlacementStacked Placement = "stacked"
	// PlacementAnchored renders below the element that triggered it.
	PlacementAnchored Placement = "anchored"
	// PlacementBottomCenter renders near the bottom of a narrow viewport.
	PlacementBottomCenter Placement = "bottom-center"
)

// Point is a screen coordinate in logical pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an element's bounding box in logical pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the x coordinate of the horizontal center.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// Size is a viewport size in logical pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Action is an optional button attached to a notification.
type Action struct {
	Label  string `json:"label"`
	Invoke func() `json:"-"`
}

// Notification is an ephemeral toast. DurationMs of 0 means it stays until
// dismissed.
type Notification struct {
	ID         string           `json:"id"`
	Kind       NotificationKind `json:"kind"`
	Title      string           `json:"title"`
	Message    string           `json:"message,omitempty"`
	DurationMs int              `json:"durationMs"`
	Anchor     *Point           `json:"anchor,omitempty"`
	Placement  Placement        `json:"placement"`
	Action     *Action          `json:"action,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Anchored reports whether the notification renders at its own coordinates.
func (n Notification) Anchored() bool { return n.Anchor != nil }
