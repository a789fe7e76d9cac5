package notify

import "github.com/utafrali/storefront/services/storefront/internal/domain"

// AnchorSource resolves the bounds of the element a notification should be
// placed near. ok=false means the element is gone and the notification
// falls back to the stacked region.
type AnchorSource interface {
	Resolve() (bounds domain.Rect, ok bool)
}

// ViewportSource is optionally implemented by an AnchorSource that knows the
// viewport it was measured in.
type ViewportSource interface {
	Viewport() domain.Size
}

// Origin is an AnchorSource built from coordinates reported by a client.
type Origin struct {
	Bounds domain.Rect  `json:"origin"`
	View   *domain.Size `json:"viewport,omitempty"`
}

// Resolve implements AnchorSource. A zero-size box does not resolve.
func (o Origin) Resolve() (domain.Rect, bool) {
	if o.Bounds.Width <= 0 && o.Bounds.Height <= 0 {
		return domain.Rect{}, false
	}
	return o.Bounds, true
}

// Viewport implements ViewportSource.
func (o Origin) Viewport() domain.Size {
	if o.View == nil {
		return domain.Size{}
	}
	return *o.View
}

// anchorFor computes where a notification triggered by src should render.
func (m *Manager) anchorFor(src AnchorSource) (*domain.Point, domain.Placement) {
	if src == nil {
		return nil, domain.PlacementStacked
	}
	bounds, ok := src.Resolve()
	if !ok {
		return nil, domain.PlacementStacked
	}

	vp := m.opts.Viewport
	if vs, ok := src.(ViewportSource); ok {
		if v := vs.Viewport(); v.Width > 0 {
			vp = v
		}
	}

	if vp.Width < m.opts.MobileBreakpoint {
		return &domain.Point{X: vp.Width / 2, Y: vp.Height - m.opts.MobileBottomInset}, domain.PlacementBottomCenter
	}
	return &domain.Point{X: bounds.CenterX(), Y: bounds.Bottom() + m.opts.AnchorOffset}, domain.PlacementAnchored
}
