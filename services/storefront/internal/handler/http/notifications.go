package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/services/storefront/internal/domain"
	"github.com/utafrali/storefront/services/storefront/internal/service"
)

// NotifyRequest is the JSON request body for raising a notification.
type NotifyRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=success error warning info"`
	Title      string `json:"title" validate:"required,max=200"`
	Message    string `json:"message" validate:"max=1000"`
	DurationMs *int   `json:"durationMs" validate:"omitempty,gte=0,lte=600000"`
}

// ListNotifications handles GET /api/v1/notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Notifications(r.Context(), sessionFromContext(r.Context())))
}

// Notify handles POST /api/v1/notifications
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.service.Notify(r.Context(), sessionFromContext(r.Context()), service.NotifyInput{
		Kind:       domain.NotificationKind(req.Kind),
		Title:      req.Title,
		Message:    req.Message,
		DurationMs: req.DurationMs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, map[string]string{"id": id})
}

// InvokeAction handles POST /api/v1/notifications/{id}/action
func (h *Handler) InvokeAction(w http.ResponseWriter, r *http.Request) {
	if err := h.service.InvokeAction(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DismissNotification handles DELETE /api/v1/notifications/{id}
func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	h.service.DismissNotification(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearNotifications handles DELETE /api/v1/notifications
func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	h.service.ClearNotifications(r.Context(), sessionFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
