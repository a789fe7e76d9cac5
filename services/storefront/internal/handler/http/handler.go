package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
	"github.com/utafrali/storefront/services/storefront/internal/domain"
	"github.com/utafrali/storefront/services/storefront/internal/notify"
	"github.com/utafrali/storefront/services/storefront/internal/service"
)

// Handler serves the storefront API.
type Handler struct {
	service *service.Storefront
	logger  *slog.Logger
}

// NewHandler creates a new storefront HTTP handler.
func NewHandler(svc *service.Storefront, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// originRequest carries the bounds of the element that triggered an
// action, measured in the client's viewport.
type originRequest struct {
	Origin   *domain.Rect `json:"origin,omitempty"`
	Viewport *domain.Size `json:"viewport,omitempty"`
}

func (o originRequest) anchor() notify.AnchorSource {
	if o.Origin == nil {
		return nil
	}
	return notify.Origin{Bounds: *o.Origin, View: o.Viewport}
}

// decode reads an optional JSON body into dst and validates it. An empty
// body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return validator.Validate(dst)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return validator.Validate(dst)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteError(w, r, err, h.logger)
}
