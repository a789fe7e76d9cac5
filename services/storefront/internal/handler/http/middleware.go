package http

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/middleware"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// sessionIDKey is the context key for the resolved shopper session.
const sessionIDKey contextKey = "session_id"

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// SessionFromHeader resolves the shopper session from the X-Session-ID
// header. A request without one starts a new session; its id is returned in
// the X-Session-ID response header so the client can reuse it.
func SessionFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get(middleware.HeaderSessionID))
		ctx := r.Context()
		switch {
		case sid == "":
			sid = uuid.NewString()
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("session_id", sid)))
		case !validSessionID.MatchString(sid):
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "malformed X-Session-ID header"},
			})
			return
		}
		w.Header().Set(middleware.HeaderSessionID, sid)

		ctx = logger.WithSessionID(ctx, sid)
		ctx = context.WithValue(ctx, sessionIDKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromContext returns the session resolved by SessionFromHeader.
func sessionFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
