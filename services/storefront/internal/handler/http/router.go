package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/services/storefront/internal/service"
)

// RouterConfig holds the edge settings of the API.
type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// NewRouter creates a chi router with all storefront routes registered.
// Background work started by the router stops when ctx is done.
func NewRouter(
	ctx context.Context,
	svc *service.Storefront,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	h := NewHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(SessionFromHeader)
			r.Use(RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/toggle", h.ToggleCart)
				r.Post("/items", h.AddToCart)
				r.Put("/items/{productId}", h.UpdateQuantity)
				r.Delete("/items/{productId}", h.RemoveFromCart)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.GetWishlist)
				r.Delete("/", h.ClearWishlist)
				r.Post("/items", h.AddToWishlist)
				r.Get("/items/{productId}", h.IsInWishlist)
				r.Delete("/items/{productId}", h.RemoveFromWishlist)
				r.Post("/items/{productId}/move-to-cart", h.MoveToCart)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.ListNotifications)
				r.Post("/", h.Notify)
				r.Delete("/", h.ClearNotifications)
				r.Post("/{id}/action", h.InvokeAction)
				r.Delete("/{id}", h.DismissNotification)
			})
		})
	})

	return r
}
