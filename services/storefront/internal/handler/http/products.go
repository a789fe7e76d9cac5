package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/services/storefront/internal/query"
)

// ListProducts handles GET /api/v1/products?category=&search=&sort=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.ListProducts(r.Context(), query.ParseParams(r.URL.Query()))
	httputil.WriteData(w, http.StatusOK, products)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}
