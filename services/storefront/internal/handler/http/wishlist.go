package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/pkg/httputil"
)

// AddToWishlistRequest is the JSON request body for saving a product.
type AddToWishlistRequest struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	originRequest
}

// MoveToCartRequest is the optional JSON body of a move-to-cart call.
type MoveToCartRequest struct {
	originRequest
}

// GetWishlist handles GET /api/v1/wishlist
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.GetWishlist(r.Context(), sessionFromContext(r.Context())))
}

// AddToWishlist handles POST /api/v1/wishlist/items. A product that is
// already saved answers 200 instead of 201.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req AddToWishlistRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	sid := sessionFromContext(r.Context())
	added, err := h.service.AddToWishlist(r.Context(), sid, req.ProductID, req.anchor())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	httputil.WriteData(w, status, h.service.GetWishlist(r.Context(), sid))
}

// IsInWishlist handles GET /api/v1/wishlist/items/{productId}
func (h *Handler) IsInWishlist(w http.ResponseWriter, r *http.Request) {
	saved := h.service.IsInWishlist(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "productId"))
	httputil.WriteData(w, http.StatusOK, map[string]bool{"inWishlist": saved})
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/items/{productId}
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	sid := sessionFromContext(r.Context())
	h.service.RemoveFromWishlist(r.Context(), sid, chi.URLParam(r, "productId"))
	httputil.WriteData(w, http.StatusOK, h.service.GetWishlist(r.Context(), sid))
}

// MoveToCart handles POST /api/v1/wishlist/items/{productId}/move-to-cart
func (h *Handler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	var req MoveToCartRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.service.MoveToCart(r.Context(), sessionFromContext(r.Context()), chi.URLParam(r, "productId"), req.anchor())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	h.service.ClearWishlist(r.Context(), sessionFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
