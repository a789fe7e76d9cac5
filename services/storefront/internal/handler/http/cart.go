package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/services/storefront/internal/domain"
	"github.com/utafrali/storefront/services/storefront/internal/service"
)

// AddToCartRequest is the JSON request body for adding a product to the cart.
type AddToCartRequest struct {
	ProductID string          `json:"productId" validate:"required,max=64"`
	VariantID string          `json:"variantId" validate:"max=64"`
	Variant   *domain.Variant `json:"variant,omitempty"`
	originRequest
}

// UpdateQuantityRequest is the JSON request body for setting a row quantity.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// GetCart handles GET /api/v1/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.GetCart(r.Context(), sessionFromContext(r.Context())))
}

// AddToCart handles POST /api/v1/cart/items
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	row, err := h.service.AddToCart(r.Context(), sessionFromContext(r.Context()), service.AddToCartInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Variant:   req.Variant,
		Origin:    req.anchor(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, row)
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productId}?variant_id=
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.service.UpdateQuantity(r.Context(), sessionFromContext(r.Context()),
		chi.URLParam(r, "productId"), r.URL.Query().Get("variant_id"), *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// RemoveFromCart handles DELETE /api/v1/cart/items/{productId}?variant_id=
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	view := h.service.RemoveFromCart(r.Context(), sessionFromContext(r.Context()),
		chi.URLParam(r, "productId"), r.URL.Query().Get("variant_id"))
	httputil.WriteData(w, http.StatusOK, view)
}

// ClearCart handles DELETE /api/v1/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCart(r.Context(), sessionFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleCart handles POST /api/v1/cart/toggle
func (h *Handler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	open := h.service.ToggleCart(r.Context(), sessionFromContext(r.Context()))
	httputil.WriteData(w, http.StatusOK, map[string]bool{"isOpen": open})
}
