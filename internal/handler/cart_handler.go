package handler

import (
	"net/http"

	"bookstore/internal/model"
	"bookstore/internal/service"
	"bookstore/internal/validate"

	"github.com/rs/zerolog"
)

// CartHandler handles shopping cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// View handles GET /api/cart requests.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, view, h.logger)
}

// Add handles POST /api/cart/add/{book_id} requests. The body is optional
// and defaults to a quantity of one.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	bookID, err := int64Param(r, "book_id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.AddToCartRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if err := validate.Check(req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	item, err := h.service.Add(r.Context(), userID(r), bookID, req.Quantity)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, item, h.logger)
}

// UpdateItem handles POST /api/cart/item/{item_id} requests. A quantity of
// zero or less, or an empty body, removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := int64Param(r, "item_id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if err := validate.Check(req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), userID(r), itemID, req.Quantity); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/item/{item_id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := int64Param(r, "item_id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), userID(r), itemID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
