package handler

import (
	"net/http"

	"bookstore/internal/model"
	"bookstore/internal/service"

	"github.com/rs/zerolog"
)

// BookHandler handles catalogue HTTP requests.
type BookHandler struct {
	service service.BookService
	logger  zerolog.Logger
}

// NewBookHandler creates a new book handler.
func NewBookHandler(service service.BookService, logger zerolog.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		logger:  logger.With().Str("handler", "book").Logger(),
	}
}

// List handles GET /api/books?limit=&offset= requests.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, books, h.logger)
}

// Get handles GET /api/books/{id} requests.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, book, h.logger)
}

// Create handles POST /api/books requests.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.BookInput
	if err := decodeJSON(r, &in, false); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	book, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, r, http.StatusCreated, book, h.logger)
}

// Update handles PUT /api/books/{id} requests.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var in model.BookInput
	if err := decodeJSON(r, &in, false); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	book, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, book, h.logger)
}

// Delete handles DELETE /api/books/{id} requests.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
