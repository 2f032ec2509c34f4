package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"bookstore/internal/auth"
	"bookstore/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// statusByCode maps domain error codes to HTTP status codes.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:       http.StatusBadRequest,
	model.ErrCodeInvalidID:         http.StatusBadRequest,
	model.ErrCodeValidationFailed:  http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:   http.StatusBadRequest,
	model.ErrCodeBookNotFound:      http.StatusNotFound,
	model.ErrCodeCartItemNotFound:  http.StatusNotFound,
	model.ErrCodeOrderNotFound:     http.StatusNotFound,
	model.ErrCodeEmptyCart:         http.StatusUnprocessableEntity,
	model.ErrCodeForbidden:         http.StatusForbidden,
	model.ErrCodeUnauthorised:      http.StatusUnauthorized,
	model.ErrCodeInvalidTransition: http.StatusConflict,
	model.ErrCodeOrderTooLarge:     http.StatusUnprocessableEntity,
}

// writeJSON writes a JSON response with the given status code. The status
// is already sent when encoding starts, so a failure there is logged only.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Msg("failed to encode response")
	}
}

// writeError maps err to a status code and writes a standard error body.
// Errors that are not domain errors are reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	reqID := middleware.GetReqID(r.Context())

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		logger.Debug().
			Str("code", domainErr.Code).
			Int("status", status).
			Str("request_id", reqID).
			Msg("request rejected")
		writeJSON(w, r, status, model.ErrorResponse{
			Error:         domainErr.Code,
			Message:       domainErr.Message,
			CorrelationID: reqID,
		}, logger)
		return
	}

	logger.Error().Err(err).Str("request_id", reqID).Msg("handler error")
	writeJSON(w, r, http.StatusInternalServerError, model.ErrorResponse{
		Error:         model.ErrCodeInternalError,
		Message:       "internal server error",
		CorrelationID: reqID,
	}, logger)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when optional is true.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
}

// int64Param parses a positive integer URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewDomainError(model.ErrCodeInvalidID, "invalid "+name)
	}
	return id, nil
}

// uuidParam parses a UUID URL parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, model.NewDomainError(model.ErrCodeInvalidID, "invalid "+name)
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// userID returns the authenticated caller. The router guarantees presence.
func userID(r *http.Request) string {
	id, _ := auth.FromContext(r.Context())
	return id.UserID
}
