// Package auth carries the caller's identity through the request context.
// Identity is asserted by the upstream gateway in request headers; this
// service only checks that it is present.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"bookstore/internal/model"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin = "admin"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller may administer the catalogue and orders.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type ctxKey int

const identityKey ctxKey = 1

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Authenticate rejects requests without a user id header and stores the
// caller's identity in the request context.
func Authenticate(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if userID == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing user identity")
				deny(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised: missing user identity")
				return
			}

			id := Identity{
				UserID: userID,
				Role:   strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin rejects callers that are not administrators. It must run
// after Authenticate.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok || !id.IsAdmin() {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("user_id", id.UserID).
					Msg("admin access denied")
				deny(w, r, http.StatusForbidden, model.ErrForbidden.Code, model.ErrForbidden.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.GetReqID(r.Context()),
	})
}
