package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		userID         string
		role           string
		expectedStatus int
		expectedID     Identity
	}{
		{
			name:           "Customer identity",
			userID:         "alice",
			expectedStatus: http.StatusOK,
			expectedID:     Identity{UserID: "alice"},
		},
		{
			name:           "Admin identity, role is case-insensitive",
			userID:         "root",
			role:           "Admin",
			expectedStatus: http.StatusOK,
			expectedID:     Identity{UserID: "root", Role: RoleAdmin},
		},
		{
			name:           "Missing user id",
			userID:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Blank user id",
			userID:         "   ",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Identity
			handler := Authenticate(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var ok bool
				got, ok = FromContext(r.Context())
				require.True(t, ok)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedID, got)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	logger := zerolog.Nop()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Authenticate(logger)(RequireAdmin(logger)(next))

	t.Run("Admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		req.Header.Set(HeaderUserID, "root")
		req.Header.Set(HeaderUserRole, "admin")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Customer is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		req.Header.Set(HeaderUserID, "alice")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeForbidden, resp.Error)
	})

	t.Run("No identity is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		w := httptest.NewRecorder()

		RequireAdmin(logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
