package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore/internal/auth"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_PerClientBuckets(t *testing.T) {
	limiter := NewLimiter(1, 2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("alice"))
	assert.True(t, limiter.Allow("alice"))
	assert.False(t, limiter.Allow("alice"), "burst exhausted")
	assert.True(t, limiter.Allow("bob"), "other clients are unaffected")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("alice"), "one token refilled")
}

func TestLimiter_EvictsIdleClients(t *testing.T) {
	limiter := NewLimiter(1, 1, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("alice")
	limiter.Allow("bob")
	assert.Len(t, limiter.clients, 2)

	now = now.Add(2 * time.Minute)
	limiter.Allow("bob")

	assert.Len(t, limiter.clients, 1)
	assert.Contains(t, limiter.clients, "bob")
}

func TestRateLimit(t *testing.T) {
	logger := zerolog.Nop()
	limiter := NewLimiter(0.001, 1, time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := auth.Authenticate(logger)(RateLimit(limiter, logger)(next))

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
		req.Header.Set(auth.HeaderUserID, user)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusOK, send("bob"))
}
