package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/domain"
)

func TestIPLimiter_PerIPBucketsAndSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	// other clients have their own bucket
	assert.True(t, l.Allow("2.2.2.2"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"))

	now = now.Add(11 * time.Minute)
	l.Allow("3.3.3.3")
	l.mu.Lock()
	_, kept := l.visitors["2.2.2.2"]
	l.mu.Unlock()
	assert.False(t, kept, "idle visitor should be swept")
}

type authFunc func(ctx context.Context, access string) (int64, error)

func (f authFunc) Authenticate(ctx context.Context, access string) (int64, error) { return f(ctx, access) }

func TestBearerAuth(t *testing.T) {
	a := authFunc(func(_ context.Context, access string) (int64, error) {
		switch access {
		case "ok":
			return 42, nil
		case "boom":
			return 0, errors.New("db down")
		}
		return 0, domain.ErrInvalidToken
	})
	var seen int64
	h := BearerAuth(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		header string
		status int
		user   int64
	}{
		{"", http.StatusNoContent, 0},
		{"Bearer ok", http.StatusNoContent, 42},
		{"Token ok", http.StatusUnauthorized, 0},
		{"Bearer bad", http.StatusUnauthorized, 0},
		{"Bearer boom", http.StatusInternalServerError, 0},
	}
	for _, tc := range cases {
		seen = 0
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, tc.status, rr.Code, tc.header)
		assert.Equal(t, tc.user, seen, tc.header)
	}
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	h := RateLimit(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 20; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login/", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRateLimit_KeysOnRemoteAddr(t *testing.T) {
	h := RateLimit(NewIPLimiter(0.001, 1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	send := func(addr, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/login/", nil)
		req.RemoteAddr = addr
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, send("192.0.2.7:40000", "10.0.0.1"))
	// a fresh header or source port does not buy a fresh bucket
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.7:40001", "10.0.0.2"))
	assert.Equal(t, http.StatusOK, send("192.0.2.8:40000", "10.0.0.1"))
}
