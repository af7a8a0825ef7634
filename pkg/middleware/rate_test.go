package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful/pkg/middleware"
)

func hit(handler http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.RemoteAddr = ip
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitEnforcesBudget(t *testing.T) {
	limited := middleware.RateLimit(3, time.Minute)(okHandler())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(limited, "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "10.0.0.1:1234"))

	// Another IP has its own budget.
	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.2:1234"))
}

// Stacked limiters keep separate counters: traffic through a loose global
// limiter must not consume a tighter group limiter's budget for the same IP.
func TestRateLimitInstancesAreIndependent(t *testing.T) {
	loose := middleware.RateLimit(200, time.Minute)(okHandler())
	tight := middleware.RateLimit(20, time.Minute)(okHandler())

	for i := 0; i < 30; i++ {
		require.Equal(t, http.StatusOK, hit(loose, "10.0.0.3:1234"))
	}

	assert.Equal(t, http.StatusOK, hit(tight, "10.0.0.3:1234"))
}

func TestRateLimitUsesForwardedFor(t *testing.T) {
	limited := middleware.RateLimit(1, time.Minute)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.4")
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same client address behind a different proxy hop is still limited.
	req = httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.RemoteAddr = "10.0.0.5:5678"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
