package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_booking/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "booking_http_requests_total") {
		t.Fatalf("expected booking_http_requests_total in output")
	}
}

func TestAuthEventsExported(t *testing.T) {
	reg := observability.InitRegistry()
	observability.ObserveAuth("login", false)
	observability.ObserveAuth("login", true)

	rr := httptest.NewRecorder()
	observability.MetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	out := rr.Body.String()
	for _, want := range []string{
		`booking_auth_events_total{action="login",outcome="fail"}`,
		`booking_auth_events_total{action="login",outcome="ok"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in metrics output", want)
		}
	}
}
