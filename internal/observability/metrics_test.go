package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/traitements", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveRecordOp("Traitement", "create", "ok", time.Millisecond)
	m.IncChangeEvent("redis", "ok")
	if err := m.RegisterDB(nil, "db"); err != nil {
		t.Fatalf("RegisterDB: %v", err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/traitements", "200", 10*time.Millisecond)
	m.ObserveAPI("GET", "/api/traitements", "200", 20*time.Millisecond)
	m.ObserveRecordOp("Traitement", "create", "rejected", time.Millisecond)
	m.IncChangeEvent("", "error")

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/traitements", "200")); got != 2 {
		t.Fatalf("api requests: got %v", got)
	}
	if got := testutil.ToFloat64(m.recordOps.WithLabelValues("Traitement", "create", "rejected")); got != 1 {
		t.Fatalf("record ops: got %v", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("none", "error")); got != 1 {
		t.Fatalf("events: got %v", got)
	}

	m.ApiInflightInc()
	if got := testutil.ToFloat64(m.apiInflight); got != 1 {
		t.Fatalf("inflight: got %v", got)
	}
	m.ApiInflightDec()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "mp_api_requests_total") {
		t.Fatalf("expected exposition to contain mp_api_requests_total")
	}
}
