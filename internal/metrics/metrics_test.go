package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpdate("inserted", true, nil)
	m.ObserveFetch(1)
	m.ObserveReference("inserted")
	m.ObserveYieldFailure("unpriced")
	m.ObserveHTTP("GET", "/health", "200", 0.1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

func TestObserveUpdate(t *testing.T) {
	m := New("test")

	m.ObserveUpdate("inserted", false, nil)
	m.ObserveUpdate("replaced", true, nil)
	m.ObserveUpdate("", false, errors.New("boom"))

	if got := testutil.ToFloat64(m.UpdatesTotal.WithLabelValues("inserted")); got != 1 {
		t.Errorf("inserted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DatesConfirmedTotal); got != 1 {
		t.Errorf("confirmed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.UpdateErrorsTotal); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New("test")
	m.ObserveReference("unknown")
	m.ObserveYieldFailure("unsupported")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`ust_references_total{instance_id="test",result="unknown"} 1`,
		`ust_yield_failures_total{instance_id="test",reason="unsupported"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
