package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOutcome(t *testing.T) {
	if got := Outcome(nil); got != "success" {
		t.Errorf("Outcome(nil) = %q; want success", got)
	}
	if got := Outcome(errors.New("x")); got != "error" {
		t.Errorf("Outcome(err) = %q; want error", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	QuotesIssued.Inc()
	UpstreamErrors.WithLabelValues(UpstreamRates, "bad_gateway").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "exchange_quotes_issued_total") {
		t.Error("metrics output missing exchange_quotes_issued_total")
	}
	if !strings.Contains(rec.Body.String(), `upstream_errors_total{kind="bad_gateway",upstream="rate_provider"}`) {
		t.Error("metrics output missing labelled upstream_errors_total")
	}
}
