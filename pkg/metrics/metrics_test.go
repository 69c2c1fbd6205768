package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.ObserveRequest("POST", "/api/v1/orders", 201, 120*time.Millisecond)
	metrics.ObserveRequest("POST", "/api/v1/orders", 422, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "2xx"); err != nil {
		t.Fatalf("fetch 2xx: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 2xx=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "4xx"); err != nil {
		t.Fatalf("fetch 4xx: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 4xx=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/orders"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOrderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderMetrics(reg)
	metrics.IncTransition("approved")
	metrics.IncTransition("approved")
	metrics.IncPayment("card")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "order_transitions_total", "status", "approved"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected transitions=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payments_recorded_total", "method", "card"); err != nil {
		t.Fatalf("fetch payments: %v", err)
	} else if got != 1 {
		t.Fatalf("expected payments=1, got %f", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	NewHTTPMetrics(nil).ObserveRequest("GET", "/health/live", 200, time.Millisecond)
	NewOrderMetrics(nil).IncTransition("paid")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
