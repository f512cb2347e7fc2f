package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	pkgerrors "github.com/angelmondragon/contactbook-backend/pkg/errors"
)

func TestOperationMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOperationMetrics(reg)
	metrics.Observe("create", nil)
	metrics.Observe("create", nil)
	metrics.Observe("update", pkgerrors.New(pkgerrors.CodeBadRequest, "missing"))
	metrics.Observe("delete", errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	cases := []struct {
		operation string
		outcome   string
		want      float64
	}{
		{"create", "ok", 2},
		{"update", "bad_request", 1},
		{"delete", "internal_error", 1},
	}
	for _, tc := range cases {
		got, err := fetchCounterValue(mfs, "contactbook_operations_total", map[string]string{"operation": tc.operation, "outcome": tc.outcome})
		if err != nil {
			t.Fatalf("fetch %s: %v", tc.operation, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%s: expected %v got %v", tc.operation, tc.outcome, tc.want, got)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var ops *OperationMetrics
	ops.Observe("create", nil)
	NewOperationMetrics(nil).Observe("create", nil)

	done := NewHTTPMetrics(nil).Start()
	done("GET", "/", 200, time.Millisecond)
}

func TestHTTPMetricsRecordsRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	done := metrics.Start()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if mf := findMetricFamily(mfs, "http_requests_in_flight"); mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 1 {
		t.Fatal("expected one request in flight")
	}

	done("GET", "/api/v1/contacts", 200, 150*time.Millisecond)

	mfs, err = reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	labels := map[string]string{"method": "GET", "route": "/api/v1/contacts", "status": "200"}
	if got, err := fetchCounterValue(mfs, "http_requests_total", labels); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected requests=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", map[string]string{"method": "GET", "route": "/api/v1/contacts"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
	if mf := findMetricFamily(mfs, "http_requests_in_flight"); mf.GetMetric()[0].GetGauge().GetValue() != 0 {
		t.Fatal("expected in-flight gauge back at zero")
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
