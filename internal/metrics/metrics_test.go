package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/goliatone/go-optionspage/internal/metrics"
	"github.com/goliatone/go-optionspage/pkg/options"
	"github.com/goliatone/go-optionspage/pkg/storage"
)

var (
	_ options.Observer = (*metrics.Collector)(nil)
	_ storage.Observer = (*metrics.Collector)(nil)
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counterValue(t *testing.T, family *dto.MetricFamily, labels map[string]string) float64 {
	t.Helper()
	if family == nil {
		t.Fatalf("metric family missing")
	}
	for _, m := range family.GetMetric() {
		match := true
		for _, pair := range m.GetLabel() {
			if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("no series matching %v in %s", labels, family.GetName())
	return 0
}

func TestCollector_PageEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWithRegistry(reg)

	c.ObserveRender("theme-options", "general", 2*time.Millisecond, nil)
	c.ObserveRender("theme-options", "general", time.Millisecond, errors.New("boom"))
	c.ObserveRejection("theme-options", "accent_color")
	c.ObserveRejection("theme-options", "accent_color")
	c.ObserveSubmission("theme-options", "social", nil)

	families := gather(t, reg)
	if got := counterValue(t, families["optionspage_renders_total"], map[string]string{"status": "error"}); got != 1 {
		t.Fatalf("error renders = %v, want 1", got)
	}
	if got := counterValue(t, families["optionspage_rejections_total"], map[string]string{"key": "accent_color"}); got != 2 {
		t.Fatalf("rejections = %v, want 2", got)
	}
	if got := counterValue(t, families["optionspage_submissions_total"], map[string]string{"tab": "social"}); got != 1 {
		t.Fatalf("submissions = %v, want 1", got)
	}
	hist := families["optionspage_render_duration_seconds"]
	if hist == nil || hist.GetMetric()[0].GetHistogram().GetSampleCount() != 2 {
		t.Fatalf("expected two render duration samples, got %v", hist)
	}
}

func TestCollector_StoreAndRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWithRegistry(reg)

	c.ObserveStore("save", "general", time.Millisecond, nil)
	c.ObserveStore("load", "general", time.Millisecond, errors.New("down"))
	c.ObserveRequest("GET", "/admin", 200, time.Millisecond)
	c.ObserveRequest("POST", "/options", 403, time.Millisecond)
	c.ObserveDefinitionsReload(nil)
	c.ConfigReloads.Inc()

	families := gather(t, reg)
	if got := counterValue(t, families["optionspage_store_errors_total"], map[string]string{"op": "load"}); got != 1 {
		t.Fatalf("store errors = %v, want 1", got)
	}
	if _, ok := families["optionspage_store_duration_seconds"]; !ok {
		t.Fatalf("store duration missing")
	}
	if got := counterValue(t, families["optionspage_http_requests_total"], map[string]string{"status": "4xx"}); got != 1 {
		t.Fatalf("4xx requests = %v, want 1", got)
	}
	if got := counterValue(t, families["optionspage_definitions_reloads_total"], map[string]string{"status": "ok"}); got != 1 {
		t.Fatalf("definition reloads = %v, want 1", got)
	}
	if got := families["optionspage_config_reloads_total"].GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("config reloads = %v, want 1", got)
	}
}
