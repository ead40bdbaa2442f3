package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.DispatchRecipients.WithLabelValues("sent").Add(2)
	m.DispatchRecipients.WithLabelValues("failed").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var found bool
	for _, f := range families {
		if f.GetName() != "loyalty_dispatch_recipients_total" {
			continue
		}
		found = true
		var total float64
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		if len(f.GetMetric()) != 2 || total != 3 {
			t.Errorf("series = %d total = %v, want 2 series totalling 3", len(f.GetMetric()), total)
		}
	}
	if !found {
		t.Error("dispatch recipients counter not gathered")
	}
}

func TestNew_TwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("second registration should panic")
		}
	}()
	New(reg)
}
