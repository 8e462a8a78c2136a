package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New(nil)
	b := New(nil)
	a.RecordOutcome(OutcomeTranslated)

	if got := counterValue(t, a.Registry, "tsuyaku_pipeline_outcomes_total", OutcomeTranslated); got != 1 {
		t.Fatalf("expected 1 translated outcome, got %v", got)
	}
	if got := counterValue(t, b.Registry, "tsuyaku_pipeline_outcomes_total", OutcomeTranslated); got != 0 {
		t.Fatalf("registries leaked state: %v", got)
	}
}

func TestRecordMessage(t *testing.T) {
	m := New(nil)
	m.RecordMessage("audio")
	m.RecordMessage("audio")
	m.RecordMessage("unknown")

	if got := counterValue(t, m.Registry, "tsuyaku_messages_received_total", "audio"); got != 2 {
		t.Fatalf("expected 2 audio messages, got %v", got)
	}
}
