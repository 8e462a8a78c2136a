// Package metrics holds the Prometheus collectors exposed by the translation server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeTranslated  = "translated"
	OutcomeEmpty       = "empty"
	OutcomeError       = "error"
	OutcomeDecodeError = "decode_error"

	StageTranscribe = "transcribe"
	StageTranslate  = "translate"
)

type Metrics struct {
	Registry *prometheus.Registry

	MessagesReceived   *prometheus.CounterVec
	PipelineOutcomes   *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	PipelinesInFlight  prometheus.Gauge
	OpenConnections    prometheus.Gauge
	UtteranceDuration  prometheus.Histogram
	ScratchCleanupFail prometheus.Counter
}

// New registers every collector on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		MessagesReceived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tsuyaku_messages_received_total",
			Help: "Websocket messages received by envelope type",
		}, []string{"type"}),
		PipelineOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tsuyaku_pipeline_outcomes_total",
			Help: "Ingestion pipeline runs by outcome",
		}, []string{"outcome"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tsuyaku_stage_duration_seconds",
			Help:    "Latency of external pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"stage"}),
		PipelinesInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "tsuyaku_pipelines_in_flight",
			Help: "Pipelines currently running",
		}),
		OpenConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "tsuyaku_open_connections",
			Help: "Open websocket connections",
		}),
		UtteranceDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tsuyaku_utterance_duration_seconds",
			Help:    "Playback length of received utterances",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		ScratchCleanupFail: f.NewCounter(prometheus.CounterOpts{
			Name: "tsuyaku_scratch_cleanup_failures_total",
			Help: "Staged audio files that could not be removed",
		}),
	}
}

func (m *Metrics) RecordMessage(msgType string) {
	m.MessagesReceived.WithLabelValues(msgType).Inc()
}

func (m *Metrics) RecordOutcome(outcome string) {
	m.PipelineOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) ObserveUtterance(seconds float64) {
	m.UtteranceDuration.Observe(seconds)
}
