// Package metrics exposes Prometheus instrumentation for the claim pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the claim pipeline collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Claims processed by outcome: approved, denied, rejected, failed
	ClaimsProcessed *prometheus.CounterVec

	// Per-stage latency: estimating, looking_up_policy, calculating_payout, generating_document
	StageLatency *prometheus.HistogramVec

	// Whole pipeline latency, excluding notification
	PipelineLatency prometheus.Histogram

	// Approved payout amounts
	PayoutAmount prometheus.Histogram

	// Notification dispatches by channel and outcome: sent, skipped, failed
	Notifications *prometheus.CounterVec
}

// New registers the pipeline collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ClaimsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "claimflow_claims_processed_total",
			Help: "Total claims processed by outcome",
		}, []string{"outcome"}),

		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "claimflow_stage_duration_seconds",
			Help:    "Duration of each claim pipeline stage",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"stage"}),

		PipelineLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claimflow_pipeline_duration_seconds",
			Help:    "Duration of the claim pipeline from estimation through document storage",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		PayoutAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claimflow_payout_amount",
			Help:    "Approved payout amounts",
			Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "claimflow_notifications_total",
			Help: "Notification dispatches by channel and outcome",
		}, []string{"channel", "outcome"}),
	}
}

// IncrementClaims records a processed claim.
func (m *Metrics) IncrementClaims(outcome string) {
	if m != nil {
		m.ClaimsProcessed.WithLabelValues(outcome).Inc()
	}
}

// ObserveStage records the duration of a pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// ObservePipeline records the total pipeline duration.
func (m *Metrics) ObservePipeline(d time.Duration) {
	if m != nil {
		m.PipelineLatency.Observe(d.Seconds())
	}
}

// ObservePayout records an approved payout amount.
func (m *Metrics) ObservePayout(amount float64) {
	if m != nil {
		m.PayoutAmount.Observe(amount)
	}
}

// IncrementNotifications records a notification dispatch outcome.
func (m *Metrics) IncrementNotifications(channel, outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(channel, outcome).Inc()
	}
}
