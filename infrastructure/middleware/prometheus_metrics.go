// Package middleware provides cross-cutting infrastructure for the
// evaluation engine, currently the Prometheus-backed metrics collector.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-quorum/internal/ports"
)

// PrometheusMetrics implements ports.MetricsCollector using Prometheus.
// It tracks LLM request traffic, evaluation outcomes, and score
// distributions.
type PrometheusMetrics struct {
	llmRequests      *prometheus.CounterVec
	llmTokens        *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
	evaluations      *prometheus.CounterVec
	evaluatorTasks   *prometheus.CounterVec
	evaluationScores *prometheus.HistogramVec
	operationLatency *prometheus.HistogramVec
	systemGauges     *prometheus.GaugeVec
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics registers all evaluation metrics in the default
// Prometheus registry. Call once per process.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		llmRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "LLM requests by provider, model, and outcome.",
			},
			[]string{"provider", "model", "status"},
		),
		llmTokens: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Tokens consumed by provider, model, and direction.",
			},
			[]string{"provider", "model", "token_type"},
		),
		llmLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_latency_seconds",
				Help:    "LLM request latency by provider and model.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model"},
		),
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluations_total",
				Help: "Completed evaluation runs by status and decision.",
			},
			[]string{"status", "decision"},
		),
		evaluatorTasks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluator_tasks_total",
				Help: "Individual evaluator tasks by provider, persona, and outcome.",
			},
			[]string{"provider", "persona", "status"},
		),
		evaluationScores: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evaluation_overall_score",
				Help:    "Distribution of aggregated overall scores.",
				Buckets: prometheus.LinearBuckets(1, 0.5, 19),
			},
			[]string{"method"},
		),
		operationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evaluation_operation_duration_seconds",
				Help:    "Latency of evaluation engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "evaluation_system_state",
				Help: "Current engine state values such as in-flight tasks.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records operation latency.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter increments the counter matching the metric name.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "llm_requests_total":
		pm.llmRequests.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Add(value)
	case "llm_tokens_total":
		pm.llmTokens.WithLabelValues(
			labels["provider"], labels["model"], labels["token_type"],
		).Add(value)
	case "evaluations_total":
		pm.evaluations.WithLabelValues(
			labels["status"], labels["decision"],
		).Add(value)
	case "evaluator_tasks_total":
		pm.evaluatorTasks.WithLabelValues(
			labels["provider"], labels["persona"], labels["status"],
		).Add(value)
	}
}

// RecordGauge sets a system state gauge.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram records a histogram observation matching the metric
// name.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	switch metric {
	case "llm_latency_seconds":
		pm.llmLatency.WithLabelValues(labels["provider"], labels["model"]).Observe(value)
	case "evaluation_overall_score":
		pm.evaluationScores.WithLabelValues(labels["method"]).Observe(value)
	default:
		pm.operationLatency.WithLabelValues(metric).Observe(value)
	}
}
