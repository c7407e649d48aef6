package ports

import "time"

// MetricsCollector is the interface for operational metrics. Implementations
// integrate with observability backends such as Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, e.g. score
	// distributions or task durations.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
