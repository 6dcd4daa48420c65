package telemetry

// Histogram bucket definitions for different latency profiles
var (
	// CommandBuckets for single round trips to the cluster
	CommandBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

	// SchemaAgreementBuckets for DDL convergence waits, which can run long
	SchemaAgreementBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

	// BatchSizeBuckets for rows per generated batch
	BatchSizeBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500}
)

// Command Metrics
var (
	// CommandsTotal counts command operations by operation and result (success, failed)
	CommandsTotal CounterVec = noopCounterVec{}

	// CommandDurationSeconds measures command latency by operation
	CommandDurationSeconds HistogramVec = noopHistogramVec{}

	// StatementsClassifiedTotal counts classified statements by kind (ddl, dml)
	StatementsClassifiedTotal CounterVec = noopCounterVec{}

	// ClassifierCacheHitsTotal counts classifier cache hits
	ClassifierCacheHitsTotal Counter = NoopStat{}

	// SchemaAgreementWaitSeconds measures time spent waiting for schema agreement
	SchemaAgreementWaitSeconds Histogram = NoopStat{}

	// RowsMappedTotal counts generic rows produced by the result mapper
	RowsMappedTotal Counter = NoopStat{}

	// BatchRows measures rows per generated batch insert
	BatchRows Histogram = NoopStat{}

	// InFlightCommands tracks commands currently waiting on the session
	InFlightCommands Gauge = NoopStat{}
)

// Session Metrics
var (
	// QueriesObservedTotal counts queries reported by the driver by result
	QueriesObservedTotal CounterVec = noopCounterVec{}

	// QueryLatencySeconds measures driver-observed query latency by keyspace
	QueryLatencySeconds HistogramVec = noopHistogramVec{}
)

// InitMetrics initializes all Prometheus metrics.
// Must be called after InitializeTelemetry().
func InitMetrics() {
	CommandsTotal = NewCounterVec(
		"commands_total",
		"Total command operations by operation and result",
		[]string{"operation", "result"},
	)
	CommandDurationSeconds = NewHistogramVec(
		"command_duration_seconds",
		"Command duration in seconds",
		[]string{"operation"},
		CommandBuckets,
	)
	StatementsClassifiedTotal = NewCounterVec(
		"statements_classified_total",
		"Statements classified by kind",
		[]string{"kind"},
	)
	ClassifierCacheHitsTotal = NewCounter(
		"classifier_cache_hits_total",
		"Classifier cache hits",
	)
	SchemaAgreementWaitSeconds = NewHistogramWithBuckets(
		"schema_agreement_wait_seconds",
		"Time waiting for schema agreement in seconds",
		SchemaAgreementBuckets,
	)
	RowsMappedTotal = NewCounter(
		"rows_mapped_total",
		"Generic rows produced from result sets",
	)
	BatchRows = NewHistogramWithBuckets(
		"batch_rows",
		"Rows per generated batch insert",
		BatchSizeBuckets,
	)
	InFlightCommands = NewGauge(
		"in_flight_commands",
		"Commands currently waiting on the session",
	)

	QueriesObservedTotal = NewCounterVec(
		"queries_observed_total",
		"Driver-observed queries by result",
		[]string{"result"},
	)
	QueryLatencySeconds = NewHistogramVec(
		"query_latency_seconds",
		"Driver-observed query latency in seconds",
		[]string{"keyspace"},
		CommandBuckets,
	)
}

// ResultLabel maps an error to the result label used by counters.
func ResultLabel(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}
