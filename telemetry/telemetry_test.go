package telemetry

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maxpert/cqlcmd/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDefaults(t *testing.T) {
	assert.NotPanics(t, func() {
		CommandsTotal.With("execute_non_query", "success").Inc()
		CommandDurationSeconds.With("execute_scalar").Observe(0.1)
		SchemaAgreementWaitSeconds.Observe(1)
		InFlightCommands.Inc()
		InFlightCommands.Dec()
		RowsMappedTotal.Add(3)
	})
	assert.Nil(t, GetMetricsHandler())
}

func TestInitMetricsRegistersAndServes(t *testing.T) {
	originalEnabled := cfg.Config.Prometheus.Enabled
	defer func() {
		cfg.Config.Prometheus.Enabled = originalEnabled
		registry = nil
		CommandsTotal = noopCounterVec{}
		BatchRows = NoopStat{}
	}()

	cfg.Config.Prometheus.Enabled = true
	InitializeTelemetry()
	InitMetrics()

	CommandsTotal.With("insert_rows", "success").Inc()
	BatchRows.Observe(2)

	handler := GetMetricsHandler()
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cqlcmd_commands_total{`), "missing commands counter")
	assert.True(t, strings.Contains(body, `operation="insert_rows"`))
	assert.True(t, strings.Contains(body, "cqlcmd_batch_rows_bucket"))
}

func TestInitializeTelemetryDisabled(t *testing.T) {
	originalEnabled := cfg.Config.Prometheus.Enabled
	defer func() { cfg.Config.Prometheus.Enabled = originalEnabled }()

	cfg.Config.Prometheus.Enabled = false
	InitializeTelemetry()

	_, ok := NewCounter("x_total", "x").(NoopStat)
	assert.True(t, ok)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "success", ResultLabel(nil))
	assert.Equal(t, "failed", ResultLabel(errors.New("boom")))
}
