package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcainsights/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTelemetry(t *testing.T) {
	cfg := config.TelemetryConfig{
		ServiceName:    "mca-insights-test",
		Environment:    "test",
		EnableMetrics:  true,
		EnableTracing:  true,
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		SampleRatio:    1,
	}

	tel, err := NewTelemetry(cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, tel.MetricsHandler)
	assert.NotNil(t, tel.Tracer)

	metrics, err := NewDashboardMetrics(tel.Meter)
	require.NoError(t, err)
	metrics.RecordExport(context.Background(), "csv", nil)

	rec := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard_exports_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, tel.Shutdown(ctx))
}

func TestNewTelemetryTwice(t *testing.T) {
	cfg := config.TelemetryConfig{ServiceName: "x", EnableMetrics: true, MetricExporter: "prometheus"}

	for i := 0; i < 2; i++ {
		tel, err := NewTelemetry(cfg, discardLogger())
		require.NoError(t, err)
		require.NoError(t, tel.Shutdown(context.Background()))
	}
}

func TestNewTelemetryStdoutTracing(t *testing.T) {
	tel, err := NewTelemetry(config.TelemetryConfig{
		ServiceName:   "x",
		EnableTracing: true,
		TraceExporter: "stdout",
		SampleRatio:   0,
	}, discardLogger())
	require.NoError(t, err)

	_, span := tel.Tracer.Start(context.Background(), "unsampled")
	assert.False(t, span.SpanContext().IsSampled(), "ratio 0 samples nothing")
	span.End()
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewTelemetryUnsupportedExporters(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TelemetryConfig
		want string
	}{
		{"trace", config.TelemetryConfig{EnableTracing: true, TraceExporter: "zipkin"}, "unsupported trace exporter"},
		{"metric", config.TelemetryConfig{EnableMetrics: true, MetricExporter: "statsd"}, "unsupported metric exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTelemetry(tt.cfg, discardLogger())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry(config.TelemetryConfig{ServiceName: "x"}, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, tel.MetricsHandler)

	metrics, err := NewDashboardMetrics(tel.Meter)
	require.NoError(t, err)
	metrics.RecordFilter(context.Background(), 3, time.Millisecond)
	assert.NoError(t, tel.Shutdown(context.Background()))
}
