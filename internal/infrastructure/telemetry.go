package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"mcainsights/internal/config"
)

// ScopeName is the instrumentation scope of the dashboard tracer and meter.
const ScopeName = "mcainsights"

// Telemetry carries the tracer used by the request middleware and the meter
// behind DashboardMetrics. A disabled signal leaves a no-op in place.
type Telemetry struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	// MetricsHandler serves the Prometheus scrape; nil unless the
	// prometheus metric exporter is active.
	MetricsHandler http.Handler

	stops  []func(context.Context) error
	logger *slog.Logger
}

// NewTelemetry sets up the signals enabled in cfg.
func NewTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	t := &Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(ScopeName),
		Meter:  noop.NewMeterProvider().Meter(ScopeName),
		logger: WithComponent(logger, "telemetry"),
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)

	if cfg.EnableTracing {
		if err := t.startTracing(cfg.TraceExporter, cfg.SampleRatio, res); err != nil {
			return nil, err
		}
	}
	if cfg.EnableMetrics {
		if err := t.startMetrics(cfg.MetricExporter, res); err != nil {
			_ = t.Shutdown(context.Background())
			return nil, err
		}
	}
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.logger.Info("Telemetry configured",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("traces", exporterOrOff(cfg.EnableTracing, cfg.TraceExporter)),
		slog.String("metrics", exporterOrOff(cfg.EnableMetrics, cfg.MetricExporter)))
	return t, nil
}

func exporterOrOff(enabled bool, exporter string) string {
	if !enabled {
		return "none"
	}
	return exporter
}

func (t *Telemetry) startTracing(exporter string, ratio float64, res *resource.Resource) error {
	var spans sdktrace.SpanExporter
	switch exporter {
	case "none":
		return nil
	case "stdout":
		exp, err := stdouttrace.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		spans = exp
	default:
		return fmt.Errorf("unsupported trace exporter: %q", exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spans),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)
	t.Tracer = tp.Tracer(ScopeName)
	t.stops = append(t.stops, tp.Shutdown)
	return nil
}

func (t *Telemetry) startMetrics(exporter string, res *resource.Resource) error {
	switch exporter {
	case "none":
		return nil
	case "prometheus":
	default:
		return fmt.Errorf("unsupported metric exporter: %q", exporter)
	}

	// private registry: a second Telemetry in the same process must not
	// collide on the default registerer
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	reader, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)
	t.Meter = mp.Meter(ScopeName)
	t.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	t.stops = append(t.stops, mp.Shutdown)
	return nil
}

// Shutdown flushes pending spans and stops the providers, newest first.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(t.stops) - 1; i >= 0; i-- {
		if err := t.stops[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.stops = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	return nil
}
