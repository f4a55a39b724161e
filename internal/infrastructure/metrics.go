package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DashboardMetrics holds the application metrics. All methods are safe on a
// nil receiver.
type DashboardMetrics struct {
	loadDuration   metric.Float64Histogram
	datasetRows    metric.Int64Gauge
	filterRequests metric.Int64Counter
	filterDuration metric.Float64Histogram
	detailLookups  metric.Int64Counter
	exports        metric.Int64Counter

	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter
}

// NewDashboardMetrics creates every instrument on meter.
func NewDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	var (
		m   DashboardMetrics
		err error
	)

	if m.loadDuration, err = meter.Float64Histogram(
		"dataset_load_duration_seconds",
		metric.WithDescription("Time spent loading the source datasets"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.datasetRows, err = meter.Int64Gauge(
		"dataset_rows",
		metric.WithDescription("Rows per loaded dataset"),
	); err != nil {
		return nil, err
	}
	if m.filterRequests, err = meter.Int64Counter(
		"dashboard_filter_requests_total",
		metric.WithDescription("Total number of filter evaluations"),
	); err != nil {
		return nil, err
	}
	if m.filterDuration, err = meter.Float64Histogram(
		"dashboard_filter_duration_seconds",
		metric.WithDescription("Filter evaluation duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.detailLookups, err = meter.Int64Counter(
		"dashboard_detail_lookups_total",
		metric.WithDescription("Total number of company detail lookups"),
	); err != nil {
		return nil, err
	}
	if m.exports, err = meter.Int64Counter(
		"dashboard_exports_total",
		metric.WithDescription("Total number of filtered view exports"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

func statusAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// ObserveLoad records the outcome of a dataset load.
func (m *DashboardMetrics) ObserveLoad(ctx context.Context, duration time.Duration, rows map[string]int, err error) {
	if m == nil {
		return
	}
	m.loadDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(statusAttr(err)))
	for name, n := range rows {
		m.datasetRows.Record(ctx, int64(n), metric.WithAttributes(attribute.String("dataset", name)))
	}
}

// RecordFilter records one filter evaluation.
func (m *DashboardMetrics) RecordFilter(ctx context.Context, matched int, duration time.Duration) {
	if m == nil {
		return
	}
	empty := attribute.Bool("empty", matched == 0)
	m.filterRequests.Add(ctx, 1, metric.WithAttributes(empty))
	m.filterDuration.Record(ctx, duration.Seconds())
}

// RecordDetailLookup records one detail view and which halves had data.
func (m *DashboardMetrics) RecordDetailLookup(ctx context.Context, enriched, history bool) {
	if m == nil {
		return
	}
	m.detailLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("enriched_found", enriched),
		attribute.Bool("history_found", history),
	))
}

// RecordExport records one export download.
func (m *DashboardMetrics) RecordExport(ctx context.Context, format string, err error) {
	if m == nil {
		return
	}
	m.exports.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format), statusAttr(err)))
}

// RecordHTTPRequest records one completed HTTP request.
func (m *DashboardMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
