package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	// OTel meters and instruments
	meter             metric.Meter
	sourceCountGauge  metric.Int64ObservableGauge
	statusCountGauge  metric.Int64ObservableGauge
	throughputGauge   metric.Int64ObservableGauge
	totalRecordsGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"webhook-logger",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Record count gauge (per source)
	oe.sourceCountGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.records.by_source",
		metric.WithDescription("Number of stored webhook records per source"),
		metric.WithUnit("{records}"),
		metric.WithInt64Callback(oe.observeSourceCounts),
	)
	if err != nil {
		return fmt.Errorf("creating source count gauge: %w", err)
	}

	// Status count gauge (per status)
	oe.statusCountGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.records.by_status",
		metric.WithDescription("Number of stored webhook records by status"),
		metric.WithUnit("{records}"),
		metric.WithInt64Callback(oe.observeStatusCounts),
	)
	if err != nil {
		return fmt.Errorf("creating status count gauge: %w", err)
	}

	// Throughput gauge (received records over time windows)
	oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.received.throughput",
		metric.WithDescription("Number of webhook records received over time window"),
		metric.WithUnit("{records}"),
		metric.WithInt64Callback(oe.observeThroughput),
	)
	if err != nil {
		return fmt.Errorf("creating throughput gauge: %w", err)
	}

	// Total record count gauge
	oe.totalRecordsGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.records.total",
		metric.WithDescription("Total number of stored webhook records"),
		metric.WithUnit("{records}"),
		metric.WithInt64Callback(oe.observeTotalRecords),
	)
	if err != nil {
		return fmt.Errorf("creating total records gauge: %w", err)
	}

	return nil
}

// observeSourceCounts is a callback that reports record counts per source
func (oe *OTelExporter) observeSourceCounts(ctx context.Context, observer metric.Int64Observer) error {
	sourceCounts, err := oe.collector.GetSourceCounts(ctx)
	if err != nil {
		return err
	}

	for source, count := range sourceCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("webhook.source", source),
		))
	}

	return nil
}

// observeStatusCounts is a callback that reports record counts by status
func (oe *OTelExporter) observeStatusCounts(ctx context.Context, observer metric.Int64Observer) error {
	statusCounts, err := oe.collector.GetStatusCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range statusCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("webhook.status", status),
		))
	}

	return nil
}

// observeThroughput is a callback that reports throughput metrics
func (oe *OTelExporter) observeThroughput(ctx context.Context, observer metric.Int64Observer) error {
	throughput, err := oe.collector.GetThroughput(ctx)
	if err != nil {
		return err
	}

	observer.Observe(throughput.LastMinute, metric.WithAttributes(
		attribute.String("time.window", "1m"),
	))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(
		attribute.String("time.window", "5m"),
	))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(
		attribute.String("time.window", "15m"),
	))

	return nil
}

// observeTotalRecords is a callback that reports the total record count
func (oe *OTelExporter) observeTotalRecords(ctx context.Context, observer metric.Int64Observer) error {
	total, err := oe.collector.GetTotalRecords(ctx)
	if err != nil {
		return err
	}

	observer.Observe(total)

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
