package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/whisper-mcp/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the OpenTelemetry instruments recorded by the pipeline and
// its stage providers.
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
	outcomeTotal      metric.Int64Counter
	audioBytes        metric.Int64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("transcribe.requests",
		metric.WithDescription("Transcription requests by outcome status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcribe.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("transcribe.duration",
		metric.WithDescription("End-to-end transcription duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcribe.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("transcribe.active",
		metric.WithDescription("Transcriptions currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcribe.active gauge: %w", err)
	}

	operationTotal, err := meter.Int64Counter("stage.calls",
		metric.WithDescription("Collaborator stage calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.calls counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("stage.duration",
		metric.WithDescription("Collaborator stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("stage.errors",
		metric.WithDescription("Collaborator stage failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.errors counter: %w", err)
	}

	outcomeTotal, err := meter.Int64Counter("transcribe.outcomes",
		metric.WithDescription("Transcription outcomes by error code and output format"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcribe.outcomes counter: %w", err)
	}

	audioBytes, err := meter.Int64Histogram("transcribe.audio.bytes",
		metric.WithDescription("Size of resolved audio payloads"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcribe.audio.bytes histogram: %w", err)
	}

	return &Metrics{
		outcomeTotal:      outcomeTotal,
		audioBytes:        audioBytes,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestActive:     requestActive,
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		errorTotal:        errorTotal,
	}, nil
}

// RecordRequestStart increments the active request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements active requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, service, method, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
		attribute.String("status", status),
	)
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
	))
}

// RecordOperation records an operation execution.
func (m *Metrics) RecordOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.operationTotal.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}

// RecordOutcome counts a finished transcription. code is empty on success.
func (m *Metrics) RecordOutcome(ctx context.Context, format, code string) {
	if code == "" {
		code = "OK"
	}
	m.outcomeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("output_format", format),
		attribute.String("code", code),
	))
}

// RecordAudioBytes records the size of a resolved audio payload by source kind.
func (m *Metrics) RecordAudioBytes(ctx context.Context, source string, n int) {
	m.audioBytes.Record(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}
