// Package telemetry sets up OpenTelemetry tracing for completion calls.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	serviceName = "groq-multitool"
	tracerName  = "github.com/cchalm/groq-multitool"
)

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	Enabled        bool
	OTLPEndpoint   string // host:port of an OTLP/HTTP collector; the exporter default is used when empty
	Insecure       bool
	ServiceVersion string
}

// Provider owns the tracer provider for the lifetime of the process
type Provider struct {
	enabled bool
	tp      trace.TracerProvider
	sdk     *sdktrace.TracerProvider // nil when disabled
	logger  *zap.Logger
}

// NewProvider creates a telemetry provider. When telemetry is disabled the provider hands out no-op tracers.
func NewProvider(ctx context.Context, config TelemetryConfig, logger *zap.Logger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !config.Enabled {
		logger.Debug("Telemetry disabled")
		return &Provider{tp: noop.NewTracerProvider(), logger: logger}, nil
	}

	opts := []otlptracehttp.Option{}
	if config.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(config.OTLPEndpoint))
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	version := config.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	)

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(sdk)

	logger.Info("Telemetry enabled", zap.String("endpoint", config.OTLPEndpoint))
	return &Provider{enabled: true, tp: sdk, sdk: sdk, logger: logger}, nil
}

// Enabled reports whether spans are exported
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Tracer returns the tracer used to instrument completion calls
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer(tracerName)
}

// Shutdown flushes pending spans and shuts down the provider
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.enabled {
		return nil
	}
	p.logger.Debug("Shutting down telemetry provider")
	if err := p.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}
