package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), TelemetryConfig{Enabled: false}, nil)
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	_, span := p.Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Enabled(t *testing.T) {
	// The exporter connects lazily, so no collector is needed to construct the provider
	p, err := NewProvider(context.Background(), TelemetryConfig{
		Enabled:      true,
		OTLPEndpoint: "127.0.0.1:4318",
		Insecure:     true,
	}, nil)
	require.NoError(t, err)

	assert.True(t, p.Enabled())
	_, span := p.Tracer().Start(context.Background(), "test")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
