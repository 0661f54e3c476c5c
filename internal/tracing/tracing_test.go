package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_RequiresServiceName(t *testing.T) {
	_, err := InitTracer(context.Background(), Config{})
	assert.Error(t, err)
}

func TestInitTracer_NoopExporter(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{ServiceName: ServiceName, TracesExport: "none"})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "test")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestSamplerFromEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")
	assert.Contains(t, samplerFromEnv("production", nil).Description(), "AlwaysOff")
}
