package telemetry

import (
	"context"
	"testing"

	"ctchen222/tictactoe/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestInitOtel_Disabled(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), config.Telemetry{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitOtel_Enabled(t *testing.T) {
	// The gRPC client connects lazily, so no collector is needed to build the providers.
	shutdown, err := InitOtel(context.Background(), config.Telemetry{
		Enabled:        true,
		Endpoint:       "127.0.0.1:1",
		ServiceName:    "tic-tac-toe-test",
		ServiceVersion: "test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Flushing to an unreachable collector may fail; shutdown must still return.
	_ = shutdown(ctx)
}

func TestNewResource(t *testing.T) {
	res, err := NewResource(config.Telemetry{ServiceName: "tic-tac-toe", ServiceVersion: "v1.2.3"})
	require.NoError(t, err)

	attrs := res.Set()
	name, ok := attrs.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "tic-tac-toe", name.AsString())

	version, ok := attrs.Value(semconv.ServiceVersionKey)
	require.True(t, ok)
	assert.Equal(t, "v1.2.3", version.AsString())
}
