package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/corsair-bot/corsair/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LoggerProvider())
	assert.IsType(t, noop.Meter{}, p.Meter("x"))
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutOutputs(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "corsair"})
	assert.ErrorContains(t, err, "no log writer or endpoint")
}

func TestNew_FileExport(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{Enabled: true, ServiceName: "corsair", BatchTimeout: time.Second, LogWriter: &buf})
	require.NoError(t, err)

	require.NotNil(t, p.LoggerProvider())

	counter, err := p.Meter("test").Int64Counter("corsair.test.count")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	ctx := context.Background()
	require.NoError(t, p.Flush(ctx))
	assert.Contains(t, buf.String(), "corsair.test.count")
	require.NoError(t, p.Shutdown(ctx))
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromConfig(config.OTelConfig{
		Enabled:      true,
		ServiceName:  "corsair",
		BatchTimeout: 5 * time.Second,
		Endpoint:     "localhost:4318",
		Insecure:     true,
	}, "v1.0.0", &buf)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "v1.0.0", cfg.Version)
	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.Same(t, &buf, cfg.LogWriter.(*bytes.Buffer))
}
