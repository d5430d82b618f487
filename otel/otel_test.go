// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"strings"
	"testing"

	"github.com/z5labs/returns/config"

	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
)

func TestResource_Read(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "returns-test")

	rsc, err := config.Read(context.Background(), ResourceFromEnv())
	require.NoError(t, err)

	name, ok := rsc.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	require.Equal(t, "returns-test", name.AsString())
}

func TestResource_Read_unknownService(t *testing.T) {
	rsc, err := config.Read(context.Background(), Resource{})
	require.NoError(t, err)

	name, ok := rsc.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(name.AsString(), "unknown_service:"))
}

func TestTracerProvider_Read(t *testing.T) {
	t.Run("will be unset without an exporter", func(t *testing.T) {
		v, err := TracerProvider{}.Read(context.Background())
		require.NoError(t, err)

		_, ok := v.Value()
		require.False(t, ok)
	})

	t.Run("will build an sdk provider", func(t *testing.T) {
		cfg := TracerProviderFromEnv(
			config.ReaderOf(resource.Empty()),
			config.ReaderOf[sdktrace.SpanExporter](tracetest.NewInMemoryExporter()),
		)

		tp, err := config.Read(context.Background(), cfg)
		require.NoError(t, err)
		require.IsType(t, &sdktrace.TracerProvider{}, tp)
	})
}

func TestMeterProvider_Read(t *testing.T) {
	t.Run("will be unset without an exporter", func(t *testing.T) {
		v, err := MeterProvider{}.Read(context.Background())
		require.NoError(t, err)

		_, ok := v.Value()
		require.False(t, ok)
	})
}

func TestLoggerProvider_Read(t *testing.T) {
	t.Run("will be unset without an exporter", func(t *testing.T) {
		v, err := LoggerProvider{}.Read(context.Background())
		require.NoError(t, err)

		_, ok := v.Value()
		require.False(t, ok)
	})

	t.Run("will build an sdk provider", func(t *testing.T) {
		t.Setenv("OTEL_LOG_LEVELS", "github.com/z5labs/returns=warn")

		cfg := LoggerProviderFromEnv(
			config.EmptyReader[*resource.Resource](),
			config.ReaderOf[sdklog.Exporter](&recordingExporter{}),
		)

		lp, err := config.Read(context.Background(), cfg)
		require.NoError(t, err)
		require.IsType(t, &sdklog.LoggerProvider{}, lp)
	})
}

func TestLevelsFromString(t *testing.T) {
	levels, err := config.Read(
		context.Background(),
		LevelsFromString(config.ReaderOf("a=warn, b = error,malformed")),
	)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "warn", "b": "error"}, levels)
}

