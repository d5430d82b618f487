// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otlp provides OTLP exporters for traces, metrics and logs over gRPC or HTTP.
//
// Endpoints and protocols follow the standard OpenTelemetry environment variables,
// with the signal specific variable taking precedence over the generic one:
//   - OTEL_EXPORTER_OTLP_{TRACES,METRICS,LOGS}_ENDPOINT, OTEL_EXPORTER_OTLP_ENDPOINT
//   - OTEL_EXPORTER_OTLP_{TRACES,METRICS,LOGS}_PROTOCOL, OTEL_EXPORTER_OTLP_PROTOCOL
//
// An exporter without an endpoint reads as unset.
package otlp

import (
	"context"
	"fmt"

	"github.com/z5labs/returns/concurrent"
	"github.com/z5labs/returns/config"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Protocol is the OTLP transport.
type Protocol string

const (
	ProtocolGRPC Protocol = "grpc"
	ProtocolHTTP Protocol = "http/protobuf"
)

// UnknownProtocolError is returned when an exporter is configured with an unsupported [Protocol].
type UnknownProtocolError struct {
	Protocol Protocol
}

func (e UnknownProtocolError) Error() string {
	return fmt.Sprintf("otlp: unknown protocol: %q", e.Protocol)
}

// Exporter configures the transport of one telemetry signal.
type Exporter struct {
	Protocol config.Reader[Protocol]
	Endpoint config.Reader[string]
}

func fromEnv(signal string) Exporter {
	return Exporter{
		Protocol: config.Map(
			config.Or(
				config.Env("OTEL_EXPORTER_OTLP_"+signal+"_PROTOCOL"),
				config.Env("OTEL_EXPORTER_OTLP_PROTOCOL"),
			),
			func(ctx context.Context, s string) (Protocol, error) {
				return Protocol(s), nil
			},
		),
		Endpoint: config.Or(
			config.Env("OTEL_EXPORTER_OTLP_"+signal+"_ENDPOINT"),
			config.Env("OTEL_EXPORTER_OTLP_ENDPOINT"),
		),
	}
}

// TracesFromEnv configures the trace exporter from the environment.
func TracesFromEnv() Exporter {
	return fromEnv("TRACES")
}

// MetricsFromEnv configures the metric exporter from the environment.
func MetricsFromEnv() Exporter {
	return fromEnv("METRICS")
}

// LogsFromEnv configures the log exporter from the environment.
func LogsFromEnv() Exporter {
	return fromEnv("LOGS")
}

// conns shares one client connection per target between the signals.
var conns = concurrent.NewCache[string, *grpc.ClientConn]()

func grpcConn(target string) (*grpc.ClientConn, error) {
	return conns.GetOr(target, func() (*grpc.ClientConn, error) {
		return grpc.NewClient(
			target,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	})
}

type exporterFactory[T any] struct {
	grpc func(context.Context, *grpc.ClientConn) (T, error)
	http func(context.Context, string) (T, error)
}

func read[T any](ctx context.Context, e Exporter, f exporterFactory[T]) (config.Value[T], error) {
	endpoint, err := config.Read(ctx, e.Endpoint)
	if err != nil || endpoint == "" {
		return config.Value[T]{}, err
	}

	protocol := config.MustOr(ctx, ProtocolGRPC, e.Protocol)
	switch protocol {
	case ProtocolGRPC:
		cc, err := grpcConn(endpoint)
		if err != nil {
			return config.Value[T]{}, err
		}
		exp, err := f.grpc(ctx, cc)
		if err != nil {
			return config.Value[T]{}, err
		}
		return config.ValueOf(exp), nil
	case ProtocolHTTP:
		exp, err := f.http(ctx, endpoint)
		if err != nil {
			return config.Value[T]{}, err
		}
		return config.ValueOf(exp), nil
	default:
		return config.Value[T]{}, UnknownProtocolError{Protocol: protocol}
	}
}

// Traces returns a reader for the span exporter.
func (e Exporter) Traces() config.Reader[sdktrace.SpanExporter] {
	return config.ReaderFunc[sdktrace.SpanExporter](func(ctx context.Context) (config.Value[sdktrace.SpanExporter], error) {
		return read(ctx, e, exporterFactory[sdktrace.SpanExporter]{
			grpc: func(ctx context.Context, cc *grpc.ClientConn) (sdktrace.SpanExporter, error) {
				return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(cc))
			},
			http: func(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
				return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint))
			},
		})
	})
}

// Metrics returns a reader for the metric exporter.
func (e Exporter) Metrics() config.Reader[sdkmetric.Exporter] {
	return config.ReaderFunc[sdkmetric.Exporter](func(ctx context.Context) (config.Value[sdkmetric.Exporter], error) {
		return read(ctx, e, exporterFactory[sdkmetric.Exporter]{
			grpc: func(ctx context.Context, cc *grpc.ClientConn) (sdkmetric.Exporter, error) {
				return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(cc))
			},
			http: func(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
				return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(endpoint))
			},
		})
	})
}

// Logs returns a reader for the log exporter.
func (e Exporter) Logs() config.Reader[sdklog.Exporter] {
	return config.ReaderFunc[sdklog.Exporter](func(ctx context.Context) (config.Value[sdklog.Exporter], error) {
		return read(ctx, e, exporterFactory[sdklog.Exporter]{
			grpc: func(ctx context.Context, cc *grpc.ClientConn) (sdklog.Exporter, error) {
				return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(cc))
			},
			http: func(ctx context.Context, endpoint string) (sdklog.Exporter, error) {
				return otlploghttp.New(ctx, otlploghttp.WithEndpoint(endpoint))
			},
		})
	})
}
