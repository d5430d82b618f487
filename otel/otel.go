// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otel wires the OpenTelemetry SDK into a service.
//
// Every component is a [config.Reader] so it can be assembled from literal values,
// environment variables or both. A provider whose exporter is not set reads as
// unset, which makes [Build] fall back to the matching no-op provider.
//
// Environment variables:
//   - OTEL_SERVICE_NAME, OTEL_SERVICE_VERSION: resource attributes
//   - OTEL_TRACES_SAMPLER_RATIO: trace sampling ratio between 0 and 1
//   - OTEL_BSP_EXPORT_INTERVAL, OTEL_BSP_MAX_EXPORT_BATCH_SIZE: span batching
//   - OTEL_METRIC_EXPORT_INTERVAL: metric collection interval
//   - OTEL_BLP_EXPORT_INTERVAL, OTEL_BLP_MAX_EXPORT_BATCH_SIZE: log batching
//   - OTEL_LOG_LEVELS: comma separated logger=level pairs, see [LevelFilter]
package otel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/z5labs/returns/config"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
	"go.opentelemetry.io/otel/trace"
)

// Resource describes the service producing telemetry.
type Resource struct {
	ServiceName    config.Reader[string]
	ServiceVersion config.Reader[string]
}

// ResourceFromEnv reads the service name and version from OTEL_SERVICE_NAME and OTEL_SERVICE_VERSION.
func ResourceFromEnv() Resource {
	return Resource{
		ServiceName:    config.Env("OTEL_SERVICE_NAME"),
		ServiceVersion: config.Env("OTEL_SERVICE_VERSION"),
	}
}

// Read implements the [config.Reader] interface.
func (cfg Resource) Read(ctx context.Context) (config.Value[*resource.Resource], error) {
	rsc, err := resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(config.MustOr(ctx, unknownService(), cfg.ServiceName)),
			semconv.ServiceVersion(config.MustOr(ctx, "", cfg.ServiceVersion)),
		),
	)
	if err != nil {
		return config.Value[*resource.Resource]{}, err
	}
	return config.ValueOf(rsc), nil
}

func unknownService() string {
	executable, err := os.Executable()
	if err != nil {
		return "unknown_service:go"
	}
	return "unknown_service:" + filepath.Base(executable)
}

// TracerProvider configures a batching SDK tracer provider with a trace ID ratio sampler.
type TracerProvider struct {
	Resource           config.Reader[*resource.Resource]
	Exporter           config.Reader[sdktrace.SpanExporter]
	SampleRatio        config.Reader[float64]
	ExportInterval     config.Reader[time.Duration]
	MaxExportBatchSize config.Reader[int]
}

// TracerProviderFromEnv reads the sampling and batching settings from the environment.
func TracerProviderFromEnv(rsc config.Reader[*resource.Resource], exporter config.Reader[sdktrace.SpanExporter]) TracerProvider {
	return TracerProvider{
		Resource:           rsc,
		Exporter:           exporter,
		SampleRatio:        config.Float64FromString(config.Env("OTEL_TRACES_SAMPLER_RATIO")),
		ExportInterval:     config.DurationFromString(config.Env("OTEL_BSP_EXPORT_INTERVAL")),
		MaxExportBatchSize: config.IntFromString(config.Env("OTEL_BSP_MAX_EXPORT_BATCH_SIZE")),
	}
}

// Read implements the [config.Reader] interface.
//
// Defaults: sample ratio 1.0, export interval 5s, batch size 512.
func (cfg TracerProvider) Read(ctx context.Context) (config.Value[trace.TracerProvider], error) {
	exporter, err := config.Read(ctx, cfg.Exporter)
	if err != nil || exporter == nil {
		return config.Value[trace.TracerProvider]{}, err
	}
	rsc, err := readResource(ctx, cfg.Resource)
	if err != nil {
		return config.Value[trace.TracerProvider]{}, err
	}

	bsp := sdktrace.NewBatchSpanProcessor(
		exporter,
		sdktrace.WithBatchTimeout(config.MustOr(ctx, 5*time.Second, cfg.ExportInterval)),
		sdktrace.WithMaxExportBatchSize(config.MustOr(ctx, 512, cfg.MaxExportBatchSize)),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(rsc),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(config.MustOr(ctx, 1.0, cfg.SampleRatio)),
		)),
		sdktrace.WithSpanProcessor(bsp),
	)
	return config.ValueOf[trace.TracerProvider](tp), nil
}

// MeterProvider configures an SDK meter provider with a periodic reader.
// Go runtime metrics are produced alongside the instrumented ones.
type MeterProvider struct {
	Resource       config.Reader[*resource.Resource]
	Exporter       config.Reader[sdkmetric.Exporter]
	ExportInterval config.Reader[time.Duration]
}

// MeterProviderFromEnv reads the export interval from OTEL_METRIC_EXPORT_INTERVAL.
func MeterProviderFromEnv(rsc config.Reader[*resource.Resource], exporter config.Reader[sdkmetric.Exporter]) MeterProvider {
	return MeterProvider{
		Resource:       rsc,
		Exporter:       exporter,
		ExportInterval: config.DurationFromString(config.Env("OTEL_METRIC_EXPORT_INTERVAL")),
	}
}

// Read implements the [config.Reader] interface.
//
// Default export interval: 60s.
func (cfg MeterProvider) Read(ctx context.Context) (config.Value[metric.MeterProvider], error) {
	exporter, err := config.Read(ctx, cfg.Exporter)
	if err != nil || exporter == nil {
		return config.Value[metric.MeterProvider]{}, err
	}
	rsc, err := readResource(ctx, cfg.Resource)
	if err != nil {
		return config.Value[metric.MeterProvider]{}, err
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(config.MustOr(ctx, 60*time.Second, cfg.ExportInterval)),
		sdkmetric.WithProducer(runtime.NewProducer()),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(rsc),
		sdkmetric.WithReader(reader),
	)
	return config.ValueOf[metric.MeterProvider](mp), nil
}

// LoggerProvider configures a batching SDK logger provider.
type LoggerProvider struct {
	Resource           config.Reader[*resource.Resource]
	Exporter           config.Reader[sdklog.Exporter]
	ExportInterval     config.Reader[time.Duration]
	MaxExportBatchSize config.Reader[int]
	Levels             config.Reader[map[string]string]
}

// LoggerProviderFromEnv reads the batching settings and minimum levels from the environment.
func LoggerProviderFromEnv(rsc config.Reader[*resource.Resource], exporter config.Reader[sdklog.Exporter]) LoggerProvider {
	return LoggerProvider{
		Resource:           rsc,
		Exporter:           exporter,
		ExportInterval:     config.DurationFromString(config.Env("OTEL_BLP_EXPORT_INTERVAL")),
		MaxExportBatchSize: config.IntFromString(config.Env("OTEL_BLP_MAX_EXPORT_BATCH_SIZE")),
		Levels:             LevelsFromString(config.Env("OTEL_LOG_LEVELS")),
	}
}

// LevelsFromString parses "name=level,name=level" pairs.
// Malformed pairs are skipped.
func LevelsFromString(r config.Reader[string]) config.Reader[map[string]string] {
	return config.Map(r, func(ctx context.Context, s string) (map[string]string, error) {
		levels := make(map[string]string)
		for _, pair := range strings.Split(s, ",") {
			name, level, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			levels[strings.TrimSpace(name)] = strings.TrimSpace(level)
		}
		return levels, nil
	})
}

// Read implements the [config.Reader] interface.
//
// Defaults: export interval 1s, batch size 512, no level filtering.
func (cfg LoggerProvider) Read(ctx context.Context) (config.Value[log.LoggerProvider], error) {
	exporter, err := config.Read(ctx, cfg.Exporter)
	if err != nil || exporter == nil {
		return config.Value[log.LoggerProvider]{}, err
	}
	rsc, err := readResource(ctx, cfg.Resource)
	if err != nil {
		return config.Value[log.LoggerProvider]{}, err
	}
	levels, err := config.Read(ctx, cfg.Levels)
	if err != nil {
		return config.Value[log.LoggerProvider]{}, err
	}

	var processor sdklog.Processor = sdklog.NewBatchProcessor(
		exporter,
		sdklog.WithExportInterval(config.MustOr(ctx, time.Second, cfg.ExportInterval)),
		sdklog.WithExportMaxBatchSize(config.MustOr(ctx, 512, cfg.MaxExportBatchSize)),
	)
	if len(levels) > 0 {
		processor = NewLevelFilter(processor, levels)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(rsc),
		sdklog.WithProcessor(processor),
	)
	return config.ValueOf[log.LoggerProvider](lp), nil
}

func readResource(ctx context.Context, r config.Reader[*resource.Resource]) (*resource.Resource, error) {
	rsc, err := config.Read(ctx, r)
	if err != nil {
		return nil, err
	}
	if rsc == nil {
		return resource.Default(), nil
	}
	return rsc, nil
}
