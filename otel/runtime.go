// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"errors"

	"github.com/z5labs/returns/app"
	"github.com/z5labs/returns/config"

	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	lognoop "go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SDK holds the readers for every globally registered OpenTelemetry component.
// Unset readers fall back to W3C trace context and baggage propagation and no-op providers.
type SDK struct {
	TextMapPropagator config.Reader[propagation.TextMapPropagator]
	TracerProvider    config.Reader[trace.TracerProvider]
	MeterProvider     config.Reader[metric.MeterProvider]
	LoggerProvider    config.Reader[log.LoggerProvider]
}

// Runtime registers the OpenTelemetry providers globally for the lifetime
// of an inner [app.Runtime] and shuts them down once it returns.
type Runtime struct {
	inner          app.Runtime
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	loggerProvider log.LoggerProvider
}

// Build reads sdk, registers the resulting providers globally, starts the Go
// runtime metrics and then builds the inner runtime, so every component built
// by builder already sees the configured providers.
func Build[T app.Runtime](sdk SDK, builder app.Builder[T]) app.Builder[Runtime] {
	return app.BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
		var (
			defaultPropagator propagation.TextMapPropagator = propagation.NewCompositeTextMapPropagator(
				propagation.Baggage{},
				propagation.TraceContext{},
			)
			defaultTracerProvider trace.TracerProvider = tracenoop.NewTracerProvider()
			defaultMeterProvider  metric.MeterProvider = metricnoop.NewMeterProvider()
			defaultLoggerProvider log.LoggerProvider   = lognoop.NewLoggerProvider()
		)

		tmp := config.MustOr(ctx, defaultPropagator, sdk.TextMapPropagator)
		tp := config.MustOr(ctx, defaultTracerProvider, sdk.TracerProvider)
		mp := config.MustOr(ctx, defaultMeterProvider, sdk.MeterProvider)
		lp := config.MustOr(ctx, defaultLoggerProvider, sdk.LoggerProvider)

		otel.SetTextMapPropagator(tmp)
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
		global.SetLoggerProvider(lp)

		err := runtime.Start(runtime.WithMeterProvider(mp))
		if err != nil {
			return Runtime{}, err
		}

		inner, err := builder.Build(ctx)
		if err != nil {
			return Runtime{}, errors.Join(err, shutdown(tp, mp, lp).Close())
		}

		return Runtime{
			inner:          inner,
			tracerProvider: tp,
			meterProvider:  mp,
			loggerProvider: lp,
		}, nil
	})
}

// Run implements the [app.Runtime] interface.
// Provider shutdown errors are joined with the error of the inner runtime.
func (rt Runtime) Run(ctx context.Context) (err error) {
	defer try.Close(&err, shutdown(
		rt.tracerProvider,
		rt.meterProvider,
		rt.loggerProvider,
	))

	return rt.inner.Run(ctx)
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

type shutdowner interface {
	Shutdown(context.Context) error
}

// shutdown ignores any value which does not need shutting down, e.g. no-op providers.
func shutdown(vs ...any) closerFunc {
	return func() error {
		var errs []error
		for _, v := range vs {
			s, ok := v.(shutdowner)
			if !ok {
				continue
			}
			errs = append(errs, s.Shutdown(context.Background()))
		}
		return errors.Join(errs...)
	}
}
