// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/z5labs/returns/app"
	dummy "github.com/z5labs/returns/example/rest/dummy/app"
	httpserver "github.com/z5labs/returns/http"
	"github.com/z5labs/returns/otel"
	"github.com/z5labs/returns/otel/otlp"
	"github.com/z5labs/returns/rest"
)

func main() {
	listener := httpserver.NewTCPListener(httpserver.AddrFromEnv())
	srv := httpserver.NewServer(listener, httpserver.FromEnv())

	appBuilder := rest.Build(srv, dummy.BuildApi(dummy.ConfigFromEnv()))

	rsc := otel.ResourceFromEnv()
	sdk := otel.SDK{
		TracerProvider: otel.TracerProviderFromEnv(rsc, otlp.TracesFromEnv().Traces()),
		MeterProvider:  otel.MeterProviderFromEnv(rsc, otlp.MetricsFromEnv().Metrics()),
		LoggerProvider: otel.LoggerProviderFromEnv(rsc, otlp.LogsFromEnv().Logs()),
	}

	err := app.Run(context.Background(), otel.Build(sdk, appBuilder))
	if err != nil {
		app.LogError(slog.Default().Handler(), err)
		os.Exit(1)
	}
}
