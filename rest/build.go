// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"net/http"

	"github.com/z5labs/returns/app"
	rhttp "github.com/z5labs/returns/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Build returns a [app.Builder] for an HTTP server serving the [Api] built by b.
// Every request is traced with the route of the matched operation.
func Build(srv rhttp.Server, b app.Builder[*Api]) app.Builder[rhttp.App] {
	return rhttp.Build(srv, app.Bind(b, func(api *Api) app.Builder[http.Handler] {
		return app.BuilderFunc[http.Handler](func(ctx context.Context) (http.Handler, error) {
			return otelhttp.NewHandler(api, api.spec.Info.Title), nil
		})
	}))
}
