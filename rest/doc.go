// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest is the router underneath the returns handlers: a chi based
// [http.Handler] which keeps an OpenAPI 3.0 document of its operations.
//
// # Operations
//
// An operation is any [Handler]. It is mounted either while building the
// [Api] with [Handle] or afterwards with [Api.Route]:
//
//	api := rest.NewApi("Items", "v1.0.0")
//	err := api.Route(
//	    http.MethodGet,
//	    rest.BasePath("/items").Param("id"),
//	    getItem,
//	    rest.QueryParam("fields", rest.Regex(regexp.MustCompile(`^[a-z,]+$`))),
//	    rest.RateLimit(50, 10),
//	)
//
// # Errors
//
// Errors returned by a [Handler] go to the [ErrorHandler] of the operation.
// The default one lets errors implementing [HttpResponseWriter], such as
// [HTTPError] and [BadRequestError], write their own response and turns
// anything else into an empty 500 Internal Server Error.
//
// # Built-in routes
//
//   - GET /openapi.json and GET /openapi.yaml serve the document
//   - GET /health/liveness and GET /health/readiness, see [Liveness] and [Readiness]
package rest
