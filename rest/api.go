// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/z5labs/returns/health"
	"github.com/z5labs/returns/otel"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
)

const loggerName = "github.com/z5labs/returns/rest"

// ApiOption configures an [Api] while it is being constructed by [NewApi].
type ApiOption interface {
	ApplyApiOption(*Api)
}

// ApiOptionFunc is a function which implements [ApiOption].
type ApiOptionFunc func(*Api)

// ApplyApiOption implements the [ApiOption] interface.
func (f ApiOptionFunc) ApplyApiOption(api *Api) {
	f(api)
}

// NotFound replaces the handler for requests which match no route.
func NotFound(h http.Handler) ApiOption {
	return ApiOptionFunc(func(api *Api) {
		api.mux.NotFound(h.ServeHTTP)
	})
}

// MethodNotAllowed replaces the handler for requests whose path matches
// a route but whose method does not.
func MethodNotAllowed(h http.Handler) ApiOption {
	return ApiOptionFunc(func(api *Api) {
		api.mux.MethodNotAllowed(h.ServeHTTP)
	})
}

// Api is an [http.Handler] which routes requests to its operations and keeps
// the OpenAPI 3.0 document describing them.
//
// Every Api serves:
//   - GET /openapi.json and GET /openapi.yaml
//   - GET /health/liveness and GET /health/readiness
type Api struct {
	mux       *chi.Mux
	spec      *openapi3.Spec
	log       *slog.Logger
	liveness  health.Monitor
	readiness health.Monitor
}

// NewApi returns an [Api] with the given document title and version.
func NewApi(title, version string, opts ...ApiOption) *Api {
	api := &Api{
		mux: chi.NewMux(),
		spec: &openapi3.Spec{
			Openapi: "3.0.3",
			Info: openapi3.Info{
				Title:   title,
				Version: version,
			},
		},
		log:       otel.Logger(loggerName),
		liveness:  health.And(),
		readiness: health.And(),
	}

	api.mux.Get("/openapi.json", api.serveJSON)
	api.mux.Get("/openapi.yaml", api.serveYAML)
	api.mux.Get("/health/liveness", probe(api.log, func() health.Monitor { return api.liveness }))
	api.mux.Get("/health/readiness", probe(api.log, func() health.Monitor { return api.readiness }))

	for _, opt := range opts {
		opt.ApplyApiOption(api)
	}
	return api
}

// Spec returns the OpenAPI document of the Api.
// It must not be modified once the Api is serving requests.
func (api *Api) Spec() *openapi3.Spec {
	return api.spec
}

// ServeHTTP implements the [http.Handler] interface.
func (api *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mux.ServeHTTP(w, r)
}

// ComponentSchemas is implemented by [Handler]s whose documented
// responses reference named schema components.
type ComponentSchemas interface {
	Schemas() map[string]openapi3.SchemaOrRef
}

// ComponentConflictError is returned by [Api.Route] when a handler defines a
// schema component whose name is already taken by a different definition.
type ComponentConflictError struct {
	Name string
}

func (e ComponentConflictError) Error() string {
	return fmt.Sprintf("schema component already defined with a different definition: %s", e.Name)
}

// Route documents and mounts h at method and path.
//
// Nothing is registered if an error is returned, e.g. if the method and
// path are already taken or a component schema of h conflicts with an
// existing one.
func (api *Api) Route(method string, path Path, h Handler, opts ...OperationOption) error {
	oo := &OperationOptions{
		errHandler: DefaultErrorHandler(otel.LogHandler(loggerName)),
	}
	for _, el := range path {
		el.applyOperationOption(oo)
	}
	for _, opt := range opts {
		opt(oo)
	}

	var schemas map[string]openapi3.SchemaOrRef
	if cs, ok := h.(ComponentSchemas); ok {
		schemas = cs.Schemas()
	}
	err := api.checkComponents(schemas)
	if err != nil {
		return err
	}

	op := openapi3.Operation{
		Parameters: oo.parameters,
		Responses:  h.Responses(),
	}
	reqBody := h.RequestBody()
	if reqBody.RequestBody != nil || reqBody.RequestBodyReference != nil {
		op.RequestBody = &reqBody
	}
	for _, f := range oo.documenters {
		f(&op)
	}

	method = strings.ToUpper(method)
	endpoint := path.String()
	err = api.spec.AddOperation(method, endpoint, op)
	if err != nil {
		return err
	}

	for name, schema := range schemas {
		api.spec.ComponentsEns().SchemasEns().WithMapOfSchemaOrRefValuesItem(name, schema)
	}

	api.mux.Method(method, endpoint, newOperationHandler(endpoint, oo, h))
	return nil
}

func (api *Api) checkComponents(schemas map[string]openapi3.SchemaOrRef) error {
	if len(schemas) == 0 || api.spec.Components == nil || api.spec.Components.Schemas == nil {
		return nil
	}
	existing := api.spec.Components.Schemas.MapOfSchemaOrRefValues
	for name, schema := range schemas {
		prev, ok := existing[name]
		if ok && !reflect.DeepEqual(prev, schema) {
			return ComponentConflictError{Name: name}
		}
	}
	return nil
}
