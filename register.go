// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"slices"

	"github.com/z5labs/returns/otel"
	"github.com/z5labs/returns/rest"
	"github.com/z5labs/returns/result"

	"github.com/swaggest/openapi-go/openapi3"
	gotel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/z5labs/returns"

// Registrar registers [Handler]s with a [rest.Api].
type Registrar struct {
	api      *rest.Api
	builder  *SchemaBuilder
	log      *slog.Logger
	failures metric.Int64Counter
}

type registrarOptions struct {
	builder       *SchemaBuilder
	meterProvider metric.MeterProvider
	logHandler    slog.Handler
}

// RegistrarOption configures a [Registrar].
type RegistrarOption func(*registrarOptions)

// WithSchemaBuilder shares b between registrars.
func WithSchemaBuilder(b *SchemaBuilder) RegistrarOption {
	return func(ro *registrarOptions) {
		ro.builder = b
	}
}

// WithMeterProvider sets the provider of the failure counter.
// The global provider is used by default.
func WithMeterProvider(mp metric.MeterProvider) RegistrarOption {
	return func(ro *registrarOptions) {
		ro.meterProvider = mp
	}
}

// WithLogHandler sets where failures which were not declared are logged.
func WithLogHandler(h slog.Handler) RegistrarOption {
	return func(ro *registrarOptions) {
		ro.logHandler = h
	}
}

// NewRegistrar returns a [Registrar] adding its routes to api.
func NewRegistrar(api *rest.Api, opts ...RegistrarOption) *Registrar {
	ro := &registrarOptions{
		meterProvider: gotel.GetMeterProvider(),
		logHandler:    otel.LogHandler(instrumentationName),
	}
	for _, opt := range opts {
		opt(ro)
	}
	if ro.builder == nil {
		ro.builder = NewSchemaBuilder()
	}

	log := slog.New(ro.logHandler)
	failures, err := ro.meterProvider.Meter(instrumentationName).Int64Counter(
		"returns.failures",
		metric.WithDescription("Number of requests answered with a declared failure."),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		log.Error("failed to create failure counter", slog.Any("error", err))
		failures = metricnoop.Int64Counter{}
	}

	return &Registrar{
		api:      api,
		builder:  ro.builder,
		log:      log,
		failures: failures,
	}
}

type options struct {
	declared   bool
	describers []Describer
	model      *Shape
	responses  *openapi3.Responses
	status     int
	operation  []rest.OperationOption
}

// Option configures the registration of a single route.
type Option func(*options)

// Errors declares the error kinds a handler can fail with.
// Calling it without any kinds declares that the handler never fails.
func Errors(ds ...Describer) Option {
	return func(o *options) {
		o.declared = true
		o.describers = append(o.describers, ds...)
	}
}

// ResponseModel documents the successful response with the shape of T
// instead of the success type of the handler.
func ResponseModel[T any]() Option {
	return func(o *options) {
		shape := ShapeOf[T]()
		o.model = &shape
	}
}

// Responses replaces every documented response except the successful one,
// which is replaced too when resps contains its status code.
func Responses(resps openapi3.Responses) Option {
	return func(o *options) {
		o.responses = &resps
	}
}

// StatusCode sets the status code of a successful response. It defaults to 200.
func StatusCode(status int) Option {
	return func(o *options) {
		o.status = status
	}
}

// Operation passes opts through to [rest.Api.Route].
func Operation(opts ...rest.OperationOption) Option {
	return func(o *options) {
		o.operation = append(o.operation, opts...)
	}
}

// Register documents h and adds it to the [rest.Api] of reg.
func Register[Req, Resp any](reg *Registrar, method string, path rest.Path, h Handler[Req, Resp], opts ...Option) error {
	err := register(reg, method, path, h, opts...)
	if err != nil {
		return fmt.Errorf("register %s %s: %w", method, path, err)
	}
	return nil
}

// Get registers h for GET requests on path.
func Get[Req, Resp any](reg *Registrar, path rest.Path, h Handler[Req, Resp], opts ...Option) error {
	return Register(reg, http.MethodGet, path, h, opts...)
}

// Post registers h for POST requests on path.
func Post[Req, Resp any](reg *Registrar, path rest.Path, h Handler[Req, Resp], opts ...Option) error {
	return Register(reg, http.MethodPost, path, h, opts...)
}

// Put registers h for PUT requests on path.
func Put[Req, Resp any](reg *Registrar, path rest.Path, h Handler[Req, Resp], opts ...Option) error {
	return Register(reg, http.MethodPut, path, h, opts...)
}

// Patch registers h for PATCH requests on path.
func Patch[Req, Resp any](reg *Registrar, path rest.Path, h Handler[Req, Resp], opts ...Option) error {
	return Register(reg, http.MethodPatch, path, h, opts...)
}

// Delete registers h for DELETE requests on path.
func Delete[Req, Resp any](reg *Registrar, path rest.Path, h Handler[Req, Resp], opts ...Option) error {
	return Register(reg, http.MethodDelete, path, h, opts...)
}

// Handle is a [rest.ApiOption] registering h with a new [Registrar].
// It panics if h can not be registered.
func Handle[Req, Resp any](method string, path rest.Path, h Handler[Req, Resp], opts ...Option) rest.ApiOption {
	return rest.ApiOptionFunc(func(api *rest.Api) {
		err := Register(NewRegistrar(api), method, path, h, opts...)
		if err != nil {
			panic(err)
		}
	})
}

func register[Req, Resp any](reg *Registrar, method string, path rest.Path, h Handler[Req, Resp], opts ...Option) error {
	o := &options{
		status: http.StatusOK,
	}
	for _, opt := range opts {
		opt(o)
	}
	if ed, ok := h.(ErrorDeclarer); ok {
		o.declared = true
		o.describers = append(o.describers, ed.Errors()...)
	}
	if !o.declared {
		return MissingAnnotationError{}
	}

	respType := reflect.TypeFor[Resp]()
	err := validateSuccessType(respType)
	if err != nil {
		return err
	}

	descs := make([]ErrorDescriptor, 0, len(o.describers))
	declared := make(map[int]struct{}, len(o.describers))
	for _, d := range o.describers {
		desc := d.Descriptor()
		descs = append(descs, desc)
		declared[desc.StatusCode] = struct{}{}
	}
	for _, desc := range descs {
		err := desc.Validate()
		if err != nil {
			return err
		}
	}
	if _, ok := declared[o.status]; ok {
		return DuplicateStatusCodeError{StatusCode: o.status, Kinds: kindsWithStatus(descs, o.status)}
	}

	errs, err := reg.builder.Build(descs...)
	if err != nil {
		return err
	}

	empty := respType == reflect.TypeFor[Empty]()
	model := ShapeOf[Resp]()
	if empty {
		model = Shape{}
	}
	if o.model != nil {
		model = *o.model
	}
	success, err := reg.builder.Success(o.status, model)
	if err != nil {
		return err
	}

	all := success.merge(errs)
	responses, schemas := all.OpenAPI(), all.Schemas
	if o.responses != nil {
		responses = success.OpenAPI()
		schemas = success.Schemas
		for code, resp := range o.responses.MapOfResponseOrRefValues {
			responses.MapOfResponseOrRefValues[code] = resp
		}
	}

	decoder, err := newRequestDecoder[Req](reg.builder)
	if err != nil {
		return err
	}

	op := &operation[Req, Resp]{
		handler:   h,
		status:    o.status,
		empty:     empty,
		declared:  declared,
		decoder:   decoder,
		responses: responses,
		schemas:   schemas,
		log:       reg.log,
		failures:  reg.failures,
	}

	err = reg.api.Route(method, path, op, o.operation...)
	var cce rest.ComponentConflictError
	if errors.As(err, &cce) {
		return SchemaNameConflictError{Name: cce.Name}
	}
	return err
}

func validateSuccessType(t reflect.Type) error {
	if t.Implements(reflect.TypeFor[result.Container]()) {
		return InvalidReturnTypeError{Type: t, Reason: "a result can not be nested in a result"}
	}
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return InvalidReturnTypeError{Type: t, Reason: t.Kind().String() + " values can not be encoded as JSON"}
	case reflect.Interface:
		if t.NumMethod() > 0 {
			return InvalidReturnTypeError{Type: t, Reason: "interface with methods has no JSON shape"}
		}
	}
	return nil
}

func kindsWithStatus(descs []ErrorDescriptor, status int) []string {
	kinds := []string{"success"}
	for _, desc := range descs {
		if desc.StatusCode == status {
			kinds = append(kinds, desc.Kind)
		}
	}
	slices.Sort(kinds[1:])
	return kinds
}
