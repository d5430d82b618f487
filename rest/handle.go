// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/http"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handler serves an operation and describes it for the OpenAPI document.
//
// An error returned from Serve, or a panic, is passed to the [ErrorHandler]
// of the operation. Serve must not have written to the response in that case.
type Handler interface {
	Serve(http.ResponseWriter, *http.Request) error

	RequestBody() openapi3.RequestBodyOrRef
	Responses() openapi3.Responses
}

// OperationOptions holds the configuration of a single operation.
type OperationOptions struct {
	parameters  []openapi3.ParameterOrRef
	transforms  []func(*http.Request) (*http.Request, error)
	documenters []func(*openapi3.Operation)
	errHandler  ErrorHandler
}

// OperationOption configures an operation mounted with [Api.Route] or [Handle].
type OperationOption func(*OperationOptions)

// OnError replaces the [ErrorHandler] of an operation.
func OnError(eh ErrorHandler) OperationOption {
	return func(oo *OperationOptions) {
		oo.errHandler = eh
	}
}

// Document applies f to the OpenAPI operation before it is added to the document.
func Document(f func(*openapi3.Operation)) OperationOption {
	return func(oo *OperationOptions) {
		oo.documenters = append(oo.documenters, f)
	}
}

// Summary sets the summary of an operation.
func Summary(s string) OperationOption {
	return Document(func(op *openapi3.Operation) {
		op.Summary = &s
	})
}

// Description sets the description of an operation.
func Description(s string) OperationOption {
	return Document(func(op *openapi3.Operation) {
		op.Description = &s
	})
}

// OperationID sets the unique id of an operation.
func OperationID(id string) OperationOption {
	return Document(func(op *openapi3.Operation) {
		op.ID = &id
	})
}

// Tags appends tags to an operation.
func Tags(tags ...string) OperationOption {
	return Document(func(op *openapi3.Operation) {
		op.Tags = append(op.Tags, tags...)
	})
}

// Handle is an [ApiOption] which mounts h with [Api.Route].
// It panics if the operation can not be registered.
func Handle(method string, path Path, h Handler, opts ...OperationOption) ApiOption {
	return ApiOptionFunc(func(api *Api) {
		err := api.Route(method, path, h, opts...)
		if err != nil {
			panic(err)
		}
	})
}

type operationHandler struct {
	tracer     trace.Tracer
	errHandler ErrorHandler
	transforms []func(*http.Request) (*http.Request, error)
	inner      Handler
}

func newOperationHandler(endpoint string, oo *OperationOptions, h Handler) http.Handler {
	return otelhttp.WithRouteTag(endpoint, &operationHandler{
		tracer:     otel.Tracer(loggerName),
		errHandler: oo.errHandler,
		transforms: oo.transforms,
		inner:      h,
	})
}

// ServeHTTP implements the [http.Handler] interface.
func (o *operationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	spanCtx, span := o.tracer.Start(r.Context(), "operationHandler.ServeHTTP")
	defer span.End()

	var err error
	defer func() {
		if err == nil {
			return
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.errHandler.OnError(spanCtx, w, err)
	}()
	defer try.Recover(&err)

	r = r.WithContext(spanCtx)
	for _, transform := range o.transforms {
		r, err = transform(r)
		if err != nil {
			return
		}
	}

	err = o.inner.Serve(w, r)
}
