// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"

	"github.com/z5labs/returns/rest"

	"github.com/swaggest/openapi-go/openapi3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type operation[Req, Resp any] struct {
	handler  Handler[Req, Resp]
	status   int
	empty    bool
	declared map[int]struct{}
	decoder  requestDecoder[Req]

	responses openapi3.Responses
	schemas   map[string]openapi3.SchemaOrRef

	log      *slog.Logger
	failures metric.Int64Counter
}

func (op *operation[Req, Resp]) RequestBody() openapi3.RequestBodyOrRef {
	return op.decoder.body
}

func (op *operation[Req, Resp]) Responses() openapi3.Responses {
	return openapi3.Responses{
		Default:                  op.responses.Default,
		MapOfResponseOrRefValues: maps.Clone(op.responses.MapOfResponseOrRefValues),
		MapOfAnything:            maps.Clone(op.responses.MapOfAnything),
	}
}

func (op *operation[Req, Resp]) Schemas() map[string]openapi3.SchemaOrRef {
	return maps.Clone(op.schemas)
}

func (op *operation[Req, Resp]) Serve(w http.ResponseWriter, r *http.Request) error {
	ctx, span := otel.Tracer(instrumentationName).Start(r.Context(), "operation.Serve")
	defer span.End()

	req, err := op.decoder.read(r.WithContext(ctx))
	if err != nil {
		return err
	}

	res, err := op.handler.Handle(ctx, req)
	if err != nil {
		return err
	}

	resp, failure, ok := res.Get()
	if ok {
		return op.writeSuccess(w, resp)
	}
	if failure == nil {
		return NilFailureError{}
	}
	return op.fail(r.WithContext(ctx), span, failure)
}

func (op *operation[Req, Resp]) writeSuccess(w http.ResponseWriter, resp *Resp) error {
	if op.empty {
		w.WriteHeader(op.status)
		return nil
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(op.status)
	_, err = w.Write(b)
	return err
}

func (op *operation[Req, Resp]) fail(r *http.Request, span trace.Span, f Failure) error {
	status := f.StatusCode()
	if status < 400 || status > 599 {
		return fmt.Errorf("%w: %w", InvalidFailureStatusError{StatusCode: status}, f)
	}

	kind := fmt.Sprintf("%T", f)
	if k, ok := f.(interface{ Kind() string }); ok {
		kind = k.Kind()
	}
	attrs := []attribute.KeyValue{
		attribute.Int("http.response.status_code", status),
		attribute.String("returns.kind", kind),
	}
	span.SetAttributes(attrs...)
	op.failures.Add(r.Context(), 1, metric.WithAttributes(attrs...))

	if _, ok := op.declared[status]; !ok {
		op.log.WarnContext(
			r.Context(),
			"handler failed with an undeclared status code",
			slog.String("http.method", r.Method),
			slog.String("http.path", r.URL.Path),
			slog.Int("status_code", status),
			slog.String("kind", kind),
		)
	}

	return rest.HTTPError{
		Status: status,
		Detail: f.Detail(),
	}
}
