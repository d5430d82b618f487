// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"

	"github.com/z5labs/returns/rest"
	"github.com/z5labs/returns/result"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
	"github.com/z5labs/sdk-go/try"
)

// Result is what a [Handler] returns: either a successful payload or a [Failure].
type Result[T any] = result.Result[T, Failure]

// Ok returns a successful [Result] holding v.
func Ok[T any](v *T) Result[*T] {
	return result.Success[*T, Failure](v)
}

// Fail returns a failed [Result] holding f.
func Fail[T any](f Failure) Result[*T] {
	return result.Failure[*T](f)
}

// Handler handles a request and returns its outcome as a [Result].
//
// A returned error is not a declared failure. It is passed to the error
// handling of the operation, which by default responds with a 500.
type Handler[Req, Resp any] interface {
	Handle(context.Context, *Req) (Result[*Resp], error)
}

// HandlerFunc is a func implementation of [Handler].
type HandlerFunc[Req, Resp any] func(context.Context, *Req) (Result[*Resp], error)

// Handle implements the [Handler] interface.
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req *Req) (Result[*Resp], error) {
	return f(ctx, req)
}

// ErrorDeclarer is implemented by handlers which declare their own error kinds.
type ErrorDeclarer interface {
	Errors() []Describer
}

// EmptyRequest is used by handlers which do not read anything from the request.
type EmptyRequest struct{}

// Empty is used by handlers whose successful response has no content.
type Empty struct{}

// RequestReader is implemented by request types which read themselves
// from the HTTP request, e.g. from path or query parameters.
type RequestReader interface {
	ReadRequest(context.Context, *http.Request) error
}

// RequestSpec is optionally implemented by a [RequestReader] to document
// the request body it consumes.
type RequestSpec interface {
	Spec() (openapi3.RequestBodyOrRef, error)
}

type requestDecoder[Req any] struct {
	read func(*http.Request) (*Req, error)
	body openapi3.RequestBodyOrRef
}

func newRequestDecoder[Req any](b *SchemaBuilder) (requestDecoder[Req], error) {
	var req Req
	switch v := any(&req).(type) {
	case *EmptyRequest:
		return requestDecoder[Req]{read: readNothing[Req]}, nil
	case RequestReader:
		d := requestDecoder[Req]{read: readSelf[Req]}
		spec, ok := v.(RequestSpec)
		if !ok {
			return d, nil
		}
		body, err := spec.Spec()
		if err != nil {
			return requestDecoder[Req]{}, err
		}
		d.body = body
		return d, nil
	}

	schema, err := b.reflect(reflect.TypeFor[Req]())
	if err != nil {
		return requestDecoder[Req]{}, err
	}
	return requestDecoder[Req]{
		read: readJson[Req],
		body: openapi3.RequestBodyOrRef{
			RequestBody: &openapi3.RequestBody{
				Required: ptr.Ref(true),
				Content: map[string]openapi3.MediaType{
					jsonContentType: {Schema: &schema},
				},
			},
		},
	}, nil
}

func readNothing[Req any](*http.Request) (*Req, error) {
	return new(Req), nil
}

func readSelf[Req any](r *http.Request) (*Req, error) {
	req := new(Req)
	err := any(req).(RequestReader).ReadRequest(r.Context(), r)
	if err == nil {
		return req, nil
	}
	var hrw rest.HttpResponseWriter
	if errors.As(err, &hrw) {
		return nil, err
	}
	return nil, rest.BadRequestError{Cause: err}
}

func readJson[Req any](r *http.Request) (req *Req, err error) {
	defer try.Close(&err, r.Body)

	contentType := r.Header.Get("Content-Type")
	mediaType, _, perr := mime.ParseMediaType(contentType)
	if perr != nil || mediaType != jsonContentType {
		return nil, rest.BadRequestError{
			Cause: rest.InvalidContentTypeError{
				ContentType: contentType,
			},
		}
	}

	req = new(Req)
	err = json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		return nil, rest.BadRequestError{Cause: err}
	}
	return req, nil
}
