// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// HttpResponseWriter is implemented by errors which know how to write
// themselves as an HTTP response.
type HttpResponseWriter interface {
	WriteHttpResponse(context.Context, http.ResponseWriter)
}

// ErrorHandler writes the response for an error returned by an operation.
type ErrorHandler interface {
	OnError(context.Context, http.ResponseWriter, error)
}

// ErrorHandlerFunc is a function which implements [ErrorHandler].
type ErrorHandlerFunc func(context.Context, http.ResponseWriter, error)

// OnError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) OnError(ctx context.Context, w http.ResponseWriter, err error) {
	f(ctx, w, err)
}

// DefaultErrorHandler logs err and lets it write its own response if any error
// in its chain implements [HttpResponseWriter]. Every other error becomes a
// 500 Internal Server Error with an empty body, so no internal detail leaks.
func DefaultErrorHandler(h slog.Handler) ErrorHandlerFunc {
	log := slog.New(h)

	return func(ctx context.Context, w http.ResponseWriter, err error) {
		var hrw HttpResponseWriter
		if errors.As(err, &hrw) {
			log.WarnContext(ctx, "sending error response", slog.Any("error", err))
			hrw.WriteHttpResponse(ctx, w)
			return
		}

		log.ErrorContext(ctx, "unexpected error while handling request", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// BadRequestError is a 400 Bad Request caused by a malformed request.
type BadRequestError struct {
	Cause error
}

func (e BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e BadRequestError) Unwrap() error {
	return e.Cause
}

// WriteHttpResponse implements the [HttpResponseWriter] interface.
func (e BadRequestError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	HTTPError{Status: http.StatusBadRequest, Detail: e.Cause.Error()}.WriteHttpResponse(ctx, w)
}

// InvalidContentTypeError is the cause of a [BadRequestError] for request
// bodies of an unsupported media type.
type InvalidContentTypeError struct {
	ContentType string
}

func (e InvalidContentTypeError) Error() string {
	return fmt.Sprintf("invalid content type for request: %q", e.ContentType)
}
