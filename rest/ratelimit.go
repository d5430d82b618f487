// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/swaggest/openapi-go/openapi3"
	"golang.org/x/time/rate"
)

// TooManyRequestsError is returned by operations limited with [RateLimit]
// once their limit is exhausted.
type TooManyRequestsError struct {
	RetryAfter int
}

func (e TooManyRequestsError) Error() string {
	return "too many requests"
}

// WriteHttpResponse implements the [HttpResponseWriter] interface.
func (e TooManyRequestsError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	w.Header().Set("Retry-After", strconv.Itoa(e.RetryAfter))
	HTTPError{Status: http.StatusTooManyRequests, Detail: e.Error()}.WriteHttpResponse(ctx, w)
}

// RateLimit allows an operation to be served at most r times per second
// with bursts of up to burst requests, shared across all clients.
// Each operation the option is applied to gets its own limit.
// Rejected requests receive a 429 Too Many Requests.
func RateLimit(r rate.Limit, burst int) OperationOption {
	retryAfter := 1
	if r > 0 {
		retryAfter = max(1, int(math.Ceil(1/float64(r))))
	}

	return func(oo *OperationOptions) {
		limiter := rate.NewLimiter(r, burst)
		oo.transforms = append(oo.transforms, func(req *http.Request) (*http.Request, error) {
			if !limiter.Allow() {
				return nil, TooManyRequestsError{RetryAfter: retryAfter}
			}
			return req, nil
		})

		Document(func(op *openapi3.Operation) {
			key := strconv.Itoa(http.StatusTooManyRequests)
			if _, ok := op.Responses.MapOfResponseOrRefValues[key]; ok {
				return
			}
			if op.Responses.MapOfResponseOrRefValues == nil {
				op.Responses.MapOfResponseOrRefValues = make(map[string]openapi3.ResponseOrRef)
			}
			op.Responses.MapOfResponseOrRefValues[key] = openapi3.ResponseOrRef{
				Response: &openapi3.Response{
					Description: http.StatusText(http.StatusTooManyRequests),
				},
			}
		})(oo)
	}
}
