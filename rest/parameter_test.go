// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParameters(t *testing.T) {
	testCases := []struct {
		Name       string
		Path       Path
		Option     OperationOption
		Target     string
		Header     http.Header
		StatusCode int
		Body       string
	}{
		{
			Name:       "missing required query param",
			Path:       BasePath("/search"),
			Option:     QueryParam("q", Required()),
			Target:     "/search",
			StatusCode: http.StatusBadRequest,
			Body:       `{"detail":"missing required query parameter: q"}`,
		},
		{
			Name:       "present required query param",
			Path:       BasePath("/search"),
			Option:     QueryParam("q", Required()),
			Target:     "/search?q=go",
			StatusCode: http.StatusOK,
		},
		{
			Name:       "missing required header",
			Path:       BasePath("/search"),
			Option:     Header("x-request-id", Required()),
			Target:     "/search",
			StatusCode: http.StatusBadRequest,
			Body:       `{"detail":"missing required header parameter: X-Request-Id"}`,
		},
		{
			Name:       "present required header",
			Path:       BasePath("/search"),
			Option:     Header("X-Request-ID", Required()),
			Target:     "/search",
			Header:     http.Header{"X-Request-Id": []string{"abc"}},
			StatusCode: http.StatusOK,
		},
		{
			Name:       "query param not matching regex",
			Path:       BasePath("/search"),
			Option:     QueryParam("page", Regex(regexp.MustCompile(`^\d+$`))),
			Target:     "/search?page=one",
			StatusCode: http.StatusBadRequest,
			Body:       `{"detail":"invalid value for query parameter: page"}`,
		},
		{
			Name:       "path param not matching regex",
			Path:       BasePath("/items").Param("id", Regex(regexp.MustCompile(`^\d+$`))),
			Target:     "/items/abc",
			StatusCode: http.StatusBadRequest,
			Body:       `{"detail":"invalid value for path parameter: id"}`,
		},
		{
			Name:       "path param matching regex",
			Path:       BasePath("/items").Param("id", Regex(regexp.MustCompile(`^\d+$`))),
			Target:     "/items/12",
			StatusCode: http.StatusOK,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			var opts []OperationOption
			if testCase.Option != nil {
				opts = append(opts, testCase.Option)
			}

			api := NewApi("Test", "v1", Handle(
				http.MethodGet,
				testCase.Path,
				testHandler{responses: okResponses()},
				opts...,
			))

			req := httptest.NewRequest(http.MethodGet, testCase.Target, nil)
			for k, vs := range testCase.Header {
				req.Header[k] = vs
			}

			resp := serve(t, api, req)
			defer resp.Body.Close()

			require.Equal(t, testCase.StatusCode, resp.StatusCode)
			if testCase.Body != "" {
				require.Equal(t, testCase.Body, strings.TrimSpace(readBody(t, resp)))
			}
		})
	}
}

func TestParameterValues(t *testing.T) {
	var (
		id     string
		fields []string
		reqID  []string
	)
	api := NewApi("Test", "v1", Handle(
		http.MethodGet,
		BasePath("/items").Param("id"),
		testHandler{
			serve: func(w http.ResponseWriter, r *http.Request) error {
				id = PathParamValue(r.Context(), "id")
				fields = QueryParamValue(r.Context(), "fields")
				reqID = HeaderValue(r.Context(), "x-request-id")
				w.WriteHeader(http.StatusOK)
				return nil
			},
			responses: okResponses(),
		},
		QueryParam("fields"),
		Header("X-Request-Id"),
	))

	req := httptest.NewRequest(http.MethodGet, "/items/42?fields=a&fields=b", nil)
	req.Header.Set("X-Request-Id", "abc")

	resp := serve(t, api, req)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "42", id)
	require.Equal(t, []string{"a", "b"}, fields)
	require.Equal(t, []string{"abc"}, reqID)
}

func TestMissingRequiredParameterError(t *testing.T) {
	err := error(BadRequestError{Cause: MissingRequiredParameterError{Parameter: "q", In: "query"}})

	var missing MissingRequiredParameterError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "q", missing.Parameter)
}
