// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/z5labs/returns"
	"github.com/z5labs/returns/rest"

	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, req *http.Request) (*http.Response, string) {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestGetDummy(t *testing.T) {
	api := rest.NewApi("test", "v0.0.0")
	require.NoError(t, GetDummy(returns.NewRegistrar(api)))

	testCases := []struct {
		Name       string
		Path       string
		StatusCode int
		Body       string
	}{
		{
			Name:       "positive n",
			Path:       "/dummy/7",
			StatusCode: http.StatusOK,
			Body:       `{"some_field": "dummy 7"}`,
		},
		{
			Name:       "n is not a number",
			Path:       "/dummy/seven",
			StatusCode: http.StatusBadRequest,
			Body:       `{"detail": "n must be an integer"}`,
		},
		{
			Name:       "zero",
			Path:       "/dummy/0",
			StatusCode: http.StatusForbidden,
			Body:       `{"detail": "dummy forbidden message"}`,
		},
		{
			Name:       "n above the maximum",
			Path:       "/dummy/101",
			StatusCode: http.StatusNotFound,
			Body:       `{"detail": "dummy not found message"}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			resp, body := do(t, api, httptest.NewRequest(http.MethodGet, testCase.Path, nil))

			require.Equal(t, testCase.StatusCode, resp.StatusCode)
			require.JSONEq(t, testCase.Body, body)
		})
	}
}

func TestGetDummyHandler_Handle(t *testing.T) {
	t.Run("will fail with structured details for a negative n", func(t *testing.T) {
		now := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
		h := &getDummyHandler{
			now: func() time.Time { return now },
		}

		res, err := h.Handle(context.Background(), &GetDummyRequest{N: "-1"})
		require.NoError(t, err)
		require.True(t, res.IsFailure())

		failure := res.UnwrapFailure()
		require.Equal(t, http.StatusUnprocessableEntity, failure.StatusCode())
		require.Equal(t, DummyErrorDetails{
			ErrorDatetime: now,
			Reason:        "n must not be negative",
		}, failure.Detail())
	})
}
