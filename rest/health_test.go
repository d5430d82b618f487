// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/returns/health"

	"github.com/stretchr/testify/require"
)

func TestProbes(t *testing.T) {
	t.Run("will be healthy by default", func(t *testing.T) {
		api := NewApi("Test", "v1")

		for _, target := range []string{"/health/liveness", "/health/readiness"} {
			resp := serve(t, api, httptest.NewRequest(http.MethodGet, target, nil))
			require.Equal(t, http.StatusOK, resp.StatusCode, target)
		}
	})

	t.Run("will follow the configured monitors", func(t *testing.T) {
		var ready health.Binary
		api := NewApi("Test", "v1", Readiness(&ready))

		resp := serve(t, api, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		ready.MarkHealthy()

		resp = serve(t, api, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("will be unhealthy if the monitor fails", func(t *testing.T) {
		api := NewApi("Test", "v1", Liveness(health.MonitorFunc(func(ctx context.Context) (bool, error) {
			return true, errors.New("failed")
		})))

		resp := serve(t, api, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
