// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"log/slog"
	"net/http"

	"github.com/z5labs/returns/health"
)

// Liveness backs GET /health/liveness with m.
// The probe answers 200 OK while m is healthy and 503 Service Unavailable otherwise.
func Liveness(m health.Monitor) ApiOption {
	return ApiOptionFunc(func(api *Api) {
		api.liveness = m
	})
}

// Readiness backs GET /health/readiness with m.
// The probe answers 200 OK while m is healthy and 503 Service Unavailable otherwise.
func Readiness(m health.Monitor) ApiOption {
	return ApiOptionFunc(func(api *Api) {
		api.readiness = m
	})
}

func probe(log *slog.Logger, monitor func() health.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy, err := monitor().Healthy(r.Context())
		if err != nil {
			log.ErrorContext(r.Context(), "failed to check health", slog.Any("error", err))
		}
		if !healthy || err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
