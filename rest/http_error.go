// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPError is an error carrying its own status code and detail payload.
// It is written as the JSON body {"detail": Detail}.
type HTTPError struct {
	Status int
	Detail any
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("http error %d: %v", e.Status, e.Detail)
}

type errorBody struct {
	Detail any `json:"detail"`
}

// WriteHttpResponse implements the [HttpResponseWriter] interface.
func (e HTTPError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)

	// the status line is already sent, so an encoding error can not be reported to the client
	_ = json.NewEncoder(w).Encode(errorBody{Detail: e.Detail})
}
