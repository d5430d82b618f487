// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

func (api *Api) serveJSON(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(api.spec)
	if err != nil {
		api.log.ErrorContext(r.Context(), "failed to encode openapi document to json", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (api *Api) serveYAML(w http.ResponseWriter, r *http.Request) {
	b, err := MarshalYAML(api)
	if err != nil {
		api.log.ErrorContext(r.Context(), "failed to encode openapi document to yaml", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Write(b)
}

// MarshalYAML encodes the OpenAPI document of api as YAML.
//
// The document is encoded through its JSON form so the YAML output uses
// the same field names and omits the same empty values.
func MarshalYAML(api *Api) ([]byte, error) {
	b, err := json.Marshal(api.spec)
	if err != nil {
		return nil, err
	}

	var doc any
	err = yaml.Unmarshal(b, &doc)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
