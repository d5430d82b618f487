// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"net/http"
	"time"

	"github.com/z5labs/returns"
)

// DummyErrorDetails is the structured detail of [DummyUnprocessable] failures.
type DummyErrorDetails struct {
	ErrorDatetime time.Time `json:"error_datetime"`
	Reason        string    `json:"reason"`
}

// ItemConflict is the structured detail of [ItemAlreadyExists] failures.
type ItemConflict struct {
	ExistingID string `json:"existing_id"`
	Name       string `json:"name"`
}

var (
	InvalidNumber = returns.Describe[string](
		"InvalidNumber",
		http.StatusBadRequest,
		returns.WithDetail("n must be an integer"),
	)

	DummyForbidden = returns.Literal("DummyForbidden", http.StatusForbidden, "dummy forbidden message")

	DummyNotFound = returns.Describe[string](
		"DummyNotFound",
		http.StatusNotFound,
		returns.WithDetail("dummy not found message"),
	)

	DummyUnprocessable = returns.Describe[DummyErrorDetails]("DummyUnprocessable", http.StatusUnprocessableEntity)

	InvalidItemID = returns.Literal("InvalidItemID", http.StatusBadRequest, "invalid item id")

	InvalidItem = returns.Describe[[]string]("InvalidItem", http.StatusBadRequest)

	ItemNotFound = returns.Describe[string]("ItemNotFound", http.StatusNotFound)

	ItemAlreadyExists = returns.Describe[ItemConflict]("ItemAlreadyExists", http.StatusConflict)
)
