// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package returns registers HTTP handlers which return an explicit success
// or failure [Result] instead of an error.
//
// Every failure a handler can produce is declared up front as an error [Kind],
// which fixes its status code and the JSON shape of its payload:
//
//	var ItemNotFound = returns.Describe[string]("ItemNotFound", http.StatusNotFound,
//	    returns.WithDetail("item not found"),
//	)
//
// Registering the handler together with its declared kinds documents one
// OpenAPI response per status code and mounts a wrapper which unwraps the
// result at request time:
//
//	reg := returns.NewRegistrar(api)
//	err := returns.Get(reg, rest.BasePath("/items").Param("id"), getItem,
//	    returns.Errors(ItemNotFound),
//	)
//
// A success is written as the JSON encoded payload. A declared failure is
// written as {"detail": payload} with the status code of its kind. Anything
// else, an error returned next to the result or a panic, goes to the
// generic error handling of the [rest.Api] and becomes an opaque 500.
package returns
