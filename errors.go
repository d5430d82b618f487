// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"fmt"
	"reflect"
	"strings"
)

// MissingAnnotationError is returned when a handler is registered without
// declaring the error kinds it can fail with.
type MissingAnnotationError struct{}

// Error implements the [error] interface.
func (MissingAnnotationError) Error() string {
	return "handler does not declare its error kinds"
}

// InvalidReturnTypeError is returned when the success type of a handler
// can not be encoded as a JSON response.
type InvalidReturnTypeError struct {
	Type   reflect.Type
	Reason string
}

// Error implements the [error] interface.
func (e InvalidReturnTypeError) Error() string {
	return fmt.Sprintf("invalid success type %s: %s", e.Type, e.Reason)
}

// InvalidErrorDescriptorError is returned for an error kind which can not
// be documented as a response.
type InvalidErrorDescriptorError struct {
	Kind       string
	StatusCode int
	Reason     string
}

// Error implements the [error] interface.
func (e InvalidErrorDescriptorError) Error() string {
	return fmt.Sprintf("invalid error kind %q with status code %d: %s", e.Kind, e.StatusCode, e.Reason)
}

// DuplicateStatusCodeError is returned when more than one response of an
// operation would share a status code.
type DuplicateStatusCodeError struct {
	StatusCode int
	Kinds      []string
}

// Error implements the [error] interface.
func (e DuplicateStatusCodeError) Error() string {
	return fmt.Sprintf("status code %d is declared more than once: %s", e.StatusCode, strings.Join(e.Kinds, ", "))
}

// SchemaNameConflictError is returned when two different payload shapes
// map to the same schema component name.
type SchemaNameConflictError struct {
	Name string
}

// Error implements the [error] interface.
func (e SchemaNameConflictError) Error() string {
	return fmt.Sprintf("schema name is used by more than one payload shape: %s", e.Name)
}

// NilFailureError is returned by the handler wrapper when a handler
// returns a failed result without a failure value.
type NilFailureError struct{}

// Error implements the [error] interface.
func (NilFailureError) Error() string {
	return "handler returned a failed result without a failure"
}

// InvalidFailureStatusError is returned by the handler wrapper when a
// failure carries a status code which is not a client or server error.
type InvalidFailureStatusError struct {
	StatusCode int
}

// Error implements the [error] interface.
func (e InvalidFailureStatusError) Error() string {
	return fmt.Sprintf("failure status code is not a client or server error: %d", e.StatusCode)
}
