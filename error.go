// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"fmt"
)

// Failure is the failure variant carried by a handler [Result].
type Failure interface {
	error

	StatusCode() int
	Detail() any
}

// Error is a [Failure] belonging to a declared error [Kind].
type Error struct {
	kind   string
	status int
	detail any
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %v", e.kind, e.status, e.detail)
}

// Kind returns the name of the error kind e belongs to.
func (e *Error) Kind() string {
	return e.kind
}

// StatusCode implements the [Failure] interface.
func (e *Error) StatusCode() int {
	return e.status
}

// Detail implements the [Failure] interface.
func (e *Error) Detail() any {
	return e.detail
}

// Is reports whether target is an [*Error] of the same kind and status code,
// regardless of its detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.status == e.status
}

// Kind is a statically declared error kind whose failures carry a detail of type D.
type Kind[D any] struct {
	desc      ErrorDescriptor
	detail    D
	hasDetail bool
}

// KindOption configures a [Kind].
type KindOption[D any] func(*Kind[D])

// WithDetail sets the detail used by [Kind.Err].
func WithDetail[D any](d D) KindOption[D] {
	return func(k *Kind[D]) {
		k.detail = d
		k.hasDetail = true
	}
}

// Describe declares an error kind sent with the given status code.
func Describe[D any](kind string, status int, opts ...KindOption[D]) Kind[D] {
	k := Kind[D]{
		desc: ErrorDescriptor{
			Kind:       kind,
			StatusCode: status,
			Payload:    ShapeOf[D](),
		},
	}
	for _, opt := range opts {
		opt(&k)
	}
	return k
}

// Literal declares an error kind whose detail is always the string value.
// Failures of the kind should be created with [Kind.Err].
func Literal(kind string, status int, value string) Kind[string] {
	return Kind[string]{
		desc: ErrorDescriptor{
			Kind:       kind,
			StatusCode: status,
			Payload:    LiteralShape(value),
		},
		detail:    value,
		hasDetail: true,
	}
}

// Descriptor implements the [Describer] interface.
func (k Kind[D]) Descriptor() ErrorDescriptor {
	return k.desc
}

// New returns a failure of kind k carrying detail.
func (k Kind[D]) New(detail D) *Error {
	return &Error{
		kind:   k.desc.Kind,
		status: k.desc.StatusCode,
		detail: detail,
	}
}

// Err returns a failure of kind k carrying its default detail.
// Without a default the detail is encoded as null.
func (k Kind[D]) Err() *Error {
	e := &Error{
		kind:   k.desc.Kind,
		status: k.desc.StatusCode,
	}
	if k.hasDetail {
		e.detail = k.detail
	}
	return e
}
