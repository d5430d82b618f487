// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package result provides a two-variant container holding either a success
// value or a failure value.
package result

import "fmt"

// Container is implemented by every [Result], regardless of its type parameters.
type Container interface {
	IsSuccess() bool
	IsFailure() bool
}

// Result holds either a success value of type S or a failure value of type F.
//
// A Result is immutable once constructed. The zero value is a failure
// holding the zero value of F, so successes must be built with [Success].
type Result[S, F any] struct {
	value   S
	failure F
	ok      bool
}

// Success returns a Result holding the success value v.
func Success[S, F any](v S) Result[S, F] {
	return Result[S, F]{value: v, ok: true}
}

// Failure returns a Result holding the failure value f.
func Failure[S, F any](f F) Result[S, F] {
	return Result[S, F]{failure: f}
}

// IsSuccess reports whether r holds a success value.
func (r Result[S, F]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether r holds a failure value.
func (r Result[S, F]) IsFailure() bool {
	return !r.ok
}

// UnwrapError is the panic value of [Result.Unwrap] and [Result.UnwrapFailure]
// when called on the wrong variant.
type UnwrapError struct {
	Want string
}

func (e UnwrapError) Error() string {
	return fmt.Sprintf("result: unwrap %s called on a result which is not a %s", e.Want, e.Want)
}

// Unwrap returns the success value. It panics with an [UnwrapError] if r is a failure.
func (r Result[S, F]) Unwrap() S {
	if !r.ok {
		panic(UnwrapError{Want: "success"})
	}
	return r.value
}

// UnwrapFailure returns the failure value. It panics with an [UnwrapError] if r is a success.
func (r Result[S, F]) UnwrapFailure() F {
	if r.ok {
		panic(UnwrapError{Want: "failure"})
	}
	return r.failure
}

// Get returns both variants along with whether r is a success.
// Only one of the returned values is meaningful.
func (r Result[S, F]) Get() (S, F, bool) {
	return r.value, r.failure, r.ok
}

// Match calls exactly one of onSuccess or onFailure depending on the variant.
func (r Result[S, F]) Match(onSuccess func(S), onFailure func(F)) {
	if r.ok {
		onSuccess(r.value)
		return
	}
	onFailure(r.failure)
}

// String implements the [fmt.Stringer] interface.
func (r Result[S, F]) String() string {
	if r.ok {
		return fmt.Sprintf("Success(%v)", r.value)
	}
	return fmt.Sprintf("Failure(%v)", r.failure)
}
