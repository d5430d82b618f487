// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides composable, lazily evaluated configuration values.
//
// A [Reader] produces a [Value] which may or may not be set. Readers are
// combined to express fallbacks, defaults and parsing:
//
//	addr := config.Or(
//	    config.Env("HTTP_ADDR"),
//	    config.ReaderOf(":8080"),
//	)
//
//	timeout := config.Default(5*time.Second, config.DurationFromString(config.Env("HTTP_READ_TIMEOUT")))
package config

import (
	"context"
	"fmt"
	"os"
)

// Value is the result of reading configuration. A Value may be unset,
// which is distinct from being set to the zero value of T.
type Value[T any] struct {
	value T
	set   bool
}

// ValueOf returns a set [Value] holding v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// Value returns the underlying value and whether it was set.
func (v Value[T]) Value() (T, bool) {
	return v.value, v.set
}

// Reader reads a single configuration value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is an adapter to allow the use of ordinary functions as [Reader]s.
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the [Reader] interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// ReaderOf returns a [Reader] which always reads v.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// EmptyReader returns a [Reader] which never has a value set.
func EmptyReader[T any]() Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, nil
	})
}

// Env reads the environment variable with the given name. The value is
// unset when the variable is not present in the environment.
func Env(name string) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		v, ok := os.LookupEnv(name)
		if !ok {
			return Value[string]{}, nil
		}
		return ValueOf(v), nil
	})
}

// Or returns the first set value from the given readers, evaluated in order.
func Or[T any](rs ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range rs {
			if r == nil {
				continue
			}

			v, err := r.Read(ctx)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := v.Value(); ok {
				return v, nil
			}
		}
		return Value[T]{}, nil
	})
}

// Default falls back to def when r does not have a value set.
func Default[T any](def T, r Reader[T]) Reader[T] {
	return Or(r, ReaderOf(def))
}

// Map transforms a set value read from r. Unset values are passed through untouched.
func Map[A, B any](r Reader[A], f func(context.Context, A) (B, error)) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		if r == nil {
			return Value[B]{}, nil
		}

		va, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}

		a, ok := va.Value()
		if !ok {
			return Value[B]{}, nil
		}

		b, err := f(ctx, a)
		if err != nil {
			return Value[B]{}, err
		}
		return ValueOf(b), nil
	})
}

// Read reads the value from r. An unset value is returned as the zero value of T.
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	var zero T
	if r == nil {
		return zero, nil
	}

	v, err := r.Read(ctx)
	if err != nil {
		return zero, err
	}

	t, _ := v.Value()
	return t, nil
}

// ValueNotSetError is the panic value of [Must] when the reader has no value set.
type ValueNotSetError struct{}

func (ValueNotSetError) Error() string {
	return "config value not set"
}

// Must reads the value from r and panics if it fails or is unset.
func Must[T any](ctx context.Context, r Reader[T]) T {
	if r == nil {
		panic(ValueNotSetError{})
	}

	v, err := r.Read(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to read config value: %w", err))
	}

	t, ok := v.Value()
	if !ok {
		panic(ValueNotSetError{})
	}
	return t
}

// MustOr reads the value from r, returning def when r is nil or unset.
// It panics if reading fails.
func MustOr[T any](ctx context.Context, def T, r Reader[T]) T {
	if r == nil {
		return def
	}

	v, err := r.Read(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to read config value: %w", err))
	}

	t, ok := v.Value()
	if !ok {
		return def
	}
	return t
}
