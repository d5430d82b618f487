// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app provides the building blocks for composing and running a service.
//
// A service is described as a chain of [Builder]s which, once built, produce a
// [Runtime]. [Run] builds the chain with a signal aware context and runs the result.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Builder constructs a value of type T.
type Builder[T any] interface {
	Build(context.Context) (T, error)
}

// BuilderFunc is a function which implements [Builder].
type BuilderFunc[T any] func(context.Context) (T, error)

// Build implements the [Builder] interface.
func (f BuilderFunc[T]) Build(ctx context.Context) (T, error) {
	return f(ctx)
}

// Build is a helper for turning a function into a [Builder].
func Build[T any](f func(context.Context) (T, error)) Builder[T] {
	return BuilderFunc[T](f)
}

// Bind builds A and then uses it to select the [Builder] of B.
func Bind[A, B any](builder Builder[A], binder func(A) Builder[B]) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		a, err := builder.Build(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return binder(a).Build(ctx)
	})
}

// Map builds A and transforms it into B.
func Map[A, B any](builder Builder[A], f func(A) B) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		a, err := builder.Build(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	})
}

// Runtime is a long running component of a service.
type Runtime interface {
	Run(context.Context) error
}

// RuntimeFunc is a function which implements [Runtime].
type RuntimeFunc func(context.Context) error

// Run implements the [Runtime] interface.
func (f RuntimeFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Run builds the [Runtime] and runs it until it returns or the process
// receives an interrupt or termination signal.
func Run[T Runtime](ctx context.Context, builder Builder[T]) error {
	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := builder.Build(sigCtx)
	if err != nil {
		return err
	}

	return rt.Run(sigCtx)
}

// LogError logs err, if non-nil, with the given handler.
func LogError(handler slog.Handler, err error) {
	if err == nil {
		return
	}

	log := slog.New(handler)
	log.Error("service failed", slog.Any("error", err))
}
