// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"errors"
)

// HookFunc runs once the wrapped [Runtime] has returned.
type HookFunc func(context.Context) error

// HookRegistry collects post-run hooks while a service is being built.
type HookRegistry struct {
	hooks []HookFunc
}

// OnPostRun registers a hook. Hooks run in registration order.
func (r *HookRegistry) OnPostRun(hook HookFunc) {
	r.hooks = append(r.hooks, hook)
}

// HookedRuntime runs an inner [Runtime] followed by every registered hook.
type HookedRuntime struct {
	inner Runtime
	hooks []HookFunc
}

// Run implements the [Runtime] interface.
//
// Every hook runs regardless of the inner runtime or earlier hooks failing.
// All errors are joined.
func (rt HookedRuntime) Run(ctx context.Context) error {
	errs := []error{rt.inner.Run(ctx)}
	for _, hook := range rt.hooks {
		errs = append(errs, hook(ctx))
	}
	return errors.Join(errs...)
}

// WithHooks lets f register cleanup for the resources it creates while
// building the inner [Runtime].
func WithHooks[T Runtime](f func(context.Context, *HookRegistry) (T, error)) Builder[HookedRuntime] {
	return BuilderFunc[HookedRuntime](func(ctx context.Context) (HookedRuntime, error) {
		var registry HookRegistry

		inner, err := f(ctx, &registry)
		if err != nil {
			return HookedRuntime{}, err
		}

		return HookedRuntime{
			inner: inner,
			hooks: registry.hooks,
		}, nil
	})
}
