// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health provides monitors backing the liveness and readiness probes of a service.
package health

import (
	"context"
	"errors"
	"sync/atomic"
)

// Monitor reports the current state of health of some component.
type Monitor interface {
	Healthy(context.Context) (bool, error)
}

// MonitorFunc is a function which implements [Monitor].
type MonitorFunc func(context.Context) (bool, error)

// Healthy implements the [Monitor] interface.
func (f MonitorFunc) Healthy(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Binary is a [Monitor] which is either healthy or unhealthy.
// It is safe for concurrent use and its zero value is unhealthy.
type Binary struct {
	healthy atomic.Bool
}

// MarkUnhealthy changes the state to unhealthy.
func (b *Binary) MarkUnhealthy() {
	b.healthy.Store(false)
}

// MarkHealthy changes the state to healthy.
func (b *Binary) MarkHealthy() {
	b.healthy.Store(true)
}

// Healthy implements the [Monitor] interface.
func (b *Binary) Healthy(ctx context.Context) (bool, error) {
	return b.healthy.Load(), nil
}

// AndMonitor is healthy only when all of its [Monitor]s are healthy.
// It stops at the first unhealthy monitor or error.
type AndMonitor []Monitor

// And combines the given monitors into an [AndMonitor].
func And(ms ...Monitor) AndMonitor {
	return AndMonitor(ms)
}

// Healthy implements the [Monitor] interface.
func (am AndMonitor) Healthy(ctx context.Context) (bool, error) {
	for _, m := range am {
		healthy, err := m.Healthy(ctx)
		if !healthy || err != nil {
			return healthy, err
		}
	}
	return true, nil
}

// OrMonitor is healthy when at least one of its [Monitor]s is healthy.
// Errors are only reported if no monitor was healthy.
type OrMonitor []Monitor

// Or combines the given monitors into an [OrMonitor].
func Or(ms ...Monitor) OrMonitor {
	return OrMonitor(ms)
}

// Healthy implements the [Monitor] interface.
func (om OrMonitor) Healthy(ctx context.Context) (bool, error) {
	var errs []error
	for _, m := range om {
		healthy, err := m.Healthy(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if healthy {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}
