// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package concurrent provides small concurrency-safe containers.
package concurrent

import "sync"

// Cache is a mutex guarded map. Values are computed at most once per key
// when populated through [Cache.GetOr].
type Cache[K comparable, V any] struct {
	mu   sync.Mutex
	data map[K]V
}

// NewCache returns an empty [Cache].
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		data: make(map[K]V),
	}
}

// Get returns the value stored for k, if any.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[k]
	return v, ok
}

// Set stores v for k, replacing any previous value.
func (c *Cache[K, V]) Set(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[k] = v
}

// GetOr returns the value stored for k or computes, stores and returns it with f.
// Nothing is stored when f returns an error.
func (c *Cache[K, V]) GetOr(k K, f func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[k]
	if ok {
		return v, nil
	}

	v, err := f()
	if err != nil {
		return v, err
	}

	c.data[k] = v
	return v, nil
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.data)
}
