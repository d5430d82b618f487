// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package concurrent

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOr(t *testing.T) {
	t.Run("will only compute a value once", func(t *testing.T) {
		c := NewCache[string, int]()

		var mu sync.Mutex
		calls := 0
		f := func() (int, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			return 42, nil
		}

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := c.GetOr("answer", f)
				assert.Nil(t, err)
				assert.Equal(t, 42, v)
			}()
		}
		wg.Wait()

		require.Equal(t, 1, calls)
		require.Equal(t, 1, c.Len())
	})

	t.Run("will not store the value if an error is returned", func(t *testing.T) {
		c := NewCache[string, int]()

		computeErr := errors.New("failed")
		_, err := c.GetOr("key", func() (int, error) {
			return 0, computeErr
		})
		require.ErrorIs(t, err, computeErr)

		_, ok := c.Get("key")
		require.False(t, ok)
	})
}

func TestCache_Set(t *testing.T) {
	c := NewCache[int, string]()
	c.Set(1, "a")
	c.Set(1, "b")

	v, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, "b", v)
}
