// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPath_String(t *testing.T) {
	testCases := []struct {
		Name     string
		Path     Path
		Expected string
	}{
		{Name: "root", Path: BasePath("/"), Expected: "/"},
		{Name: "missing leading slash", Path: BasePath("items"), Expected: "/items"},
		{Name: "segments", Path: BasePath("/api").Segment("v1").Segment("items"), Expected: "/api/v1/items"},
		{Name: "params", Path: BasePath("/users").Param("userId").Segment("posts").Param("postId"), Expected: "/users/{userId}/posts/{postId}"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			require.Equal(t, testCase.Expected, testCase.Path.String())
		})
	}
}

func TestPath_Param(t *testing.T) {
	t.Run("will not share the underlying elements between derived paths", func(t *testing.T) {
		base := make(Path, 1, 4)
		base[0] = PathSegment("/items")

		a := base.Param("a")
		b := base.Param("b")

		require.Equal(t, "/items/{a}", a.String())
		require.Equal(t, "/items/{b}", b.String())
	})
}
