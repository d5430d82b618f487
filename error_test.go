// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	t.Run("will describe the status code and payload of the kind", func(t *testing.T) {
		kind := Describe[DummyErrorDetailsModel]("DummyApiPydanticError", http.StatusForbidden)

		require.Equal(t, ErrorDescriptor{
			Kind:       "DummyApiPydanticError",
			StatusCode: http.StatusForbidden,
			Payload:    ShapeOf[DummyErrorDetailsModel](),
		}, kind.Descriptor())
	})
}

func TestKind_New(t *testing.T) {
	t.Run("will carry the given detail", func(t *testing.T) {
		kind := Describe[string]("NotFound", http.StatusNotFound, WithDetail("default"))

		err := kind.New("item 1 not found")

		require.Equal(t, "NotFound", err.Kind())
		require.Equal(t, http.StatusNotFound, err.StatusCode())
		require.Equal(t, "item 1 not found", err.Detail())
	})
}

func TestKind_Err(t *testing.T) {
	t.Run("will carry the default detail", func(t *testing.T) {
		kind := Describe[string]("BadInput", http.StatusBadRequest, WithDetail("dummy message"))

		require.Equal(t, "dummy message", kind.Err().Detail())
	})

	t.Run("will carry no detail if the kind has no default", func(t *testing.T) {
		kind := Describe[string]("NotFound", http.StatusNotFound)

		require.Nil(t, kind.Err().Detail())
	})

	t.Run("will carry the literal value of a literal kind", func(t *testing.T) {
		kind := Literal("Forbidden", http.StatusForbidden, "dummy forbidden message")

		require.Equal(t, "dummy forbidden message", kind.Err().Detail())
		require.Equal(t, LiteralShape("dummy forbidden message"), kind.Descriptor().Payload)
	})
}

func TestError_Is(t *testing.T) {
	notFound := Describe[string]("NotFound", http.StatusNotFound)
	gone := Describe[string]("Gone", http.StatusGone)

	testCases := []struct {
		Name   string
		Err    error
		Target error
		Want   bool
	}{
		{Name: "same kind with different detail", Err: notFound.New("a"), Target: notFound.Err(), Want: true},
		{Name: "different kind", Err: notFound.New("a"), Target: gone.Err(), Want: false},
		{Name: "not a kind error", Err: notFound.New("a"), Target: errors.New("a"), Want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			require.Equal(t, testCase.Want, errors.Is(testCase.Err, testCase.Target))
		})
	}
}
