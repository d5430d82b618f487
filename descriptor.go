// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

// Shape is the JSON shape of a payload: a Go type, optionally restricted
// to a set of literal string values.
type Shape struct {
	Type reflect.Type
	Enum []string
}

// ShapeOf returns the [Shape] of values of type T.
func ShapeOf[T any]() Shape {
	return Shape{Type: reflect.TypeFor[T]()}
}

// LiteralShape returns the [Shape] of a string which can only ever be value.
func LiteralShape(value string) Shape {
	return Shape{
		Type: reflect.TypeFor[string](),
		Enum: []string{value},
	}
}

// IsZero reports whether s describes no shape at all.
func (s Shape) IsZero() bool {
	return s.Type == nil
}

// IsLiteral reports whether s is restricted to literal values.
func (s Shape) IsLiteral() bool {
	return len(s.Enum) > 0
}

func (s Shape) equal(other Shape) bool {
	s, other = s.normalize(), other.normalize()
	return s.Type == other.Type && slices.Equal(s.Enum, other.Enum)
}

// normalize strips pointers from the type of s, since *T and T encode
// to the same JSON.
func (s Shape) normalize() Shape {
	if s.Type == nil {
		return s
	}
	for s.Type.Kind() == reflect.Pointer {
		s.Type = s.Type.Elem()
	}
	return s
}

// Name returns a name for s which is safe to use as an OpenAPI component name,
// e.g. "string", "ItemDetail", "Page_Item" or "Literal_not_found".
func (s Shape) Name() string {
	return sanitize(s.displayName())
}

func (s Shape) displayName() string {
	if s.IsLiteral() {
		return "Literal[" + strings.Join(s.Enum, "|") + "]"
	}
	return typeName(s.Type)
}

var (
	packageQualifier = regexp.MustCompile(`(?:[\w.\-]+/)*[\w\-]+\.`)
	unsafeNameChars  = regexp.MustCompile(`[^A-Za-z0-9_]+`)
)

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return packageQualifier.ReplaceAllString(t.Name(), "")
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "Array[" + typeName(t.Elem()) + "]"
	case reflect.Map:
		return "Map[" + typeName(t.Key()) + "," + typeName(t.Elem()) + "]"
	case reflect.Interface:
		return "Any"
	default:
		return "Object"
	}
}

func sanitize(name string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_")
}

// ErrorDescriptor is the static declaration of an error kind: the status code
// every failure of the kind is sent with and the shape of its payload.
type ErrorDescriptor struct {
	Kind       string
	StatusCode int
	Payload    Shape
}

// Describer is implemented by anything which declares an error kind.
type Describer interface {
	Descriptor() ErrorDescriptor
}

// Descriptor implements the [Describer] interface.
func (d ErrorDescriptor) Descriptor() ErrorDescriptor {
	return d
}

// Validate returns an [InvalidErrorDescriptorError] unless d has a client
// or server error status code and a payload shape.
func (d ErrorDescriptor) Validate() error {
	switch {
	case d.StatusCode == 0:
		return InvalidErrorDescriptorError{Kind: d.Kind, Reason: "missing status code"}
	case d.StatusCode < 400 || d.StatusCode > 599:
		return InvalidErrorDescriptorError{
			Kind:       d.Kind,
			StatusCode: d.StatusCode,
			Reason:     "status code is not a client or server error",
		}
	case d.Payload.IsZero():
		return InvalidErrorDescriptorError{Kind: d.Kind, StatusCode: d.StatusCode, Reason: "missing payload shape"}
	}
	return nil
}

func (d ErrorDescriptor) description() string {
	if d.Kind != "" {
		return d.Kind
	}
	return http.StatusText(d.StatusCode)
}
