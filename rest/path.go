// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"path"

	"github.com/swaggest/openapi-go/openapi3"
)

// PathElement is a component of a [Path].
type PathElement interface {
	pathElement() string
	applyOperationOption(*OperationOptions)
}

// PathSegment is a static component of a [Path].
type PathSegment string

func (s PathSegment) pathElement() string {
	return string(s)
}

func (PathSegment) applyOperationOption(*OperationOptions) {}

type pathParam struct {
	name string
	opts []ParameterOption
}

func (p pathParam) pathElement() string {
	return "{" + p.name + "}"
}

// Path parameters are always required.
func (p pathParam) applyOperationOption(oo *OperationOptions) {
	param(p.name, openapi3.ParameterInPath, append([]ParameterOption{Required()}, p.opts...)...)(oo)
}

// Path is a URL path made of static segments and named parameters.
type Path []PathElement

// BasePath starts a [Path] with a static segment.
func BasePath(s string) Path {
	return Path{PathSegment(s)}
}

// Segment appends a static segment.
func (p Path) Segment(s string) Path {
	return append(p[:len(p):len(p)], PathSegment(s))
}

// Param appends a named parameter, e.g. BasePath("/items").Param("id") is /items/{id}.
// The value is available to handlers through [PathParamValue].
func (p Path) Param(name string, opts ...ParameterOption) Path {
	return append(p[:len(p):len(p)], pathParam{name: name, opts: opts})
}

// String returns the path in OpenAPI and chi route syntax.
func (p Path) String() string {
	ss := make([]string, len(p))
	for i, el := range p {
		ss[i] = el.pathElement()
	}
	return path.Join(append([]string{"/"}, ss...)...)
}
