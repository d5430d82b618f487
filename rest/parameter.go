// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// Header declares a request header of an operation.
func Header(name string, opts ...ParameterOption) OperationOption {
	return param(http.CanonicalHeaderKey(name), openapi3.ParameterInHeader, opts...)
}

// HeaderValue returns the values of a header declared with [Header].
func HeaderValue(ctx context.Context, name string) []string {
	vs, _ := ctx.Value(paramCtxKey{in: openapi3.ParameterInHeader, name: http.CanonicalHeaderKey(name)}).([]string)
	return vs
}

// QueryParam declares a query parameter of an operation.
func QueryParam(name string, opts ...ParameterOption) OperationOption {
	return param(name, openapi3.ParameterInQuery, opts...)
}

// QueryParamValue returns the values of a query parameter declared with [QueryParam].
func QueryParamValue(ctx context.Context, name string) []string {
	vs, _ := ctx.Value(paramCtxKey{in: openapi3.ParameterInQuery, name: name}).([]string)
	return vs
}

// PathParamValue returns the value of a path parameter declared with [Path.Param].
func PathParamValue(ctx context.Context, name string) string {
	vs, _ := ctx.Value(paramCtxKey{in: openapi3.ParameterInPath, name: name}).([]string)
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

type paramCtxKey struct {
	in   openapi3.ParameterIn
	name string
}

func extract(r *http.Request, in openapi3.ParameterIn, name string) []string {
	switch in {
	case openapi3.ParameterInHeader:
		return r.Header.Values(name)
	case openapi3.ParameterInQuery:
		return r.URL.Query()[name]
	case openapi3.ParameterInPath:
		v := chi.URLParam(r, name)
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		panic("unsupported parameter location: " + in)
	}
}

// ParameterOptions holds the definition and validators of a single parameter.
type ParameterOptions struct {
	def        *openapi3.Parameter
	validators []func([]string) error
}

// ParameterOption configures a parameter declared with [Header], [QueryParam] or [Path.Param].
type ParameterOption func(*ParameterOptions)

func param(name string, in openapi3.ParameterIn, opts ...ParameterOption) OperationOption {
	return func(oo *OperationOptions) {
		po := &ParameterOptions{
			def: &openapi3.Parameter{
				Name: name,
				In:   in,
			},
		}
		for _, opt := range opts {
			opt(po)
		}

		oo.parameters = append(oo.parameters, openapi3.ParameterOrRef{
			Parameter: po.def,
		})

		key := paramCtxKey{in: in, name: name}
		oo.transforms = append(oo.transforms, func(r *http.Request) (*http.Request, error) {
			vs := extract(r, in, name)
			for _, validate := range po.validators {
				err := validate(vs)
				if err != nil {
					return nil, BadRequestError{Cause: err}
				}
			}
			return r.WithContext(context.WithValue(r.Context(), key, vs)), nil
		})
	}
}

// ParamDescription documents the meaning of a parameter.
func ParamDescription(s string) ParameterOption {
	return func(po *ParameterOptions) {
		po.def.Description = &s
	}
}

// MissingRequiredParameterError is the cause of a [BadRequestError] when a
// [Required] parameter is absent.
type MissingRequiredParameterError struct {
	Parameter string
	In        string
}

func (e MissingRequiredParameterError) Error() string {
	return fmt.Sprintf("missing required %s parameter: %s", e.In, e.Parameter)
}

// Required rejects requests which do not carry the parameter.
func Required() ParameterOption {
	return func(po *ParameterOptions) {
		po.def.Required = ptr.Ref(true)
		po.validators = append(po.validators, func(vs []string) error {
			if len(vs) > 0 {
				return nil
			}
			return MissingRequiredParameterError{
				Parameter: po.def.Name,
				In:        string(po.def.In),
			}
		})
	}
}

// InvalidParameterValueError is the cause of a [BadRequestError] when a
// parameter value does not match its [Regex].
type InvalidParameterValueError struct {
	Parameter string
	In        string
}

func (e InvalidParameterValueError) Error() string {
	return fmt.Sprintf("invalid value for %s parameter: %s", e.In, e.Parameter)
}

// Regex rejects requests in which any value of the parameter does not match re.
func Regex(re *regexp.Regexp) ParameterOption {
	return func(po *ParameterOptions) {
		po.def.Schema = &openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				Type:    ptr.Ref(openapi3.SchemaTypeString),
				Pattern: ptr.Ref(re.String()),
			},
		}
		po.validators = append(po.validators, func(vs []string) error {
			for _, v := range vs {
				if !re.MatchString(v) {
					return InvalidParameterValueError{
						Parameter: po.def.Name,
						In:        string(po.def.In),
					}
				}
			}
			return nil
		})
	}
}
