// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package returns

import (
	"cmp"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"sync"

	"github.com/z5labs/returns/concurrent"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

const (
	jsonContentType   = "application/json"
	errorSchemaPrefix = "ErrorSchema_"
	componentRefBase  = "#/components/schemas/"
)

// ResponseMap is the documentation derived for the responses of an operation.
type ResponseMap struct {
	Responses map[int]openapi3.ResponseOrRef
	Schemas   map[string]openapi3.SchemaOrRef
}

// OpenAPI converts m to responses keyed by their stringified status code.
func (m ResponseMap) OpenAPI() openapi3.Responses {
	resps := openapi3.Responses{
		MapOfResponseOrRefValues: make(map[string]openapi3.ResponseOrRef, len(m.Responses)),
	}
	for status, resp := range m.Responses {
		resps.MapOfResponseOrRefValues[strconv.Itoa(status)] = resp
	}
	return resps
}

func (m ResponseMap) merge(other ResponseMap) ResponseMap {
	out := ResponseMap{
		Responses: maps.Clone(m.Responses),
		Schemas:   maps.Clone(m.Schemas),
	}
	if out.Responses == nil {
		out.Responses = make(map[int]openapi3.ResponseOrRef)
	}
	if out.Schemas == nil {
		out.Schemas = make(map[string]openapi3.SchemaOrRef)
	}
	maps.Copy(out.Responses, other.Responses)
	maps.Copy(out.Schemas, other.Schemas)
	return out
}

// SchemaBuilder derives OpenAPI responses from payload shapes.
//
// Reflected schemas are memoised per type and component names are tracked
// across every call, so a single SchemaBuilder should be shared by all the
// routes of one document.
type SchemaBuilder struct {
	reflector jsonschema.Reflector
	schemas   *concurrent.Cache[reflect.Type, openapi3.SchemaOrRef]

	mu    sync.Mutex
	names map[string]Shape
}

// NewSchemaBuilder returns an empty [SchemaBuilder].
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{
		schemas: concurrent.NewCache[reflect.Type, openapi3.SchemaOrRef](),
		names:   make(map[string]Shape),
	}
}

// Build documents one response per descriptor, keyed by its status code.
//
// The result does not depend on the order of descs. A [DuplicateStatusCodeError]
// is returned when two descriptors share a status code and a [SchemaNameConflictError]
// when two different payload shapes share a name.
func (b *SchemaBuilder) Build(descs ...ErrorDescriptor) (ResponseMap, error) {
	descs = slices.Clone(descs)
	slices.SortFunc(descs, func(a, b ErrorDescriptor) int {
		return cmp.Or(cmp.Compare(a.StatusCode, b.StatusCode), cmp.Compare(a.Kind, b.Kind))
	})

	for _, desc := range descs {
		err := desc.Validate()
		if err != nil {
			return ResponseMap{}, err
		}
	}
	err := checkDuplicates(descs)
	if err != nil {
		return ResponseMap{}, err
	}

	m := ResponseMap{
		Responses: make(map[int]openapi3.ResponseOrRef, len(descs)),
		Schemas:   make(map[string]openapi3.SchemaOrRef),
	}
	names := make(map[string]Shape)
	for _, desc := range descs {
		detail, err := b.payload(desc.Payload, names, m.Schemas)
		if err != nil {
			return ResponseMap{}, err
		}

		name := errorSchemaPrefix + desc.Payload.Name()
		err = claim(names, name, desc.Payload.normalize())
		if err != nil {
			return ResponseMap{}, err
		}
		m.Schemas[name] = errorSchema(desc.Payload, detail)

		m.Responses[desc.StatusCode] = openapi3.ResponseOrRef{
			Response: &openapi3.Response{
				Description: desc.description(),
				Content: map[string]openapi3.MediaType{
					jsonContentType: {Schema: componentRef(name)},
				},
			},
		}
	}

	err = b.commit(names)
	if err != nil {
		return ResponseMap{}, err
	}
	return m, nil
}

// Success documents the response of a successful operation.
// A nil shape type documents a response without content.
func (b *SchemaBuilder) Success(status int, shape Shape) (ResponseMap, error) {
	m := ResponseMap{
		Responses: make(map[int]openapi3.ResponseOrRef, 1),
		Schemas:   make(map[string]openapi3.SchemaOrRef),
	}
	resp := &openapi3.Response{
		Description: http.StatusText(status),
	}
	m.Responses[status] = openapi3.ResponseOrRef{Response: resp}
	if shape.IsZero() {
		return m, nil
	}

	names := make(map[string]Shape)
	schema, err := b.payload(shape, names, m.Schemas)
	if err != nil {
		return ResponseMap{}, err
	}
	err = b.commit(names)
	if err != nil {
		return ResponseMap{}, err
	}

	resp.Content = map[string]openapi3.MediaType{
		jsonContentType: {Schema: &schema},
	}
	return m, nil
}

// payload returns the schema describing shape. Named object types are added
// to components and referenced.
func (b *SchemaBuilder) payload(shape Shape, names map[string]Shape, components map[string]openapi3.SchemaOrRef) (openapi3.SchemaOrRef, error) {
	if shape.IsLiteral() {
		enum := make([]any, 0, len(shape.Enum))
		for _, v := range shape.Enum {
			enum = append(enum, v)
		}
		return openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				Type: ptr.Ref(openapi3.SchemaTypeString),
				Enum: enum,
			},
		}, nil
	}

	t := shape.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	schema, err := b.reflect(t)
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}
	if t.Name() == "" || !isObject(schema) {
		return schema, nil
	}

	name := shape.Name()
	err = claim(names, name, Shape{Type: t})
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}
	if schema.Schema.Title == nil {
		schema.Schema.Title = ptr.Ref(shape.displayName())
	}
	components[name] = schema
	return *componentRef(name), nil
}

func (b *SchemaBuilder) reflect(t reflect.Type) (openapi3.SchemaOrRef, error) {
	schema, err := b.schemas.GetOr(t, func() (openapi3.SchemaOrRef, error) {
		if t.Kind() == reflect.Interface {
			return openapi3.SchemaOrRef{Schema: &openapi3.Schema{}}, nil
		}

		js, err := b.reflector.Reflect(reflect.New(t).Elem().Interface(), jsonschema.InlineRefs)
		if err != nil {
			return openapi3.SchemaOrRef{}, err
		}

		var schemaOrRef openapi3.SchemaOrRef
		schemaOrRef.FromJSONSchema(js.ToSchemaOrBool())
		return schemaOrRef, nil
	})
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}
	if schema.Schema != nil {
		s := *schema.Schema
		schema.Schema = &s
	}
	return schema, nil
}

func (b *SchemaBuilder) commit(names map[string]Shape) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, shape := range names {
		prev, ok := b.names[name]
		if ok && !prev.equal(shape) {
			return SchemaNameConflictError{Name: name}
		}
	}
	maps.Copy(b.names, names)
	return nil
}

func claim(names map[string]Shape, name string, shape Shape) error {
	shape = shape.normalize()
	prev, ok := names[name]
	if ok && !prev.equal(shape) {
		return SchemaNameConflictError{Name: name}
	}
	names[name] = shape
	return nil
}

func checkDuplicates(sorted []ErrorDescriptor) error {
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].StatusCode == sorted[i].StatusCode {
			j++
		}
		if j-i > 1 {
			kinds := make([]string, 0, j-i)
			for _, desc := range sorted[i:j] {
				kinds = append(kinds, desc.Kind)
			}
			return DuplicateStatusCodeError{StatusCode: sorted[i].StatusCode, Kinds: kinds}
		}
		i = j
	}
	return nil
}

func errorSchema(payload Shape, detail openapi3.SchemaOrRef) openapi3.SchemaOrRef {
	return openapi3.SchemaOrRef{
		Schema: &openapi3.Schema{
			Title:    ptr.Ref("ErrorSchema[" + payload.displayName() + "]"),
			Type:     ptr.Ref(openapi3.SchemaTypeObject),
			Required: []string{"detail"},
			Properties: map[string]openapi3.SchemaOrRef{
				"detail": detail,
			},
		},
	}
}

func componentRef(name string) *openapi3.SchemaOrRef {
	return &openapi3.SchemaOrRef{
		SchemaReference: &openapi3.SchemaReference{
			Ref: componentRefBase + name,
		},
	}
}

func isObject(schema openapi3.SchemaOrRef) bool {
	return schema.Schema != nil && schema.Schema.Type != nil && *schema.Schema.Type == openapi3.SchemaTypeObject
}
