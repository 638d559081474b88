package multimethod

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrInvalidJSON is returned when the input is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// Fields is the capability Key and friends look for on an argument: lookup
// of a value by name. Implement it on your own record types to make them
// matchable by key without reflection.
type Fields interface {
	// Field returns the value stored under name, or false if absent.
	Field(name string) (any, bool)
}

// FieldsFunc adapts a lookup function to Fields.
type FieldsFunc func(name string) (any, bool)

// Field implements the Fields interface.
func (f FieldsFunc) Field(name string) (any, bool) { return f(name) }

// JSON returns Fields over a JSON document. Names are gjson paths, so
// nested values are reachable with "detail.userId".
//
// Numbers are returned as float64, objects as map[string]any and arrays
// as []any.
func JSON(raw []byte) (Fields, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	return jsonFields{raw: raw}, nil
}

type jsonFields struct {
	raw []byte
}

func (f jsonFields) Field(path string) (any, bool) {
	r := gjson.GetBytes(f.raw, path)
	if !r.Exists() {
		return nil, false
	}
	return r.Value(), true
}

// YAML returns Fields over a YAML mapping document. Names are top-level
// keys; compose Key patterns to reach nested mappings.
func YAML(raw []byte) (Fields, error) {
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return MapFields(m), nil
}

// MapFields is Fields over a string-keyed map.
type MapFields map[string]any

// Field implements the Fields interface.
func (m MapFields) Field(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// lookup resolves name on x. Supported containers, in order:
//   - Fields implementors
//   - json.RawMessage, treated as a JSON document
//   - map[string]any and other maps keyed by a string kind
//
// Anything else reports false.
func lookup(x any, name string) (any, bool) {
	switch c := x.(type) {
	case nil:
		return nil, false
	case Fields:
		return c.Field(name)
	case map[string]any:
		v, ok := c[name]
		return v, ok
	case json.RawMessage:
		f, err := JSON(c)
		if err != nil {
			return nil, false
		}
		return f.Field(name)
	}

	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// attribute resolves an exported struct field by name, following pointers.
func attribute(x any, name string) (any, bool) {
	rv := reflect.ValueOf(x)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return nil, false
	}
	f, err := rv.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, false
	}
	return f.Interface(), true
}
