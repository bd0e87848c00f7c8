// Package jsonmap extracts typed values from decoded JSON mappings
// (map[string]any as produced by encoding/json). Extraction failures carry
// the field name so deserialization errors pinpoint the offending key.
package jsonmap

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// String returns the string held under key.
func String(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", errs.NewDeserializationError(errs.MissingField, key, "required field is absent")
	}
	s, ok := v.(string)
	if !ok {
		return "", errs.NewDeserializationError(errs.WrongType, key, "expected string, got %T", v)
	}
	return s, nil
}

// Float returns the number held under key. JSON numbers decode as float64;
// int is accepted as well for mappings built in process.
func Float(m map[string]any, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, errs.NewDeserializationError(errs.MissingField, key, "required field is absent")
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, errs.NewDeserializationError(errs.WrongType, key, "expected number, got %T", v)
	}
}

// Int returns the number held under key, requiring it to be integral.
func Int(m map[string]any, key string) (int, error) {
	f, err := Float(m, key)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if float64(n) != f {
		return 0, errs.NewDeserializationError(errs.WrongType, key, "expected integer, got %v", f)
	}
	return n, nil
}

// Bool returns the boolean held under key.
func Bool(m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok {
		return false, errs.NewDeserializationError(errs.MissingField, key, "required field is absent")
	}
	b, ok := v.(bool)
	if !ok {
		return false, errs.NewDeserializationError(errs.WrongType, key, "expected boolean, got %T", v)
	}
	return b, nil
}

// OptionalFloat returns a pointer to the number under key, nil when the key
// is absent or explicitly null.
func OptionalFloat(m map[string]any, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil, errs.NewDeserializationError(errs.WrongType, key, "expected number or null, got %T", v)
	}
	return &f, nil
}

// Slice returns the array held under key.
func Slice(m map[string]any, key string) ([]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, errs.NewDeserializationError(errs.MissingField, key, "required field is absent")
	}
	s, ok := v.([]any)
	if !ok {
		return nil, errs.NewDeserializationError(errs.WrongType, key, "expected array, got %T", v)
	}
	return s, nil
}

// OptionalSlice returns the array held under key, or nil when absent.
func OptionalSlice(m map[string]any, key string) ([]any, error) {
	if _, ok := m[key]; !ok {
		return nil, nil
	}
	return Slice(m, key)
}

// Map returns the nested mapping held under key.
func Map(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, errs.NewDeserializationError(errs.MissingField, key, "required field is absent")
	}
	nested, ok := v.(map[string]any)
	if !ok {
		return nil, errs.NewDeserializationError(errs.WrongType, key, "expected object, got %T", v)
	}
	return nested, nil
}

// Floats converts a raw array to a float64 slice. The field name is used in
// error reports.
func Floats(raw []any, field string) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, errs.NewDeserializationError(errs.WrongType, field, "expected array of numbers, got %T at index %d", v, i)
		}
		out[i] = f
	}
	return out, nil
}

// Strings converts a raw array to a string slice.
func Strings(raw []any, field string) ([]string, error) {
	out := make([]string, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, errs.NewDeserializationError(errs.WrongType, field, "expected array of strings, got %T at index %d", v, i)
		}
		out[i] = s
	}
	return out, nil
}
