/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params provides typed extraction of tool-call arguments from the
// untyped maps produced by SDK JSON decoding.
package params

import (
	"fmt"
	"maps"
)

// Extract returns the named argument as T. It fails when the argument is
// absent or not convertible to T.
func Extract[T any](args map[string]any, name string) (T, error) {
	var zero T

	value, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("%s parameter is required", name)
	}

	if v, ok := value.(T); ok {
		return v, nil
	}

	// JSON decodes every number as float64; narrow to the requested type.
	if v, ok := fromFloat64[T](value); ok {
		return v, nil
	}

	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, value)
}

// ExtractOptional returns the named argument as T, or defaultValue when the
// argument is absent.
func ExtractOptional[T any](args map[string]any, name string, defaultValue T) (T, error) {
	value, ok := args[name]
	if !ok {
		return defaultValue, nil
	}

	if v, ok := value.(T); ok {
		return v, nil
	}

	if v, ok := fromFloat64[T](value); ok {
		return v, nil
	}

	var zero T
	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, value)
}

// fromFloat64 narrows a JSON float64 to the integer type requested by the
// caller.
func fromFloat64[T any](value any) (T, bool) {
	var zero T
	f, ok := value.(float64)
	if !ok {
		return zero, false
	}
	switch any(zero).(type) {
	case int:
		return any(int(f)).(T), true
	case int32:
		return any(int32(f)).(T), true
	case int64:
		return any(int64(f)).(T), true
	}
	return zero, false
}

// Error builds an error result map for returning to the model.
func Error(format string, args ...any) map[string]any {
	return map[string]any{
		"error": fmt.Sprintf(format, args...),
	}
}

// ErrorWithContext builds an error result map carrying extra context fields.
func ErrorWithContext(err error, context map[string]any) map[string]any {
	response := map[string]any{
		"error": err.Error(),
	}
	maps.Copy(response, context)
	return response
}
