// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// BoolFromString parses the string value with [strconv.ParseBool].
func BoolFromString(r Reader[string]) Reader[bool] {
	return Map(r, func(_ context.Context, s string) (bool, error) {
		return strconv.ParseBool(s)
	})
}

// IntFromString parses the string value with [strconv.Atoi].
func IntFromString(r Reader[string]) Reader[int] {
	return Map(r, func(_ context.Context, s string) (int, error) {
		return strconv.Atoi(s)
	})
}

// Int64FromString parses the string value as a base 10 int64.
func Int64FromString(r Reader[string]) Reader[int64] {
	return Map(r, func(_ context.Context, s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// Float64FromString parses the string value as a float64.
func Float64FromString(r Reader[string]) Reader[float64] {
	return Map(r, func(_ context.Context, s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// DurationFromString parses the string value with [time.ParseDuration].
func DurationFromString(r Reader[string]) Reader[time.Duration] {
	return Map(r, func(_ context.Context, s string) (time.Duration, error) {
		return time.ParseDuration(s)
	})
}

// UnmarshalJSON decodes a JSON document into T.
func UnmarshalJSON[T any, R io.Reader](r Reader[R]) Reader[T] {
	return Map(r, func(_ context.Context, src R) (T, error) {
		var t T
		err := json.NewDecoder(src).Decode(&t)
		return t, err
	})
}

// UnmarshalYAML decodes a YAML document into T.
func UnmarshalYAML[T any, R io.Reader](r Reader[R]) Reader[T] {
	return Map(r, func(_ context.Context, src R) (T, error) {
		var t T
		err := yaml.NewDecoder(src).Decode(&t)
		return t, err
	})
}
