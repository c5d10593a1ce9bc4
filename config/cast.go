package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// Cast converts a raw string value into a typed result. Name appears in
// validation errors so callers can tell which conversion was requested.
type Cast[T any] struct {
	Name    string
	Convert func(string) (T, error)
}

// Get resolves key and applies cast to the raw value. A missing key fails
// with ErrMissing; a value the cast rejects fails with an error naming the
// key, the offending value, and the cast, wrapping ErrInvalidValue.
func Get[T any](c *Config, key string, cast Cast[T]) (T, error) {
	raw, err := c.resolve(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return performCast(c.prefix+key, raw, cast)
}

// GetDefault resolves key and applies cast to the raw value, returning def
// when the key is absent from every source. The default is returned as
// supplied, including zero and nil values.
func GetDefault[T any](c *Config, key string, cast Cast[T], def T) (T, error) {
	raw, err := c.resolve(key)
	if err != nil {
		return def, nil
	}
	return performCast(c.prefix+key, raw, cast)
}

// Apply runs cast over a raw value outside of a resolver lookup, producing
// the same validation errors as Get.
func Apply[T any](key, raw string, cast Cast[T]) (T, error) {
	return performCast(key, raw, cast)
}

func performCast[T any](key, raw string, cast Cast[T]) (T, error) {
	value, err := cast.Convert(raw)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("config %q has value %q: not a valid %s: %w", key, raw, cast.Name, ErrInvalidValue)
	}
	return value, nil
}

var (
	// String is the identity cast.
	String = Cast[string]{Name: "string", Convert: func(raw string) (string, error) {
		return raw, nil
	}}

	// Bool accepts "true"/"1" and "false"/"0", case-insensitively. Any
	// other string is rejected.
	Bool = Cast[bool]{Name: "bool", Convert: func(raw string) (bool, error) {
		switch strings.ToLower(raw) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, fmt.Errorf("unrecognised boolean %q", raw)
	}}

	// Int parses a base-10 integer.
	Int = Cast[int]{Name: "int", Convert: strconv.Atoi}

	// Int64 parses a base-10 64-bit integer.
	Int64 = Cast[int64]{Name: "int64", Convert: func(raw string) (int64, error) {
		return strconv.ParseInt(raw, 10, 64)
	}}

	// Uint parses a base-10 unsigned integer.
	Uint = Cast[uint]{Name: "uint", Convert: func(raw string) (uint, error) {
		value, err := strconv.ParseUint(raw, 10, 0)
		return uint(value), err
	}}

	// Float64 parses a floating-point number.
	Float64 = Cast[float64]{Name: "float64", Convert: func(raw string) (float64, error) {
		return strconv.ParseFloat(raw, 64)
	}}

	// Duration parses Go duration syntax extended with day and week units,
	// e.g. "90s", "2d12h", "1w".
	Duration = Cast[time.Duration]{Name: "duration", Convert: str2duration.ParseDuration}

	// URL parses an absolute or relative URL.
	URL = Cast[*url.URL]{Name: "url", Convert: url.Parse}

	// Strings splits a comma-separated list, trimming whitespace around
	// items and dropping empty ones.
	Strings = Cast[[]string]{Name: "strings", Convert: func(raw string) ([]string, error) {
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
		return out, nil
	}}

	// Ints splits a comma-separated list of base-10 integers, trimming
	// whitespace around items and dropping empty ones.
	Ints = Cast[[]int]{Name: "ints", Convert: func(raw string) ([]int, error) {
		parts := strings.Split(raw, ",")
		out := make([]int, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q", part)
			}
			out = append(out, value)
		}
		return out, nil
	}}
)

// Bool resolves key and interprets the value as a boolean.
func (c *Config) Bool(key string) (bool, error) {
	return Get(c, key, Bool)
}

// BoolDefault resolves key as a boolean, returning def when the key is
// absent from every source.
func (c *Config) BoolDefault(key string, def bool) (bool, error) {
	return GetDefault(c, key, Bool, def)
}

// Int resolves key and interprets the value as an integer.
func (c *Config) Int(key string) (int, error) {
	return Get(c, key, Int)
}

// IntDefault resolves key as an integer, returning def when the key is
// absent from every source.
func (c *Config) IntDefault(key string, def int) (int, error) {
	return GetDefault(c, key, Int, def)
}

// Float64 resolves key and interprets the value as a float.
func (c *Config) Float64(key string) (float64, error) {
	return Get(c, key, Float64)
}

// Float64Default resolves key as a float, returning def when the key is
// absent from every source.
func (c *Config) Float64Default(key string, def float64) (float64, error) {
	return GetDefault(c, key, Float64, def)
}

// Duration resolves key and interprets the value as a duration.
func (c *Config) Duration(key string) (time.Duration, error) {
	return Get(c, key, Duration)
}

// DurationDefault resolves key as a duration, returning def when the key is
// absent from every source.
func (c *Config) DurationDefault(key string, def time.Duration) (time.Duration, error) {
	return GetDefault(c, key, Duration, def)
}

// Strings resolves key and splits the value as a comma-separated list.
func (c *Config) Strings(key string) ([]string, error) {
	return Get(c, key, Strings)
}

// StringsDefault resolves key as a comma-separated list, returning def when
// the key is absent from every source.
func (c *Config) StringsDefault(key string, def []string) ([]string, error) {
	return GetDefault(c, key, Strings, def)
}
