package config

import "errors"

var (
	// ErrMissing is returned when a key is absent from every source and no default was supplied.
	ErrMissing = errors.New("config key is missing")
	// ErrInvalidValue is returned when a raw value cannot be converted to the requested type.
	ErrInvalidValue = errors.New("invalid config value")
)
