// Package config resolves configuration keys through environment
// variables, an optional values file, and programmatic defaults, in that
// order of precedence, and applies typed casts to the raw string values.
// Environment reads go through a guarded mapping so configuration consumed
// once cannot be silently mutated afterwards.
package config
