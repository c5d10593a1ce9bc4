package config

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/eugenenazirov/envconf/environ"
)

// Environ is the read surface the resolver needs from an environment-like
// mapping. *environ.Environ satisfies it.
type Environ interface {
	Get(key string) (string, error)
	Has(key string) bool
}

// Config resolves keys with precedence: environment > file values >
// default. File values are parsed once at construction and never reloaded.
type Config struct {
	env        Environ
	prefix     string
	fileValues map[string]string
}

// Option configures New.
type Option func(*options)

type options struct {
	filePath    string
	env         Environ
	prefix      string
	warnMissing *zap.Logger
}

// WithFile sets the path of an optional values file. A file that does not
// exist is not an error; resolution simply proceeds without file values.
// The format is chosen by extension: .yaml/.yml files are flat YAML
// mappings, everything else is KEY=VALUE lines.
func WithFile(path string) Option {
	return func(cfg *options) {
		cfg.filePath = path
	}
}

// WithEnviron overrides the environment-like mapping consulted first
// during resolution. The default is environ.System.
func WithEnviron(env Environ) Option {
	return func(cfg *options) {
		cfg.env = env
	}
}

// WithPrefix sets a prefix prepended to every lookup key.
func WithPrefix(prefix string) Option {
	return func(cfg *options) {
		cfg.prefix = prefix
	}
}

// WithWarnMissing makes New log a warning through the provided logger when
// the values file does not exist. Construction still succeeds.
func WithWarnMissing(logger *zap.Logger) Option {
	return func(cfg *options) {
		cfg.warnMissing = logger
	}
}

// New constructs a resolver. The values file, if configured and present,
// is read exactly once here; a file that exists but cannot be read or
// parsed fails construction.
func New(opts ...Option) (*Config, error) {
	cfg := options{env: environ.System}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Config{
		env:        cfg.env,
		prefix:     cfg.prefix,
		fileValues: make(map[string]string),
	}

	if cfg.filePath != "" {
		values, err := readFileValues(cfg.filePath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if cfg.warnMissing != nil {
				cfg.warnMissing.Warn("config file not found", zap.String("path", cfg.filePath))
			}
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			c.fileValues = values
		}
	}

	return c, nil
}

// Get returns the raw string value for key, resolved through the
// environment and then the file values. A key absent from both fails with
// an error wrapping ErrMissing.
func (c *Config) Get(key string) (string, error) {
	return c.resolve(key)
}

// GetDefault returns the raw string value for key, or def when the key is
// absent from every source. Any default is honoured, including the empty
// string.
func (c *Config) GetDefault(key, def string) string {
	value, err := c.resolve(key)
	if err != nil {
		return def
	}
	return value
}

// resolve looks up the effective key (prefix + key) in precedence order.
func (c *Config) resolve(key string) (string, error) {
	effective := c.prefix + key
	if c.env.Has(effective) {
		return c.env.Get(effective)
	}
	if value, ok := c.fileValues[effective]; ok {
		return value, nil
	}
	return "", fmt.Errorf("config %q is missing, and has no default: %w", effective, ErrMissing)
}
