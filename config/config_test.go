package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/envconf/environ"
)

func newResolver(t *testing.T, env map[string]string, opts ...Option) *Config {
	t.Helper()

	opts = append([]Option{WithEnviron(environ.NewMap(env))}, opts...)
	cfg, err := New(opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return cfg
}

func writeValuesFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write values file: %v", err)
	}
	return path
}

func TestPrecedence(t *testing.T) {
	path := writeValuesFile(t, ".env", "PORT=9000\nDEBUG=true\n")
	cfg := newResolver(t, map[string]string{"PORT": "8080"}, WithFile(path))

	t.Run("environment wins over file", func(t *testing.T) {
		value, err := cfg.Get("PORT")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != "8080" {
			t.Fatalf("expected %q, got %q", "8080", value)
		}
	})

	t.Run("file wins over default", func(t *testing.T) {
		value := cfg.GetDefault("DEBUG", "false")
		if value != "true" {
			t.Fatalf("expected %q, got %q", "true", value)
		}
	})

	t.Run("default used when both absent", func(t *testing.T) {
		if value := cfg.GetDefault("HOST", "localhost"); value != "localhost" {
			t.Fatalf("expected %q, got %q", "localhost", value)
		}
	})

	t.Run("empty default is honoured", func(t *testing.T) {
		if value := cfg.GetDefault("HOST", ""); value != "" {
			t.Fatalf("expected empty string, got %q", value)
		}
	})
}

func TestMissingNoDefault(t *testing.T) {
	cfg := newResolver(t, nil)

	_, err := cfg.Get("SECRET")
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), `"SECRET"`) {
		t.Fatalf("expected error to name the key, got %q", err.Error())
	}
}

func TestPrefix(t *testing.T) {
	cfg := newResolver(t, map[string]string{"APP_PORT": "8080"}, WithPrefix("APP_"))

	port, err := cfg.Int("PORT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != 8080 {
		t.Fatalf("expected 8080, got %d", port)
	}

	_, err = cfg.Get("HOST")
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), `"APP_HOST"`) {
		t.Fatalf("expected error to name the effective key, got %q", err.Error())
	}
}

func TestNilDefaultIsReturned(t *testing.T) {
	cfg := newResolver(t, nil)

	endpoint, err := GetDefault(cfg, "ENDPOINT", URL, (*url.URL)(nil))
	if err != nil {
		t.Fatalf("a supplied nil default must not fail: %v", err)
	}
	if endpoint != nil {
		t.Fatalf("expected nil default back, got %v", endpoint)
	}
}

func TestMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.env")

	t.Run("silently ignored by default", func(t *testing.T) {
		cfg := newResolver(t, nil, WithFile(path))
		if value := cfg.GetDefault("PORT", "8080"); value != "8080" {
			t.Fatalf("expected default, got %q", value)
		}
	})

	t.Run("warns when configured", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		cfg := newResolver(t, nil, WithFile(path), WithWarnMissing(zap.New(core)))

		if cfg == nil {
			t.Fatalf("expected resolver despite missing file")
		}
		if logs.Len() != 1 {
			t.Fatalf("expected a single warning, got %d entries", logs.Len())
		}
		entry := logs.All()[0]
		if entry.Message != "config file not found" {
			t.Fatalf("unexpected warning message %q", entry.Message)
		}
	})
}

func TestUnreadableFileFailsConstruction(t *testing.T) {
	// A directory path exists but cannot be read as a file.
	_, err := New(WithEnviron(environ.NewMap(nil)), WithFile(t.TempDir()))
	if err == nil {
		t.Fatalf("expected construction error for unreadable file")
	}
}
