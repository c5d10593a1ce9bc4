// Package environ presents the process environment as a mutable
// string-to-string mapping with a read guard: once a key has been read,
// any later write or delete of that key fails. Configuration is normally
// consumed once at startup, and mutating it afterwards (a test that forgot
// to isolate state, an initialisation-order bug) becomes an immediate error
// at the point of violation instead of a silent inconsistency.
package environ

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"
)

var (
	// ErrNotFound indicates the requested key is absent from the underlying store.
	ErrNotFound = errors.New("environment key not found")
	// ErrAlreadyRead indicates an attempt to mutate a key after its value was read.
	ErrAlreadyRead = errors.New("environment key has already been read")
)

// Mapping is a mutable string-to-string store with read-guard semantics.
type Mapping interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Has(key string) bool
	Keys() iter.Seq[string]
	Len() int
}

// store abstracts the backing key-value source so the guard logic is shared
// between the real process environment and plain in-memory maps.
type store interface {
	lookup(key string) (string, bool)
	set(key, value string) error
	delete(key string) error
	keys() []string
}

// osStore reads and writes the operating system environment.
type osStore struct{}

func (osStore) lookup(key string) (string, bool) { return os.LookupEnv(key) }

func (osStore) set(key, value string) error { return os.Setenv(key, value) }

func (osStore) delete(key string) error { return os.Unsetenv(key) }

func (osStore) keys() []string {
	entries := os.Environ()
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, _, ok := strings.Cut(entry, "="); ok {
			out = append(out, name)
		}
	}
	return out
}

// mapStore keeps values in an in-memory map.
type mapStore map[string]string

func (m mapStore) lookup(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

func (m mapStore) set(key, value string) error {
	m[key] = value
	return nil
}

func (m mapStore) delete(key string) error {
	delete(m, key)
	return nil
}

func (m mapStore) keys() []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	return out
}

// Environ guards a backing store with read tracking. It is a misuse
// detector, not a concurrency primitive: the internal state is
// unsynchronized, and callers sharing one instance across goroutines must
// provide their own locking.
type Environ struct {
	store store
	read  map[string]struct{}
}

var _ Mapping = (*Environ)(nil)

// New returns an Environ over the operating system environment.
func New() *Environ {
	return &Environ{store: osStore{}, read: make(map[string]struct{})}
}

// NewMap returns an Environ over the provided map. The map is used
// directly, not copied, so mutations through the guard are visible to the
// caller and vice versa.
func NewMap(values map[string]string) *Environ {
	if values == nil {
		values = make(map[string]string)
	}
	return &Environ{store: mapStore(values), read: make(map[string]struct{})}
}

// System is the process-wide guard over the operating system environment.
// Config resolvers use it by default, so a key read through one resolver is
// locked against mutation everywhere in the program.
var System = New()

// Get returns the value for key. The key is marked read before the lookup,
// so even a failed probe locks the key against later mutation.
func (e *Environ) Get(key string) (string, error) {
	e.read[key] = struct{}{}
	value, ok := e.store.lookup(key)
	if !ok {
		return "", fmt.Errorf("environ[%q]: %w", key, ErrNotFound)
	}
	return value, nil
}

// Set inserts or updates key. It fails if the key's value has already been
// read, leaving the stored value unchanged.
func (e *Environ) Set(key, value string) error {
	if _, ok := e.read[key]; ok {
		return fmt.Errorf("attempting to set environ[%q]: %w", key, ErrAlreadyRead)
	}
	return e.store.set(key, value)
}

// Delete removes key. It fails if the key's value has already been read,
// leaving the stored value unchanged.
func (e *Environ) Delete(key string) error {
	if _, ok := e.read[key]; ok {
		return fmt.Errorf("attempting to delete environ[%q]: %w", key, ErrAlreadyRead)
	}
	return e.store.delete(key)
}

// Has reports whether key is present. It does not mark the key as read.
func (e *Environ) Has(key string) bool {
	_, ok := e.store.lookup(key)
	return ok
}

// Keys returns a restartable sequence over the keys currently in the store.
// Iteration does not mark any key as read.
func (e *Environ) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, key := range e.store.keys() {
			if !yield(key) {
				return
			}
		}
	}
}

// Len returns the number of keys currently in the store.
func (e *Environ) Len() int {
	return len(e.store.keys())
}
