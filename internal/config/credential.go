package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// ErrMissingCredential means no API key was found in any source. It is fatal: callers must stop before making any
// remote call.
var ErrMissingCredential = errors.New("missing API credential")

// SecretStore is a persisted key/value store of secrets
type SecretStore interface {
	// Lookup returns the value stored under key, or "" if there is none
	Lookup(key string) (string, error)
	// Source describes the store in user-facing messages
	Source() string
}

// FileSecretStore reads secrets from a TOML file of top-level string keys. A missing file is an empty store.
type FileSecretStore struct {
	path string
}

func NewFileSecretStore(path string) FileSecretStore {
	return FileSecretStore{path: path}
}

func (s FileSecretStore) Lookup(key string) (string, error) {
	var secrets map[string]any
	_, err := toml.DecodeFile(s.path, &secrets)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to read secret store %s: %w", s.path, err)
	}

	v, ok := secrets[key]
	if !ok {
		return "", nil
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("secret %s in %s is a %T, expected a string", key, s.path, v)
	}
	return strings.TrimSpace(str), nil
}

func (s FileSecretStore) Source() string {
	return "secret store " + s.path
}

// Resolver looks up an API key in the secret store first, then the environment. The lookup happens at most once;
// later calls return the cached result.
type Resolver struct {
	key    string
	store  SecretStore
	getenv func(string) string

	once  sync.Once
	value string
	err   error
}

// NewResolver creates a resolver for key. store may be nil to consult only the environment.
func NewResolver(key string, store SecretStore, getenv func(string) string) *Resolver {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Resolver{key: key, store: store, getenv: getenv}
}

func (r *Resolver) Resolve() (string, error) {
	r.once.Do(func() {
		r.value, r.err = r.resolve()
	})
	return r.value, r.err
}

func (r *Resolver) resolve() (string, error) {
	storeSource := "secret store"
	if r.store != nil {
		storeSource = r.store.Source()
		v, err := r.store.Lookup(r.key)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}

	if v := strings.TrimSpace(r.getenv(r.key)); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("%w: %s not found; add it to the %s or set the %s environment variable",
		ErrMissingCredential, r.key, storeSource, r.key)
}
