package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// cache holds one parsed value per configuration type.
type cache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = newCache()

	dotenvOnce sync.Once
)

func newCache() *cache {
	return &cache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}
}

func (c *cache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *cache) once(key string) *sync.Once {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.onces[key]
	if !ok {
		o = new(sync.Once)
		c.onces[key] = o
	}
	return o
}

func (c *cache) put(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = v
}

// Load parses the environment into v. A ".env" file in the working directory
// is read once if present. Each configuration type is parsed once per
// process; later calls copy the cached value.
//
//	var cfg jwtsession.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	dotenvOnce.Do(func() { _ = godotenv.Load() })
	if v == nil {
		return ErrNilPointer
	}

	key := typeKey[T]()
	if cached, ok := globalCache.get(key); ok {
		*v = cached.(T)
		return nil
	}

	var err error
	globalCache.once(key).Do(func() {
		if perr := env.Parse(v); perr != nil {
			err = errors.Join(ErrParsingConfig, perr)
			return
		}
		globalCache.put(key, *v)
	})
	if err != nil {
		return err
	}

	cached, ok := globalCache.get(key)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached.(T)
	return nil
}

// MustLoad is Load for configuration the program cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

func typeKey[T any]() string {
	return reflect.TypeFor[T]().String()
}

// LoadEnv loads the given .env files into the process environment. Variables
// already set are not overridden, and earlier files win over later ones.
// Call it before the first Load.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// LoadFile parses environment variables into v and then overlays the YAML
// document at path. Keys missing from the file keep their environment or
// default value. An empty path only reads the environment. The result is not
// cached.
func LoadFile[T any](v *T, path string) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return errors.Join(ErrParsingFile, err)
	}
	return nil
}

// ResetCache drops every cached configuration so the next Load parses the
// environment again. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	globalCache.values = make(map[string]any)
	globalCache.onces = make(map[string]*sync.Once)
}
