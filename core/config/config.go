package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParse wraps failures to populate a configuration struct.
var ErrParse = errors.New("config: failed to parse environment")

var (
	dotenvOnce sync.Once
	mu         sync.Mutex
	cache      = map[reflect.Type]any{}
)

// Load fills dst from the environment. The first call loads .env from the
// working directory (a missing file is fine). Each type is parsed once and
// later calls copy the cached value into dst.
func Load[T any](dst *T) error {
	dotenvOnce.Do(func() { _ = godotenv.Load() })

	typ := reflect.TypeOf(dst).Elem()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[typ]; ok {
		*dst = cached.(T)
		return nil
	}

	if err := env.Parse(dst); err != nil {
		return errors.Join(ErrParse, err)
	}
	cache[typ] = *dst
	return nil
}

// MustLoad is Load that panics on error. Intended for process startup.
func MustLoad[T any](dst *T) {
	if err := Load(dst); err != nil {
		panic(err)
	}
}

// Parse fills dst from the given variables only, bypassing the process
// environment and the cache.
func Parse[T any](dst *T, vars map[string]string) error {
	if err := env.ParseWithOptions(dst, env.Options{Environment: vars}); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}
