package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilPointer is returned when Load is called with a nil target.
var ErrNilPointer = errors.New("config target must be a non-nil pointer")

var loadDotEnv sync.Once

// Load populates cfg from environment variables according to its env tags.
// A .env file in the working directory is loaded once per process before the
// first parse; a missing file is not an error.
//
//	type AppConfig struct {
//	    Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
//	    Issuer string `env:"MFA_ISSUER,required"`
//	}
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilPointer
	}
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})
	return env.Parse(cfg)
}

// MustLoad is Load for process startup paths where a bad environment should
// stop the service immediately.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
