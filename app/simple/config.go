package simple

import (
	"github.com/dmitrymomot/cachesession/core/server"
	"github.com/dmitrymomot/cachesession/core/session"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config is the application configuration. Backend connection settings are
// loaded separately, only for the selected backend, so unused backends need
// no environment.
type Config struct {
	Session session.Config
	Server  server.Config

	AppName  string `env:"APP_NAME" envDefault:"sessiond"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Backend  string `env:"SESSION_BACKEND" envDefault:"memory"`

	// MongoDatabase names the database used by the mongo backend.
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"sessiond"`
}

// IsProduction reports whether Env is "production".
func (c Config) IsProduction() bool { return c.Env == "production" }
