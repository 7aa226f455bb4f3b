package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,          default=8080"`
	Env      string `env:"ENV,           default=development"`
	LogLevel string `env:"LOG_LEVEL,     default=info"`

	// APIBaseURL is the root of the upstream platform REST API.
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:3001/api"`

	// CookieSecret signs the session cookie. Required outside development.
	CookieSecret string        `env:"COOKIE_SECRET"`
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=24h"`

	// SessionStore selects the persistence backend: redis, mongo, file, or memory.
	SessionStore string `env:"SESSION_STORE, default=redis"`
	StateDir     string `env:"STATE_DIR,     default=.factory-console"`

	Redis RedisConfig
	Mongo MongoConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=factory_console"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
