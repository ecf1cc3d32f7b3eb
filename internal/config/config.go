package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	LocalStoreMemory = "memory"
	LocalStoreRedis  = "redis"
	LocalStoreSQLite = "sqlite"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort          string `env:"HTTP_PORT" envDefault:"8080"`
	AppEnv            string `env:"APP_ENV" envDefault:"production"`
	ClientSecret      string `env:"CLIENT_SECRET,required,notEmpty"`
	SecureCookies     bool   `env:"SECURE_COOKIES" envDefault:"false"`
	StoreDriver       string `env:"STORE_DRIVER" envDefault:"memory"`
	MongoURI          string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase     string `env:"MONGO_DATABASE" envDefault:"neon_portal"`
	DatabaseURL       string `env:"DATABASE_URL"`
	LocalStoreDriver  string `env:"LOCAL_STORE_DRIVER" envDefault:"memory"`
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	SQLitePath        string `env:"SQLITE_PATH" envDefault:"local_storage.db"`
	GameFrameRate     int    `env:"GAME_FRAME_RATE" envDefault:"60"`
	ClientIdleMinutes int    `env:"CLIENT_IDLE_MINUTES" envDefault:"60"`
	SMTPHost          string `env:"SMTP_HOST"`
	SMTPPort          int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser          string `env:"SMTP_USER"`
	SMTPPass          string `env:"SMTP_PASS"`
	SMTPFrom          string `env:"SMTP_FROM"`
	SMTPFromName      string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS        bool   `env:"SMTP_USE_TLS" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.LocalStoreDriver = strings.ToLower(strings.TrimSpace(cfg.LocalStoreDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa que cada driver tenga lo que necesita.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", c.StoreDriver)
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.LocalStoreDriver {
	case LocalStoreMemory:
	case LocalStoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for local store driver %q", c.LocalStoreDriver)
		}
	case LocalStoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for local store driver %q", c.LocalStoreDriver)
		}
	default:
		return fmt.Errorf("unknown LOCAL_STORE_DRIVER %q", c.LocalStoreDriver)
	}

	if c.GameFrameRate <= 0 || c.GameFrameRate > 240 {
		return fmt.Errorf("GAME_FRAME_RATE must be between 1 and 240, got %d", c.GameFrameRate)
	}
	if c.ClientIdleMinutes <= 0 {
		return fmt.Errorf("CLIENT_IDLE_MINUTES must be positive, got %d", c.ClientIdleMinutes)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}
