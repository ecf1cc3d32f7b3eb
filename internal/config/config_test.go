package config

import (
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CLIENT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.StoreDriver != StoreMemory || cfg.LocalStoreDriver != LocalStoreMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GameFrameRate != 60 || cfg.ClientIdleMinutes != 60 {
		t.Fatalf("unexpected game/idle defaults: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("default env should be production")
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("CLIENT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without CLIENT_SECRET")
	}
}

func TestLoadConfigNormalizesDrivers(t *testing.T) {
	t.Setenv("CLIENT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", " Postgres ")
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")
	t.Setenv("LOCAL_STORE_DRIVER", "SQLITE")
	t.Setenv("APP_ENV", "Development")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != StorePostgres || cfg.LocalStoreDriver != LocalStoreSQLite {
		t.Fatalf("drivers not normalized: %q %q", cfg.StoreDriver, cfg.LocalStoreDriver)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			StoreDriver:       StoreMemory,
			LocalStoreDriver:  LocalStoreMemory,
			MongoURI:          "mongodb://localhost:27017",
			SQLitePath:        "local.db",
			GameFrameRate:     60,
			ClientIdleMinutes: 60,
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown store", func(c *Config) { c.StoreDriver = "dynamo" }, "STORE_DRIVER"},
		{"postgres without url", func(c *Config) { c.StoreDriver = StorePostgres }, "DATABASE_URL"},
		{"mongo without uri", func(c *Config) { c.StoreDriver = StoreMongo; c.MongoURI = "" }, "MONGO_URI"},
		{"redis without addr", func(c *Config) { c.LocalStoreDriver = LocalStoreRedis }, "REDIS_ADDR"},
		{"sqlite without path", func(c *Config) { c.LocalStoreDriver = LocalStoreSQLite; c.SQLitePath = "" }, "SQLITE_PATH"},
		{"unknown local store", func(c *Config) { c.LocalStoreDriver = "cookie" }, "LOCAL_STORE_DRIVER"},
		{"frame rate zero", func(c *Config) { c.GameFrameRate = 0 }, "GAME_FRAME_RATE"},
		{"frame rate too high", func(c *Config) { c.GameFrameRate = 1000 }, "GAME_FRAME_RATE"},
		{"idle not positive", func(c *Config) { c.ClientIdleMinutes = 0 }, "CLIENT_IDLE_MINUTES"},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %s, got %v", tc.name, tc.want, err)
		}
	}

	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}
}
