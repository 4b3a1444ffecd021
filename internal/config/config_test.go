package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "CART_CATALOG", "SESSION_TTL", "CORS_ORIGINS", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.DB.Driver)
	}
	if cfg.Catalog != CatalogStatic {
		t.Errorf("catalog = %q, want %q", cfg.Catalog, CatalogStatic)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Errorf("ttl = %v, want 12h", cfg.Auth.SessionTTL)
	}
	if len(cfg.CORS) != 1 || cfg.CORS[0] != "http://localhost:5173" {
		t.Errorf("cors = %v", cfg.CORS)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis addr = %q, want empty", cfg.Redis.Addr)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := LoadConfig()

	if cfg.BaseURL != "http://localhost:9090" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("redis db = %d, want 3", cfg.Redis.DB)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", cfg.Auth.SessionTTL)
	}
	if len(cfg.CORS) != 2 || cfg.CORS[1] != "http://b.test" {
		t.Errorf("cors = %v", cfg.CORS)
	}
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}
