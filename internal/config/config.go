package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	BaseURL    string
	WebDir     string
	DB         DBConfig
	Redis      RedisConfig
	Auth       AuthConfig
	CORS       []string
	LoginRate  string
	Catalog    string
	GeminiKey  string
	GeminiName string
}

type DBConfig struct {
	Driver string // "sqlite" or "mysql"
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Secret     []byte
	SessionTTL time.Duration
}

// Catalog modes for the sales cart.
const (
	CatalogStatic    = "static"
	CatalogInventory = "inventory"
)

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := getEnv("PORT", "8080")

	return Config{
		Port:    port,
		BaseURL: getEnv("BASE_URL", "http://localhost:"+port),
		WebDir:  getEnv("WEB_DIR", "./web"),
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Secret:     []byte(getEnv("JWT_SECRET", "pharmacy_backoffice_dev_secret")),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		},
		CORS:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LoginRate:  getEnv("LOGIN_RATE", "20-M"),
		Catalog:    getEnv("CART_CATALOG", CatalogStatic),
		GeminiKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiName: getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
