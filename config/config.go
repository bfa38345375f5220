package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	DBHost             string
	DBPort             string
	DBName             string
	DBUser             string
	DBPassword         string
	UseSQLite          bool
	SQLitePath         string
	SecretKey          string
	Debug              bool
	AllowedHosts       []string
	CORSAllowedOrigins []string
	Port               string
	DBPoolSize         int
	RequestTimeout     time.Duration
	SessionTTL         time.Duration
}

// Load reads configuration from the environment, consulting .env first.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBName:             getEnv("DB_NAME", "techniques"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		UseSQLite:          getBool("USE_SQLITE", false),
		SQLitePath:         getEnv("SQLITE_PATH", "techniques.db"),
		SecretKey:          getEnv("SECRET_KEY", "insecure-dev-key-change-me"),
		Debug:              getBool("DEBUG", false),
		AllowedHosts:       splitList(os.Getenv("ALLOWED_HOSTS")),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Port:               getEnv("PORT", "8000"),
		DBPoolSize:         getInt("DB_POOL_SIZE", 10),
		RequestTimeout:     time.Duration(getInt("REQUEST_TIMEOUT", 30)) * time.Second,
		SessionTTL:         14 * 24 * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
