package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env     string
	Port    int
	DBURL   string
	Storage string

	MigrateOnStart bool
	SeedData       bool

	AdminEmail    string
	AdminPassword string
	AdminName     string

	JWTSecret      string
	JWTExpiresInMs int64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CORSAllowedOrigins     []string
	AuthRateLimitPerMinute int
	UserRateLimitPerMinute int
	MaxBodyBytes           int64

	OTELEnabled  bool
	OTELEndpoint string

	NotifyWorkers int
}

func Load() Config {
	// a missing .env is fine, the process environment wins anyway
	_ = godotenv.Load()

	return Config{
		Env:     getEnv("APP_ENV", "dev"),
		Port:    getEnvInt("PORT", 8080),
		DBURL:   getEnv("DATABASE_URL", buildDBURL()),
		Storage: strings.ToLower(getEnv("STORAGE", StoragePostgres)),

		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),
		SeedData:       getEnvBool("SEED_DATA", false),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@todohub.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),

		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-prod"),
		JWTExpiresInMs: int64(getEnvInt("JWT_EXPIRES_IN_MS", 3600000)),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,

		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AuthRateLimitPerMinute: getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 30),
		UserRateLimitPerMinute: getEnvInt("USER_RATE_LIMIT_PER_MINUTE", 600),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		OTELEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		NotifyWorkers: getEnvInt("NOTIFY_WORKERS", 2),
	}
}

// JWTExpiresIn is the access token lifetime.
func (c Config) JWTExpiresIn() time.Duration {
	return time.Duration(c.JWTExpiresInMs) * time.Millisecond
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "todohub")
	pass := getEnv("DB_PASSWORD", "todohub")
	name := getEnv("DB_NAME", "todohub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env, using fallback", "key", key, "value", v, "fallback", fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			slog.Warn("invalid boolean env, using fallback", "key", key, "value", v, "fallback", fallback)
			return fallback
		}

		return b
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
