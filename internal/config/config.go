package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the marketplace API.
type Config struct {
	Env      string
	HTTPPort string

	DBDriver string
	DBDSN    string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	MaxActiveTasks int

	VerifyMaxAttempts int
	VerifyWindow      time.Duration
	VerifyLockout     time.Duration

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string

	ProfileCacheItems int64
	ProfileCacheTTL   time.Duration
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment variables")
	}

	return Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "8008"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:    getEnv("DB_DSN", "task-marketplace.db"),

		JWTSecret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "task-marketplace-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "task-marketplace-clients"),

		MaxActiveTasks: getEnvInt("MAX_ACTIVE_TASKS", 3),

		VerifyMaxAttempts: getEnvInt("VERIFY_MAX_ATTEMPTS", 10),
		VerifyWindow:      getEnvSeconds("VERIFY_WINDOW_SECONDS", 15*time.Minute),
		VerifyLockout:     getEnvSeconds("VERIFY_LOCKOUT_SECONDS", 15*time.Minute),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "task-lifecycle"),

		ProfileCacheItems: int64(getEnvInt("PROFILE_CACHE_ITEMS", 10000)),
		ProfileCacheTTL:   getEnvSeconds("PROFILE_CACHE_TTL_SECONDS", 5*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			return time.Duration(v) * time.Second
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
