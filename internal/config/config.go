package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Server
	Port             string
	CORSOrigins      string
	RateLimitMax     int
	AuthRateLimitMax int
	AppEnv           string

	// Redis backs the rate limiter when set
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Recommendation engine. RecommenderURL selects the HTTP engine,
	// otherwise the python script is spawned per request.
	RecommenderURL     string
	RecommenderPython  string
	RecommenderScript  string
	RecommenderTimeout time.Duration

	// Learning
	EmailDomain           string
	PointsPerVerification int

	// Logging / error reporting
	LogRetentionDays   int
	LogCleanupSchedule string
	SentryDSN          string

	// Seed administrator
	AdminEmail    string
	AdminPassword string
}

// Load reads .env when present and builds the config from the environment.
// Variables already set in the environment win over the file.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnhub_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "1h"), time.Hour),

		Port:             getEnv("PORT", "8080"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 60),
		AuthRateLimitMax: getEnvInt("AUTH_RATE_LIMIT_MAX", 10),
		AppEnv:           getEnv("APP_ENV", "development"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RecommenderURL:     getEnv("RECOMMENDER_URL", ""),
		RecommenderPython:  getEnv("RECOMMENDER_PYTHON", "python"),
		RecommenderScript:  getEnv("RECOMMENDER_SCRIPT", "hybridModel.py"),
		RecommenderTimeout: parseDuration(getEnv("RECOMMENDER_TIMEOUT", "15s"), 15*time.Second),

		EmailDomain:           getEnv("EMAIL_DOMAIN", "company.com"),
		PointsPerVerification: getEnvInt("POINTS_PER_VERIFICATION", 50),

		LogRetentionDays:   getEnvInt("LOG_RETENTION_DAYS", 30),
		LogCleanupSchedule: getEnv("LOG_CLEANUP_SCHEDULE", "@daily"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBPassword == "" {
		return errors.New("DB_PASSWORD is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", val)
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
