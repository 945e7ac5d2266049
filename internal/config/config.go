package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	AppEnv      string
	CORSOrigins string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// Advisor
	AIMode              string
	AIClassificationURL string
	AIRoutingURL        string
	AISummarizationURL  string
	AIAnalyticsURL      string
	AIAPIKey            string
	AITimeout           time.Duration

	// Redis (token blacklist)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ (lifecycle events)
	AMQPURL     string
	EventsQueue string

	// Observability
	SentryDSN string

	// Rate limits, requests per minute per IP
	RateLimitMax     int
	AuthRateLimitMax int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "5000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBPath:     getEnv("DB_PATH", "crt.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "crt_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTExpiry:  parseDuration(getEnv("JWT_EXPIRES_IN", "168h"), 168*time.Hour),
		BcryptCost: parseInt(getEnv("BCRYPT_COST", "10"), 10),

		AIMode:              strings.ToLower(getEnv("AI_MODE", "mock")),
		AIClassificationURL: getEnv("AI_CLASSIFICATION_URL", ""),
		AIRoutingURL:        getEnv("AI_ROUTING_URL", ""),
		AISummarizationURL:  getEnv("AI_SUMMARIZATION_URL", ""),
		AIAnalyticsURL:      getEnv("AI_ANALYTICS_URL", ""),
		AIAPIKey:            getEnv("AI_API_KEY", ""),
		AITimeout:           parseDuration(getEnv("AI_TIMEOUT", "10s"), 10*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		AMQPURL:     getEnv("AMQP_URL", ""),
		EventsQueue: getEnv("EVENTS_QUEUE", "complaint.events"),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		RateLimitMax:     parseInt(getEnv("RATE_LIMIT_MAX", "100"), 100),
		AuthRateLimitMax: parseInt(getEnv("AUTH_RATE_LIMIT_MAX", "20"), 20),
	}
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

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
