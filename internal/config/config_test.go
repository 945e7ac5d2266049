package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("AI_MODE", "")

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "mock", cfg.AIMode)
	assert.Equal(t, 10*time.Second, cfg.AITimeout)
	assert.Equal(t, "complaint.events", cfg.EventsQueue)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 20, cfg.AuthRateLimitMax)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("AI_MODE", "Remote")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "remote", cfg.AIMode)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestParseDuration_FallsBack(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Minute))
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "crt", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=crt port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
