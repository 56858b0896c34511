package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	JWTSecret  string
	SessionTTL time.Duration

	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURL:  os.Getenv("GITHUB_REDIRECT_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: getduration("SESSION_TTL", 24*time.Hour),

		LoginAttemptLimit:  getint("LOGIN_ATTEMPT_LIMIT", 10),
		LoginAttemptWindow: getduration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
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

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
