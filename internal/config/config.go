package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	JWTSecret     string
	TokenTTLHours int
	BcryptCost    int

	CORSOrigins []string

	RateLimit         int
	RateWindowSeconds int

	RedisAddr    string
	OTLPEndpoint string

	SeedEmail      string
	SeedPassword   string
	SeedFirstName  string
	SeedSecondName string
}

func Load() (Config, error) {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	cfg := Config{
		Env:   env,
		Port:  port,
		DBURL: dbURL,

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24*365), // one year
		BcryptCost:    getEnvInt("BCRYPT_COST", 10),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),

		RateLimit:         getEnvInt("RATE_LIMIT", 20),
		RateWindowSeconds: getEnvInt("RATE_WINDOW_SECONDS", 60),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),

		SeedEmail:      getEnv("SEED_EMAIL", ""),
		SeedPassword:   getEnv("SEED_PASSWORD", ""),
		SeedFirstName:  getEnv("SEED_FIRST_NAME", ""),
		SeedSecondName: getEnv("SEED_SECOND_NAME", ""),
	}

	// tokens are unforgeable only if the secret is real; dev gets a
	// throwaway fallback so the service still boots locally
	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" {
			return Config{}, errors.New("JWT_SECRET must be set outside dev")
		}

		cfg.JWTSecret = "dev-insecure-secret"
	}

	return cfg, nil
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c Config) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSeconds) * time.Second
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "accounthub")
	pass := getEnv("DB_PASSWORD", "accounthub")
	name := getEnv("DB_NAME", "accounthub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
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
			fmt.Println(err)
			return fallback
		}

		return num
	}

	return fallback
}
