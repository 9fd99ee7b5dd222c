// Package config builds runtime configuration from environment variables so
// main stays lean. Every external resource is optional: with no database,
// Redis, or Kafka configured the service runs fully in memory, which is the
// dev and test mode.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures the full service configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	RegistryID    string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	GracePeriod   time.Duration
	RateLimit     RateLimitConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
}

// RateLimitConfig caps write requests per caller. Zero requests disables
// throttling.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RedisConfig captures Redis connection settings. An empty URL disables the
// event record cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures broker settings for the notification stream. An empty
// broker list keeps notifications in memory.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envOr("SHOWUP_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("SHOWUP_DATABASE_URL"),
		RegistryID:    os.Getenv("SHOWUP_REGISTRY_ID"),
		JWTSigningKey: envOr("SHOWUP_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("SHOWUP_JWT_ISSUER", "showup"),
		JWTAudience:   envOr("SHOWUP_JWT_AUDIENCE", "showup-api"),
		GracePeriod:   envDuration("SHOWUP_GRACE_PERIOD", 0),
		RateLimit: RateLimitConfig{
			Requests: envInt("SHOWUP_RATE_LIMIT_REQUESTS", 0),
			Window:   envDuration("SHOWUP_RATE_LIMIT_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("SHOWUP_REDIS_URL"),
			PoolSize:     envInt("SHOWUP_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("SHOWUP_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("SHOWUP_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("SHOWUP_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("SHOWUP_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("SHOWUP_KAFKA_BROKERS")),
			Topic:   os.Getenv("SHOWUP_KAFKA_TOPIC"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
