// Package config provides runtime configuration for the API server and the
// order worker.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort int

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisHost string
	RedisPort int

	MongoURI string
	MongoDB  string

	RabbitHost     string
	RabbitPort     int
	RabbitUser     string
	RabbitPassword string

	ConsulHost string
	ConsulPort int

	JWTSecret  string
	SessionTTL time.Duration

	ProductCacheTTL     time.Duration
	MaxDeliveryAttempts int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPPort: atoienv("HTTP_PORT", 8080),

		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     atoienv("POSTGRES_PORT", 5432),
		PostgresUser:     getenv("POSTGRES_USER", "shopsys"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "shopsys123"),
		PostgresDB:       getenv("POSTGRES_DB", "shopsys"),

		RedisHost: getenv("REDIS_HOST", "localhost"),
		RedisPort: atoienv("REDIS_PORT", 6379),

		MongoURI: getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGODB_DB_NAME", "shopsys"),

		RabbitHost:     getenv("RABBITMQ_HOST", "localhost"),
		RabbitPort:     atoienv("RABBITMQ_PORT", 5672),
		RabbitUser:     getenv("RABBITMQ_USER", "guest"),
		RabbitPassword: getenv("RABBITMQ_PASSWORD", "guest"),

		ConsulHost: getenv("CONSUL_HOST", "localhost"),
		ConsulPort: atoienv("CONSUL_PORT", 8500),

		JWTSecret:  getenv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTL: durenvs("SESSION_TTL_SECONDS", 3600),

		ProductCacheTTL:     durenvs("PRODUCT_CACHE_TTL_SECONDS", 300),
		MaxDeliveryAttempts: atoienv("ORDER_MAX_DELIVERY_ATTEMPTS", 5),
	}
}
