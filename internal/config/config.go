// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
	Receipt   ReceiptConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	URL            string
	MigrationsPath string
}

type KafkaConfig struct {
	Brokers          []string
	OrderFailedTopic string
	WorkerGroupID    string
}

type TelemetryConfig struct {
	Enabled        bool
	OTLPEndpoint   string
	ServiceVersion string
}

type ReceiptConfig struct {
	LeadTime time.Duration
}

// Load reads the configuration. defaultPort differs per service.
func Load(defaultPort string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", defaultPort),
			ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			URL:            os.Getenv("POSTGRES_URL"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		},
		Kafka: KafkaConfig{
			Brokers:          getEnvAsSlice("KAFKA_BROKERS", nil),
			OrderFailedTopic: getEnv("ORDER_FAILED_TOPIC", "order.failed"),
			WorkerGroupID:    getEnv("WORKER_GROUP_ID", "dead-letter-worker"),
		},
		Telemetry: TelemetryConfig{
			Enabled:        getEnvAsBool("TELEMETRY_ENABLED", true),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceVersion: getEnv("SERVICE_VERSION", "0.1.0"),
		},
		Receipt: ReceiptConfig{
			LeadTime: getEnvAsDuration("RECEIPT_LEAD_TIME", 7*24*time.Hour),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Receipt.LeadTime < 0 {
		return fmt.Errorf("RECEIPT_LEAD_TIME must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// RequirePostgres and RequireKafka let each binary demand only what it uses.
func (c *Config) RequirePostgres() error {
	if c.Postgres.URL == "" {
		return fmt.Errorf("POSTGRES_URL environment variable is required")
	}
	return nil
}

func (c *Config) RequireKafka() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
