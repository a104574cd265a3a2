// Package config loads engine configuration with precedence ENV > file >
// defaults. The engine itself runs fine with zero configuration; this package
// exists for embedders that wire logging, tracing, and a journal backend from
// the environment.
package config

import (
	"fmt"
	"time"
)

// Journal backend types.
const (
	JournalTypeMemory   = "memory"
	JournalTypePostgres = "postgres"
	JournalTypeRedis    = "redis"
	JournalTypeKafka    = "kafka"
)

// Config is the root configuration structure.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Journal JournalConfig `mapstructure:"journal"`
}

// ServiceConfig identifies the embedding service.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// JournalConfig selects and configures the outcome journal backend.
type JournalConfig struct {
	Type     string                `mapstructure:"type"`
	Postgres PostgresJournalConfig `mapstructure:"postgres"`
	Redis    RedisJournalConfig    `mapstructure:"redis"`
	Kafka    KafkaJournalConfig    `mapstructure:"kafka"`
}

// PostgresJournalConfig holds PostgreSQL journal settings.
type PostgresJournalConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

// RedisJournalConfig holds Redis journal settings.
type RedisJournalConfig struct {
	URL              string        `mapstructure:"url"`
	Key              string        `mapstructure:"key"`
	MaxLen           int64         `mapstructure:"max_len"`
	MaxConns         int           `mapstructure:"max_conns"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// KafkaJournalConfig holds Kafka journal settings.
type KafkaJournalConfig struct {
	Brokers          []string      `mapstructure:"brokers"`
	Topic            string        `mapstructure:"topic"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "txnkit",
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			SampleRatio:  1.0,
		},
		Journal: JournalConfig{
			Type: JournalTypeMemory,
			Postgres: PostgresJournalConfig{
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
				QueryTimeout:    10 * time.Second,
			},
			Redis: RedisJournalConfig{
				MaxConns:         10,
				OperationTimeout: 5 * time.Second,
			},
			Kafka: KafkaJournalConfig{
				OperationTimeout: 30 * time.Second,
				MaxRetries:       3,
			},
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error: got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text: got %q", c.Logging.Format)
	}

	if c.Tracing.Enabled {
		if c.Tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when tracing is enabled")
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			return fmt.Errorf("tracing.sample_ratio must be between 0 and 1: got %v", c.Tracing.SampleRatio)
		}
	}

	switch c.Journal.Type {
	case "", JournalTypeMemory:
	case JournalTypePostgres:
		if c.Journal.Postgres.URL == "" {
			return fmt.Errorf("journal.postgres.url is required when journal.type is postgres")
		}
	case JournalTypeRedis:
		if c.Journal.Redis.URL == "" {
			return fmt.Errorf("journal.redis.url is required when journal.type is redis")
		}
	case JournalTypeKafka:
		if len(c.Journal.Kafka.Brokers) == 0 {
			return fmt.Errorf("journal.kafka.brokers is required when journal.type is kafka")
		}
	default:
		return fmt.Errorf("journal.type must be one of memory, postgres, redis, kafka: got %q", c.Journal.Type)
	}

	return nil
}
