package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load() (*Config, error)
}

// ViperLoader implements Loader using Viper.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a loader. configFile may be empty; envPrefix is the
// prefix for environment variables (e.g. "TXNKIT").
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration with precedence: ENV > file > defaults.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Brokers may arrive as a comma-separated string from the environment.
	cfg.Journal.Kafka.Brokers = splitBrokers(cfg.Journal.Kafka.Brokers)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnvVars explicitly binds environment variables for nested structs.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("service.name", l.prefixedEnv("SERVICE_NAME"))
	v.BindEnv("service.environment", l.prefixedEnv("SERVICE_ENVIRONMENT"), l.prefixedEnv("ENVIRONMENT"))

	v.BindEnv("logging.level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("logging.format", l.prefixedEnv("LOG_FORMAT"))

	v.BindEnv("metrics.enabled", l.prefixedEnv("METRICS_ENABLED"))

	v.BindEnv("tracing.enabled", l.prefixedEnv("TRACING_ENABLED"))
	v.BindEnv("tracing.otlp_endpoint", l.prefixedEnv("TRACING_OTLP_ENDPOINT"))
	v.BindEnv("tracing.sample_ratio", l.prefixedEnv("TRACING_SAMPLE_RATIO"))

	v.BindEnv("journal.type", l.prefixedEnv("JOURNAL_TYPE"))
	v.BindEnv("journal.postgres.url", l.prefixedEnv("JOURNAL_POSTGRES_URL"))
	v.BindEnv("journal.postgres.max_open_conns", l.prefixedEnv("JOURNAL_POSTGRES_MAX_OPEN_CONNS"))
	v.BindEnv("journal.postgres.max_idle_conns", l.prefixedEnv("JOURNAL_POSTGRES_MAX_IDLE_CONNS"))
	v.BindEnv("journal.postgres.conn_max_lifetime", l.prefixedEnv("JOURNAL_POSTGRES_CONN_MAX_LIFETIME"))
	v.BindEnv("journal.postgres.query_timeout", l.prefixedEnv("JOURNAL_POSTGRES_QUERY_TIMEOUT"))
	v.BindEnv("journal.redis.url", l.prefixedEnv("JOURNAL_REDIS_URL"))
	v.BindEnv("journal.redis.key", l.prefixedEnv("JOURNAL_REDIS_KEY"))
	v.BindEnv("journal.redis.max_len", l.prefixedEnv("JOURNAL_REDIS_MAX_LEN"))
	v.BindEnv("journal.redis.max_conns", l.prefixedEnv("JOURNAL_REDIS_MAX_CONNS"))
	v.BindEnv("journal.redis.operation_timeout", l.prefixedEnv("JOURNAL_REDIS_OPERATION_TIMEOUT"))
	v.BindEnv("journal.kafka.brokers", l.prefixedEnv("JOURNAL_KAFKA_BROKERS"))
	v.BindEnv("journal.kafka.topic", l.prefixedEnv("JOURNAL_KAFKA_TOPIC"))
	v.BindEnv("journal.kafka.operation_timeout", l.prefixedEnv("JOURNAL_KAFKA_OPERATION_TIMEOUT"))
	v.BindEnv("journal.kafka.max_retries", l.prefixedEnv("JOURNAL_KAFKA_MAX_RETRIES"))
}

// setDefaults seeds viper with the default configuration.
func (l *ViperLoader) setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("service.name", cfg.Service.Name)
	v.SetDefault("service.environment", cfg.Service.Environment)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)

	v.SetDefault("tracing.enabled", cfg.Tracing.Enabled)
	v.SetDefault("tracing.otlp_endpoint", cfg.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_ratio", cfg.Tracing.SampleRatio)

	v.SetDefault("journal.type", cfg.Journal.Type)
	v.SetDefault("journal.postgres.url", cfg.Journal.Postgres.URL)
	v.SetDefault("journal.postgres.max_open_conns", cfg.Journal.Postgres.MaxOpenConns)
	v.SetDefault("journal.postgres.max_idle_conns", cfg.Journal.Postgres.MaxIdleConns)
	v.SetDefault("journal.postgres.conn_max_lifetime", cfg.Journal.Postgres.ConnMaxLifetime)
	v.SetDefault("journal.postgres.query_timeout", cfg.Journal.Postgres.QueryTimeout)
	v.SetDefault("journal.redis.url", cfg.Journal.Redis.URL)
	v.SetDefault("journal.redis.key", cfg.Journal.Redis.Key)
	v.SetDefault("journal.redis.max_len", cfg.Journal.Redis.MaxLen)
	v.SetDefault("journal.redis.max_conns", cfg.Journal.Redis.MaxConns)
	v.SetDefault("journal.redis.operation_timeout", cfg.Journal.Redis.OperationTimeout)
	v.SetDefault("journal.kafka.brokers", cfg.Journal.Kafka.Brokers)
	v.SetDefault("journal.kafka.topic", cfg.Journal.Kafka.Topic)
	v.SetDefault("journal.kafka.operation_timeout", cfg.Journal.Kafka.OperationTimeout)
	v.SetDefault("journal.kafka.max_retries", cfg.Journal.Kafka.MaxRetries)
}

func (l *ViperLoader) prefixedEnv(name string) string {
	if l.envPrefix == "" {
		return name
	}
	return l.envPrefix + "_" + name
}

func splitBrokers(brokers []string) []string {
	var out []string
	for _, b := range brokers {
		for _, part := range strings.Split(b, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
