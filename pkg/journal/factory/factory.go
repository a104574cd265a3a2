// Package factory builds a journal backend from configuration.
package factory

import (
	"fmt"
	"strings"

	"github.com/txnkit/txnkit/pkg/config"
	"github.com/txnkit/txnkit/pkg/journal"
	kafkajournal "github.com/txnkit/txnkit/pkg/journal/kafka"
	postgresjournal "github.com/txnkit/txnkit/pkg/journal/postgres"
	redisjournal "github.com/txnkit/txnkit/pkg/journal/redis"
	"github.com/txnkit/txnkit/pkg/observability/logger"
)

// Config configures journal backend selection.
type Config = config.JournalConfig

// NewJournal creates a journal backend from config. An empty type selects the
// in-memory journal.
func NewJournal(cfg Config, log logger.Logger) (journal.Journal, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Type))
	if backend == "" {
		backend = config.JournalTypeMemory
	}

	switch backend {
	case config.JournalTypeMemory:
		return journal.NewMemory(), nil

	case config.JournalTypePostgres:
		return postgresjournal.New(postgresjournal.Config{
			URL:             cfg.Postgres.URL,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			QueryTimeout:    cfg.Postgres.QueryTimeout,
		}, log)

	case config.JournalTypeRedis:
		return redisjournal.New(redisjournal.Config{
			URL:              cfg.Redis.URL,
			Key:              cfg.Redis.Key,
			MaxLen:           cfg.Redis.MaxLen,
			MaxConns:         cfg.Redis.MaxConns,
			OperationTimeout: cfg.Redis.OperationTimeout,
		}, log)

	case config.JournalTypeKafka:
		return kafkajournal.New(kafkajournal.Config{
			Brokers:          cfg.Kafka.Brokers,
			Topic:            cfg.Kafka.Topic,
			OperationTimeout: cfg.Kafka.OperationTimeout,
			MaxRetries:       cfg.Kafka.MaxRetries,
		}, log)

	default:
		return nil, fmt.Errorf("unsupported journal type: %s", cfg.Type)
	}
}
