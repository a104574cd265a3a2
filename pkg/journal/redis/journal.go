// Package redis provides a Redis-backed outcome journal. Records are kept in
// a capped list, newest first, so the journal doubles as a bounded ring of
// recent transaction history.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/txnkit/txnkit/pkg/journal"
	"github.com/txnkit/txnkit/pkg/observability/logger"
)

// DefaultKey is the list key used when Config.Key is empty.
const DefaultKey = "txnkit:journal"

// Config holds Redis connection configuration for the journal.
type Config struct {
	URL              string
	Key              string
	MaxLen           int64
	MaxConns         int
	OperationTimeout time.Duration
}

// Journal is a Redis-backed journal. It implements journal.Journal.
type Journal struct {
	client *redis.Client
	logger logger.Logger
	config Config
}

// New parses the URL, connects, and verifies the connection.
func New(cfg Config, log logger.Logger) (*Journal, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.MaxConns
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = cfg.OperationTimeout
	opts.WriteTimeout = cfg.OperationTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("journal redis connection established",
		"key", keyOrDefault(cfg),
		"max_len", cfg.MaxLen,
	)

	return &Journal{client: client, logger: log, config: cfg}, nil
}

// NewWithClient wraps an existing client. Used by tests and embedders that
// manage their own connection.
func NewWithClient(client *redis.Client, cfg Config, log logger.Logger) (*Journal, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Journal{client: client, logger: log, config: cfg}, nil
}

func keyOrDefault(cfg Config) string {
	if cfg.Key == "" {
		return DefaultKey
	}
	return cfg.Key
}

// Append pushes one record onto the head of the list and trims the list to
// MaxLen when a cap is configured.
func (j *Journal) Append(ctx context.Context, rec *journal.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal journal record: %w", err)
	}

	key := keyOrDefault(j.config)
	pipe := j.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	if j.config.MaxLen > 0 {
		pipe.LTrim(ctx, key, 0, j.config.MaxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append journal record: %w", err)
	}
	return nil
}

// List returns up to limit records, most recent first.
func (j *Journal) List(ctx context.Context, limit int) ([]*journal.Record, error) {
	if limit <= 0 {
		limit = 100
	}

	payloads, err := j.client.LRange(ctx, keyOrDefault(j.config), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	records := make([]*journal.Record, 0, len(payloads))
	for _, payload := range payloads {
		var rec journal.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

// Ping verifies the Redis connection is alive.
func (j *Journal) Ping(ctx context.Context) error {
	return j.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (j *Journal) Close() error {
	return j.client.Close()
}
