// Package kafka provides a Kafka-backed outcome journal. Records are published
// as JSON messages keyed by transaction id so downstream consumers (auditing,
// remediation pipelines) can replay the stream; the backend is append-only and
// does not support listing.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/txnkit/txnkit/pkg/journal"
	"github.com/txnkit/txnkit/pkg/observability/logger"
)

// DefaultTopic is the topic used when Config.Topic is empty.
const DefaultTopic = "txnkit.journal"

// Config holds Kafka producer configuration for the journal.
type Config struct {
	// Brokers is the list of Kafka broker addresses (e.g. ["localhost:9092"]).
	Brokers []string

	// Topic is the topic records are published to.
	Topic string

	// OperationTimeout is the timeout for publish operations.
	OperationTimeout time.Duration

	// MaxRetries is the maximum number of write attempts.
	MaxRetries int
}

// messageWriter is the subset of *kafka.Writer the journal uses. Tests inject
// a fake.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Journal publishes outcome records to a Kafka topic. It implements
// journal.Journal.
type Journal struct {
	writer messageWriter
	logger logger.Logger
	config Config

	mu     sync.Mutex
	closed bool
}

// New creates a journal backed by a Kafka producer.
func New(cfg Config, log logger.Logger) (*Journal, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  cfg.MaxRetries,
		WriteTimeout: cfg.OperationTimeout,
		ReadTimeout:  cfg.OperationTimeout,
	}

	log.Info("journal kafka producer initialized",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return &Journal{writer: writer, logger: log, config: cfg}, nil
}

// NewWithWriter wraps an existing writer. Used by tests.
func NewWithWriter(writer messageWriter, cfg Config, log logger.Logger) (*Journal, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = 30 * time.Second
	}
	return &Journal{writer: writer, logger: log, config: cfg}, nil
}

// Append publishes one record keyed by its transaction id.
func (j *Journal) Append(ctx context.Context, rec *journal.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return fmt.Errorf("kafka journal is closed")
	}
	j.mu.Unlock()

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal journal record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, j.config.OperationTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(rec.TransactionID),
		Value: payload,
		Time:  rec.FinishedAt,
	}
	if err := j.writer.WriteMessages(ctx, msg); err != nil {
		j.logger.Error("failed to publish journal record",
			"transaction_id", rec.TransactionID,
			"error", err,
		)
		return fmt.Errorf("failed to publish journal record: %w", err)
	}
	return nil
}

// List is unsupported for the append-only stream backend.
func (j *Journal) List(ctx context.Context, limit int) ([]*journal.Record, error) {
	return nil, journal.ErrUnsupported
}

// Close closes the producer. Safe to call more than once.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.writer.Close()
}
