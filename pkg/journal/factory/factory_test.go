package factory

import (
	"testing"

	"github.com/txnkit/txnkit/pkg/config"
	"github.com/txnkit/txnkit/pkg/journal"
)

func TestNewJournal_DefaultsToMemory(t *testing.T) {
	j, err := NewJournal(Config{}, nil)
	if err != nil {
		t.Fatalf("NewJournal failed: %v", err)
	}
	defer j.Close()

	if _, ok := j.(*journal.Memory); !ok {
		t.Errorf("expected in-memory journal, got %T", j)
	}
}

func TestNewJournal_Memory(t *testing.T) {
	j, err := NewJournal(Config{Type: config.JournalTypeMemory}, nil)
	if err != nil {
		t.Fatalf("NewJournal failed: %v", err)
	}
	defer j.Close()

	if _, ok := j.(*journal.Memory); !ok {
		t.Errorf("expected in-memory journal, got %T", j)
	}
}

func TestNewJournal_Kafka(t *testing.T) {
	// The Kafka producer connects lazily, so construction succeeds without
	// a broker.
	j, err := NewJournal(Config{
		Type:  config.JournalTypeKafka,
		Kafka: config.KafkaJournalConfig{Brokers: []string{"localhost:9092"}},
	}, nil)
	if err != nil {
		t.Fatalf("NewJournal failed: %v", err)
	}
	j.Close()
}

func TestNewJournal_BackendValidation(t *testing.T) {
	if _, err := NewJournal(Config{Type: config.JournalTypePostgres}, nil); err == nil {
		t.Error("expected postgres url validation error")
	}
	if _, err := NewJournal(Config{Type: config.JournalTypeRedis}, nil); err == nil {
		t.Error("expected redis url validation error")
	}
	if _, err := NewJournal(Config{Type: config.JournalTypeKafka}, nil); err == nil {
		t.Error("expected kafka brokers validation error")
	}
}

func TestNewJournal_UnsupportedType(t *testing.T) {
	if _, err := NewJournal(Config{Type: "dynamodb"}, nil); err == nil {
		t.Error("expected unsupported type error")
	}
}
