package logger

import (
	"context"
	"testing"
)

func TestNewZapLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"unknown defaults to info", LogLevel("bogus")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewZapLogger(Config{Level: tt.level, Format: JSONFormat})
			if err != nil {
				t.Fatalf("NewZapLogger returned error: %v", err)
			}
			if log == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestNewZapLogger_Formats(t *testing.T) {
	for _, format := range []LogFormat{JSONFormat, TextFormat} {
		log, err := NewZapLogger(Config{Level: InfoLevel, Format: format})
		if err != nil {
			t.Fatalf("NewZapLogger(%s) returned error: %v", format, err)
		}
		// Should not panic.
		log.Info("message", "key", "value")
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Debug("discarded")
	log.Info("discarded")
	log.Warn("discarded")
	log.Error("discarded")

	child := log.With("key", "value")
	if child == nil {
		t.Fatal("expected non-nil child logger")
	}
	child.Info("discarded")
}

func TestWithContext_TransactionID(t *testing.T) {
	log := NewNop()

	ctx := ContextWithTransactionID(context.Background(), "tx-123")
	if got := TransactionIDFromContext(ctx); got != "tx-123" {
		t.Errorf("expected tx-123, got %q", got)
	}

	child := log.WithContext(ctx)
	if child == log {
		t.Error("expected WithContext to return a child logger when tx_id present")
	}

	// No transaction ID: same logger comes back.
	same := log.WithContext(context.Background())
	if same != log {
		t.Error("expected WithContext without tx_id to return the receiver")
	}
}

func TestTransactionIDFromContext_Empty(t *testing.T) {
	if got := TransactionIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty tx id, got %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"info", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q): unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{"json", JSONFormat, false},
		{"text", TextFormat, false},
		{"console", TextFormat, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLogFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLogFormat(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogFormat(%q): unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseLogFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
