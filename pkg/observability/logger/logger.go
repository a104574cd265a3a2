package logger

import (
	"context"
)

// Logger defines the interface for structured logging throughout the engine.
// All log methods accept a message string followed by key-value pairs for structured fields.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs an info-level message with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a warning-level message with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs an error-level message with optional key-value pairs
	Error(msg string, args ...any)

	// With creates a child logger with additional key-value pairs that will be
	// included in all subsequent log entries
	With(args ...any) Logger

	// WithContext creates a child logger that extracts the transaction ID from context
	WithContext(ctx context.Context) Logger
}

type contextKey string

const transactionIDKey contextKey = "tx_id"

// ContextWithTransactionID returns a context carrying the given transaction ID.
// Loggers created via WithContext will include it under the "tx_id" field.
func ContextWithTransactionID(ctx context.Context, txID string) context.Context {
	return context.WithValue(ctx, transactionIDKey, txID)
}

// TransactionIDFromContext extracts the transaction ID from the context, if present.
func TransactionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if txID, ok := ctx.Value(transactionIDKey).(string); ok {
		return txID
	}
	return ""
}
