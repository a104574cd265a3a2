package redis

import (
	"testing"
)

func TestNew_ValidationErrors(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected missing redis url error")
	}
	if _, err := New(Config{URL: "://bad-url"}, nil); err == nil {
		t.Fatal("expected invalid redis url error")
	}
}

func TestNewWithClient_NilClient(t *testing.T) {
	if _, err := NewWithClient(nil, Config{}, nil); err == nil {
		t.Fatal("expected nil client error")
	}
}

func TestKeyOrDefault(t *testing.T) {
	if got := keyOrDefault(Config{}); got != DefaultKey {
		t.Errorf("expected default key, got %s", got)
	}
	if got := keyOrDefault(Config{Key: "custom:journal"}); got != "custom:journal" {
		t.Errorf("expected custom key, got %s", got)
	}
}
