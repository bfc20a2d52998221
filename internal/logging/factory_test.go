package logging

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewLoggerConsoleOnly(t *testing.T) {
	config := DefaultLogConfig()

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if _, ok := logger.(*ConsoleLogger); !ok {
		t.Errorf("Expected *ConsoleLogger, got %T", logger)
	}
}

func TestNewLoggerFileOnly(t *testing.T) {
	config := DefaultLogConfig()
	config.EnableConsole = false
	config.OutputFile = filepath.Join(t.TempDir(), "driveback.log")

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if _, ok := logger.(*FileLogger); !ok {
		t.Errorf("Expected *FileLogger, got %T", logger)
	}
}

func TestNewLoggerBoth(t *testing.T) {
	config := DefaultLogConfig()
	config.OutputFile = filepath.Join(t.TempDir(), "driveback.log")

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if _, ok := logger.(*MultiLogger); !ok {
		t.Errorf("Expected *MultiLogger, got %T", logger)
	}
}

func TestNewLoggerNone(t *testing.T) {
	config := DefaultLogConfig()
	config.EnableConsole = false

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if _, ok := logger.(*NoOpLogger); !ok {
		t.Errorf("Expected *NoOpLogger, got %T", logger)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DEBUG},
		{"DEBUG", DEBUG},
		{"info", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"garbage", INFO},
		{"", INFO},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTraceIDContext(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "trace-123")

	if got := TraceIDFromContext(ctx); got != "trace-123" {
		t.Errorf("Expected trace-123, got %q", got)
	}
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Errorf("Expected empty trace ID, got %q", got)
	}
}
