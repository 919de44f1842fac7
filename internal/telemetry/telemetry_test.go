package telemetry

import (
	"fmt"
	"strings"
	"testing"

	"tidy-go/internal/config"
	"tidy-go/internal/tidy"
)

// recordingLogger captures Info lines for assertions.
type recordingLogger struct {
	tidy.NopLogger
	lines []string
}

func (l *recordingLogger) Info(msg string, args ...any) {
	l.lines = append(l.lines, fmt.Sprint(append([]any{msg}, args...)...))
}

func TestLogTelemetry(t *testing.T) {
	logger := &recordingLogger{}
	sink := NewLogTelemetry(logger)

	sink.TrackEvent("cache_hit", map[string]any{"path": "/data/a.txt"})

	if len(logger.lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(logger.lines))
	}
	if !strings.Contains(logger.lines[0], "cache_hit") {
		t.Errorf("expected event name in output: %q", logger.lines[0])
	}
	if !strings.Contains(logger.lines[0], "/data/a.txt") {
		t.Errorf("expected attribute value in output: %q", logger.lines[0])
	}
}

func TestNewFromConfig(t *testing.T) {
	logger := tidy.NewNopLogger()

	t.Run("empty and none are no-op sinks", func(t *testing.T) {
		for _, typ := range []string{"", "none"} {
			sink, err := NewFromConfig(config.TelemetryConfig{Type: typ}, logger)
			if err != nil {
				t.Fatalf("NewFromConfig(%q) failed: %v", typ, err)
			}
			if _, ok := sink.(*tidy.NopTelemetry); !ok {
				t.Errorf("expected NopTelemetry for %q, got %T", typ, sink)
			}
		}
	})

	t.Run("log sink", func(t *testing.T) {
		sink, err := NewFromConfig(config.TelemetryConfig{Type: "log"}, logger)
		if err != nil {
			t.Fatalf("NewFromConfig failed: %v", err)
		}
		if _, ok := sink.(*LogTelemetry); !ok {
			t.Errorf("expected LogTelemetry, got %T", sink)
		}
	})

	t.Run("unknown type fails", func(t *testing.T) {
		if _, err := NewFromConfig(config.TelemetryConfig{Type: "statsd"}, logger); err == nil {
			t.Errorf("expected error for unknown telemetry type")
		}
	})
}
