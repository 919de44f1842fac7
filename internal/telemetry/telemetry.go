package telemetry

import (
	"fmt"

	"tidy-go/internal/config"
	"tidy-go/internal/tidy"
)

// LogTelemetry emits events through the structured logger. Events are
// fire-and-forget; a failed write is the logger's problem, never the
// caller's.
type LogTelemetry struct {
	logger tidy.Logger
}

// NewLogTelemetry creates a telemetry sink backed by the given logger.
func NewLogTelemetry(logger tidy.Logger) *LogTelemetry {
	return &LogTelemetry{logger: logger}
}

// TrackEvent logs the event name with its attributes as key/value pairs.
func (t *LogTelemetry) TrackEvent(name string, attrs map[string]any) {
	args := make([]any, 0, len(attrs)*2+2)
	args = append(args, "event", name)
	for k, v := range attrs {
		args = append(args, k, v)
	}
	t.logger.Info("telemetry", args...)
}

// NewFromConfig creates a Telemetry implementation based on the telemetry
// config type. An empty or "none" type is a no-op sink.
func NewFromConfig(cfg config.TelemetryConfig, logger tidy.Logger) (tidy.Telemetry, error) {
	switch cfg.Type {
	case "", "none":
		return tidy.NewNopTelemetry(), nil
	case "log":
		return NewLogTelemetry(logger), nil
	default:
		return nil, fmt.Errorf("unknown telemetry type: %s", cfg.Type)
	}
}

// Compile-time check that LogTelemetry implements tidy.Telemetry
var _ tidy.Telemetry = (*LogTelemetry)(nil)
