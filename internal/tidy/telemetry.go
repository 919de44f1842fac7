package tidy

// Telemetry is a fire-and-forget event sink for cost accounting and
// instrumentation (cache hits, classifier fallbacks, item outcomes).
// Implementations must never fail the caller; an absent sink is a no-op.
type Telemetry interface {
	TrackEvent(name string, attrs map[string]any)
}

// NopTelemetry discards all events.
type NopTelemetry struct{}

func NewNopTelemetry() *NopTelemetry { return &NopTelemetry{} }

func (*NopTelemetry) TrackEvent(string, map[string]any) {}
