package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples the sheet core from any frontend
// ─────────────────────────────────────────────────────────────

// EventEmitter is an interface for emitting events to whatever surface
// is attached (MCP client notifications, a future GUI, or nothing).
// Services receive this interface instead of a concrete runtime,
// which makes them independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// NoopEmitter discards all events. Used in headless mode.
type NoopEmitter struct{}

func (NoopEmitter) Emit(_ context.Context, _ string, _ any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}
