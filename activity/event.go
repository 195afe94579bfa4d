// Package activity carries the events emitted while a drafting request is in
// progress. Observers receive every event; the Feed keeps a per-session view
// of them for the activity pane of a client.
//
// Level values follow OpenTelemetry SeverityNumber ranges so events can be
// forwarded to a collector without translation.
package activity

import (
	"context"
	"log/slog"
	"time"
)

// Level is the severity of an event.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the OTel severity text.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps l onto slog's levels.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event, namespaced by its emitter ("drafting.request.start").
type EventType string

// Event types produced by agents rather than by the engine itself.
const (
	EventThinking EventType = "agent.thinking"
	EventStatus   EventType = "agent.status"
)

// Well-known Data keys.
const (
	KeySessionID = "session_id"
	KeyAgentID   = "agent_id"
	KeyAgentName = "agent_name"
	KeyMessage   = "message"
)

// Event is one activity record. Data holds event-specific attributes; events
// that concern a session carry its id under KeySessionID.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// SessionID returns the session the event belongs to, or "".
func (e Event) SessionID() string {
	id, _ := e.Data[KeySessionID].(string)
	return id
}

func (e Event) str(key string) string {
	s, _ := e.Data[key].(string)
	return s
}

// Observer receives events.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
