package activity

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// SlogObserver writes events to a slog.Logger. The event type is the log
// message; the session id and source lead the attributes, followed by the
// remaining Data keys in sorted order.
type SlogObserver struct {
	logger *slog.Logger
}

func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	if id := event.SessionID(); id != "" {
		attrs = append(attrs, slog.String("session", id))
	}
	if event.Source != "" {
		attrs = append(attrs, slog.String("source", event.Source))
	}
	for _, k := range slices.Sorted(maps.Keys(event.Data)) {
		if k == KeySessionID {
			continue
		}
		attrs = append(attrs, slog.Any(k, event.Data[k]))
	}

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}

// MultiObserver forwards each event to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver ignores nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	return &MultiObserver{
		observers: slices.DeleteFunc(slices.Clone(observers), func(o Observer) bool { return o == nil }),
	}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// NoOpObserver discards events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
