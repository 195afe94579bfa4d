package activity

import (
	"context"
	"slices"
	"sync"
)

// DefaultEventLimit bounds the events kept per session.
const DefaultEventLimit = 200

const subscriberBuffer = 16

// Monitor is the activity state of one session.
type Monitor struct {
	Connected       bool
	Events          []Event
	Thinking        []string
	LastThinking    string
	ActiveAgentID   string
	ActiveAgentName string
	Processing      bool
}

func (m Monitor) clone() Monitor {
	m.Events = slices.Clone(m.Events)
	m.Thinking = slices.Clone(m.Thinking)
	return m
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithEventLimit overrides DefaultEventLimit. Older events are dropped first.
func WithEventLimit(n int) FeedOption {
	return func(f *Feed) {
		if n > 0 {
			f.limit = n
		}
	}
}

// Feed records events per session. It is an Observer: events carrying a
// session id update that session's Monitor and are delivered to its
// subscribers; other events are ignored. A Feed is safe for concurrent use.
type Feed struct {
	limit int

	mu          sync.Mutex
	monitors    map[string]*Monitor
	subscribers map[string]map[int]chan Event
	nextSub     int
}

// NewFeed creates an empty Feed.
func NewFeed(opts ...FeedOption) *Feed {
	f := &Feed{
		limit:       DefaultEventLimit,
		monitors:    make(map[string]*Monitor),
		subscribers: make(map[string]map[int]chan Event),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Feed) OnEvent(ctx context.Context, event Event) {
	id := event.SessionID()
	if id == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	m := f.monitorLocked(id)
	m.Connected = true
	m.Events = append(m.Events, event)
	if over := len(m.Events) - f.limit; over > 0 {
		m.Events = slices.Delete(m.Events, 0, over)
	}

	if event.Type == EventThinking {
		if msg := event.str(KeyMessage); msg != "" {
			m.Thinking = append(m.Thinking, msg)
			m.LastThinking = msg
		}
	}
	if agentID := event.str(KeyAgentID); agentID != "" {
		m.ActiveAgentID = agentID
	}
	if name := event.str(KeyAgentName); name != "" {
		m.ActiveAgentName = name
	}

	for _, ch := range f.subscribers[id] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SetProcessing marks whether a request is outstanding for the session.
func (f *Feed) SetProcessing(sessionID string, processing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitorLocked(sessionID).Processing = processing
}

// Reset clears the session's monitor. Subscriptions stay open.
func (f *Feed) Reset(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitors[sessionID] = &Monitor{}
}

// Snapshot returns a copy of the session's monitor.
func (f *Feed) Snapshot(sessionID string) Monitor {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.monitors[sessionID]
	if !ok {
		return Monitor{}
	}
	return m.clone()
}

// Subscribe returns a channel receiving the session's future events and a
// function ending the subscription. Events are dropped for a subscriber whose
// buffer is full.
func (f *Feed) Subscribe(sessionID string) (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subID := f.nextSub
	f.nextSub++

	ch := make(chan Event, subscriberBuffer)
	if f.subscribers[sessionID] == nil {
		f.subscribers[sessionID] = make(map[int]chan Event)
	}
	f.subscribers[sessionID][subID] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subscribers[sessionID], subID)
			if len(f.subscribers[sessionID]) == 0 {
				delete(f.subscribers, sessionID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (f *Feed) monitorLocked(id string) *Monitor {
	m, ok := f.monitors[id]
	if !ok {
		m = &Monitor{}
		f.monitors[id] = m
	}
	return m
}
