package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/drafter/kvstore"
	"github.com/tailored-agentic-units/drafter/policy"
)

// DefaultKey is the storage key holding the persisted collection.
const DefaultKey = "ppg_sessions"

// IDPrefix starts every generated session id.
const IDPrefix = "session_"

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithNavigator sets the presentation delegate.
func WithNavigator(n Navigator) Option {
	return func(s *Store) { s.navigator = n }
}

// WithActivity sets the activity feed reset when a session is created.
func WithActivity(r ActivityResetter) Option {
	return func(s *Store) { s.activity = r }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store holds the session collection of one user. The collection is replaced
// as a whole on every mutation, so a snapshot taken by a reader is never
// partially updated, and after each mutation the whole collection is written
// to the backing kvstore.Store. Persistence failures are logged and otherwise
// ignored. All methods are safe for concurrent use.
type Store struct {
	kv        kvstore.Store
	key       string
	now       func() time.Time
	newID     func() string
	navigator Navigator
	activity  ActivityResetter
	logger    *slog.Logger

	mu          sync.RWMutex
	sessions    []Session
	currentID   string
	errMessage  string
	initialized bool
}

// NewStore creates an uninitialized Store persisting into kv. A nil kv keeps
// the collection in memory only.
func NewStore(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		key:       DefaultKey,
		now:       time.Now,
		newID:     NewID,
		navigator: NopNavigator{},
		activity:  nopResetter{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a unique session id. UUIDv7 embeds the creation time and is
// monotonically increasing within the process.
func NewID() string {
	return IDPrefix + uuid.Must(uuid.NewV7()).String()
}

// Initialize loads the persisted collection and selects its first session.
// Missing, unreadable or corrupt data is discarded and replaced by a single
// fresh session. Calling Initialize again reloads from storage.
func (s *Store) Initialize(ctx context.Context) {
	loaded := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(loaded) == 0 {
		loaded = []Session{s.newSession()}
		s.sessions = loaded
		s.persistLocked(ctx)
	} else {
		s.sessions = loaded
	}
	s.currentID = loaded[0].ID
	s.errMessage = ""
	s.initialized = true

	s.logger.Debug("session store initialized", "sessions", len(loaded), "current", s.currentID)
}

func (s *Store) load(ctx context.Context) []Session {
	if s.kv == nil {
		return nil
	}

	entries, err := s.kv.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			s.logger.Warn("discarding unreadable session data", "key", s.key, "error", err)
		}
		return nil
	}

	sessions, skipped, ok := decodeCollection(entries[0].Value)
	if !ok {
		s.logger.Warn("discarding corrupt session data", "key", s.key)
		return nil
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed sessions", "key", s.key, "skipped", skipped)
	}
	return sessions
}

// CreateSession prepends a new empty session and makes it current. The error
// state is cleared and the new session's activity feed is reset.
func (s *Store) CreateSession(ctx context.Context) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.newSession()
	next := make([]Session, 0, len(s.sessions)+1)
	next = append(next, created)
	next = append(next, s.sessions...)

	s.sessions = next
	s.currentID = created.ID
	s.errMessage = ""
	s.initialized = true
	s.persistLocked(ctx)

	s.activity.Reset(created.ID)
	return created.Clone()
}

// SelectSession makes id current, clears the error state and asks the
// navigator to close any overlay. Unknown ids leave the store unchanged.
func (s *Store) SelectSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.currentID = id
	s.errMessage = ""
	s.persistLocked(ctx)

	s.navigator.CloseOverlay()
	return nil
}

// AppendEntry adds e to the tail of the named session and bumps its
// UpdatedAt. Assistant entries carrying a draft also retitle the session.
// Timestamps are clamped so the log stays monotonic.
func (s *Store) AppendEntry(ctx context.Context, sessionID string, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(sessionID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	updated := s.sessions[idx]
	now := s.now().UnixMilli()

	e = e.Clone()
	if e.Timestamp == 0 {
		e.Timestamp = now
	}
	if n := len(updated.Entries); n > 0 && e.Timestamp < updated.Entries[n-1].Timestamp {
		e.Timestamp = updated.Entries[n-1].Timestamp
	}

	updated.Entries = updated.Entries.Append(e)
	updated.UpdatedAt = max(now, e.Timestamp, updated.CreatedAt, updated.UpdatedAt)
	if e.Role == RoleAssistant && e.PolicyData != nil {
		updated.Title = DeriveTitle(updated.Entries)
	}

	next := slices.Clone(s.sessions)
	next[idx] = updated
	s.sessions = next
	s.persistLocked(ctx)
	return nil
}

// Sessions returns a deep copy of the collection, most recent first.
func (s *Store) Sessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		copied[i] = sess.Clone()
	}
	return copied
}

// Get returns a copy of the session with the given id.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Session{}, false
	}
	return s.sessions[idx].Clone(), true
}

// CurrentID returns the id of the current session, or "" before Initialize.
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Current returns a copy of the current session.
func (s *Store) Current() (Session, bool) {
	return s.Get(s.CurrentID())
}

// LastPolicy returns the most recent draft of the named session.
func (s *Store) LastPolicy(id string) (policy.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return policy.Record{}, false
	}
	e, ok := s.sessions[idx].Entries.LastWithPolicyData()
	if !ok {
		return policy.Record{}, false
	}
	return e.PolicyData.Clone(), true
}

// Initialized reports whether the store holds a collection.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Error returns the user-visible error message, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMessage
}

// SetError records a user-visible error message.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMessage = msg
}

// ClearError removes the user-visible error message.
func (s *Store) ClearError() {
	s.SetError("")
}

// Navigator returns the presentation delegate.
func (s *Store) Navigator() Navigator {
	return s.navigator
}

func (s *Store) newSession() Session {
	now := s.now().UnixMilli()
	return Session{
		ID:        s.newID(),
		Title:     NewSessionTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Entries:   Log{},
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.sessions, func(sess Session) bool {
		return sess.ID == id
	})
}

// persistLocked writes the whole collection. Callers hold s.mu so writes
// reach storage in mutation order.
func (s *Store) persistLocked(ctx context.Context) {
	if s.kv == nil {
		return
	}

	data, err := encodeCollection(s.sessions)
	if err != nil {
		s.logger.Error("encode sessions", "error", err)
		return
	}

	if err := s.kv.Save(ctx, kvstore.Entry{Key: s.key, Value: data}); err != nil {
		s.logger.Warn("persist sessions", "key", s.key, "error", err)
	}
}
