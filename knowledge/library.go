package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Upload status messages.
const (
	StatusUploading = "Uploading..."
	StatusUploaded  = "Document uploaded and trained successfully."
	uploadFallback  = "Upload failed"
)

// DefaultStatusTTL is how long an upload status stays visible.
const DefaultStatusTTL = 4 * time.Second

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithStatusTTL overrides DefaultStatusTTL.
func WithStatusTTL(d time.Duration) LibraryOption {
	return func(l *Library) { l.statusTTL = d }
}

// WithLibraryLogger overrides the default slog logger.
func WithLibraryLogger(logger *slog.Logger) LibraryOption {
	return func(l *Library) { l.logger = logger }
}

// Library is a client-side view of one collection: the known documents and a
// transient upload status. Safe for concurrent use.
type Library struct {
	svc        Service
	collection string
	statusTTL  time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	docs      []Document
	status    string
	statusGen uint64
	timer     *time.Timer
}

// NewLibrary creates an empty Library for collection. Call Refresh to load it.
func NewLibrary(svc Service, collection string, opts ...LibraryOption) *Library {
	l := &Library{
		svc:        svc,
		collection: collection,
		statusTTL:  DefaultStatusTTL,
		logger:     slog.Default(),
		docs:       []Document{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Collection returns the collection id.
func (l *Library) Collection() string {
	return l.collection
}

// Refresh reloads the document list. On failure the previous list is kept.
func (l *Library) Refresh(ctx context.Context) error {
	docs, err := l.svc.List(ctx, l.collection)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.logger.Warn("list documents", "collection", l.collection, "error", err)
		return err
	}
	l.docs = slices.Clone(docs)
	return nil
}

// Upload validates and stores f, then refreshes the list. The status reports
// progress and outcome, including validation failures, and clears itself after
// the TTL.
func (l *Library) Upload(ctx context.Context, f File) error {
	if v := Validate(f); !v.Valid {
		l.setStatus("Error: "+v.Reason, true)
		return fmt.Errorf("%w: %s", ErrInvalidFile, v.Reason)
	}

	l.setStatus(StatusUploading, false)

	if err := l.svc.Upload(ctx, l.collection, f); err != nil {
		l.setStatus("Error: "+reason(err), true)
		return err
	}

	l.setStatus(StatusUploaded, true)
	if err := l.Refresh(ctx); err != nil {
		l.logger.Debug("refresh after upload", "error", err)
	}
	return nil
}

// Delete removes a document and drops it from the local list on success.
func (l *Library) Delete(ctx context.Context, name string) error {
	if err := l.svc.Delete(ctx, l.collection, name); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs = slices.DeleteFunc(slices.Clone(l.docs), func(d Document) bool {
		return d.FileName == name
	})
	return nil
}

// Documents returns a copy of the known documents.
func (l *Library) Documents() []Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.docs)
}

// Status returns the current upload status, or "".
func (l *Library) Status() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Close stops a pending status clear.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
	}
}

// setStatus replaces the status. With expire set, the status is cleared after
// the TTL unless a newer status replaced it first.
func (l *Library) setStatus(msg string, expire bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.statusGen++
	l.status = msg
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	if !expire {
		return
	}

	gen := l.statusGen
	l.timer = time.AfterFunc(l.statusTTL, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.statusGen == gen {
			l.status = ""
		}
	})
}

// reason extracts a user-facing message from err, dropping the sentinel
// prefix added by the service.
func reason(err error) string {
	msg := err.Error()
	if errors.Is(err, ErrUploadFailed) {
		msg, _ = strings.CutPrefix(msg, ErrUploadFailed.Error()+": ")
	}
	if msg == "" || msg == ErrUploadFailed.Error() {
		return uploadFallback
	}
	return msg
}
