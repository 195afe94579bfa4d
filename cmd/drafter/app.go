package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/drafter/activity"
	"github.com/tailored-agentic-units/drafter/drafting"
	"github.com/tailored-agentic-units/drafter/knowledge"
	"github.com/tailored-agentic-units/drafter/kvstore"
	"github.com/tailored-agentic-units/drafter/session"
)

// currentSuffix names the key remembering the selected session between runs.
const currentSuffix = "_current"

type app struct {
	configFile string
	verbose    bool
	agentName  string
	sessionID  string

	cfg    *drafting.Config
	logger *slog.Logger
	kv     kvstore.Store
	store  *session.Store
	feed   *activity.Feed
	nav    *navigator
	ctrl   *drafting.Controller
	lib    *knowledge.Library
}

func (a *app) wire(cmd *cobra.Command) error {
	cfg, err := drafting.LoadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	activity.RegisterObserver("slog", activity.NewSlogObserver(a.logger))

	if cfg.Storage.Path == "" && cfg.Storage.Backend != kvstore.BackendMemory && cfg.Storage.Backend != kvstore.BackendRedis {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config directory: %w", err)
		}
		cfg.Storage.Path = filepath.Join(dir, "drafter")
	}

	a.kv, err = kvstore.NewStore(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	a.feed = activity.NewFeed()
	a.nav = &navigator{}
	a.store = session.NewStore(a.kv,
		session.WithKey(cfg.SessionKey),
		session.WithNavigator(a.nav),
		session.WithActivity(a.feed),
		session.WithLogger(a.logger),
	)

	ctx := cmd.Context()
	a.store.Initialize(ctx)
	if err := a.restoreCurrent(ctx); err != nil {
		return err
	}

	a.ctrl, err = drafting.New(cfg, a.store,
		drafting.WithFeed(a.feed),
		drafting.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}
	if a.agentName != "" {
		if err := a.ctrl.UseAgent(a.agentName); err != nil {
			return fmt.Errorf("select agent: %w", err)
		}
	}

	a.logger.Debug("drafter wired",
		"storage", cfg.Storage.Backend,
		"sessions", len(a.store.Sessions()),
		"current", a.store.CurrentID(),
	)
	return nil
}

// restoreCurrent selects the --session flag, else the session remembered from
// the previous run. A remembered session that no longer exists is ignored.
func (a *app) restoreCurrent(ctx context.Context) error {
	if a.sessionID != "" {
		if err := a.store.SelectSession(ctx, a.sessionID); err != nil {
			return fmt.Errorf("select session %s: %w", a.sessionID, err)
		}
		return nil
	}

	entries, err := a.kv.Load(ctx, a.cfg.SessionKey+currentSuffix)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			a.logger.Warn("failed to load current session", "error", err)
		}
		return nil
	}

	id := string(entries[0].Value)
	if err := a.store.SelectSession(ctx, id); err != nil {
		a.logger.Debug("remembered session not found", "id", id)
	}
	return nil
}

// rememberCurrent stores the current session id for the next run.
func (a *app) rememberCurrent(ctx context.Context) error {
	return a.kv.Save(ctx, kvstore.Entry{
		Key:   a.cfg.SessionKey + currentSuffix,
		Value: []byte(a.store.CurrentID()),
	})
}

// library connects to the knowledge store on first use.
func (a *app) library(ctx context.Context) (*knowledge.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}

	svc, err := knowledge.NewS3Service(ctx, &a.cfg.Knowledge)
	if err != nil {
		return nil, fmt.Errorf("connect knowledge store: %w", err)
	}
	a.lib = knowledge.NewLibrary(svc, a.cfg.Knowledge.Collection, knowledge.WithLibraryLogger(a.logger))
	return a.lib, nil
}

// close releases the storage handle and the library timer. It is safe to call
// when wire failed part way.
func (a *app) close() {
	if a.lib != nil {
		a.lib.Close()
	}
	if closer, ok := a.kv.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("failed to close storage", "error", err)
		}
	}
}
