// Package drafting drives the generate and revise workflow of a drafting
// session. The Controller records the user's turn, sends an instruction to the
// agent, normalizes the answer into a policy.Record and appends it to the
// session that was current when the request started.
//
// The controller initializes from configuration via New. Functional options
// replace any collaborator for testing.
//
//	ctrl, err := drafting.New(cfg, store)
//	outcome, err := ctrl.Generate(ctx, "Launch in EU", policy.Selection{Regulation: "GDPR"})
package drafting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/drafter/activity"
	"github.com/tailored-agentic-units/drafter/agent"
	"github.com/tailored-agentic-units/drafter/policy"
	"github.com/tailored-agentic-units/drafter/session"
)

// State is the request state of one session.
type State int

const (
	Idle State = iota
	AwaitingResponse
)

func (s State) String() string {
	if s == AwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// Result is the terminal outcome of a request.
type Result int

const (
	Succeeded Result = iota + 1
	Failed
)

func (r Result) String() string {
	switch r {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes a completed request. Record is set on success; Message
// holds the surfaced error text on failure.
type Outcome struct {
	Result    Result
	SessionID string
	Record    *policy.Record
	Message   string
}

// Option configures a Controller after config-driven initialization.
type Option func(*Controller)

// WithTransport overrides the config-created agent transport.
func WithTransport(t agent.Transport) Option {
	return func(c *Controller) { c.transport = t }
}

// WithAgentID overrides the configured agent identifier.
func WithAgentID(id string) Option {
	return func(c *Controller) { c.agentID = id }
}

// WithFeed reports processing state to feed and forwards events to it.
func WithFeed(feed *activity.Feed) Option {
	return func(c *Controller) { c.feed = feed }
}

// WithObserver overrides the configured observer.
func WithObserver(o activity.Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithNavigator overrides the store's navigator.
func WithNavigator(n session.Navigator) Option {
	return func(c *Controller) { c.navigator = n }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller runs drafting requests against a session.Store. At most one
// request per session is outstanding at a time; sessions are independent.
type Controller struct {
	store     *session.Store
	transport agent.Transport
	agentID   string
	registry  *agent.Registry
	feed      *activity.Feed
	observer  activity.Observer
	navigator session.Navigator
	logger    *slog.Logger
	defaults  policy.Selection

	mu       sync.Mutex
	inFlight map[string]bool
}

// New creates a Controller from cfg. The agent transport and the named agent
// registry are built from their config sections.
func New(cfg *Config, store *session.Store, opts ...Option) (*Controller, error) {
	transport, err := agent.New(&cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent transport: %w", err)
	}

	reg := agent.NewRegistry()
	for name, agentCfg := range cfg.Agents {
		if err := reg.Register(name, agentCfg); err != nil {
			return nil, fmt.Errorf("failed to register agent %q: %w", name, err)
		}
	}

	observerName := cfg.Observer
	if observerName == "" {
		observerName = defaultObserver
	}
	observer, err := activity.GetObserver(observerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (available: %s)", ErrInvalidConfig, err, strings.Join(activity.ObserverNames(), ", "))
	}

	defaults := policy.DefaultSelection()
	defaults.Merge(&cfg.Defaults)

	c := &Controller{
		store:     store,
		transport: transport,
		agentID:   cfg.Agent.AgentID,
		registry:  reg,
		observer:  observer,
		navigator: store.Navigator(),
		logger:    slog.Default(),
		defaults:  defaults,
		inFlight:  make(map[string]bool),
	}
	if c.agentID == "" {
		c.agentID = agent.DefaultAgentID
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.feed != nil {
		c.observer = activity.NewMultiObserver(c.observer, c.feed)
	}

	return c, nil
}

// Registry returns the named agents from the configuration.
func (c *Controller) Registry() *agent.Registry {
	return c.registry
}

// UseAgent switches to a named agent from the registry.
func (c *Controller) UseAgent(name string) error {
	t, err := c.registry.Get(name)
	if err != nil {
		return err
	}
	cfg, err := c.registry.Config(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport = t
	c.agentID = cfg.AgentID
	return nil
}

// State reports whether a request is outstanding for the session.
func (c *Controller) State(sessionID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[sessionID] {
		return AwaitingResponse
	}
	return Idle
}

// Defaults returns the selection applied to unset request fields.
func (c *Controller) Defaults() policy.Selection {
	return c.defaults
}

// request is one generate or revise call.
type request struct {
	kind        string
	userContent string
	message     string
	selection   policy.Selection
	failMsg     string
	panicMsg    string
	showOutput  bool
}

// Generate asks the agent for a new draft of the scenario in prompt for the
// current session. Unset selection fields take the configured defaults.
//
// A blank prompt returns ErrEmptyPrompt and a request for a session already
// awaiting a response returns ErrRequestInFlight; neither touches the session
// or its activity. Agent failures are not errors: they are recorded in the
// store's error state and reported in the returned Outcome.
func (c *Controller) Generate(ctx context.Context, prompt string, sel policy.Selection) (*Outcome, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		c.reject("generate", c.store.CurrentID(), ErrEmptyPrompt)
		return nil, ErrEmptyPrompt
	}

	sessionID, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	resolved := c.defaults
	resolved.Merge(&sel)

	return c.run(ctx, sessionID, request{
		kind:        "generate",
		userContent: trimmed,
		message:     GenerateInstruction(trimmed, resolved),
		selection:   resolved,
		failMsg:     MsgGenerateFailed,
		panicMsg:    MsgGenerateUnexpected,
		showOutput:  true,
	})
}

// Revise asks the agent to rework its previous draft of the current session
// according to feedback. Guards and failures behave as in Generate. The
// active results view is left unchanged.
func (c *Controller) Revise(ctx context.Context, feedback string) (*Outcome, error) {
	trimmed := strings.TrimSpace(feedback)
	if trimmed == "" {
		c.reject("revise", c.store.CurrentID(), ErrEmptyPrompt)
		return nil, ErrEmptyPrompt
	}

	sessionID, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	sel := c.defaults
	if last, ok := c.store.LastPolicy(sessionID); ok {
		sel.Merge(&policy.Selection{Regulation: last.RegulationFramework, Scope: last.ScopeType})
	}

	return c.run(ctx, sessionID, request{
		kind:        "revise",
		userContent: RevisionPrefix + trimmed,
		message:     RevisionInstruction(trimmed),
		selection:   sel,
		failMsg:     MsgReviseFailed,
		panicMsg:    MsgReviseUnexpected,
	})
}

// currentSession returns the session a new request targets.
func (c *Controller) currentSession() (string, error) {
	if !c.store.Initialized() {
		return "", session.ErrNotInitialized
	}
	return c.store.CurrentID(), nil
}

func (c *Controller) run(ctx context.Context, sessionID string, req request) (*Outcome, error) {
	if !c.acquire(sessionID) {
		c.reject(req.kind, sessionID, ErrRequestInFlight)
		return nil, ErrRequestInFlight
	}
	defer c.release(sessionID)

	// Store writes must land even if the caller gives up on the response.
	storeCtx := context.WithoutCancel(ctx)

	c.setError(sessionID, "")
	if err := c.store.AppendEntry(storeCtx, sessionID, session.NewUserEntry(req.userContent)); err != nil {
		return nil, fmt.Errorf("failed to record %s request: %w", req.kind, err)
	}

	c.setProcessing(sessionID, true)
	defer c.setProcessing(sessionID, false)

	transport, agentID := c.agent()
	started := time.Now()

	c.emit(ctx, EventRequestStart, activity.LevelInfo, sessionID, map[string]any{
		"kind":          req.kind,
		"prompt_length": len(req.userContent),
		"agent_id":      agentID,
	})

	result, err := invoke(ctx, transport, req.message, agentID, agent.Context{SessionID: sessionID})

	outcome := &Outcome{SessionID: sessionID}
	switch {
	case err != nil:
		c.logger.Error("agent round trip failed", "kind", req.kind, "session", sessionID, "error", err)
		outcome.Result = Failed
		outcome.Message = req.panicMsg
	case !result.Success:
		outcome.Result = Failed
		outcome.Message = result.Error
		if outcome.Message == "" {
			outcome.Message = req.failMsg
		}
	default:
		record := policy.Normalize(result.Response, req.selection)
		if err := c.store.AppendEntry(storeCtx, sessionID, session.NewAssistantEntry(record)); err != nil {
			c.logger.Error("record draft", "session", sessionID, "error", err)
			outcome.Result = Failed
			outcome.Message = req.panicMsg
			break
		}
		outcome.Result = Succeeded
		outcome.Record = &record
	}

	if outcome.Result == Failed {
		c.setError(sessionID, outcome.Message)
		c.emit(ctx, EventRequestFailed, activity.LevelWarning, sessionID, map[string]any{
			"kind":        req.kind,
			"error":       outcome.Message,
			"duration_ms": time.Since(started).Milliseconds(),
		})
		return outcome, nil
	}

	c.setError(sessionID, "")
	if req.showOutput {
		c.navigator.ShowTab(session.TabOutput)
	}
	c.emit(ctx, EventRequestSucceeded, activity.LevelInfo, sessionID, map[string]any{
		"kind":         req.kind,
		"title":        outcome.Record.Title,
		"key_sections": len(outcome.Record.KeySections),
		"duration_ms":  time.Since(started).Milliseconds(),
	})
	return outcome, nil
}

// invoke calls the transport, converting a panic into an error.
func invoke(ctx context.Context, t agent.Transport, message, agentID string, ac agent.Context) (result agent.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errTransportPanic, r)
		}
	}()
	return t.Invoke(ctx, message, agentID, ac)
}

func (c *Controller) agent() (agent.Transport, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport, c.agentID
}

func (c *Controller) acquire(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[sessionID] {
		return false
	}
	c.inFlight[sessionID] = true
	return true
}

func (c *Controller) release(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, sessionID)
}

func (c *Controller) setProcessing(sessionID string, processing bool) {
	if c.feed != nil {
		c.feed.SetProcessing(sessionID, processing)
	}
}

// setError updates the store's error state only while sessionID is the
// current session. An empty msg clears it.
func (c *Controller) setError(sessionID, msg string) {
	if c.store.CurrentID() != sessionID {
		return
	}
	if msg == "" {
		c.store.ClearError()
		return
	}
	c.store.SetError(msg)
}

func (c *Controller) reject(kind, sessionID string, reason error) {
	c.logger.Debug("request rejected", "kind", kind, "session", sessionID, "reason", reason)
}

func (c *Controller) emit(ctx context.Context, typ activity.EventType, level activity.Level, sessionID string, data map[string]any) {
	data[activity.KeySessionID] = sessionID
	c.observer.OnEvent(ctx, activity.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "drafting.Controller",
		Data:      data,
	})
}
