package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/drafter/agent"
	"github.com/tailored-agentic-units/drafter/knowledge"
	"github.com/tailored-agentic-units/drafter/kvstore"
	"github.com/tailored-agentic-units/drafter/policy"
)

// gateway is a fake agent endpoint replying with a fixed payload.
type gateway struct {
	mu       sync.Mutex
	reply    map[string]any
	messages []string
}

func (g *gateway) setReply(reply map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reply = reply
}

func newGateway(t *testing.T, reply map[string]any) (*gateway, string) {
	t.Helper()

	g := &gateway{reply: reply}
	mux := http.NewServeMux()
	mux.Handle(agent.InvokeProcedure, connect.NewUnaryHandler(
		agent.InvokeProcedure,
		func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.messages = append(g.messages, req.Msg.GetFields()["message"].GetStringValue())

			msg, err := structpb.NewStruct(g.reply)
			if err != nil {
				return nil, err
			}
			return connect.NewResponse(msg), nil
		},
	))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return g, srv.URL
}

func draftReply(title string) map[string]any {
	return map[string]any{
		"success": true,
		"response": map[string]any{
			"status": "success",
			"result": map[string]any{
				"policy_title":     title,
				"policy_content":   "We collect only what we need.",
				"key_sections":     []any{"Intro", "Rights"},
				"compliance_notes": "Add a DPO contact.",
			},
		},
	}
}

func writeConfig(t *testing.T, endpoint string) string {
	t.Helper()
	return writeConfigWith(t, endpoint, "file", "")
}

// writeConfigWith writes a config using the given storage backend, with extra
// appended verbatim.
func writeConfigWith(t *testing.T, endpoint, backend, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "drafter.yaml")
	content := fmt.Sprintf(`agent:
  endpoint: %s
storage:
  backend: %s
  path: %s
observer: noop
%s`, endpoint, backend, filepath.Join(dir, "data"), extra)

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr, _, err := executeApp(t, configPath, args...)
	return stdout, stderr, err
}

// executeApp is executeCLI that also returns the app after it was closed.
func executeApp(t *testing.T, configPath string, args ...string) (string, string, *app, error) {
	t.Helper()

	root, a := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--config", configPath}, args...))

	err := execute(root, a)
	return stdout.String(), stderr.String(), a, err
}

func TestGenerateShowAndHistory(t *testing.T) {
	g, url := newGateway(t, draftReply("EU Launch Policy"))
	cfg := writeConfig(t, url)

	stdout, _, err := executeCLI(t, cfg, "generate", "Launch", "in", "EU", "--regulation", "CCPA")
	require.NoError(t, err)
	assert.Contains(t, stdout, "EU Launch Policy")

	require.Len(t, g.messages, 1)
	assert.Contains(t, g.messages[0], "Scenario: Launch in EU")
	assert.Contains(t, g.messages[0], "Target Regulation: CCPA")

	stdout, _, err = executeCLI(t, cfg, "show", "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# EU Launch Policy\n\nWe collect only what we need."))
	assert.Contains(t, stdout, "**Regulation:** CCPA")
	assert.Contains(t, stdout, "1. Intro")
	assert.Contains(t, stdout, "## Compliance Notes")

	stdout, _, err = executeCLI(t, cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Launch in EU")
	assert.Contains(t, stdout, "EU Launch Policy")
}

func TestGenerateFailure(t *testing.T) {
	_, url := newGateway(t, map[string]any{"success": false, "error": "rate limited"})
	cfg := writeConfig(t, url)

	_, stderr, err := executeCLI(t, cfg, "generate", "Launch in EU")
	require.Error(t, err)
	assert.ErrorIs(t, err, errRequestFailed)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Contains(t, stderr, "rate limited")

	stdout, _, err := executeCLI(t, cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Launch in EU")

	_, _, err = executeCLI(t, cfg, "show")
	assert.ErrorIs(t, err, errNoDraft)
}

func TestGenerateRejectsUnknownSelection(t *testing.T) {
	g, url := newGateway(t, draftReply("unused"))
	cfg := writeConfig(t, url)

	_, _, err := executeCLI(t, cfg, "generate", "x", "--regulation", "HIPAA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown regulation")

	_, _, err = executeCLI(t, cfg, "generate", "x", "--scope", "Appendix")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scope")

	assert.Empty(t, g.messages)
}

func TestRevise(t *testing.T) {
	g, url := newGateway(t, draftReply("EU Launch Policy"))
	cfg := writeConfig(t, url)

	_, _, err := executeCLI(t, cfg, "generate", "Launch in EU")
	require.NoError(t, err)

	g.setReply(draftReply("EU Launch Policy v2"))
	stdout, _, err := executeCLI(t, cfg, "revise", "make", "it", "shorter")
	require.NoError(t, err)
	assert.Contains(t, stdout, "EU Launch Policy v2")
	assert.NotContains(t, stdout, "We collect only what we need.")

	require.Len(t, g.messages, 2)
	assert.Contains(t, g.messages[1], "following feedback:\n\nmake it shorter")

	stdout, _, err = executeCLI(t, cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Revision: make it shorter")
}

func TestSessionsPersistAcrossRuns(t *testing.T) {
	_, url := newGateway(t, draftReply("EU Launch Policy"))
	cfg := writeConfig(t, url)

	_, _, err := executeCLI(t, cfg, "generate", "Launch in EU")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, cfg, "sessions", "new")
	require.NoError(t, err)
	created := strings.TrimSpace(stdout)
	assert.True(t, strings.HasPrefix(created, "session_"))

	stdout, _, err = executeCLI(t, cfg, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* "+created)
	assert.Contains(t, stdout, "EU Launch Policy")
	assert.Contains(t, stdout, "New Draft")

	_, _, err = executeCLI(t, cfg, "show")
	assert.ErrorIs(t, err, errNoDraft)

	_, _, err = executeCLI(t, cfg, "sessions", "select", "session_missing")
	require.Error(t, err)
}

func TestSessionFlag(t *testing.T) {
	_, url := newGateway(t, draftReply("EU Launch Policy"))
	cfg := writeConfig(t, url)

	_, _, err := executeCLI(t, cfg, "generate", "Launch in EU")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, cfg, "sessions", "list")
	require.NoError(t, err)
	first := strings.Fields(strings.Split(stdout, "* ")[1])[0]

	_, _, err = executeCLI(t, cfg, "sessions", "new")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, cfg, "--session", first, "show", "--raw")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# EU Launch Policy")
}

func TestExport(t *testing.T) {
	_, url := newGateway(t, draftReply("EU Launch Policy"))
	cfg := writeConfig(t, url)

	_, _, err := executeCLI(t, cfg, "generate", "Launch in EU")
	require.NoError(t, err)

	dir := t.TempDir()
	stdout, _, err := executeCLI(t, cfg, "export", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "eu_launch_policy.md")

	data, err := os.ReadFile(filepath.Join(dir, "eu_launch_policy.md"))
	require.NoError(t, err)
	assert.Equal(t, "# EU Launch Policy\n\nWe collect only what we need.", string(data))

	jsonPath := filepath.Join(dir, "draft.json")
	_, _, err = executeCLI(t, cfg, "export", "--format", "json", "--out", jsonPath)
	require.NoError(t, err)

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var record policy.Record
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, []string{"Intro", "Rights"}, record.KeySections)

	_, _, err = executeCLI(t, cfg, "export", "--format", "pdf")
	require.Error(t, err)
}

func TestExportSampleToStdout(t *testing.T) {
	_, url := newGateway(t, draftReply("unused"))
	cfg := writeConfig(t, url)

	stdout, _, err := executeCLI(t, cfg, "export", "--sample", "--format", "toml", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "policy_title = ")
	assert.Contains(t, stdout, "GDPR")
}

func TestUnknownAgent(t *testing.T) {
	_, url := newGateway(t, draftReply("unused"))
	cfg := writeConfig(t, url)

	_, _, err := executeCLI(t, cfg, "--agent", "reviewer", "generate", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrAgentNotFound)
}

func TestFailedCommandClosesStorage(t *testing.T) {
	_, url := newGateway(t, map[string]any{"success": false, "error": "rate limited"})
	cfg := writeConfigWith(t, url, "sqlite", "")

	_, _, a, err := executeApp(t, cfg, "generate", "Launch in EU")
	require.ErrorIs(t, err, errRequestFailed)

	_, err = a.kv.Load(context.Background(), a.cfg.SessionKey)
	assert.ErrorIs(t, err, kvstore.ErrLoadFailed)

	stdout, _, err := executeCLI(t, cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Launch in EU")
}

func TestAgents(t *testing.T) {
	_, url := newGateway(t, draftReply("unused"))
	cfg := writeConfigWith(t, url, "file", `agents:
  reviewer:
    endpoint: http://reviewer.internal
    agent_id: reviewer-01
defaults:
  regulation: CCPA
`)

	stdout, _, err := executeCLI(t, cfg, "agents")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* default")
	assert.Contains(t, stdout, agent.DefaultAgentID)
	assert.Contains(t, stdout, "reviewer-01")
	assert.Contains(t, stdout, "http://reviewer.internal")
	assert.Contains(t, stdout, "CCPA, "+policy.DefaultScope)

	stdout, _, err = executeCLI(t, cfg, "--agent", "reviewer", "agents")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* reviewer")
	assert.NotContains(t, stdout, "* default")
}

func TestVerboseActivitySummary(t *testing.T) {
	_, url := newGateway(t, draftReply("EU Launch Policy"))
	cfg := writeConfig(t, url)

	_, stderr, err := executeCLI(t, cfg, "--verbose", "generate", "Launch in EU")
	require.NoError(t, err)
	assert.Contains(t, stderr, "agent "+agent.DefaultAgentID+", 2 events")

	_, stderr, err = executeCLI(t, cfg, "generate", "Launch in EU")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "events")
}

func TestKnowledgeUploadInvalidFile(t *testing.T) {
	_, url := newGateway(t, draftReply("unused"))
	cfg := writeConfig(t, url)

	path := filepath.Join(t.TempDir(), "setup.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o644))

	_, stderr, err := executeCLI(t, cfg, "kb", "upload", path)
	require.ErrorIs(t, err, knowledge.ErrInvalidFile)
	assert.Contains(t, stderr, "setup.exe Error: unsupported file type")
}
