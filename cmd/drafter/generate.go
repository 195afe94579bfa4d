package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/drafter/activity"
	"github.com/tailored-agentic-units/drafter/drafting"
	"github.com/tailored-agentic-units/drafter/policy"
	"github.com/tailored-agentic-units/drafter/session"
)

var errRequestFailed = errors.New("drafting request failed")

func newGenerateCmd(app *app) *cobra.Command {
	var sel policy.Selection

	cmd := &cobra.Command{
		Use:   "generate <scenario>",
		Short: "Generate a policy draft for a scenario",
		Long: fmt.Sprintf(`Generate a new policy draft in the current session.

Regulations: %s
Scopes:      %s`, strings.Join(policy.Regulations, ", "), strings.Join(policy.Scopes, ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sel.Regulation != "" && !policy.IsKnownRegulation(sel.Regulation) {
				return fmt.Errorf("unknown regulation %q (choose from %s)", sel.Regulation, strings.Join(policy.Regulations, ", "))
			}
			if sel.Scope != "" && !policy.IsKnownScope(sel.Scope) {
				return fmt.Errorf("unknown scope %q (choose from %s)", sel.Scope, strings.Join(policy.Scopes, ", "))
			}

			stop := followActivity(app, cmd.ErrOrStderr())
			outcome, err := app.ctrl.Generate(cmd.Context(), strings.Join(args, " "), sel)
			stop()

			return reportOutcome(app, cmd.OutOrStdout(), cmd.ErrOrStderr(), outcome, err)
		},
	}

	cmd.Flags().StringVarP(&sel.Regulation, "regulation", "r", "", "Target regulation (default from config)")
	cmd.Flags().StringVar(&sel.Scope, "scope", "", "Document scope (default from config)")

	return cmd
}

func newReviseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revise <feedback>",
		Short: "Revise the current draft with feedback",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := followActivity(app, cmd.ErrOrStderr())
			outcome, err := app.ctrl.Revise(cmd.Context(), strings.Join(args, " "))
			stop()

			return reportOutcome(app, cmd.OutOrStdout(), cmd.ErrOrStderr(), outcome, err)
		},
	}
}

// followActivity prints the current session's activity events to w until the
// returned stop function is called.
func followActivity(app *app, w io.Writer) (stop func()) {
	events, cancel := app.feed.Subscribe(app.store.CurrentID())
	done := make(chan struct{})

	go func() {
		defer close(done)
		for e := range events {
			if !app.verbose && e.Level < activity.LevelInfo {
				continue
			}
			_, _ = fmt.Fprintln(w, eventStyle.Render("· "+string(e.Type)))
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func reportOutcome(app *app, out, errOut io.Writer, outcome *drafting.Outcome, err error) error {
	if err != nil {
		return err
	}

	if app.verbose {
		m := app.feed.Snapshot(outcome.SessionID)
		_, _ = fmt.Fprintln(errOut, metaStyle.Render(fmt.Sprintf("agent %s, %d events", m.ActiveAgentID, len(m.Events))))
	}

	if outcome.Result == drafting.Failed {
		_, _ = fmt.Fprintln(errOut, errorStyle.Render(outcome.Message))
		return fmt.Errorf("%w: %s", errRequestFailed, outcome.Message)
	}

	_, _ = fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓"), titleStyle.Render(outcome.Record.Title))
	if app.nav.requested(session.TabOutput) {
		_, _ = fmt.Fprint(out, renderMarkdown(draftMarkdown(outcome.Record)))
	}
	return nil
}
