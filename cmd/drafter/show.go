package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/drafter/export"
	"github.com/tailored-agentic-units/drafter/policy"
	"github.com/tailored-agentic-units/drafter/session"
)

var errNoDraft = errors.New("no draft in session")

func newShowCmd(app *app) *cobra.Command {
	var (
		raw    bool
		sample bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the latest draft of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := currentDraft(app, sample)
			if err != nil {
				return err
			}

			md := draftMarkdown(&record)
			if raw {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(md))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal formatting")
	cmd.Flags().BoolVar(&sample, "sample", false, "Show the built-in sample draft")

	return cmd
}

func newHistoryCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the conversation of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, ok := app.store.Current()
			if !ok {
				return session.ErrNotInitialized
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, headerStyle.Render(current.Title))
			if len(current.Entries) == 0 {
				_, _ = fmt.Fprintln(out, metaStyle.Render("No messages yet."))
				return nil
			}

			for _, e := range current.Entries {
				stamp := metaStyle.Render(time.UnixMilli(e.Timestamp).Format(time.DateTime))
				switch e.Role {
				case session.RoleUser:
					_, _ = fmt.Fprintf(out, "%s %s\n%s\n\n", userStyle.Render("you"), stamp, e.Content)
				default:
					_, _ = fmt.Fprintf(out, "%s %s\n%s\n\n", assistantStyle.Render("agent"), stamp, e.Content)
				}
			}
			return nil
		},
	}
}

// currentDraft returns the latest draft of the current session, or the sample
// draft when sample is set.
func currentDraft(app *app, sample bool) (policy.Record, error) {
	if sample {
		return policy.Sample(), nil
	}
	record, ok := app.store.LastPolicy(app.store.CurrentID())
	if !ok {
		return policy.Record{}, fmt.Errorf("%w %s: run generate first", errNoDraft, app.store.CurrentID())
	}
	return record, nil
}

// draftMarkdown renders a draft and its notes as one markdown document.
func draftMarkdown(record *policy.Record) string {
	var b strings.Builder
	_ = (&export.MarkdownExporter{}).Export(record, &b)
	b.WriteString("\n")

	fmt.Fprintf(&b, "\n---\n\n**Regulation:** %s  \n**Scope:** %s\n", record.RegulationFramework, record.ScopeType)
	if len(record.KeySections) > 0 {
		b.WriteString("\n## Key Sections\n\n")
		for i, s := range record.KeySections {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}
	if record.ComplianceNotes != "" {
		fmt.Fprintf(&b, "\n## Compliance Notes\n\n%s\n", record.ComplianceNotes)
	}
	if record.RevisionSuggestions != "" {
		fmt.Fprintf(&b, "\n## Revision Suggestions\n\n%s\n", record.RevisionSuggestions)
	}
	return b.String()
}
