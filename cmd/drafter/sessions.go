package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSessionsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Manage drafting sessions",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsNewCmd(app),
		newSessionsSelectCmd(app),
	)

	return cmd
}

func newSessionsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := app.store.CurrentID()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(w, headerStyle.Render("Sessions"))
			for _, s := range app.store.Sessions() {
				marker := " "
				if s.ID == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n",
					marker,
					idStyle.Render(s.ID),
					titleStyle.Render(s.Title),
					metaStyle.Render(fmt.Sprintf("%d messages", len(s.Entries))),
					metaStyle.Render(time.UnixMilli(s.UpdatedAt).Format(time.DateTime)),
				)
			}
			return w.Flush()
		},
	}
}

func newSessionsNewCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new session and make it current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := app.store.CreateSession(cmd.Context())
			if err := app.rememberCurrent(cmd.Context()); err != nil {
				return fmt.Errorf("failed to remember session: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.ID)
			return nil
		},
	}
}

func newSessionsSelectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <session-id>",
		Short: "Make a session current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.SelectSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := app.rememberCurrent(cmd.Context()); err != nil {
				return fmt.Errorf("failed to remember session: %w", err)
			}
			current, _ := app.store.Current()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", idStyle.Render(current.ID), titleStyle.Render(current.Title))
			return nil
		},
	}
}
