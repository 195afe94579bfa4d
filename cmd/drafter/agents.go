package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/drafter/agent"
)

// defaultAgentName labels the agent from the agent config section.
const defaultAgentName = "default"

func newAgentsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the configured agents and drafting defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			active := app.agentName
			if active == "" {
				active = defaultAgentName
			}

			agents := append([]agent.Info{{
				Name:     defaultAgentName,
				AgentID:  app.cfg.Agent.AgentID,
				Endpoint: app.cfg.Agent.Endpoint,
			}}, app.ctrl.Registry().List()...)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(w, headerStyle.Render("Agents"))
			for _, a := range agents {
				marker := " "
				if a.Name == active {
					marker = "*"
				}
				_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\n",
					marker,
					titleStyle.Render(a.Name),
					idStyle.Render(a.AgentID),
					metaStyle.Render(a.Endpoint),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			defaults := app.ctrl.Defaults()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s, %s\n",
				metaStyle.Render("Defaults:"), defaults.Regulation, defaults.Scope)
			return nil
		},
	}
}
