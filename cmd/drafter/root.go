package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// newRootCmd builds the command tree around a fresh app. The caller releases
// the app's resources with execute.
func newRootCmd() (*cobra.Command, *app) {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:   "drafter",
		Short: "Draft privacy policies with an AI agent",
		Long: `drafter keeps drafting sessions with a policy-writing agent.

Each session is an independent conversation: generate a draft from a scenario,
revise it with feedback, and export the result. Sessions are stored locally
and survive restarts.

Quick Start:
  drafter generate "Mobile app launching in the EU"
  drafter revise "Add a section on cookies"
  drafter show
  drafter export --format md`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.wire(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.configFile, "config", "c", "", "Path to config file (JSON, YAML or TOML)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Enable debug logging to stderr")
	flags.StringVar(&app.agentName, "agent", "", "Named agent from the config to draft with")
	flags.StringVarP(&app.sessionID, "session", "s", "", "Session to operate on instead of the current one")

	rootCmd.AddCommand(
		newGenerateCmd(app),
		newReviseCmd(app),
		newSessionsCmd(app),
		newHistoryCmd(app),
		newShowCmd(app),
		newExportCmd(app),
		newKnowledgeCmd(app),
		newAgentsCmd(app),
	)

	return rootCmd, app
}

// execute runs root and closes the app whether or not the command failed.
func execute(root *cobra.Command, app *app) error {
	defer app.close()
	return root.Execute()
}
