package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/drafter/export"
)

func newExportCmd(app *app) *cobra.Command {
	var (
		format string
		out    string
		sample bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the latest draft to a file",
		Long: fmt.Sprintf(`Export the latest draft of the current session.

The file is named after the draft title unless --out names a file. Use
--out - to write to stdout. Formats: %s`, strings.Join(export.Formats, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exporter, err := export.New(format)
			if err != nil {
				return err
			}

			record, err := currentDraft(app, sample)
			if err != nil {
				return err
			}

			if out == "-" {
				return exporter.Export(&record, cmd.OutOrStdout())
			}

			path := out
			if path == "" {
				path = export.FileName(record.Title, exporter)
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, export.FileName(record.Title, exporter))
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()

			if err := exporter.Export(&record, f); err != nil {
				return fmt.Errorf("failed to export draft: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Exported"), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "md", "Output format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory")
	cmd.Flags().BoolVar(&sample, "sample", false, "Export the built-in sample draft")

	return cmd
}
