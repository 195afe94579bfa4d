package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/drafter/knowledge"
)

func newKnowledgeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kb",
		Aliases: []string{"knowledge"},
		Short:   "Manage the agent's reference documents",
	}

	cmd.AddCommand(
		newKnowledgeListCmd(app),
		newKnowledgeUploadCmd(app),
		newKnowledgeDeleteCmd(app),
	)

	return cmd
}

func newKnowledgeListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents in the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := app.library(cmd.Context())
			if err != nil {
				return err
			}
			if err := lib.Refresh(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Collection "+lib.Collection()))
			return printDocuments(cmd, lib.Documents())
		},
	}
}

func newKnowledgeUploadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: fmt.Sprintf("Upload documents (%s, up to %d MB)", strings.Join(knowledge.AllowedExtensions, ", "), knowledge.MaxFileSize>>20),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := app.library(cmd.Context())
			if err != nil {
				return err
			}

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}

				name := filepath.Base(path)
				f := knowledge.File{
					Name:        name,
					ContentType: mime.TypeByExtension(filepath.Ext(name)),
					Data:        data,
				}

				err = lib.Upload(cmd.Context(), f)
				status := lib.Status()
				if err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", name, errorStyle.Render(status))
					return fmt.Errorf("%s: %w", name, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render(name), status)
			}

			return printDocuments(cmd, lib.Documents())
		},
	}
}

func newKnowledgeDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file-name>",
		Short: "Delete a document from the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := app.library(cmd.Context())
			if err != nil {
				return err
			}
			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Deleted"), args[0])
			return nil
		},
	}
}

func printDocuments(cmd *cobra.Command, docs []knowledge.Document) error {
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), metaStyle.Render("No documents uploaded."))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	for _, d := range docs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			titleStyle.Render(d.FileName),
			d.FileType,
			metaStyle.Render(fmt.Sprintf("%.1f KB", float64(d.Size)/1024)),
			metaStyle.Render(d.UploadedAt.Format(time.DateTime)),
		)
	}
	return w.Flush()
}
