package export

import (
	"fmt"
	"io"

	"github.com/tailored-agentic-units/drafter/policy"
)

// MarkdownExporter writes the draft title as a heading followed by its content.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(record *policy.Record, w io.Writer) error {
	_, err := fmt.Fprintf(w, "# %s\n\n%s", record.Title, record.Content)
	return err
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
