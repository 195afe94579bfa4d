package export

import (
	"encoding/json"
	"io"

	"github.com/tailored-agentic-units/drafter/policy"
)

// JSONExporter writes the full record, pretty-printed, with the agent's field
// names.
type JSONExporter struct{}

func (e *JSONExporter) Export(record *policy.Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(record)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
