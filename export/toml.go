package export

import (
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/tailored-agentic-units/drafter/policy"
)

// TOMLExporter writes the full record as TOML. Multi-line content is emitted
// as a multi-line string.
type TOMLExporter struct{}

func (e *TOMLExporter) Export(record *policy.Record, w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)

	return enc.Encode(record)
}

func (e *TOMLExporter) Extension() string {
	return "toml"
}
