package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/drafter/policy"
)

// YAMLExporter writes the full record as YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(record *policy.Record, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(record)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
