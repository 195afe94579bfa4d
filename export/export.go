// Package export writes a policy draft to a file format.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tailored-agentic-units/drafter/policy"
)

// Exporter writes a single draft.
type Exporter interface {
	Export(record *policy.Record, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names.
var Formats = []string{"md", "json", "yaml", "toml"}

// New returns the exporter for format.
func New(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "toml":
		return &TOMLExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, format, strings.Join(Formats, ", "))
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName derives a download name from a draft title: whitespace runs become
// underscores and the result is lowercased.
func FileName(title string, e Exporter) string {
	return strings.ToLower(whitespace.ReplaceAllString(title, "_")) + "." + e.Extension()
}
