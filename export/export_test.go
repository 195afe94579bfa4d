package export_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/drafter/export"
	"github.com/tailored-agentic-units/drafter/policy"
)

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{format: "md", wantExt: "md"},
		{format: "markdown", wantExt: "md"},
		{format: "JSON", wantExt: "json"},
		{format: "yaml", wantExt: "yaml"},
		{format: "yml", wantExt: "yaml"},
		{format: "toml", wantExt: "toml"},
		{format: "pdf", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := export.New(tt.format)
			if tt.wantErr {
				if !errors.Is(err, export.ErrUnsupportedFormat) {
					t.Errorf("got %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.format, err)
			}
			if e.Extension() != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", e.Extension(), tt.wantExt)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	md := &export.MarkdownExporter{}

	tests := []struct {
		title string
		want  string
	}{
		{title: "EU Launch Policy", want: "eu_launch_policy.md"},
		{title: "Privacy  Policy\tv2", want: "privacy_policy_v2.md"},
		{title: "GDPR", want: "gdpr.md"},
	}

	for _, tt := range tests {
		if got := export.FileName(tt.title, md); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestMarkdownExporter_Export(t *testing.T) {
	record := policy.Record{Title: "EU Launch Policy", Content: "## Intro\n\nWe collect data."}

	var buf bytes.Buffer
	if err := (&export.MarkdownExporter{}).Export(&record, &buf); err != nil {
		t.Fatalf("Export error = %v", err)
	}

	want := "# EU Launch Policy\n\n## Intro\n\nWe collect data."
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestStructuredExporters(t *testing.T) {
	record := policy.Sample()

	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{format: "json", decode: json.Unmarshal},
		{format: "yaml", decode: yaml.Unmarshal},
		{format: "toml", decode: toml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := export.New(tt.format)
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := e.Export(&record, &buf); err != nil {
				t.Fatalf("Export error = %v", err)
			}

			if !strings.Contains(buf.String(), "policy_title") {
				t.Errorf("output missing wire field names:\n%s", buf.String())
			}

			var got policy.Record
			if err := tt.decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if got.Title != record.Title || got.Content != record.Content {
				t.Errorf("decoded title/content differ")
			}
			if len(got.KeySections) != len(record.KeySections) {
				t.Errorf("got %d key sections, want %d", len(got.KeySections), len(record.KeySections))
			}
		})
	}
}

func TestTOMLExporter_MultilineContent(t *testing.T) {
	record := policy.Record{Title: "T", Content: "line one\nline two", KeySections: []string{}}

	var buf bytes.Buffer
	if err := (&export.TOMLExporter{}).Export(&record, &buf); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), `"""`) {
		t.Errorf("content not written as a multi-line string:\n%s", buf.String())
	}
}
