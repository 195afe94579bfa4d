// Package policy defines the canonical drafting artifact and the normalizer
// that turns loosely structured agent payloads into it.
package policy

import "slices"

// Default values applied when an agent payload omits a field.
const (
	DefaultTitle      = "Generated Policy Draft"
	DegradedTitle     = "Generated Draft"
	DefaultRegulation = "GDPR"
	DefaultScope      = "Full Policy"
)

// Regulations lists the frameworks a draft can target.
var Regulations = []string{"GDPR", "CCPA", "LGPD", "PIPEDA", "General", "Custom"}

// Scopes lists the kinds of document a draft can cover.
var Scopes = []string{"Full Policy", "Specific Section", "Amendment Clause"}

// Record is the canonical drafting artifact. After normalization every field
// is defined: text fields may be empty strings and KeySections is never nil.
type Record struct {
	Title               string   `json:"policy_title" yaml:"policy_title" toml:"policy_title"`
	Content             string   `json:"policy_content" yaml:"policy_content" toml:"policy_content,multiline"`
	RegulationFramework string   `json:"regulation_framework" yaml:"regulation_framework" toml:"regulation_framework"`
	ScopeType           string   `json:"scope_type" yaml:"scope_type" toml:"scope_type"`
	KeySections         []string `json:"key_sections" yaml:"key_sections" toml:"key_sections"`
	ComplianceNotes     string   `json:"compliance_notes" yaml:"compliance_notes" toml:"compliance_notes,multiline"`
	RevisionSuggestions string   `json:"revision_suggestions" yaml:"revision_suggestions" toml:"revision_suggestions"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.KeySections = slices.Clone(r.KeySections)
	if r.KeySections == nil {
		r.KeySections = []string{}
	}
	return r
}

// Selection holds the framework and scope chosen for one request. They fill
// RegulationFramework and ScopeType when the agent leaves them out.
type Selection struct {
	Regulation string `json:"regulation" mapstructure:"regulation"`
	Scope      string `json:"scope" mapstructure:"scope"`
}

// DefaultSelection returns the selection a fresh client starts with.
func DefaultSelection() Selection {
	return Selection{Regulation: DefaultRegulation, Scope: DefaultScope}
}

// Merge applies non-zero values from source into s.
func (s *Selection) Merge(source *Selection) {
	if source.Regulation != "" {
		s.Regulation = source.Regulation
	}
	if source.Scope != "" {
		s.Scope = source.Scope
	}
}

// IsKnownRegulation reports whether name is one of Regulations.
func IsKnownRegulation(name string) bool {
	return slices.Contains(Regulations, name)
}

// IsKnownScope reports whether name is one of Scopes.
func IsKnownScope(name string) bool {
	return slices.Contains(Scopes, name)
}
