package session

import (
	"fmt"

	"github.com/tailored-agentic-units/drafter/policy"
)

// Role identifies who produced a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Entry is one turn of a drafting conversation. PolicyData is set only on
// assistant entries produced by a successful generation or revision.
type Entry struct {
	Role       Role           `json:"role"`
	Content    string         `json:"content"`
	PolicyData *policy.Record `json:"policyData,omitempty"`
	Timestamp  int64          `json:"timestamp"`
}

// NewUserEntry creates a user turn. A zero timestamp is filled in by the
// store when the entry is appended.
func NewUserEntry(content string) Entry {
	return Entry{Role: RoleUser, Content: content}
}

// NewAssistantEntry creates an assistant turn carrying a draft. The entry's
// content is the draft title.
func NewAssistantEntry(record policy.Record) Entry {
	r := record.Clone()
	return Entry{Role: RoleAssistant, Content: r.Title, PolicyData: &r}
}

// Validate checks the role and that user entries carry no draft.
func (e Entry) Validate() error {
	if !e.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidEntry, e.Role)
	}
	if e.Role == RoleUser && e.PolicyData != nil {
		return fmt.Errorf("%w: user entry carries policy data", ErrInvalidEntry)
	}
	return nil
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	if e.PolicyData != nil {
		r := e.PolicyData.Clone()
		e.PolicyData = &r
	}
	return e
}
