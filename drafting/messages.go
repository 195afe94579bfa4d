package drafting

import (
	"fmt"

	"github.com/tailored-agentic-units/drafter/policy"
)

const outputFields = "policy_title, policy_content, regulation_framework, scope_type, key_sections (array), compliance_notes, revision_suggestions"

// RevisionPrefix starts the user entry recorded for a revision.
const RevisionPrefix = "Revision: "

// Fallback messages surfaced when a request fails.
const (
	MsgGenerateFailed     = "Failed to generate policy. Please try again."
	MsgGenerateUnexpected = "An unexpected error occurred. Please try again."
	MsgReviseFailed       = "Failed to revise policy."
	MsgReviseUnexpected   = "An unexpected error occurred during revision."
)

// GenerateInstruction builds the message asking the agent for a new draft.
// prompt is expected to be trimmed.
func GenerateInstruction(prompt string, sel policy.Selection) string {
	return fmt.Sprintf(
		"Generate a privacy policy draft for the following scenario:\n\nScenario: %s\nTarget Regulation: %s\nScope: %s\n\nPlease provide the output as JSON with these fields: %s.",
		prompt, sel.Regulation, sel.Scope, outputFields,
	)
}

// RevisionInstruction builds the message asking the agent to revise its
// previous draft. The draft itself is not resent; the agent keeps it in its
// session memory.
func RevisionInstruction(feedback string) string {
	return fmt.Sprintf(
		"Please revise the previously generated privacy policy based on the following feedback:\n\n%s\n\nPlease provide the complete updated output as JSON with these fields: %s.",
		feedback, outputFields,
	)
}
