package policy

import (
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire names of the fields an agent is asked to return.
const (
	FieldTitle               = "policy_title"
	FieldContent             = "policy_content"
	FieldRegulationFramework = "regulation_framework"
	FieldScopeType           = "scope_type"
	FieldKeySections         = "key_sections"
	FieldComplianceNotes     = "compliance_notes"
	FieldRevisionSuggestions = "revision_suggestions"
)

// Normalize converts the response object returned by the agent transport into
// a Record. The candidate payload is read from raw.result; textual candidates
// are decoded as JSON, and a candidate that wraps its fields in a nested
// response object is unwrapped once.
//
// Normalize never fails. Fields missing from the candidate fall back to the
// text extracted from raw, to sel, or to a per-field default. The same raw
// payload always yields the same Record.
func Normalize(raw *structpb.Value, sel Selection) Record {
	candidate := lookup(raw, "result")

	if text, ok := candidate.GetKind().(*structpb.Value_StringValue); ok {
		candidate = decodeCandidate(text.StringValue)
	}

	if inner := lookup(candidate, "response"); inner.GetStructValue() != nil {
		candidate = inner
	}

	source := raw
	if source == nil || source.GetKind() == nil {
		source = emptySuccess()
	}
	fallback := ExtractText(source)

	return Record{
		Title:               firstString(candidate, FieldTitle, DefaultTitle),
		Content:             firstString(candidate, FieldContent, fallback),
		RegulationFramework: firstString(candidate, FieldRegulationFramework, sel.Regulation),
		ScopeType:           firstString(candidate, FieldScopeType, sel.Scope),
		KeySections:         stringList(candidate, FieldKeySections),
		ComplianceNotes:     firstString(candidate, FieldComplianceNotes, ""),
		RevisionSuggestions: firstString(candidate, FieldRevisionSuggestions, ""),
	}
}

// decodeCandidate parses an agent's textual answer. Text that is not JSON
// becomes the draft content under a synthesized title.
func decodeCandidate(text string) *structpb.Value {
	var decoded structpb.Value
	if err := protojson.Unmarshal([]byte(stripFences(text)), &decoded); err == nil {
		return &decoded
	}

	return structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldContent: structpb.NewStringValue(text),
			FieldTitle:   structpb.NewStringValue(DegradedTitle),
		},
	})
}

// stripFences removes a surrounding markdown code fence, which agents often
// put around JSON answers.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return trimmed
	}

	body := strings.TrimSuffix(trimmed[3:], "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[\"") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}

func emptySuccess() *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"status": structpb.NewStringValue("success"),
			"result": structpb.NewStructValue(&structpb.Struct{}),
		},
	})
}

func lookup(v *structpb.Value, name string) *structpb.Value {
	return v.GetStructValue().GetFields()[name]
}

func firstString(v *structpb.Value, name, fallback string) string {
	if s := lookup(v, name).GetStringValue(); s != "" {
		return s
	}
	return fallback
}

func stringList(v *structpb.Value, name string) []string {
	list := lookup(v, name).GetListValue()
	sections := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		if s, ok := item.GetKind().(*structpb.Value_StringValue); ok {
			sections = append(sections, s.StringValue)
		}
	}
	return sections
}
