package policy

import (
	"encoding/json"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// textFields are the keys checked, in order, for a human-readable message.
var textFields = []string{"message", "text", "content", "answer"}

// ExtractText pulls plain text out of an agent response payload:
//  1. Primary: a textual result, or a text field of a structured result
//  2. Fallback: a text field on the payload itself
//  3. Last resort: the compact JSON rendering of the result (or payload)
//
// ExtractText never fails; it returns "" when nothing readable is present.
func ExtractText(v *structpb.Value) string {
	switch kind := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return ""
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_ListValue:
		var parts []string
		for _, item := range kind.ListValue.GetValues() {
			if text := ExtractText(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	case *structpb.Value_StructValue:
		return extractFromStruct(kind.StructValue)
	default:
		return render(v)
	}
}

func extractFromStruct(s *structpb.Struct) string {
	result, hasResult := s.GetFields()["result"]

	if hasResult {
		if text := result.GetStringValue(); text != "" {
			return text
		}
		if text := textField(result.GetStructValue()); text != "" {
			return text
		}
	}

	if text := textField(s); text != "" {
		return text
	}

	if hasResult {
		return render(result)
	}
	return render(structpb.NewStructValue(s))
}

func textField(s *structpb.Struct) string {
	for _, name := range textFields {
		if text := s.GetFields()[name].GetStringValue(); text != "" {
			return text
		}
	}
	return ""
}

// render produces compact JSON with sorted keys so repeated calls agree.
// Empty objects and lists render as "".
func render(v *structpb.Value) string {
	native := v.AsInterface()
	switch n := native.(type) {
	case nil:
		return ""
	case map[string]any:
		if len(n) == 0 {
			return ""
		}
	case []any:
		if len(n) == 0 {
			return ""
		}
	}

	data, err := json.Marshal(native)
	if err != nil {
		return ""
	}
	return string(data)
}
