package session

import (
	"encoding/json"
)

// encodeCollection renders the whole collection as the persisted document: a
// JSON array of sessions, most recent first.
func encodeCollection(sessions []Session) ([]byte, error) {
	if sessions == nil {
		sessions = []Session{}
	}
	return json.Marshal(sessions)
}

// decodeCollection parses a persisted document. A document that is not a JSON
// array yields ok=false. Elements that fail to decode, lack an id or repeat an
// earlier id are skipped; entries are repaired where possible.
func decodeCollection(data []byte) (sessions []Session, skipped int, ok bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, false
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		var s Session
		if err := json.Unmarshal(item, &s); err != nil || s.ID == "" || seen[s.ID] {
			skipped++
			continue
		}
		seen[s.ID] = true
		sessions = append(sessions, repair(s))
	}
	return sessions, skipped, true
}

func repair(s Session) Session {
	entries := make(Log, 0, len(s.Entries))
	for _, e := range s.Entries {
		if !e.Role.IsValid() {
			continue
		}
		if e.Role == RoleUser {
			e.PolicyData = nil
		}
		if e.PolicyData != nil && e.PolicyData.KeySections == nil {
			e.PolicyData.KeySections = []string{}
		}
		entries = append(entries, e)
	}
	s.Entries = entries

	if s.UpdatedAt < s.CreatedAt {
		s.UpdatedAt = s.CreatedAt
	}
	if s.Title == "" {
		s.Title = NewSessionTitle
	}
	return s
}
