// Package session keeps the drafting threads of one user: each Session owns
// an append-only Log of entries, and the Store holds the whole collection,
// tracks the current session and mirrors every change to durable storage.
package session

import (
	"strings"
	"unicode/utf8"
)

// Titles used before a draft exists.
const (
	NewSessionTitle  = "New Draft"
	PlaceholderTitle = "Policy Draft"
	TitleMaxRunes    = 50
)

// Session is one independent drafting thread.
type Session struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	Entries   Log    `json:"entries"`
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	s.Entries = s.Entries.Clone()
	return s
}

// DeriveTitle computes a session title from its log: the title of the most
// recent draft, else the most recent user prompt, else PlaceholderTitle.
// Titles are truncated to TitleMaxRunes characters.
func DeriveTitle(log Log) string {
	if e, ok := log.LastWithPolicyData(); ok {
		if t := truncate(strings.TrimSpace(e.PolicyData.Title)); t != "" {
			return t
		}
	}
	if e, ok := log.LastOfRole(RoleUser); ok {
		if t := truncate(strings.TrimSpace(e.Content)); t != "" {
			return t
		}
	}
	return PlaceholderTitle
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= TitleMaxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:TitleMaxRunes])
}
