package main

import (
	"slices"
	"sync"

	"github.com/tailored-agentic-units/drafter/session"
)

// navigator records view requests so a command can act on them after the
// controller returns.
type navigator struct {
	mu   sync.Mutex
	tabs []session.Tab
}

func (n *navigator) CloseOverlay() {}

func (n *navigator) ShowTab(tab session.Tab) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tabs = append(n.tabs, tab)
}

// requested reports whether tab was asked for since the last call and clears
// the record.
func (n *navigator) requested(tab session.Tab) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	found := slices.Contains(n.tabs, tab)
	n.tabs = nil
	return found
}
