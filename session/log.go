package session

// Log is the ordered, append-only history of a session. A Log value is never
// modified after creation: Append returns a new Log and leaves the receiver
// untouched, so a Log handed to a reader stays stable.
type Log []Entry

// Append returns a new Log with e added at the tail.
func (l Log) Append(e Entry) Log {
	next := make(Log, len(l), len(l)+1)
	copy(next, l)
	return append(next, e)
}

// LastWithPolicyData scans from the tail and returns the most recent entry
// carrying a draft.
func (l Log) LastWithPolicyData() (Entry, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].PolicyData != nil {
			return l[i], true
		}
	}
	return Entry{}, false
}

// LastOfRole returns the most recent entry with the given role.
func (l Log) LastOfRole(role Role) (Entry, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Role == role {
			return l[i], true
		}
	}
	return Entry{}, false
}

// Clone returns a deep copy of l. The result is never nil.
func (l Log) Clone() Log {
	copied := make(Log, len(l))
	for i, e := range l {
		copied[i] = e.Clone()
	}
	return copied
}
