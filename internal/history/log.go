// File: internal/history/log.go

// Package history keeps the append-only record of everything the agent has
// done and derives reliability signals from it: a stagnation/thrashing
// verdict over the recent tail, and a bounded transcript for the reasoning
// oracle. Records are immutable once appended.
package history

import (
	"github.com/Svel26/VIO/api/schemas"
)

// Log is the append-only action history for one agent session. It is mutated
// exclusively by the session's single control flow, so it carries no lock; a
// service hosting multiple sessions gives each its own Log.
type Log struct {
	records             []schemas.ActionRecord
	stagnationThreshold int
}

// NewLog creates an empty history with the given stagnation threshold. A
// threshold below 2 falls back to the default of 3.
func NewLog(stagnationThreshold int) *Log {
	if stagnationThreshold < 2 {
		stagnationThreshold = 3
	}
	return &Log{stagnationThreshold: stagnationThreshold}
}

// Record appends an entry. Past entries are never modified.
func (l *Log) Record(entry schemas.ActionRecord) {
	entry.Step = len(l.records)
	l.records = append(l.records, entry)
}

// Len returns the number of recorded actions.
func (l *Log) Len() int { return len(l.records) }

// Tail returns the most recent n records (fewer if the history is shorter).
// The returned slice aliases the log and must not be mutated.
func (l *Log) Tail(n int) []schemas.ActionRecord {
	if n <= 0 || len(l.records) == 0 {
		return nil
	}
	if n > len(l.records) {
		n = len(l.records)
	}
	return l.records[len(l.records)-n:]
}
