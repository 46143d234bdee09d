// Package audit keeps the process-wide coverage log of formulas the
// compiler could not handle: unimplemented classifications and
// unresolved external-namespace calls.
//
// The log is append-only and deduplicated by formula text. Appending is
// the only externally observable side effect of the whole compilation
// pipeline; an external coverage-reporting surface consumes the
// snapshot.
package audit

import (
	"sync"

	"github.com/tagforge/convgen/pkg/types"
)

// Entry describes one formula flagged for later attention.
type Entry struct {
	Tag     string     `json:"tag"`
	Formula string     `json:"formula"`
	Kind    types.Kind `json:"kind"`
}

var (
	mu      sync.Mutex
	seen    = make(map[string]bool)
	entries []Entry
)

// Record appends an entry to the log unless its formula text has been
// recorded before. Safe for concurrent use.
func Record(tag, formula string, kind types.Kind) {
	mu.Lock()
	defer mu.Unlock()
	if seen[formula] {
		return
	}
	seen[formula] = true
	entries = append(entries, Entry{Tag: tag, Formula: formula, Kind: kind})
}

// Snapshot returns the logged entries in first-seen order.
func Snapshot() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Reset clears the log. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	seen = make(map[string]bool)
	entries = nil
}
