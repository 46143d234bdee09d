// Package registry classifies conversion formulas: well-known formulas
// map to hand-verified implementations, everything else is probed
// against the real parser.
//
// Registry entries take unconditional precedence over generated code.
// That is a correctness guarantee, not an optimization: an entry
// records previously hand-verified behavior that must never be
// silently superseded by a fresh compilation of the same text.
package registry

import (
	"strings"
	"sync"

	"github.com/tagforge/convgen/pkg/audit"
	"github.com/tagforge/convgen/pkg/parser"
	"github.com/tagforge/convgen/pkg/types"
)

// ResultKind discriminates the three classification outcomes.
type ResultKind uint8

const (
	// Override: the formula maps to a hand-written implementation.
	Override ResultKind = iota
	// Compiled: the formula parsed and can be generated.
	Compiled
	// Unimplemented: the formula is outside the compilable subset.
	Unimplemented
)

// Result is the outcome of classifying one formula. A fresh Result is
// produced per call; results are never cached across formulas.
type Result struct {
	Kind ResultKind

	// Override target, when Kind == Override.
	Module string
	Func   string

	// Compiled expression, when Kind == Compiled.
	Expr *types.Expression
}

// Entry is a reference into the hand-written implementation catalog.
type Entry struct {
	Module string
	Func   string
}

var (
	buildOnce sync.Once
	table     map[string]Entry
)

// lookupTable returns the override table, building it on first use.
// The table is immutable afterwards, so concurrent classification
// needs no further synchronization.
func lookupTable() map[string]Entry {
	buildOnce.Do(func() {
		table = make(map[string]Entry, len(overrides))
		for formula, e := range overrides {
			table[formula] = e
		}
	})
	return table
}

// Classify resolves a formula to an override, a compiled expression or
// the unimplemented fallback.
//
// Lookup order: exact global match, then scope-qualified match, then
// the same two with whitespace-normalized text. Only when every lookup
// misses is the parse attempted; a parse failure is not an error here,
// it simply routes the formula to the fallback and logs it for
// coverage auditing.
func Classify(formula, scope string, kind types.Kind) Result {
	t := lookupTable()

	if e, ok := t[formula]; ok {
		return Result{Kind: Override, Module: e.Module, Func: e.Func}
	}
	if scope != "" {
		if e, ok := t[scope+"::"+formula]; ok {
			return Result{Kind: Override, Module: e.Module, Func: e.Func}
		}
	}

	// Normalized fallback, only after both raw lookups miss.
	norm := normalize(formula)
	if e, ok := t[norm]; ok {
		return Result{Kind: Override, Module: e.Module, Func: e.Func}
	}
	if scope != "" {
		if e, ok := t[normalize(scope)+"::"+norm]; ok {
			return Result{Kind: Override, Module: e.Module, Func: e.Func}
		}
	}

	// The compilability probe is the real parser: a separate heuristic
	// would inevitably diverge from it.
	expr, err := parser.Parse(formula)
	if err != nil {
		tag := scope
		if tag == "" {
			tag = "-"
		}
		audit.Record(tag, formula, kind)
		return Result{Kind: Unimplemented}
	}
	return Result{Kind: Compiled, Expr: expr}
}

// normalize collapses interior whitespace runs to single spaces and
// trims the ends, making lookup insensitive to formatting differences
// between catalog revisions.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
