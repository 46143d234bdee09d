// Package convgen compiles metadata conversion formulas into Go source.
//
// Conversion formulas come from a large external catalog of per-field
// rules describing how raw metadata values become logical values,
// display text or dispatch conditions. Hand-porting tens of thousands
// of them does not scale; convgen mechanically compiles the tractable
// subset ahead of time and routes the rest to hand-written
// implementations or a safe fallback.
//
// # Pipeline
//
// string → tokens → AST → Go source, with a registry of hand-verified
// implementations consulted before any parsing happens:
//
//	res := convgen.Classify(`$val / 8`, "", types.KindValue)
//	switch res.Kind {
//	case registry.Override:      // use res.Module / res.Func
//	case registry.Compiled:      // generate from res.Expr
//	case registry.Unimplemented: // emit the degrade fallback
//	}
//
// Classification is a probe: it never fails, it only sorts formulas.
// Compile is the hard-failure entry point for formulas that are already
// known to be compilable:
//
//	src, err := convgen.Compile(`$val * 25.4`, types.KindValue, "TickToMM")
//
// The pipeline is a pure function of its input: the same formula always
// yields the same AST and byte-identical generated source, so batch
// callers may classify and compile formulas concurrently.
package convgen

import (
	"fmt"

	"github.com/tagforge/convgen/pkg/codegen"
	"github.com/tagforge/convgen/pkg/parser"
	"github.com/tagforge/convgen/pkg/registry"
	"github.com/tagforge/convgen/pkg/types"
)

// Version returns the current version of convgen.
func Version() string {
	return "v0.1.0-dev"
}

// Classify resolves a formula against the override registry and, on a
// miss, probes it with the real parser. It never returns an error:
// untractable formulas classify as Unimplemented and are recorded in
// the audit log.
func Classify(formula, scope string, kind types.Kind) registry.Result {
	return registry.Classify(formula, scope, kind)
}

// Parse compiles a formula to its AST without generating code.
func Parse(formula string) (*types.Expression, error) {
	return parser.Parse(formula)
}

// Compile runs the full pipeline and returns the generated function
// source. Unlike Classify it surfaces every tokenizer, parser and
// generator error: use it when the formula is supposed to compile and
// a failure means a regression.
func Compile(formula string, kind types.Kind, funcName string) (string, error) {
	expr, err := parser.Parse(formula)
	if err != nil {
		return "", err
	}
	return codegen.Generate(expr.AST(), kind, funcName)
}

// MustCompile is like Compile but panics on error. It simplifies safe
// initialization of generated-code tables in tests and tools.
func MustCompile(formula string, kind types.Kind, funcName string) string {
	src, err := Compile(formula, kind, funcName)
	if err != nil {
		panic(fmt.Sprintf("convgen: Compile(%q): %v", formula, err))
	}
	return src
}

// Generate emits a function for an externally produced tree, the
// second entry point into the generator used by the serialized-tree
// ingestion path.
func Generate(root *types.Node, kind types.Kind, funcName string) (string, error) {
	return codegen.Generate(root, kind, funcName)
}
