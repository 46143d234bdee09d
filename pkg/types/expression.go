// Package types defines the core data model for the formula compiler.
//
// This package contains:
//   - Node: Abstract Syntax Tree nodes for the conversion-formula grammar
//   - NodeArena: a bump allocator for parse-time node allocation
//   - Expression: an immutable compiled formula (source + AST)
//   - Kind: the three generated-function flavors
//   - Error types: structured errors with stage-prefixed codes
package types

// Kind selects the signature and degrade-on-failure behavior of a
// generated function.
type Kind string

// Expression kinds.
const (
	// KindValue converts a raw value into its logical value.
	// Degrades to returning the input unchanged.
	KindValue Kind = "value"
	// KindDisplay converts a logical value into display text.
	// Degrades to returning the input unchanged.
	KindDisplay Kind = "display"
	// KindCondition gates processor selection.
	// Degrades to false.
	KindCondition Kind = "condition"
)

// Expression is an immutable compiled conversion formula.
//
// An Expression is constructed only by a successful parse and pairs the
// original formula text with its AST root. The same formula text always
// produces an identical tree, so Expressions are safe for concurrent
// use and for repeated code generation.
type Expression struct {
	root   *Node
	source string
	arena  *NodeArena // keeps arena-allocated nodes alive
}

// NewExpression creates an Expression from a parsed tree.
// The arena may be nil for trees not allocated through one
// (e.g. the external ingestion path).
func NewExpression(root *Node, source string, arena *NodeArena) *Expression {
	return &Expression{
		root:   root,
		source: source,
		arena:  arena,
	}
}

// AST returns the root node of the expression.
func (e *Expression) AST() *Node {
	return e.root
}

// Source returns the original formula text.
func (e *Expression) Source() string {
	return e.source
}

// String returns the original formula text.
func (e *Expression) String() string {
	return e.source
}
