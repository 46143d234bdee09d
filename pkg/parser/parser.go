package parser

// Package parser implements the tokenizer and parser for metadata
// conversion formulas.
//
// The grammar is the fixed subset used by per-field conversion rules:
// arithmetic, bitwise and shift operators, comparisons, a ternary
// conditional, string literals with input-variable interpolation,
// string concatenation, sprintf-style formatted output and a closed
// whitelist of numeric functions. There are no user-definable names.
//
// # Architecture
//
// The parser consists of two components:
//   - Lexer: tokenizes the formula into a stream of tokens
//   - Parser: a dual-stack shunting-yard reduction building the AST
//
// # Example
//
//	expr, err := parser.Parse("$val / 8")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()

import (
	"github.com/tagforge/convgen/pkg/types"
)

// Parse parses a conversion formula and returns the compiled Expression.
//
// The function tokenizes the input, builds an AST and validates
// grouping balance and operator/operand arity. On failure it returns a
// *types.Error with position information; no partial tree is ever
// returned.
func Parse(formula string) (*types.Expression, error) {
	tokens, err := Tokenize(formula)
	if err != nil {
		return nil, err
	}

	p := newParser(tokens, formula)
	root, err := p.parse()
	if err != nil {
		return nil, err
	}

	return types.NewExpression(root, formula, p.arena), nil
}
