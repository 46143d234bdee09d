// Package codegen emits Go source for parsed conversion formulas.
//
// The formula language is weakly typed: any value may appear in any
// position. The generated functions speak the closed [tagval.Value]
// model instead, so the generator runs two mutually recursive modes:
//
//   - wrapped mode emits an expression already tagged with its output
//     variant (used at the tree root and at string-producing nodes)
//   - raw-value mode emits a bare float64 sub-expression (used for the
//     operands of arithmetic, bitwise and comparison operators)
//
// A node that cannot produce a number in the modeled language (a string
// literal, a formatted-output result, a substitution result) degrades
// to the numeric sentinel zero in raw-value mode. That is a deliberate,
// documented approximation of the language's weak-typing coercion, not
// an oversight. Any node variant without a defined rule is a hard
// generation error; there is no best-effort emission.
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tagforge/convgen/pkg/audit"
	"github.com/tagforge/convgen/pkg/types"
)

// Import paths referenced by emitted code.
const (
	tagvalImport  = "github.com/tagforge/convgen/pkg/tagval"
	implfnsImport = "github.com/tagforge/convgen/pkg/implfns"
)

// Generator emits one Go function per Generate call and accumulates the
// import paths the emitted text needs. A Generator is cheap; use one
// per output file so Imports covers everything written to it.
type Generator struct {
	imports map[string]bool
	kind    types.Kind // kind of the function currently being generated
}

// New creates a Generator.
func New() *Generator {
	return &Generator{imports: make(map[string]bool)}
}

// Imports returns the sorted import paths required by all functions
// generated so far.
func (g *Generator) Imports() []string {
	paths := make([]string, 0, len(g.imports))
	for p := range g.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Generate emits a complete Go function for the tree.
//
// The kind selects the signature: value and display conversions take
// and return a tagval.Value, conditions take the value plus a context
// and return a bool. The same tree and kind always produce byte-
// identical source.
func (g *Generator) Generate(root *types.Node, kind types.Kind, funcName string) (string, error) {
	if root == nil {
		return "", types.NewError(types.ErrBadTree, "Nil expression tree", -1)
	}
	if funcName == "" {
		return "", types.NewError(types.ErrBadTree, "Missing function name", -1)
	}
	g.kind = kind
	g.use(tagvalImport)

	var sb strings.Builder

	if kind == types.KindCondition {
		cond, err := g.genCondition(root)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "func %s(val tagval.Value, ctx *tagval.Context) bool {\n", funcName)
		sb.WriteString("\t_ = ctx\n")
		fmt.Fprintf(&sb, "\treturn %s\n", cond)
		sb.WriteString("}\n")
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, "func %s(val tagval.Value) (tagval.Value, error) {\n", funcName)

	// A ternary at the root becomes a plain if/else; nested ternaries
	// fall back to the closure form inside genWrapped.
	if root.Type == types.NodeTernary {
		cond, err := g.genCondition(root.LHS)
		if err != nil {
			return "", err
		}
		trueExpr, err := g.genWrapped(root.TrueBranch)
		if err != nil {
			return "", err
		}
		falseExpr, err := g.genWrapped(root.FalseBranch)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "\tif %s {\n\t\treturn %s, nil\n\t}\n\treturn %s, nil\n}\n", cond, trueExpr, falseExpr)
		return sb.String(), nil
	}

	expr, err := g.genWrapped(root)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "\treturn %s, nil\n}\n", expr)
	return sb.String(), nil
}

// GenerateFallback emits the degrade function for a formula that did
// not compile: value and display conversions return the input
// unchanged, conditions return false. The result always builds and
// runs, so one unrecognized formula never blocks the wider build.
func (g *Generator) GenerateFallback(kind types.Kind, funcName string) string {
	g.use(tagvalImport)
	if kind == types.KindCondition {
		return fmt.Sprintf("func %s(val tagval.Value, ctx *tagval.Context) bool {\n\t_ = val\n\t_ = ctx\n\treturn false\n}\n", funcName)
	}
	return fmt.Sprintf("func %s(val tagval.Value) (tagval.Value, error) {\n\treturn val, nil\n}\n", funcName)
}

// genCondition emits a bool expression. A comparison inlines directly;
// anything else is evaluated in raw-value mode and compared against
// zero.
func (g *Generator) genCondition(n *types.Node) (string, error) {
	if n.Type == types.NodeComparison {
		lhs, err := g.genRaw(n.LHS)
		if err != nil {
			return "", err
		}
		rhs, err := g.genRaw(n.RHS)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", lhs, n.Op, rhs), nil
	}
	raw, err := g.genRaw(n)
	if err != nil {
		return "", err
	}
	return raw + " != 0", nil
}

// genWrapped emits an expression of type tagval.Value.
func (g *Generator) genWrapped(n *types.Node) (string, error) {
	switch n.Type {
	case types.NodeVariable:
		return "val", nil

	case types.NodeIndexedVar:
		return fmt.Sprintf("tagval.Index(val, %d)", n.Index), nil

	case types.NodeUndefined:
		return "tagval.Undef()", nil

	case types.NodeNumber:
		return fmt.Sprintf("tagval.Float(%s)", floatLit(n.NumValue)), nil

	case types.NodeString:
		if !n.Interp {
			return fmt.Sprintf("tagval.Str(%s)", strconv.Quote(n.StrValue)), nil
		}
		s, err := g.genInterpolated(n.StrValue)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("tagval.Str(%s)", s), nil

	case types.NodeBinary:
		if n.Op == "." {
			s, err := g.genConcat(n)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("tagval.Str(%s)", s), nil
		}
		raw, err := g.genRaw(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("tagval.Float(%s)", raw), nil

	case types.NodeComparison, types.NodeUnaryMinus, types.NodeFunction:
		raw, err := g.genRaw(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("tagval.Float(%s)", raw), nil

	case types.NodeTernary:
		cond, err := g.genCondition(n.LHS)
		if err != nil {
			return "", err
		}
		trueExpr, err := g.genWrapped(n.TrueBranch)
		if err != nil {
			return "", err
		}
		falseExpr, err := g.genWrapped(n.FalseBranch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() tagval.Value {\n\t\tif %s {\n\t\t\treturn %s\n\t\t}\n\t\treturn %s\n\t}()", cond, trueExpr, falseExpr), nil

	case types.NodeSprintf:
		return g.genSprintf(n)

	case types.NodeExtCall:
		return g.genExtCall(n)

	case types.NodeSubstitution:
		return g.genSubstitution(n)

	case types.NodeTranslate:
		return g.genTranslate(n)
	}

	return "", types.NewError(types.ErrNoRuleForNode, "No generation rule for node "+string(n.Type), n.Position)
}

// genRaw emits a bare float64 expression.
func (g *Generator) genRaw(n *types.Node) (string, error) {
	switch n.Type {
	case types.NodeVariable:
		return "tagval.Num(val)", nil

	case types.NodeIndexedVar:
		return fmt.Sprintf("tagval.Num(tagval.Index(val, %d))", n.Index), nil

	case types.NodeUndefined:
		return "0.0", nil

	case types.NodeNumber:
		return floatLit(n.NumValue), nil

	case types.NodeString, types.NodeSprintf, types.NodeSubstitution, types.NodeTranslate:
		// Weak-typing sentinel: these produce strings in the modeled
		// language and degrade to zero in numeric position.
		return "0.0", nil

	case types.NodeBinary:
		return g.genRawBinary(n)

	case types.NodeComparison:
		lhs, err := g.genRaw(n.LHS)
		if err != nil {
			return "", err
		}
		rhs, err := g.genRaw(n.RHS)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("tagval.BoolToFloat(%s %s %s)", lhs, n.Op, rhs), nil

	case types.NodeUnaryMinus:
		operand, err := g.genRaw(n.LHS)
		if err != nil {
			return "", err
		}
		return "-(" + operand + ")", nil

	case types.NodeFunction:
		native, ok := numericFuncs[n.StrValue]
		if !ok {
			return "", types.NewError(types.ErrNoRuleForNode, "Unknown function "+n.StrValue, n.Position)
		}
		arg, err := g.genRaw(n.Arg)
		if err != nil {
			return "", err
		}
		g.use("math")
		return fmt.Sprintf("%s(%s)", native, arg), nil

	case types.NodeTernary:
		cond, err := g.genCondition(n.LHS)
		if err != nil {
			return "", err
		}
		trueExpr, err := g.genRaw(n.TrueBranch)
		if err != nil {
			return "", err
		}
		falseExpr, err := g.genRaw(n.FalseBranch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() float64 {\n\t\tif %s {\n\t\t\treturn %s\n\t\t}\n\t\treturn %s\n\t}()", cond, trueExpr, falseExpr), nil

	case types.NodeExtCall:
		call, err := g.genExtCall(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("tagval.Num(%s)", call), nil
	}

	return "", types.NewError(types.ErrNoRuleForNode, "No generation rule for node "+string(n.Type), n.Position)
}

// genRawBinary emits arithmetic in float64 and bitwise/shift operations
// through a 64-bit signed integer domain, cast back to float64.
func (g *Generator) genRawBinary(n *types.Node) (string, error) {
	lhs, err := g.genRaw(n.LHS)
	if err != nil {
		return "", err
	}
	rhs, err := g.genRaw(n.RHS)
	if err != nil {
		return "", err
	}

	switch n.Op {
	case "+", "-", "*", "/":
		return fmt.Sprintf("(%s %s %s)", lhs, n.Op, rhs), nil
	case "**":
		g.use("math")
		return fmt.Sprintf("math.Pow(%s, %s)", lhs, rhs), nil
	case "&", "|", "<<", ">>":
		return fmt.Sprintf("float64(int64(%s) %s int64(%s))", lhs, n.Op, rhs), nil
	case ".":
		// String concatenation in numeric position.
		return "0.0", nil
	}
	return "", types.NewError(types.ErrNoRuleForNode, "No generation rule for operator "+n.Op, n.Position)
}

// genExtCall resolves an external-namespace call against the catalog
// map. An unresolved name still compiles: it emits a generic
// unimplemented call that runs without failure and is flagged for
// coverage auditing.
func (g *Generator) genExtCall(n *types.Node) (string, error) {
	arg := "val"
	if n.Arg != nil {
		var err error
		arg, err = g.genWrapped(n.Arg)
		if err != nil {
			return "", err
		}
	}

	if target, ok := externalFuncs[n.StrValue]; ok {
		g.use(implfnsImport)
		return fmt.Sprintf("%s(%s)", target, arg), nil
	}

	audit.Record("extcall", n.StrValue, g.kind)
	return fmt.Sprintf("tagval.UnimplementedCall(%s, %s)", strconv.Quote(n.StrValue), arg), nil
}

// use records an import path needed by emitted text.
func (g *Generator) use(path string) {
	g.imports[path] = true
}

// floatLit formats a numeric literal so it is unambiguously a float64
// in the emitted source: integer/float mixing must never silently
// truncate, so every literal carries a decimal point (or exponent).
func floatLit(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Generate is a convenience wrapper using a throwaway Generator.
func Generate(root *types.Node, kind types.Kind, funcName string) (string, error) {
	return New().Generate(root, kind, funcName)
}
