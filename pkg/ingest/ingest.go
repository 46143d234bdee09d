// Package ingest accepts already-parsed formula trees from an external
// producer and converts them to the compiler's AST.
//
// The external catalog tooling runs its own parser over the same
// formula grammar and serializes trees as JSON. Ingested trees feed the
// code generator directly, bypassing the tokenizer and parser; this is
// also the only path that produces pattern-substitution, character-
// mapping and arbitrary external-call nodes, since the native
// tokenizer's identifier set is closed.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tagforge/convgen/pkg/types"
)

// node is the serialized tree shape. One struct covers every node type;
// which fields are meaningful depends on Type, mirroring types.Node.
type node struct {
	Type string `json:"type"`

	Value  float64 `json:"value,omitempty"`
	Text   string  `json:"text,omitempty"`
	Interp bool    `json:"interp,omitempty"`
	Index  int     `json:"index,omitempty"`

	Op    string `json:"op,omitempty"`
	Left  *node  `json:"left,omitempty"`
	Right *node  `json:"right,omitempty"`

	Cond *node `json:"cond,omitempty"`
	Then *node `json:"then,omitempty"`
	Else *node `json:"else,omitempty"`

	Operand *node `json:"operand,omitempty"`

	Name     string  `json:"name,omitempty"`
	Arg      *node   `json:"arg,omitempty"`
	Template string  `json:"template,omitempty"`
	Args     []*node `json:"args,omitempty"`

	Target      *node  `json:"target,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Replacement string `json:"replacement,omitempty"`
	Search      string `json:"search,omitempty"`
	Replace     string `json:"replace,omitempty"`
	Flags       string `json:"flags,omitempty"`
}

// Decode reads one serialized tree and returns it as an Expression.
// The source text is whatever the producer recorded; it may be empty.
func Decode(r io.Reader, source string) (*types.Expression, error) {
	var root node
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&root); err != nil {
		return nil, types.NewError(types.ErrBadTree, "Malformed serialized tree: "+err.Error(), -1)
	}
	return build(&root, source)
}

// Parse converts one serialized tree held in memory.
func Parse(data []byte, source string) (*types.Expression, error) {
	var root node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, types.NewError(types.ErrBadTree, "Malformed serialized tree: "+err.Error(), -1)
	}
	return build(&root, source)
}

func build(root *node, source string) (*types.Expression, error) {
	converted, err := convert(root)
	if err != nil {
		return nil, err
	}
	return types.NewExpression(converted, source, nil), nil
}

// convert validates one serialized node and its children.
func convert(n *node) (*types.Node, error) {
	if n == nil {
		return nil, types.NewError(types.ErrBadTree, "Missing child node", -1)
	}

	switch n.Type {
	case "variable":
		return &types.Node{Type: types.NodeVariable}, nil

	case "indexed":
		if n.Index < 0 {
			return nil, badTree("negative subscript %d", n.Index)
		}
		return &types.Node{Type: types.NodeIndexedVar, Index: n.Index}, nil

	case "number":
		return &types.Node{Type: types.NodeNumber, NumValue: n.Value}, nil

	case "string":
		return &types.Node{Type: types.NodeString, StrValue: n.Text, Interp: n.Interp}, nil

	case "undef":
		return &types.Node{Type: types.NodeUndefined}, nil

	case "binary", "comparison":
		lhs, err := convert(n.Left)
		if err != nil {
			return nil, err
		}
		rhs, err := convert(n.Right)
		if err != nil {
			return nil, err
		}
		nt := types.NodeBinary
		if n.Type == "comparison" {
			nt = types.NodeComparison
		}
		if n.Op == "" {
			return nil, badTree("%s node without operator", n.Type)
		}
		return &types.Node{Type: nt, Op: n.Op, LHS: lhs, RHS: rhs}, nil

	case "ternary":
		cond, err := convert(n.Cond)
		if err != nil {
			return nil, err
		}
		thenNode, err := convert(n.Then)
		if err != nil {
			return nil, err
		}
		elseNode, err := convert(n.Else)
		if err != nil {
			return nil, err
		}
		return &types.Node{Type: types.NodeTernary, LHS: cond, TrueBranch: thenNode, FalseBranch: elseNode}, nil

	case "negate":
		operand, err := convert(n.Operand)
		if err != nil {
			return nil, err
		}
		return &types.Node{Type: types.NodeUnaryMinus, LHS: operand}, nil

	case "function":
		arg, err := convert(n.Arg)
		if err != nil {
			return nil, err
		}
		if n.Name == "" {
			return nil, badTree("function node without name")
		}
		return &types.Node{Type: types.NodeFunction, StrValue: n.Name, Arg: arg}, nil

	case "extcall":
		if n.Name == "" {
			return nil, badTree("external call without name")
		}
		var arg *types.Node
		if n.Arg != nil {
			var err error
			arg, err = convert(n.Arg)
			if err != nil {
				return nil, err
			}
		}
		return &types.Node{Type: types.NodeExtCall, StrValue: n.Name, Arg: arg}, nil

	case "sprintf":
		args := make([]*types.Node, 0, len(n.Args))
		for _, a := range n.Args {
			converted, err := convert(a)
			if err != nil {
				return nil, err
			}
			args = append(args, converted)
		}
		return &types.Node{Type: types.NodeSprintf, StrValue: n.Template, Args: args}, nil

	case "subst":
		target, err := convert(n.Target)
		if err != nil {
			return nil, err
		}
		return &types.Node{
			Type:        types.NodeSubstitution,
			Target:      target,
			Pattern:     n.Pattern,
			Replacement: n.Replacement,
			Flags:       n.Flags,
		}, nil

	case "tr":
		target, err := convert(n.Target)
		if err != nil {
			return nil, err
		}
		return &types.Node{
			Type:        types.NodeTranslate,
			Target:      target,
			Pattern:     n.Search,
			Replacement: n.Replace,
			Flags:       n.Flags,
		}, nil
	}

	return nil, badTree("unknown node type %q", n.Type)
}

func badTree(format string, args ...interface{}) error {
	return types.NewError(types.ErrBadTree, "Malformed serialized tree: "+fmt.Sprintf(format, args...), -1)
}
