package parser

import (
	"strconv"
	"strings"

	"github.com/tagforge/convgen/pkg/types"
)

// parser reduces a token stream to a single AST node using the classic
// dual-stack shunting-yard scheme: operands go straight to the output
// stack, operators wait on the operator stack until an incoming token
// with weaker binding forces a reduction. Function names are pushed
// like operators and reduced as soon as their closing parenthesis is
// processed; ternary punctuation is handled with stack markers so the
// condition is fully reduced before either branch is assembled.
type parser struct {
	tokens []Token
	source string
	arena  *types.NodeArena

	out []*types.Node
	ops []opItem
}

// opItem is an operator-stack entry. Besides plain operator tokens the
// stack holds group openers (tracking argument separators and the
// output depth at open time), function names and the two ternary
// markers.
type opItem struct {
	tok    Token
	unary  bool // contextual unary minus
	commas int  // TokenParenOpen: "," seen directly in this group
	depth  int  // TokenParenOpen: len(out) when the group opened
}

func newParser(tokens []Token, source string) *parser {
	return &parser{
		tokens: tokens,
		source: source,
		arena:  types.NewNodeArena(),
	}
}

// parse runs the reduction over the whole token stream.
func (p *parser) parse() (*types.Node, error) {
	if len(p.tokens) == 0 {
		return nil, types.NewError(types.ErrEmptyFormula, "Empty formula", 0)
	}

	// lastValue tracks whether the previous token produced a value;
	// a minus with no preceding operand is unary, never binary.
	lastValue := false

	for _, tok := range p.tokens {
		switch {
		case isOperand(tok.Type):
			node, err := p.operandNode(tok)
			if err != nil {
				return nil, err
			}
			p.out = append(p.out, node)
			lastValue = true

		case tok.Type == TokenFunction || tok.Type == TokenSprintf:
			p.ops = append(p.ops, opItem{tok: tok})
			lastValue = false

		case tok.Type == TokenParenOpen:
			p.ops = append(p.ops, opItem{tok: tok, depth: len(p.out)})
			lastValue = false

		case tok.Type == TokenComma:
			if err := p.reduceGroup(tok); err != nil {
				return nil, err
			}
			if len(p.ops) == 0 {
				return nil, types.NewError(types.ErrBadArgument, "Comma outside a call", tok.Position)
			}
			p.ops[len(p.ops)-1].commas++
			lastValue = false

		case tok.Type == TokenParenClose:
			if err := p.closeGroup(tok); err != nil {
				return nil, err
			}
			lastValue = true

		case tok.Type == TokenQuestion:
			// The condition must be fully reduced before the true
			// branch starts.
			if err := p.reduceCondition(); err != nil {
				return nil, err
			}
			p.ops = append(p.ops, opItem{tok: tok})
			lastValue = false

		case tok.Type == TokenColon:
			if err := p.reduceTrueBranch(tok); err != nil {
				return nil, err
			}
			lastValue = false

		case tok.Type == TokenMinus && !lastValue:
			// Prefix operator: nothing on the stack can bind tighter
			// than an operand that has not been produced yet.
			p.ops = append(p.ops, opItem{tok: tok, unary: true})
			lastValue = false

		default:
			spec, ok := lookupOperator(tok.Type)
			if !ok {
				return nil, types.NewError(types.ErrArityMismatch, "Unexpected token "+tok.Type.String(), tok.Position).WithToken(tok.Value)
			}
			if err := p.reduceForPrecedence(spec); err != nil {
				return nil, err
			}
			p.ops = append(p.ops, opItem{tok: tok})
			lastValue = false
		}
	}

	if err := p.reduceAll(); err != nil {
		return nil, err
	}

	// Exactly one tree must remain: N binary operators consume 2N
	// operands and produce N, so any leftover means a missing operator
	// or a missing operand.
	if len(p.out) != 1 {
		return nil, types.NewError(types.ErrArityMismatch, "Operator/operand mismatch", 0)
	}
	return p.out[0], nil
}

// operandNode builds the AST leaf for an operand token.
func (p *parser) operandNode(tok Token) (*types.Node, error) {
	switch tok.Type {
	case TokenNumber:
		var f float64
		if strings.HasPrefix(tok.Value, "0x") || strings.HasPrefix(tok.Value, "0X") {
			u, err := strconv.ParseUint(tok.Value[2:], 16, 64)
			if err != nil {
				return nil, types.NewError(types.ErrBadNumber, "Bad hexadecimal literal", tok.Position).WithToken(tok.Value)
			}
			f = float64(u)
		} else {
			var err error
			f, err = strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return nil, types.NewError(types.ErrBadNumber, "Bad numeric literal", tok.Position).WithToken(tok.Value)
			}
		}
		n := p.arena.Alloc(types.NodeNumber, tok.Position)
		n.NumValue = f
		return n, nil

	case TokenString:
		n := p.arena.Alloc(types.NodeString, tok.Position)
		n.StrValue = tok.Value
		n.Interp = tok.Interp
		return n, nil

	case TokenVariable:
		return p.arena.Alloc(types.NodeVariable, tok.Position), nil

	case TokenIndexedVar:
		idx, err := strconv.Atoi(tok.Value)
		if err != nil {
			return nil, types.NewError(types.ErrBadVariable, "Bad variable subscript", tok.Position).WithToken(tok.Value)
		}
		n := p.arena.Alloc(types.NodeIndexedVar, tok.Position)
		n.Index = idx
		return n, nil

	case TokenUndef:
		return p.arena.Alloc(types.NodeUndefined, tok.Position), nil
	}
	return nil, types.NewError(types.ErrArityMismatch, "Unexpected token", tok.Position).WithToken(tok.Value)
}

// reduceForPrecedence pops and reduces stacked operators that bind at
// least as tightly as the incoming one: strictly tighter always, and
// equally tight when the incoming operator is left-associative.
func (p *parser) reduceForPrecedence(incoming OperatorSpec) error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		var topSpec OperatorSpec
		switch {
		case top.unary:
			topSpec = unaryMinusSpec
		default:
			spec, ok := lookupOperator(top.tok.Type)
			if !ok {
				return nil // group opener, function or ternary marker
			}
			topSpec = spec
		}
		if topSpec.Precedence > incoming.Precedence ||
			(topSpec.Precedence == incoming.Precedence && !incoming.RightAssoc) {
			if err := p.reduceTop(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
	return nil
}

// reduceCondition reduces the pending operators of a ternary condition.
// It stops at group openers, function names and ternary markers: an
// enclosing ternary must not be assembled while a nested one is still
// being read.
func (p *parser) reduceCondition() error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		switch top.tok.Type {
		case TokenParenOpen, TokenQuestion, TokenColon, TokenFunction, TokenSprintf:
			return nil
		default:
			if err := p.reduceTop(); err != nil {
				return err
			}
		}
	}
	return nil
}

// reduceGroup reduces until the nearest group opener, resolving any
// completed ternaries on the way.
func (p *parser) reduceGroup(at Token) error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		switch top.tok.Type {
		case TokenParenOpen:
			return nil
		case TokenColon:
			if err := p.assembleTernary(); err != nil {
				return err
			}
		case TokenQuestion:
			return types.NewError(types.ErrMisplacedTernary, `"?" without matching ":"`, top.tok.Position)
		default:
			if err := p.reduceTop(); err != nil {
				return err
			}
		}
	}
	return nil
}

// closeGroup processes a closing parenthesis: reduce the group body,
// drop the opener and, when the opener was preceded by a function
// name, build the call node immediately.
func (p *parser) closeGroup(tok Token) error {
	if err := p.reduceGroup(tok); err != nil {
		return err
	}
	if len(p.ops) == 0 {
		return types.NewError(types.ErrUnbalancedGroup, `Unmatched ")"`, tok.Position)
	}
	open := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]

	produced := len(p.out) - open.depth
	argc := open.commas + 1

	if len(p.ops) > 0 {
		fn := p.ops[len(p.ops)-1]
		switch fn.tok.Type {
		case TokenFunction:
			p.ops = p.ops[:len(p.ops)-1]
			if open.commas != 0 || produced != 1 {
				return types.NewError(types.ErrArityMismatch, fn.tok.Value+" takes exactly one argument", fn.tok.Position)
			}
			arg := p.out[len(p.out)-1]
			n := p.arena.Alloc(types.NodeFunction, fn.tok.Position)
			n.StrValue = fn.tok.Value
			n.Arg = arg
			p.out[len(p.out)-1] = n
			return nil

		case TokenSprintf:
			p.ops = p.ops[:len(p.ops)-1]
			if produced != argc {
				return types.NewError(types.ErrArityMismatch, "Operator/operand mismatch in sprintf arguments", fn.tok.Position)
			}
			args := p.out[open.depth:]
			if args[0].Type != types.NodeString {
				return types.NewError(types.ErrBadArgument, "sprintf template must be a string literal", fn.tok.Position)
			}
			n := p.arena.Alloc(types.NodeSprintf, fn.tok.Position)
			n.StrValue = args[0].StrValue
			n.Args = append([]*types.Node(nil), args[1:]...)
			p.out = append(p.out[:open.depth], n)
			return nil
		}
	}

	// Plain group: must wrap exactly one expression and commas have no
	// meaning outside a call.
	if open.commas != 0 {
		return types.NewError(types.ErrBadArgument, "Comma outside a call", tok.Position)
	}
	if produced != 1 {
		return types.NewError(types.ErrArityMismatch, "Operator/operand mismatch in group", tok.Position)
	}
	return nil
}

// reduceTrueBranch handles ":", reducing the true branch back to the
// matching "?" and swapping the marker so the false branch can follow.
func (p *parser) reduceTrueBranch(tok Token) error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		switch top.tok.Type {
		case TokenQuestion:
			p.ops[len(p.ops)-1] = opItem{tok: Token{Type: TokenColon, Position: top.tok.Position}}
			return nil
		case TokenColon:
			if err := p.assembleTernary(); err != nil {
				return err
			}
		case TokenParenOpen:
			return types.NewError(types.ErrMisplacedTernary, `":" without matching "?"`, tok.Position)
		default:
			if err := p.reduceTop(); err != nil {
				return err
			}
		}
	}
	return types.NewError(types.ErrMisplacedTernary, `":" without matching "?"`, tok.Position)
}

// assembleTernary pops a completed condition/true/false triple into a
// ternary node. When the condition is itself a comparison the node is
// carried through directly; the generator then inlines it instead of
// routing the 1/0 surrogate through a second comparison.
func (p *parser) assembleTernary() error {
	marker := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]
	if len(p.out) < 3 {
		return types.NewError(types.ErrArityMismatch, "Incomplete ternary", marker.tok.Position)
	}
	falseBranch := p.out[len(p.out)-1]
	trueBranch := p.out[len(p.out)-2]
	cond := p.out[len(p.out)-3]
	p.out = p.out[:len(p.out)-3]

	n := p.arena.Alloc(types.NodeTernary, marker.tok.Position)
	n.LHS = cond
	n.TrueBranch = trueBranch
	n.FalseBranch = falseBranch
	p.out = append(p.out, n)
	return nil
}

// reduceTop pops one operator and builds its node from the output stack.
func (p *parser) reduceTop() error {
	item := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]

	if item.tok.Type == TokenFunction || item.tok.Type == TokenSprintf {
		return types.NewError(types.ErrUnbalancedGroup, "Unclosed call to "+item.tok.Value, item.tok.Position)
	}

	if item.unary {
		if len(p.out) < 1 {
			return types.NewError(types.ErrArityMismatch, "Missing operand for unary minus", item.tok.Position)
		}
		operand := p.out[len(p.out)-1]
		n := p.arena.Alloc(types.NodeUnaryMinus, item.tok.Position)
		n.LHS = operand
		p.out[len(p.out)-1] = n
		return nil
	}

	if len(p.out) < 2 {
		return types.NewError(types.ErrArityMismatch, "Missing operand for "+item.tok.Type.String(), item.tok.Position)
	}
	rhs := p.out[len(p.out)-1]
	lhs := p.out[len(p.out)-2]
	p.out = p.out[:len(p.out)-2]

	nt := types.NodeBinary
	if isComparison(item.tok.Type) {
		nt = types.NodeComparison
	}
	n := p.arena.Alloc(nt, item.tok.Position)
	n.Op = item.tok.Type.String()
	n.LHS = lhs
	n.RHS = rhs
	p.out = append(p.out, n)
	return nil
}

// reduceAll drains the operator stack after the last token.
func (p *parser) reduceAll() error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		switch top.tok.Type {
		case TokenParenOpen:
			return types.NewError(types.ErrUnbalancedGroup, `Unclosed "("`, top.tok.Position)
		case TokenQuestion:
			return types.NewError(types.ErrMisplacedTernary, `"?" without matching ":"`, top.tok.Position)
		case TokenColon:
			if err := p.assembleTernary(); err != nil {
				return err
			}
		default:
			if err := p.reduceTop(); err != nil {
				return err
			}
		}
	}
	return nil
}
