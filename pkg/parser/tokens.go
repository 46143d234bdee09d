package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals and references
	TokenString     // "..." (escape-processed)
	TokenNumber     // 123, 3.5, 0xffc0
	TokenVariable   // $val
	TokenIndexedVar // $val[N]
	TokenUndef      // undef keyword

	// Grouping
	TokenParenOpen  // (
	TokenParenClose // )
	TokenComma      // ,

	// Ternary punctuation
	TokenQuestion // ?
	TokenColon    // :

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /
	TokenPower // **

	// String operator
	TokenConcat // .

	// Bitwise operators
	TokenBitAnd // &
	TokenBitOr  // |
	TokenShl    // <<
	TokenShr    // >>

	// Comparison operators
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Function names (whitelisted, only valid directly before "(")
	TokenFunction // int, exp, log
	TokenSprintf  // sprintf
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenString:
		return "(string)"
	case TokenNumber:
		return "(number)"
	case TokenVariable:
		return "$val"
	case TokenIndexedVar:
		return "$val[N]"
	case TokenUndef:
		return "undef"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenComma:
		return ","
	case TokenQuestion:
		return "?"
	case TokenColon:
		return ":"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenPower:
		return "**"
	case TokenConcat:
		return "."
	case TokenBitAnd:
		return "&"
	case TokenBitOr:
		return "|"
	case TokenShl:
		return "<<"
	case TokenShr:
		return ">>"
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenFunction:
		return "(function)"
	case TokenSprintf:
		return "sprintf"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token in a conversion formula.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting position in the input string
	Interp   bool      // TokenString: literal contains the $val marker
}

// OperatorSpec describes the binding behavior of a binary or comparison
// operator. The table is fixed at compile time and never mutated.
type OperatorSpec struct {
	Precedence int
	RightAssoc bool
}

// operators is the full precedence/associativity table, lowest binding
// first. Exponentiation is the only right-associative operator; unary
// minus sits between the multiplicative level and exponentiation and is
// produced contextually by the parser, never by the lexer.
var operators = map[TokenType]OperatorSpec{
	TokenBitOr: {Precedence: 1},

	TokenBitAnd: {Precedence: 2},

	TokenEqual:    {Precedence: 3},
	TokenNotEqual: {Precedence: 3},

	TokenGreater:      {Precedence: 4},
	TokenGreaterEqual: {Precedence: 4},
	TokenLess:         {Precedence: 4},
	TokenLessEqual:    {Precedence: 4},

	TokenShl: {Precedence: 5},
	TokenShr: {Precedence: 5},

	TokenPlus:   {Precedence: 6},
	TokenMinus:  {Precedence: 6},
	TokenConcat: {Precedence: 6},

	TokenMult: {Precedence: 7},
	TokenDiv:  {Precedence: 7},

	TokenPower: {Precedence: 9, RightAssoc: true},
}

// unaryMinusSpec is the binding behavior of contextual unary minus:
// tighter than any binary operator, looser than exponentiation, and
// right-associative so stacked negations reduce innermost-first.
var unaryMinusSpec = OperatorSpec{Precedence: 8, RightAssoc: true}

// lookupOperator returns the operator spec for a token type.
// The second result is false for non-operator tokens.
func lookupOperator(tt TokenType) (OperatorSpec, bool) {
	spec, ok := operators[tt]
	return spec, ok
}

// isComparison reports whether a token type is a comparison operator.
func isComparison(tt TokenType) bool {
	switch tt {
	case TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		return true
	default:
		return false
	}
}

// isOperand reports whether a token type produces a value by itself.
func isOperand(tt TokenType) bool {
	switch tt {
	case TokenString, TokenNumber, TokenVariable, TokenIndexedVar, TokenUndef:
		return true
	default:
		return false
	}
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenParenOpen,
	')': TokenParenClose,
	',': TokenComma,
	'?': TokenQuestion,
	':': TokenColon,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMult,
	'/': TokenDiv,
	'.': TokenConcat,
	'&': TokenBitAnd,
	'|': TokenBitOr,
	'<': TokenLess,
	'>': TokenGreater,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence.
var symbols2 = [...][]runeTokenType{
	'*': {{'*', TokenPower}},
	'<': {{'=', TokenLessEqual}, {'<', TokenShl}},
	'>': {{'=', TokenGreaterEqual}, {'>', TokenShr}},
	'=': {{'=', TokenEqual}},
	'!': {{'=', TokenNotEqual}},
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

// functionNames is the closed whitelist of callable names. The grammar
// has no user-definable identifiers: anything else is a lexical error.
var functionNames = map[string]TokenType{
	"sprintf": TokenSprintf,
	"int":     TokenFunction,
	"exp":     TokenFunction,
	"log":     TokenFunction,
}
