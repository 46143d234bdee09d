package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/tagforge/convgen/pkg/types"
)

const eof = -1

// varMarker is the single reserved input-variable name. The grammar has
// exactly one scalar input; multi-input formulas subscript it instead of
// naming siblings.
const varMarker = "val"

// Lexer converts a conversion formula into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique.
//
// Every failure mode fails closed: a formula that cannot be tokenized
// exactly is rejected rather than partially recognized, because a
// misread token could otherwise produce a plausible-looking but wrong
// conversion.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided formula string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Tokenize runs the lexer over the whole input and returns the complete
// token stream. The EOF token is not included in the result.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		t := l.Next()
		if t.Type == TokenError {
			return nil, l.err
		}
		if t.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, t)
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Numbers before symbols: "8.5" must scan as one number even though
	// "." alone is the concatenation operator.
	if ch >= '0' && ch <= '9' {
		l.backup()
		return l.scanNumber()
	}

	// Two-character symbols first (e.g. **, <=, <<, ==)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	// The grammar has no assignment and no boolean not: a "=" or "!"
	// that did not complete to "==" / "!=" is a hard error.
	if ch == '=' {
		return l.error(types.ErrLoneEquals, `"=" is not an operator (use "==")`)
	}
	if ch == '!' {
		return l.error(types.ErrLoneBang, `"!" is not an operator (use "!=")`)
	}

	// Single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals (double quotes only)
	if ch == '"' {
		l.ignore()
		return l.scanString()
	}

	// The reserved variable marker
	if ch == '$' {
		return l.scanVariable()
	}

	// Names: only the closed function whitelist and the undef keyword
	if isNameStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.error(types.ErrBadCharacter, "Unsupported character "+string(ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanNumber reads a numeric literal from the current position.
// Supported forms: integer, decimal with digits on both sides of the
// point, and hexadecimal with an 0x prefix. There is no leading-dot
// form and no scientific notation.
func (l *Lexer) scanNumber() Token {
	if l.acceptRune('0') {
		if l.acceptRunes2('x', 'X') {
			if !l.acceptAll(isHexDigit) {
				return l.error(types.ErrBadNumber, "Hexadecimal literal with no digits")
			}
			return l.newToken(TokenNumber)
		}
	}
	l.acceptAll(isDigit)

	// Decimal part: a dot not followed by a digit is not part of the
	// number, it is the concatenation operator. Restoring the saved
	// position rather than backing up: acceptAll leaves l.width set to
	// the rune it rejected, whose byte width need not match the dot's.
	dot := l.current
	if l.acceptRune('.') && !l.acceptAll(isDigit) {
		l.current = dot
	}

	return l.newToken(TokenNumber)
}

// scanString reads a double-quoted string literal from the current
// position. The opening quote has already been consumed. Escape
// sequences are processed here so the token value holds the decoded
// text; the interpolation flag is set when the decoded text contains
// the reserved variable marker.
func (l *Lexer) scanString() Token {
	var sb strings.Builder

	for {
		ch := l.nextRune()
		switch ch {
		case '"':
			t := Token{
				Type:     TokenString,
				Value:    sb.String(),
				Position: l.start,
			}
			t.Interp = strings.Contains(t.Value, "$"+varMarker)
			l.ignore()
			return t
		case '\\':
			esc := l.nextRune()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case eof:
				return l.error(types.ErrDanglingEscape, "Escape at end of input")
			default:
				return l.error(types.ErrDanglingEscape, `Unsupported escape \`+string(esc))
			}
		case eof:
			return l.error(types.ErrStringNotClosed, "Unterminated string literal")
		default:
			sb.WriteRune(ch)
		}
	}
}

// scanVariable reads the reserved variable marker and its optional
// subscript form. The "$" has already been consumed.
// Forms: $val and $val[N] with a decimal subscript.
func (l *Lexer) scanVariable() Token {
	for i := 0; i < len(varMarker); i++ {
		if !l.acceptRune(rune(varMarker[i])) {
			return l.error(types.ErrBadVariable, "Unknown variable reference (only $"+varMarker+" is defined)")
		}
	}

	// A longer name such as $value is not the marker.
	if l.accept(isNameRune) {
		return l.error(types.ErrBadVariable, "Unknown variable reference (only $"+varMarker+" is defined)")
	}

	if !l.acceptRune('[') {
		return l.newToken(TokenVariable)
	}

	digits := l.current
	if !l.acceptAll(isDigit) {
		return l.error(types.ErrBadVariable, "Variable subscript must be a decimal integer")
	}
	index := l.input[digits:l.current]
	if !l.acceptRune(']') {
		return l.error(types.ErrBadVariable, "Unterminated variable subscript")
	}

	t := l.newToken(TokenIndexedVar)
	t.Value = index
	return t
}

// scanName reads a bare identifier. The grammar intentionally has no
// user-definable names: the only identifiers are the undef keyword and
// the function whitelist, and function names are accepted only when
// immediately followed by an opening parenthesis.
func (l *Lexer) scanName() Token {
	l.acceptAll(isNameRune)
	name := l.input[l.start:l.current]

	if name == "undef" {
		return l.newToken(TokenUndef)
	}

	tt, ok := functionNames[name]
	if !ok {
		return l.error(types.ErrUnknownFunction, "Unknown name "+name)
	}
	if l.peekRune() != '(' {
		return l.error(types.ErrUnknownFunction, "Function "+name+" must be followed by (")
	}
	return l.newToken(tt)
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekRune() rune {
	if l.err != nil || l.current >= l.length {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// skipWhitespace skips ASCII space and tab. Formulas are single-line;
// other control characters are unsupported-character errors.
func (l *Lexer) skipWhitespace() {
	l.acceptAll(func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	l.ignore()
}

// Character classification functions

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isNameRune(r rune) bool {
	return isNameStart(r) || isDigit(r)
}
