package types

import "fmt"

// ErrorCode identifies a class of compilation failure.
type ErrorCode string

// Error codes, grouped by pipeline stage.
const (
	// L0xxx: Tokenizer errors
	ErrBadCharacter    ErrorCode = "L0101"
	ErrStringNotClosed ErrorCode = "L0102"
	ErrDanglingEscape  ErrorCode = "L0103"
	ErrUnknownFunction ErrorCode = "L0104"
	ErrBadVariable     ErrorCode = "L0105"
	ErrBadNumber       ErrorCode = "L0106"
	ErrLoneEquals      ErrorCode = "L0107"
	ErrLoneBang        ErrorCode = "L0108"

	// P0xxx: Parser errors
	ErrEmptyFormula     ErrorCode = "P0201"
	ErrUnbalancedGroup  ErrorCode = "P0202"
	ErrArityMismatch    ErrorCode = "P0203"
	ErrMisplacedTernary ErrorCode = "P0204"
	ErrBadArgument      ErrorCode = "P0205"

	// G0xxx: Code-generation errors
	ErrNoRuleForNode  ErrorCode = "G0301"
	ErrMissingLiteral ErrorCode = "G0302"
	ErrBadFlag        ErrorCode = "G0303"
	ErrBadTree        ErrorCode = "G0304"
)

// Error is a structured compilation error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new compilation error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}
