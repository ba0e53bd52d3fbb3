package frontend

import (
	"fmt"
	"strings"

	"github.com/isaacev/Lark/source"
)

// TokenizeErrorKind is the closed set of reasons the lexer can give up
type TokenizeErrorKind int

// Lexical failure kinds
const (
	NonParseableInt TokenizeErrorKind = iota
	NonParseableFloat
	UnterminatedStringLiteral
	UnterminatedCharLiteral
	EmptyCharLiteral
	UnexpectedEscapeCode
	UnterminatedBlockComment
)

func (k TokenizeErrorKind) String() string {
	switch k {
	case NonParseableInt:
		return "NonParseableInt"
	case NonParseableFloat:
		return "NonParseableFloat"
	case UnterminatedStringLiteral:
		return "UnterminatedStringLiteral"
	case UnterminatedCharLiteral:
		return "UnterminatedCharLiteral"
	case EmptyCharLiteral:
		return "EmptyCharLiteral"
	case UnexpectedEscapeCode:
		return "UnexpectedEscapeCode"
	case UnterminatedBlockComment:
		return "UnterminatedBlockComment"
	default:
		return fmt.Sprintf("TokenizeErrorKind(%d)", int(k))
	}
}

// Describe returns the message shown to users for a lexical failure
func (k TokenizeErrorKind) Describe() string {
	switch k {
	case NonParseableInt:
		return "integer literal is out of range"
	case NonParseableFloat:
		return "float literal is out of range"
	case UnterminatedStringLiteral:
		return "unterminated string literal"
	case UnterminatedCharLiteral:
		return "unterminated char literal"
	case EmptyCharLiteral:
		return "empty char literal"
	case UnexpectedEscapeCode:
		return "unknown escape sequence"
	case UnterminatedBlockComment:
		return "unterminated block comment"
	default:
		return k.String()
	}
}

// LexicalError is returned by the lexer when it cannot continue
type LexicalError struct {
	Kind TokenizeErrorKind
	Span source.Span
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s at %s", e.Kind.Describe(), e.Span)
}

// SyntaxError is one of UnexpectedToken, UnexpectedEndOfInput or
// LexicalFailure. The unexported marker method keeps the set closed
type SyntaxError interface {
	error
	syntaxError()
}

// UnexpectedToken is raised when a concrete token was present but none of
// the grammar's currently valid continuations accepted it. Expected is a hint
// only: it depends on grammar state and is not a stable contract
type UnexpectedToken struct {
	Found    TokenKind
	Expected []TokenKind
}

// UnexpectedEndOfInput is raised when input ended where a continuation was
// required
type UnexpectedEndOfInput struct {
	Expected []TokenKind
}

// LexicalFailure wraps a failure of the lexer
type LexicalFailure struct {
	Kind TokenizeErrorKind
}

func (e *UnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected %s%s", e.Found.Describe(), describeExpected(e.Expected))
}

func (e *UnexpectedEndOfInput) Error() string {
	return "unexpected end of input" + describeExpected(e.Expected)
}

func (e *LexicalFailure) Error() string {
	return e.Kind.Describe()
}

func (*UnexpectedToken) syntaxError()      {}
func (*UnexpectedEndOfInput) syntaxError() {}
func (*LexicalFailure) syntaxError()       {}

func describeExpected(expected []TokenKind) string {
	switch len(expected) {
	case 0:
		return ""
	case 1:
		return ", expected " + expected[0].Describe()
	}

	var names []string
	for _, k := range expected {
		names = append(names, k.Describe())
	}

	return ", expected one of " + strings.Join(names, ", ")
}

// Diagnostic is a SyntaxError paired with the span it was raised at
type Diagnostic struct {
	Span source.Span
	Err  SyntaxError
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Span, d.Err)
}

// Unwrap exposes the SyntaxError to errors.As
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics is the ordered list of every diagnostic raised during a single
// parse call. It is not a set: the order is the order in which the parser
// raised them and duplicates are kept
type Diagnostics []Diagnostic

// Add appends a diagnostic
func (ds *Diagnostics) Add(span source.Span, err SyntaxError) {
	*ds = append(*ds, Diagnostic{Span: span, Err: err})
}

// Len returns the number of diagnostics collected
func (ds Diagnostics) Len() int {
	return len(ds)
}

// HasErrors reports whether any diagnostic was collected
func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

// Err returns the diagnostics as an error, or nil when there are none
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}

	return ds
}

func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Error()
	}

	return strings.Join(lines, "\n")
}

// Unwrap exposes every diagnostic to errors.Is and errors.As
func (ds Diagnostics) Unwrap() []error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}

	return errs
}

// WithoutExpected returns a copy of the diagnostics with the advisory expected
// sets cleared, for comparisons that should only look at kinds and spans
func (ds Diagnostics) WithoutExpected() Diagnostics {
	if ds == nil {
		return nil
	}

	out := make(Diagnostics, len(ds))
	for i, d := range ds {
		switch err := d.Err.(type) {
		case *UnexpectedToken:
			d.Err = &UnexpectedToken{Found: err.Found}
		case *UnexpectedEndOfInput:
			d.Err = &UnexpectedEndOfInput{}
		}

		out[i] = d
	}

	return out
}
