package frontend

import (
	"strconv"
	"strings"

	"github.com/isaacev/Lark/source"
)

// TokenSource is anything that produces tokens one at a time. Both the Lexer
// and the Layout engine are token sources, which lets the layout engine be
// tested against hand-built token streams
type TokenSource interface {
	Next() (Token, error)
}

// Lexer structs maintain state during the lexical analysis of a chunk of
// source code, generating a sequence of Tokens on demand. The first lexical
// failure is terminal: it is returned once and every later call to Next
// yields an EOF token.
//
// The EOF token is a point at the end of the source, unless the source ends
// with a comment, in which case the EOF token spans that comment.
type Lexer struct {
	Scanner *Scanner
	opts    Options
	failed  bool

	// span of the last comment seen since the previous token
	trailing source.Span
}

// NewLexer is a constructor function that takes a File and returns a
// reference to a newly minted Lexer struct
func NewLexer(file *source.File, opts Options) *Lexer {
	return &Lexer{
		Scanner: NewScanner(file, opts.tabWidth()),
		opts:    opts,
	}
}

// Tokenize runs a lexer over a whole file. It stops at the first lexical
// failure, returning the tokens read before it
func Tokenize(file *source.File, opts Options) (toks []Token, err error) {
	lexer := NewLexer(file, opts)

	for {
		tok, err := lexer.Next()
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)

		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next is responsible for digesting characters from the scanner and producing
// the next Token
func (l *Lexer) Next() (tok Token, err error) {
	if l.failed {
		return l.eofToken(), nil
	}

	if err = l.skipWhitespace(); err != nil {
		return l.eofToken(), err
	}

	peek, eof := l.Scanner.Peek()
	if !eof {
		l.trailing = source.Span{}
	}

	switch {
	case eof:
		return l.eofToken(), nil
	case larkGrammar.isIdentStart(peek):
		return l.lexWord(), nil
	case larkGrammar.isNumeric(peek):
		return l.lexNumber()
	case peek == '"':
		return l.lexString()
	case peek == '\'':
		return l.lexChar()
	case larkGrammar.isOperatorRune(peek):
		return l.lexOperator(), nil
	case larkGrammar.isPunctuatorRune(peek):
		return l.lexPunctuator(), nil
	}

	// Characters without a token shape are handed to the parser, which will
	// report them as unexpected tokens
	start, loc := l.Scanner.Offset(), l.Scanner.Location()
	r, _ := l.Scanner.Next()
	return l.token(Unknown, string(r), start, loc), nil
}

func (l *Lexer) token(kind TokenKind, value string, start source.BytePos, loc source.Location) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Span:  source.NewSpan(start, l.Scanner.Offset()),
		Loc:   loc,
	}
}

func (l *Lexer) eofToken() Token {
	span := source.Point(source.BytePos(len(l.Scanner.File.Contents)))
	if !l.failed && !l.trailing.IsEmpty() {
		span = l.trailing
	}

	return Token{
		Kind: EOF,
		Span: span,
		Loc:  l.Scanner.Location(),
	}
}

// fail marks the lexer as exhausted and builds the error describing why
func (l *Lexer) fail(kind TokenizeErrorKind, start source.BytePos) error {
	l.failed = true

	span := source.NewSpan(start, l.Scanner.Offset())
	if l.opts.LexicalErrorsAtStart {
		span = source.Point(0)
	}

	return &LexicalError{Kind: kind, Span: span}
}

// Whitespace and comments
//   - consumes any whitespace between tokens
//   - line comments run from `//` to the end of the line
//   - block comments run from `/*` to the next `*/` and do not nest
func (l *Lexer) skipWhitespace() error {
	for {
		peek, eof := l.Scanner.Peek()
		if eof {
			return nil
		}

		if larkGrammar.isWhitespace(peek) {
			l.Scanner.Next()
			continue
		}

		if peek != '/' {
			return nil
		}

		switch next, _ := l.Scanner.PeekAt(1); next {
		case '/':
			start := l.Scanner.Offset()

			for {
				r, eof := l.Scanner.Peek()
				if eof || r == '\n' {
					break
				}

				l.Scanner.Next()
			}

			l.trailing = source.NewSpan(start, l.Scanner.Offset())
		case '*':
			start := l.Scanner.Offset()
			l.Scanner.Next()
			l.Scanner.Next()

			for closed := false; !closed; {
				r, eof := l.Scanner.Next()
				if eof {
					return l.fail(UnterminatedBlockComment, start)
				}

				if r == '*' {
					if next, _ := l.Scanner.Peek(); next == '/' {
						l.Scanner.Next()
						closed = true
					}
				}
			}

			l.trailing = source.NewSpan(start, l.Scanner.Offset())
		default:
			return nil
		}
	}
}

// Identifiers and Keywords
//   - match [letter _][letter digit _ ']*
//   - a lone `_` is the wildcard token
func (l *Lexer) lexWord() Token {
	start, loc := l.Scanner.Offset(), l.Scanner.Location()
	l.Scanner.Next()

	for {
		peek, eof := l.Scanner.Peek()
		if eof || !larkGrammar.isIdentPart(peek) {
			break
		}

		l.Scanner.Next()
	}

	lexeme := l.Scanner.File.Contents[start:l.Scanner.Offset()]

	if lexeme == "_" {
		return l.token(Underscore, lexeme, start, loc)
	}

	if kind, ok := keywords[lexeme]; ok {
		return l.token(kind, lexeme, start, loc)
	}

	return l.token(Identifier, lexeme, start, loc)
}

// Integer or Float literals
//   - integer match [0-9]+ and must fit in a signed 64 bit integer
//   - float match [0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)? with a fraction or an
//     exponent present
func (l *Lexer) lexNumber() (Token, error) {
	start, loc := l.Scanner.Offset(), l.Scanner.Location()
	kind := IntLiteral

	l.skipDigits()

	// A decimal point only belongs to the number when a digit follows it,
	// otherwise it is a projection like `1.foo`
	if peek, _ := l.Scanner.Peek(); peek == '.' {
		if next, _ := l.Scanner.PeekAt(1); larkGrammar.isNumeric(next) {
			kind = FloatLiteral
			l.Scanner.Next()
			l.skipDigits()
		}
	}

	if peek, _ := l.Scanner.Peek(); peek == 'e' || peek == 'E' {
		next, _ := l.Scanner.PeekAt(1)
		after, _ := l.Scanner.PeekAt(2)

		if larkGrammar.isNumeric(next) || ((next == '+' || next == '-') && larkGrammar.isNumeric(after)) {
			kind = FloatLiteral
			l.Scanner.Next()
			l.Scanner.Next()
			l.skipDigits()
		}
	}

	lexeme := l.Scanner.File.Contents[start:l.Scanner.Offset()]

	if kind == IntLiteral {
		if _, err := strconv.ParseInt(lexeme, 10, 64); err != nil {
			return l.eofToken(), l.fail(NonParseableInt, start)
		}
	} else if _, err := strconv.ParseFloat(lexeme, 64); err != nil {
		return l.eofToken(), l.fail(NonParseableFloat, start)
	}

	return l.token(kind, lexeme, start, loc), nil
}

func (l *Lexer) skipDigits() {
	for {
		peek, eof := l.Scanner.Peek()
		if eof || !larkGrammar.isNumeric(peek) {
			return
		}

		l.Scanner.Next()
	}
}

// String literal
//   - match a double quoted string on a single line
//   - the token's value holds the string with its escapes decoded
func (l *Lexer) lexString() (Token, error) {
	start, loc := l.Scanner.Offset(), l.Scanner.Location()
	l.Scanner.Next()

	var value strings.Builder

	for {
		peek, eof := l.Scanner.Peek()
		if eof || peek == '\n' {
			return l.eofToken(), l.fail(UnterminatedStringLiteral, start)
		}

		l.Scanner.Next()

		switch peek {
		case '"':
			return l.token(StringLiteral, value.String(), start, loc), nil
		case '\\':
			r, err := l.lexEscape()
			if err != nil {
				return l.eofToken(), err
			}

			value.WriteRune(r)
		default:
			value.WriteRune(peek)
		}
	}
}

// Char literal
//   - match a single (possibly escaped) character between single quotes
func (l *Lexer) lexChar() (Token, error) {
	start, loc := l.Scanner.Offset(), l.Scanner.Location()
	l.Scanner.Next()

	r, eof := l.Scanner.Peek()

	switch {
	case eof || r == '\n':
		return l.eofToken(), l.fail(UnterminatedCharLiteral, start)
	case r == '\'':
		l.Scanner.Next()
		return l.eofToken(), l.fail(EmptyCharLiteral, start)
	}

	l.Scanner.Next()

	if r == '\\' {
		var err error
		if r, err = l.lexEscape(); err != nil {
			return l.eofToken(), err
		}
	}

	if closing, _ := l.Scanner.Peek(); closing != '\'' {
		return l.eofToken(), l.fail(UnterminatedCharLiteral, start)
	}

	l.Scanner.Next()
	return l.token(CharLiteral, string(r), start, loc), nil
}

// lexEscape decodes the character following a backslash
func (l *Lexer) lexEscape() (rune, error) {
	start := l.Scanner.Offset() - 1

	r, eof := l.Scanner.Peek()
	if eof || r == '\n' {
		return 0, l.fail(UnexpectedEscapeCode, start)
	}

	l.Scanner.Next()

	switch r {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '"', '\'':
		return r, nil
	}

	return 0, l.fail(UnexpectedEscapeCode, start)
}

// Operators
//   - consecutive operator runes are glued together until a rune is found that
//     can't be used in a valid operator
//   - a handful of exact lexemes (`=`, `|`, `->`, `.`, `\`) get their own kinds
func (l *Lexer) lexOperator() Token {
	start, loc := l.Scanner.Offset(), l.Scanner.Location()

	for {
		peek, eof := l.Scanner.Peek()
		if eof || !larkGrammar.isOperatorRune(peek) {
			break
		}

		// A comment directly following an operator ends the operator
		if peek == '/' && l.Scanner.Offset() > start {
			if next, _ := l.Scanner.PeekAt(1); next == '/' || next == '*' {
				break
			}
		}

		l.Scanner.Next()
	}

	lexeme := l.Scanner.File.Contents[start:l.Scanner.Offset()]

	if kind, ok := reservedOperators[lexeme]; ok {
		return l.token(kind, lexeme, start, loc)
	}

	return l.token(Operator, lexeme, start, loc)
}

// Punctuators
//   - always consist of a single character
func (l *Lexer) lexPunctuator() Token {
	start, loc := l.Scanner.Offset(), l.Scanner.Location()
	r, _ := l.Scanner.Next()

	var kind TokenKind

	switch r {
	case '(':
		kind = LParen
	case ')':
		kind = RParen
	case '{':
		kind = LBrace
	case '}':
		kind = RBrace
	case '[':
		kind = LBracket
	case ']':
		kind = RBracket
	default:
		kind = Comma
	}

	return l.token(kind, string(r), start, loc)
}
