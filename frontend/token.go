package frontend

import (
	"fmt"
	"strings"

	"github.com/isaacev/Lark/source"
)

// TokenKind is the classification system for tokens. Identifier and literal
// tokens are represented by general kinds (like Identifier) while keywords,
// punctuation and layout markers each get a kind of their own
type TokenKind int

// Token structs represent a lexical atom and are tagged with a token kind, the
// lexeme it was read from, its byte span and the line/column it starts at.
// Layout markers synthesized by the layout engine have an empty lexeme
type Token struct {
	Kind  TokenKind
	Value string
	Span  source.Span
	Loc   source.Location
}

// The full token vocabulary of the front-end
const (
	EOF TokenKind = iota
	Unknown

	Identifier
	Underscore
	Operator
	IntLiteral
	FloatLiteral
	StringLiteral
	CharLiteral

	Let
	In
	Match
	With
	If
	Then
	Else

	Backslash
	Comma
	Dot
	Equals
	Pipe
	RArrow
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	// Synthesized by the layout engine, never by the lexer
	OpenBlock
	Semi
	CloseBlock

	numTokenKinds
)

var tokenNames = [numTokenKinds]string{
	EOF:           "EOF",
	Unknown:       "Unknown",
	Identifier:    "Identifier",
	Underscore:    "Underscore",
	Operator:      "Operator",
	IntLiteral:    "IntLiteral",
	FloatLiteral:  "FloatLiteral",
	StringLiteral: "StringLiteral",
	CharLiteral:   "CharLiteral",
	Let:           "Let",
	In:            "In",
	Match:         "Match",
	With:          "With",
	If:            "If",
	Then:          "Then",
	Else:          "Else",
	Backslash:     "Backslash",
	Comma:         "Comma",
	Dot:           "Dot",
	Equals:        "Equals",
	Pipe:          "Pipe",
	RArrow:        "RArrow",
	LParen:        "LParen",
	RParen:        "RParen",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	LBracket:      "LBracket",
	RBracket:      "RBracket",
	OpenBlock:     "OpenBlock",
	Semi:          "Semi",
	CloseBlock:    "CloseBlock",
}

var tokenDisplay = [numTokenKinds]string{
	EOF:           "end of input",
	Unknown:       "unknown character",
	Identifier:    "identifier",
	Underscore:    "`_`",
	Operator:      "operator",
	IntLiteral:    "integer literal",
	FloatLiteral:  "float literal",
	StringLiteral: "string literal",
	CharLiteral:   "char literal",
	Let:           "`let`",
	In:            "`in`",
	Match:         "`match`",
	With:          "`with`",
	If:            "`if`",
	Then:          "`then`",
	Else:          "`else`",
	Backslash:     "`\\`",
	Comma:         "`,`",
	Dot:           "`.`",
	Equals:        "`=`",
	Pipe:          "`|`",
	RArrow:        "`->`",
	LParen:        "`(`",
	RParen:        "`)`",
	LBrace:        "`{`",
	RBrace:        "`}`",
	LBracket:      "`[`",
	RBracket:      "`]`",
	OpenBlock:     "start of block",
	Semi:          "new line",
	CloseBlock:    "end of block",
}

func (k TokenKind) String() string {
	if k >= 0 && k < numTokenKinds {
		return tokenNames[k]
	}

	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Describe returns a human readable description of a token kind for use in
// rendered messages
func (k TokenKind) Describe() string {
	if k >= 0 && k < numTokenKinds {
		return tokenDisplay[k]
	}

	return k.String()
}

// IsLayout reports whether tokens of this kind are synthesized by the layout
// engine rather than read from the source
func (k TokenKind) IsLayout() bool {
	return k == OpenBlock || k == Semi || k == CloseBlock
}

var keywords = map[string]TokenKind{
	"let":   Let,
	"in":    In,
	"match": Match,
	"with":  With,
	"if":    If,
	"then":  Then,
	"else":  Else,
}

// Operator lexemes that have a dedicated token kind
var reservedOperators = map[string]TokenKind{
	"=":  Equals,
	"|":  Pipe,
	"->": RArrow,
	".":  Dot,
	"\\": Backslash,
}

func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("%s%s", t.Kind, t.Span)
	}

	return fmt.Sprintf("%s(%q)%s", t.Kind, t.Value, t.Span)
}

// TokenSet is a small bit set of token kinds. The parser uses it for the
// expected-token hints in diagnostics and for the resynchronization sets that
// are passed down through the recursive descent
type TokenSet uint64

// NewTokenSet builds a set holding the given kinds
func NewTokenSet(kinds ...TokenKind) TokenSet {
	var s TokenSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}

	return s
}

// Has reports whether a kind is a member of the set
func (s TokenSet) Has(k TokenKind) bool {
	return s&(1<<uint(k)) != 0
}

// With returns a copy of the set extended with more kinds
func (s TokenSet) With(kinds ...TokenKind) TokenSet {
	return s | NewTokenSet(kinds...)
}

// Union returns every kind in either set
func (s TokenSet) Union(other TokenSet) TokenSet {
	return s | other
}

// Kinds lists the members of the set in declaration order
func (s TokenSet) Kinds() []TokenKind {
	var kinds []TokenKind

	for k := TokenKind(0); k < numTokenKinds; k++ {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

func (s TokenSet) String() string {
	var names []string
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}

	return "{" + strings.Join(names, ", ") + "}"
}

// Options tune the lexer and layout engine. The zero value is usable
type Options struct {
	// TabWidth is the number of columns a tab advances to (the next multiple
	// of TabWidth). Values below 1 fall back to DefaultTabWidth
	TabWidth int

	// LexicalErrorsAtStart anchors lexical failure diagnostics at [0,0)
	// instead of at the offending literal
	LexicalErrorsAtStart bool
}

// DefaultTabWidth is used when Options.TabWidth is not set
const DefaultTabWidth = 8

func (o Options) tabWidth() int {
	if o.TabWidth < 1 {
		return DefaultTabWidth
	}

	return o.TabWidth
}
