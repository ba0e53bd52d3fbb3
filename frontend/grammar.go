package frontend

import (
	"unicode"
)

// Grammar holds a collection of helper methods for classifying runes and
// operators based on a given language specification
type Grammar struct {
	OperatorRunes   []rune
	PunctuatorRunes []rune

	// Precedence of the infix operators. Operators missing from the table
	// bind tighter than every listed operator
	Operators         map[string]Precedence
	DefaultPrecedence Precedence
}

// Precedence is the binding power of an infix operator
type Precedence struct {
	Level      int
	RightAssoc bool
}

var larkGrammar = &Grammar{
	OperatorRunes:   []rune(`!#$%&*+-./:<=>?@\^|~`),
	PunctuatorRunes: []rune("()[]{},"),
	Operators: map[string]Precedence{
		"|>": {Level: 1},
		"<|": {Level: 1, RightAssoc: true},
		"||": {Level: 2},
		"&&": {Level: 3},
		"==": {Level: 4},
		"!=": {Level: 4},
		"<":  {Level: 4},
		"<=": {Level: 4},
		">":  {Level: 4},
		">=": {Level: 4},
		"++": {Level: 5, RightAssoc: true},
		"+":  {Level: 6},
		"-":  {Level: 6},
		"*":  {Level: 7},
		"/":  {Level: 7},
		"%":  {Level: 7},
	},
	DefaultPrecedence: Precedence{Level: 8},
}

func (g *Grammar) isWhitespace(r rune) (matches bool) {
	return unicode.IsSpace(r)
}

func (g *Grammar) isIdentStart(r rune) (matches bool) {
	return r == '_' || unicode.IsLetter(r)
}

func (g *Grammar) isIdentPart(r rune) (matches bool) {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (g *Grammar) isNumeric(r rune) (matches bool) {
	return (r >= '0' && r <= '9')
}

// isOperatorRune returns true if a given rune is included in the Grammar's list
// of valid operator runes
func (g *Grammar) isOperatorRune(r rune) (matches bool) {
	for i, l := 0, len(g.OperatorRunes); i < l; i++ {
		if g.OperatorRunes[i] == r {
			return true
		}
	}

	return false
}

// isPunctuatorRune returns true if a given rune is included in the Grammar's list
// of valid punctuation runes
func (g *Grammar) isPunctuatorRune(r rune) (matches bool) {
	for i, l := 0, len(g.PunctuatorRunes); i < l; i++ {
		if g.PunctuatorRunes[i] == r {
			return true
		}
	}

	return false
}

// precedence returns the binding power of an infix operator
func (g *Grammar) precedence(op string) Precedence {
	if prec, ok := g.Operators[op]; ok {
		return prec
	}

	return g.DefaultPrecedence
}

// isConstructor returns true for names that start with an upper case letter,
// which in patterns name a variant instead of binding a variable
func (g *Grammar) isConstructor(name string) (matches bool) {
	for _, r := range name {
		return unicode.IsUpper(r)
	}

	return false
}

// Tokens that can start an expression
var exprStart = NewTokenSet(
	Identifier, IntLiteral, FloatLiteral, StringLiteral, CharLiteral,
	LParen, LBracket, LBrace, OpenBlock,
	Let, Match, If, Backslash, Operator,
)

// Tokens that can start an argument in a function application
var argumentStart = NewTokenSet(
	Identifier, IntLiteral, FloatLiteral, StringLiteral, CharLiteral,
	LParen, LBracket, LBrace,
)

// Tokens that can start a pattern
var patternStart = NewTokenSet(
	Identifier, Underscore, IntLiteral, FloatLiteral, StringLiteral, CharLiteral,
	LParen, LBrace,
)
