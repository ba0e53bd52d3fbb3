package frontend

import (
	"errors"

	"github.com/isaacev/Lark/logging"
	"github.com/isaacev/Lark/source"
)

// Parse takes a file and returns an abstract-syntax-tree and every diagnostic
// generated during the parsing process. The tree is nil only when nothing
// could be recovered: the input was empty or the lexer failed
func Parse(file *source.File) (Expr, Diagnostics) {
	return ParseWithOptions(file, Options{})
}

// ParseString parses a string of source code
func ParseString(src string) (Expr, Diagnostics) {
	return Parse(source.NewFile("<input>", src))
}

// ParseWithOptions is Parse with explicit lexer and layout options
func ParseWithOptions(file *source.File, opts Options) (Expr, Diagnostics) {
	parser := NewParser(file, opts)
	expr, diags := parser.Parse()

	logging.Logger().V(1).Info("parsed",
		"file", file.Filename,
		"tokens", parser.consumed,
		"diagnostics", len(diags))

	return expr, diags
}

type prefixParselet func(*Parser, TokenSet) Expr
type patternParselet func(*Parser, TokenSet) Pattern

// Parser instances pull layout-adjusted tokens one at a time and hold tables
// of the parselets that handle each token kind
type Parser struct {
	File   *source.File
	tokens TokenSource
	tok    Token
	diags  Diagnostics

	// Set when a diagnostic is recorded, cleared when a token is consumed by
	// a successful match. No diagnostic is recorded while it is set
	recovering bool
	lexErr     *LexicalError
	consumed   int

	prefixParselets  map[TokenKind]prefixParselet
	atomParselets    map[TokenKind]prefixParselet
	patternParselets map[TokenKind]patternParselet
}

// NewParser is a Parser factory function that populates the Parser's parselet
// tables with the appropriate token kinds and parselet functions
func NewParser(file *source.File, opts Options) *Parser {
	p := &Parser{
		File:             file,
		tokens:           NewLayout(NewLexer(file, opts)),
		prefixParselets:  make(map[TokenKind]prefixParselet),
		atomParselets:    make(map[TokenKind]prefixParselet),
		patternParselets: make(map[TokenKind]patternParselet),
	}

	p.addPrefixParselet(Let, letParselet)
	p.addPrefixParselet(Match, matchParselet)
	p.addPrefixParselet(If, ifParselet)
	p.addPrefixParselet(Backslash, lambdaParselet)
	p.addPrefixParselet(Operator, negateParselet)

	p.addAtomParselet(Identifier, identParselet)
	p.addAtomParselet(IntLiteral, literalParselet)
	p.addAtomParselet(FloatLiteral, literalParselet)
	p.addAtomParselet(StringLiteral, literalParselet)
	p.addAtomParselet(CharLiteral, literalParselet)
	p.addAtomParselet(LParen, parenParselet)
	p.addAtomParselet(LBracket, arrayParselet)
	p.addAtomParselet(LBrace, recordParselet)
	p.addAtomParselet(OpenBlock, blockParselet)

	p.addPatternParselet(Identifier, identPatternParselet)
	p.addPatternParselet(Underscore, wildcardPatternParselet)
	p.addPatternParselet(IntLiteral, literalPatternParselet)
	p.addPatternParselet(FloatLiteral, literalPatternParselet)
	p.addPatternParselet(StringLiteral, literalPatternParselet)
	p.addPatternParselet(CharLiteral, literalPatternParselet)
	p.addPatternParselet(LParen, tuplePatternParselet)
	p.addPatternParselet(LBrace, recordPatternParselet)

	return p
}

func (p *Parser) addPrefixParselet(kind TokenKind, parselet prefixParselet) {
	p.prefixParselets[kind] = parselet
}

func (p *Parser) addAtomParselet(kind TokenKind, parselet prefixParselet) {
	p.atomParselets[kind] = parselet
}

func (p *Parser) addPatternParselet(kind TokenKind, parselet patternParselet) {
	p.patternParselets[kind] = parselet
}

// Parse produces an AST from the parselet tables and the token stream
func (p *Parser) Parse() (Expr, Diagnostics) {
	p.bump()

	var expr Expr
	if p.at(EOF) {
		p.unexpected(0)
	} else {
		expr = p.parseBlock(NewTokenSet(EOF))
	}

	// A lexical failure replaces whatever the parser made of the tokens that
	// came before it
	if p.lexErr != nil {
		var diags Diagnostics
		diags.Add(p.lexErr.Span, &LexicalFailure{Kind: p.lexErr.Kind})
		return nil, diags
	}

	return expr, p.diags
}

// bump moves to the next token without ending recovery mode
func (p *Parser) bump() {
	tok, err := p.tokens.Next()

	var lexErr *LexicalError
	if err != nil && p.lexErr == nil && errors.As(err, &lexErr) {
		p.lexErr = lexErr
	}

	if tok.Kind != EOF {
		p.consumed++
	}

	p.tok = tok
}

// advance consumes the current token as part of a successful match and
// returns it
func (p *Parser) advance() Token {
	tok := p.tok
	p.recovering = false
	p.bump()
	return tok
}

func (p *Parser) at(kind TokenKind) bool {
	return p.tok.Kind == kind
}

// eat consumes the current token if it has the given kind
func (p *Parser) eat(kind TokenKind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}

	return false
}

// expectCloser consumes a closing token, reporting its absence without
// skipping anything. The returned span is the closer's, or the span of
// whatever token stood in its place
func (p *Parser) expectCloser(kind TokenKind) source.Span {
	span := p.tok.Span

	if !p.eat(kind) {
		p.unexpected(NewTokenSet(kind))
	}

	return span
}

// unexpected records a diagnostic for the current token unless the parser is
// already recovering from an earlier one
func (p *Parser) unexpected(expected TokenSet) {
	if p.recovering {
		return
	}

	p.recovering = true

	if p.at(EOF) {
		p.diags.Add(p.tok.Span, &UnexpectedEndOfInput{Expected: expected.Kinds()})
	} else {
		p.diags.Add(p.tok.Span, &UnexpectedToken{Found: p.tok.Kind, Expected: expected.Kinds()})
	}
}

// skipUntil discards tokens until one in the follow set is found. EOF is
// never skipped
func (p *Parser) skipUntil(follow TokenSet) {
	for !p.at(EOF) && !follow.Has(p.tok.Kind) {
		p.bump()
	}
}

// blockFollow is where every layout block resynchronizes. The layout engine
// closes blocks before any delimiter that encloses them so nothing outside
// the block needs to be considered
var blockFollow = NewTokenSet(CloseBlock, EOF)

// parseBlock parses the items of a block separated by Semi tokens. A `let`
// item without `in` scopes over the rest of the block
func (p *Parser) parseBlock(follow TokenSet) Expr {
	follow = follow.With(EOF)

	var exprs []Expr

	for {
		item, rest := p.parseItem(follow)
		exprs = append(exprs, item)

		if rest {
			break
		}

		if p.eat(Semi) {
			continue
		}

		if follow.Has(p.tok.Kind) {
			break
		}

		p.unexpected(follow.With(Semi))
		p.skipUntil(follow.With(Semi))

		if !p.eat(Semi) {
			break
		}
	}

	if len(exprs) == 1 {
		return exprs[0]
	}

	return &BlockExpr{Exprs: exprs}
}

// parseItem parses one item of a block and reports whether it consumed the
// rest of the block
func (p *Parser) parseItem(follow TokenSet) (Expr, bool) {
	if p.at(Let) {
		return p.parseLet(follow, true)
	}

	return p.parseExpr(follow.With(Semi)), false
}

// parseLet parses `let binding in body`. Inside a block the body may instead
// follow a Semi, in which case it is the rest of the block
func (p *Parser) parseLet(follow TokenSet, inBlock bool) (Expr, bool) {
	letTok := p.advance()

	continuation := NewTokenSet(In)
	if inBlock {
		continuation = continuation.With(Semi)
	}

	expr := &LetExpr{
		LetAt:   letTok.Span,
		Binding: p.parseBinding(follow.Union(continuation)),
	}

	if !continuation.Has(p.tok.Kind) {
		p.unexpected(continuation)
		p.skipUntil(follow.Union(continuation))
	}

	switch {
	case p.eat(In):
		if inBlock {
			expr.Body = p.parseExpr(follow.With(Semi))
		} else {
			expr.Body = p.parseExpr(follow)
		}
	case inBlock && p.eat(Semi):
		expr.Body = p.parseBlock(follow)
		return expr, true
	default:
		expr.Body = &ErrorExpr{Where: p.tok.Span}
	}

	return expr, false
}

// parseBinding parses `pattern args = value`
func (p *Parser) parseBinding(follow TokenSet) *ValueBinding {
	binding := &ValueBinding{
		Name: p.parsePattern(follow.With(Equals)),
	}

	for patternStart.Has(p.tok.Kind) {
		binding.Args = append(binding.Args, p.parseAtomPattern(follow.With(Equals)))
	}

	binding.Value = p.parseClause(Equals, follow)
	return binding
}

// parseClause parses the block introduced by a keyword like `then` or `->`.
// When the keyword is missing the parser skips ahead looking for it and falls
// back to an error placeholder
func (p *Parser) parseClause(keyword TokenKind, follow TokenSet) Expr {
	if !p.at(keyword) {
		p.unexpected(NewTokenSet(keyword))
		p.skipUntil(follow.With(keyword))
	}

	if !p.eat(keyword) {
		return &ErrorExpr{Where: p.tok.Span}
	}

	return p.parseBlockExpr(follow)
}

// parseBlockExpr parses a layout block, or a plain expression where the
// layout engine did not open one
func (p *Parser) parseBlockExpr(follow TokenSet) Expr {
	if !p.at(OpenBlock) {
		return p.parseExpr(follow)
	}

	return blockParselet(p, follow)
}

// parseExpr returns the next expression including any infix operators
func (p *Parser) parseExpr(follow TokenSet) Expr {
	return p.parseInfix(0, follow)
}

// parseInfix returns a node representing the next expression so long as the
// operators joining it bind tighter than the "minLevel" parameter
func (p *Parser) parseInfix(minLevel int, follow TokenSet) Expr {
	left := p.parsePrefix(follow.With(Operator))

	for p.at(Operator) {
		prec := larkGrammar.precedence(p.tok.Value)
		if prec.Level <= minLevel {
			break
		}

		op := p.advance()

		next := prec.Level
		if prec.RightAssoc {
			next--
		}

		left = &InfixExpr{
			Operator:   op.Value,
			OperatorAt: op.Span,
			Left:       left,
			Right:      p.parseInfix(next, follow),
		}
	}

	return left
}

// parsePrefix dispatches on keywords and unary operators, falling back to
// function application
func (p *Parser) parsePrefix(follow TokenSet) Expr {
	if parselet, ok := p.prefixParselets[p.tok.Kind]; ok {
		return parselet(p, follow)
	}

	return p.parseApp(follow)
}

// parseApp parses a function followed by any number of arguments
func (p *Parser) parseApp(follow TokenSet) Expr {
	fn := p.parsePostfix(follow)
	if _, failed := fn.(*ErrorExpr); failed {
		return fn
	}

	var args []Expr
	for argumentStart.Has(p.tok.Kind) {
		args = append(args, p.parsePostfix(follow))
	}

	if len(args) == 0 {
		return fn
	}

	return &AppExpr{Func: fn, Args: args}
}

// parsePostfix parses an atom followed by any field projections
func (p *Parser) parsePostfix(follow TokenSet) Expr {
	expr := p.parseAtom(follow)

	for p.at(Dot) {
		p.advance()

		if !p.at(Identifier) {
			p.unexpected(NewTokenSet(Identifier))
			return &ProjectionExpr{
				Record:  expr,
				Missing: &ErrorExpr{Where: p.tok.Span},
			}
		}

		field := p.advance()
		expr = &ProjectionExpr{
			Record:  expr,
			Field:   field.Value,
			FieldAt: field.Span,
		}
	}

	return expr
}

// parseAtom parses the smallest self-contained expressions. Anything else is
// reported and replaced with an error placeholder
func (p *Parser) parseAtom(follow TokenSet) Expr {
	if parselet, ok := p.atomParselets[p.tok.Kind]; ok {
		return parselet(p, follow)
	}

	p.unexpected(exprStart)
	where := p.tok.Span
	p.skipUntil(follow)
	return &ErrorExpr{Where: where}
}

// parsePattern parses a constructor applied to argument patterns, or a
// single atomic pattern
func (p *Parser) parsePattern(follow TokenSet) Pattern {
	if !p.at(Identifier) || !larkGrammar.isConstructor(p.tok.Value) {
		return p.parseAtomPattern(follow)
	}

	name := p.advance()
	pattern := &ConstructorPattern{
		Name:   name.Value,
		NameAt: name.Span,
	}

	for patternStart.Has(p.tok.Kind) {
		pattern.Args = append(pattern.Args, p.parseAtomPattern(follow))
	}

	return pattern
}

// parseAtomPattern parses a pattern that needs no parentheses to be used as
// an argument
func (p *Parser) parseAtomPattern(follow TokenSet) Pattern {
	if parselet, ok := p.patternParselets[p.tok.Kind]; ok {
		return parselet(p, follow)
	}

	p.unexpected(patternStart)
	where := p.tok.Span
	p.skipUntil(follow)
	return &ErrorPattern{Where: where}
}
