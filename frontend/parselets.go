package frontend

import (
	"strconv"
	"unicode/utf8"
)

func letParselet(p *Parser, follow TokenSet) Expr {
	expr, _ := p.parseLet(follow, false)
	return expr
}

// matchParselet parses `match scrutinee with` followed by a block of
// alternatives. Each alternative resynchronizes on the next `|` so one broken
// alternative does not take its siblings down with it
func matchParselet(p *Parser, follow TokenSet) Expr {
	matchTok := p.advance()

	expr := &MatchExpr{
		MatchAt:   matchTok.Span,
		Scrutinee: p.parseExpr(follow.With(With)),
	}

	if !p.at(With) {
		p.unexpected(NewTokenSet(With))
		p.skipUntil(follow.With(With))
	}

	if !p.eat(With) || !p.eat(OpenBlock) {
		return expr
	}

	altFollow := NewTokenSet(Pipe, CloseBlock, EOF)

	if !p.at(Pipe) {
		p.unexpected(NewTokenSet(Pipe))
		p.skipUntil(altFollow)
	}

	for p.eat(Pipe) {
		alt := &Alternative{
			Pattern: p.parsePattern(altFollow.With(RArrow)),
		}

		alt.Expr = p.parseClause(RArrow, altFollow)
		expr.Alternatives = append(expr.Alternatives, alt)

		if !altFollow.Has(p.tok.Kind) {
			p.unexpected(altFollow)
			p.skipUntil(altFollow)
		}
	}

	p.expectCloser(CloseBlock)
	return expr
}

func ifParselet(p *Parser, follow TokenSet) Expr {
	ifTok := p.advance()

	expr := &IfExpr{
		IfAt: ifTok.Span,
		Cond: p.parseExpr(follow.With(Then)),
	}

	expr.Then = p.parseClause(Then, follow.With(Else))
	expr.Else = p.parseClause(Else, follow)
	return expr
}

func lambdaParselet(p *Parser, follow TokenSet) Expr {
	backslash := p.advance()

	expr := &LambdaExpr{
		LambdaAt: backslash.Span,
	}

	for patternStart.Has(p.tok.Kind) {
		expr.Params = append(expr.Params, p.parseAtomPattern(follow.With(RArrow)))
	}

	if len(expr.Params) == 0 {
		p.unexpected(patternStart)
	}

	expr.Body = p.parseClause(RArrow, follow)
	return expr
}

// negateParselet handles `-` in prefix position. Every other operator is
// rejected by the atom parselets
func negateParselet(p *Parser, follow TokenSet) Expr {
	if p.tok.Value != "-" {
		return p.parseApp(follow)
	}

	op := p.advance()

	return &PrefixExpr{
		Operator:   op.Value,
		OperatorAt: op.Span,
		Operand:    p.parsePrefix(follow),
	}
}

func identParselet(p *Parser, follow TokenSet) Expr {
	tok := p.advance()

	return &IdentExpr{
		Name:  tok.Value,
		Where: tok.Span,
	}
}

func literalParselet(p *Parser, follow TokenSet) Expr {
	tok := p.advance()

	switch tok.Kind {
	case IntLiteral:
		// the lexer has already checked that the literal fits
		value, _ := strconv.ParseInt(tok.Value, 10, 64)

		return &IntegerExpr{
			Lexeme: tok.Value,
			Value:  value,
			Where:  tok.Span,
		}
	case FloatLiteral:
		value, _ := strconv.ParseFloat(tok.Value, 64)

		return &FloatExpr{
			Lexeme: tok.Value,
			Value:  value,
			Where:  tok.Span,
		}
	case CharLiteral:
		value, _ := utf8.DecodeRuneInString(tok.Value)

		return &CharExpr{
			Value: value,
			Where: tok.Span,
		}
	default:
		return &StringExpr{
			Value: tok.Value,
			Where: tok.Span,
		}
	}
}

// parenParselet handles the unit value `()`, grouping `(e)` and tuples
// `(a, b)`. A trailing comma makes a one element tuple
func parenParselet(p *Parser, follow TokenSet) Expr {
	lParen := p.advance()

	if p.at(RParen) {
		rParen := p.advance()
		return &TupleExpr{Where: lParen.Span.Merge(rParen.Span)}
	}

	elements, trailingComma := parseExprList(p, RParen)
	rParen := p.expectCloser(RParen)

	if len(elements) == 1 && !trailingComma {
		return elements[0]
	}

	return &TupleExpr{
		Elements: elements,
		Where:    lParen.Span.Merge(rParen),
	}
}

func arrayParselet(p *Parser, follow TokenSet) Expr {
	lBracket := p.advance()

	var elements []Expr
	if !p.at(RBracket) {
		elements, _ = parseExprList(p, RBracket)
	}

	rBracket := p.expectCloser(RBracket)

	return &ArrayExpr{
		Elements: elements,
		Where:    lBracket.Span.Merge(rBracket),
	}
}

// parseExprList collects comma separated expressions up to a closing
// delimiter, which is left for the caller to consume
func parseExprList(p *Parser, closer TokenKind) (elements []Expr, trailingComma bool) {
	follow := NewTokenSet(Comma, closer, CloseBlock, EOF)

	for {
		elements = append(elements, p.parseExpr(follow))

		if !p.eat(Comma) {
			return elements, false
		}

		if p.at(closer) {
			return elements, true
		}
	}
}

// recordParselet handles record literals `{ x = 1, y }`. A field without a
// value is punned
func recordParselet(p *Parser, follow TokenSet) Expr {
	lBrace := p.advance()
	fieldFollow := NewTokenSet(Comma, RBrace, CloseBlock, EOF)

	expr := &RecordExpr{}

	for !p.at(RBrace) {
		if !p.at(Identifier) {
			p.unexpected(NewTokenSet(Identifier, RBrace))
			p.skipUntil(fieldFollow)

			if !p.eat(Comma) {
				break
			}

			continue
		}

		name := p.advance()
		field := &ExprField{
			Name:   name.Value,
			NameAt: name.Span,
		}

		if p.eat(Equals) {
			field.Value = p.parseExpr(fieldFollow)
		}

		expr.Fields = append(expr.Fields, field)

		if !p.eat(Comma) {
			break
		}
	}

	rBrace := p.expectCloser(RBrace)
	expr.Where = lBrace.Span.Merge(rBrace)
	return expr
}

// blockParselet parses the items between an OpenBlock and its CloseBlock
func blockParselet(p *Parser, follow TokenSet) Expr {
	p.advance()
	body := p.parseBlock(blockFollow)
	p.expectCloser(CloseBlock)
	return body
}

func identPatternParselet(p *Parser, follow TokenSet) Pattern {
	tok := p.advance()

	if larkGrammar.isConstructor(tok.Value) {
		return &ConstructorPattern{
			Name:   tok.Value,
			NameAt: tok.Span,
		}
	}

	return &IdentPattern{
		Name:  tok.Value,
		Where: tok.Span,
	}
}

func wildcardPatternParselet(p *Parser, follow TokenSet) Pattern {
	tok := p.advance()
	return &WildcardPattern{Where: tok.Span}
}

func literalPatternParselet(p *Parser, follow TokenSet) Pattern {
	return &LiteralPattern{Literal: literalParselet(p, follow)}
}

// tuplePatternParselet mirrors parenParselet for patterns
func tuplePatternParselet(p *Parser, follow TokenSet) Pattern {
	lParen := p.advance()

	if p.at(RParen) {
		rParen := p.advance()
		return &TuplePattern{Where: lParen.Span.Merge(rParen.Span)}
	}

	elementFollow := NewTokenSet(Comma, RParen, CloseBlock, EOF)

	var elements []Pattern
	trailingComma := false

	for {
		elements = append(elements, p.parsePattern(elementFollow))

		if !p.eat(Comma) {
			break
		}

		if p.at(RParen) {
			trailingComma = true
			break
		}
	}

	rParen := p.expectCloser(RParen)

	if len(elements) == 1 && !trailingComma {
		return elements[0]
	}

	return &TuplePattern{
		Elements: elements,
		Where:    lParen.Span.Merge(rParen),
	}
}

// recordPatternParselet handles `{ x, y = pattern }`. A field whose value
// fails to parse keeps its name and gets an ErrorPattern value
func recordPatternParselet(p *Parser, follow TokenSet) Pattern {
	lBrace := p.advance()
	fieldFollow := NewTokenSet(Comma, RBrace, CloseBlock, EOF)

	pattern := &RecordPattern{}

	for !p.at(RBrace) {
		if !p.at(Identifier) {
			p.unexpected(NewTokenSet(Identifier, RBrace))
			p.skipUntil(fieldFollow)

			if !p.eat(Comma) {
				break
			}

			continue
		}

		name := p.advance()
		field := &PatternField{
			Name:   name.Value,
			NameAt: name.Span,
		}

		if p.eat(Equals) {
			field.Value = p.parsePattern(fieldFollow)
		}

		pattern.Fields = append(pattern.Fields, field)

		if !p.eat(Comma) {
			break
		}
	}

	rBrace := p.expectCloser(RBrace)
	pattern.Where = lBrace.Span.Merge(rBrace)
	return pattern
}
