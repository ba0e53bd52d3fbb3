package frontend

import (
	"github.com/emirpasic/gods/v2/stacks/arraystack"

	"github.com/isaacev/Lark/source"
)

/**
 * # The off-side rule
 *
 * The layout engine sits between the lexer and the parser and turns
 * indentation into explicit OpenBlock, Semi and CloseBlock tokens. It is a
 * stack machine: every entry on the stack remembers the column its construct
 * started at and each token either pushes at most one entry or pops entries
 * off, so the engine does a bounded amount of work per token no matter how
 * broken the indentation is.
 *
 * Three sorts of entries live on the stack:
 *   - blocks, which emit OpenBlock when pushed and CloseBlock when popped
 *   - contexts (`let`, `if`), which remember where a construct started so
 *     that `in` and `else` know what they close, but never emit markers
 *   - delimiters, which suspend the off-side rule until they are closed
 */

type layoutKind int

const (
	blockTop layoutKind = iota
	blockLet
	blockArrow
	blockThen
	blockElse
	blockAlts
	contextLet
	contextIf
	delimParen
	delimBracket
	delimBrace
)

func (k layoutKind) isBlock() bool {
	return k >= blockLet && k <= blockAlts
}

func (k layoutKind) isDelim() bool {
	return k >= delimParen
}

type layoutEntry struct {
	kind layoutKind
	col  int

	// set on a let context once its `=` has been seen
	bound bool
}

var delimOpeners = map[TokenKind]layoutKind{
	LParen:   delimParen,
	LBracket: delimBracket,
	LBrace:   delimBrace,
}

var delimClosers = map[TokenKind]layoutKind{
	RParen:   delimParen,
	RBracket: delimBracket,
	RBrace:   delimBrace,
}

// Tokens that continue the previous line's item when they start a line at
// the block's column
var continuationTokens = NewTokenSet(
	Then, Else, In, With, RArrow, Equals, Comma, Dot, Pipe, Operator,
	RParen, RBracket, RBrace,
)

// Layout wraps a TokenSource and inserts the layout markers implied by the
// indentation of the source
type Layout struct {
	source TokenSource
	stack  *arraystack.Stack[layoutEntry]
	queue  []Token

	pending       layoutKind
	hasPending    bool
	pendingIndent int

	started    bool
	done       bool
	eof        Token
	lastSpan   source.Span
	lastLine   int
	lineIndent int
}

// NewLayout creates a layout engine pulling tokens from the given source
func NewLayout(tokens TokenSource) *Layout {
	return &Layout{
		source: tokens,
		stack:  arraystack.New[layoutEntry](),
	}
}

// Next returns the next layout-adjusted token. Lexical errors are passed
// through unchanged, after which the layout only produces EOF tokens
func (l *Layout) Next() (Token, error) {
	for len(l.queue) == 0 {
		if l.done {
			return l.eof, nil
		}

		if err := l.fill(); err != nil {
			return l.eof, err
		}
	}

	tok := l.queue[0]
	l.queue = l.queue[1:]
	return tok, nil
}

// fill pulls one token from the source and queues it along with any markers
// that come before it
func (l *Layout) fill() error {
	tok, err := l.source.Next()
	if err != nil {
		l.done = true
		l.eof = Token{Kind: EOF, Span: tok.Span, Loc: tok.Loc}
		return err
	}

	if tok.Kind == EOF {
		l.finish(tok)
		return nil
	}

	newLine := l.started && tok.Loc.Line != l.lastLine

	if !l.started {
		l.started = true
		l.stack.Push(layoutEntry{kind: blockTop, col: tok.Loc.Column})
		l.lineIndent = tok.Loc.Column
	} else if newLine {
		l.lineIndent = tok.Loc.Column
	}

	opened := false
	if l.hasPending {
		opened = l.openPending(tok, newLine)
	}

	if newLine && !opened {
		l.lineStart(tok)
	}

	l.closeExplicit(tok)
	l.queue = append(l.queue, tok)
	l.afterToken(tok)

	l.lastSpan = tok.Span
	l.lastLine = tok.Loc.Line
	return nil
}

func (l *Layout) marker(kind TokenKind, at Token) {
	l.queue = append(l.queue, Token{
		Kind: kind,
		Span: source.Point(at.Span.Start),
		Loc:  at.Loc,
	})
}

func (l *Layout) top() layoutEntry {
	entry, _ := l.stack.Peek()
	return entry
}

// openPending decides where the block introduced by the previous token
// starts. It reports whether a block was pushed for tok, in which case tok
// skips the usual line start comparison
func (l *Layout) openPending(tok Token, newLine bool) bool {
	kind := l.pending
	l.hasPending = false

	if kind == blockAlts && tok.Kind == Pipe {
		col := tok.Loc.Column
		if !newLine {
			col = l.pendingIndent
		}

		l.stack.Push(layoutEntry{kind: kind, col: col})
		l.marker(OpenBlock, tok)
		return true
	}

	if top := l.top(); !newLine || top.kind.isDelim() || tok.Loc.Column > top.col {
		l.stack.Push(layoutEntry{kind: kind, col: tok.Loc.Column})
		l.marker(OpenBlock, tok)
		return true
	}

	// The token is not indented past the enclosing construct so the block
	// is empty
	l.marker(OpenBlock, tok)
	l.marker(CloseBlock, tok)
	return false
}

// lineStart compares the first token of a line with the stack, popping every
// entry the token is dedented past
func (l *Layout) lineStart(tok Token) {
	col := tok.Loc.Column

	for {
		top := l.top()

		switch top.kind {
		case delimParen, delimBracket, delimBrace:
			return
		case blockTop:
			if col <= top.col && !continuationTokens.Has(tok.Kind) {
				l.marker(Semi, tok)
			}

			return
		case contextLet:
			if col > top.col || (col == top.col && tok.Kind == In) {
				return
			}

			l.stack.Pop()
		case contextIf:
			if col > top.col || (col == top.col && (tok.Kind == Then || tok.Kind == Else)) {
				return
			}

			l.stack.Pop()
		case blockAlts:
			if col > top.col || (col == top.col && tok.Kind == Pipe) {
				return
			}

			l.stack.Pop()
			l.marker(CloseBlock, tok)
		default:
			if col > top.col {
				return
			}

			if col == top.col {
				if !continuationTokens.Has(tok.Kind) {
					l.marker(Semi, tok)
				}

				return
			}

			l.stack.Pop()
			l.marker(CloseBlock, tok)
		}
	}
}

// closeExplicit handles the tokens that close blocks regardless of their
// indentation
func (l *Layout) closeExplicit(tok Token) {
	switch tok.Kind {
	case In:
		l.closeTo(tok, true, func(k layoutKind) bool { return k == contextLet })
	case Else:
		l.closeTo(tok, true, func(k layoutKind) bool { return k == contextIf })
	case Pipe:
		l.closeTo(tok, false, func(k layoutKind) bool { return k == blockAlts })
	case Comma:
		l.closeTo(tok, false, layoutKind.isDelim)
	case RParen, RBracket, RBrace:
		want := delimClosers[tok.Kind]
		l.closeTo(tok, false, func(k layoutKind) bool { return k == want })
	}
}

// closeTo pops every entry above the nearest entry matching the predicate,
// and that entry too when inclusive is set. The search never looks past a
// delimiter. When nothing matches the stack is left alone
func (l *Layout) closeTo(tok Token, inclusive bool, matches func(layoutKind) bool) {
	depth := -1

	for i, entry := range l.stack.Values() {
		if matches(entry.kind) {
			depth = i
			break
		}

		if entry.kind.isDelim() || entry.kind == blockTop {
			return
		}
	}

	if depth < 0 {
		return
	}

	if inclusive {
		depth++
	}

	for ; depth > 0; depth-- {
		if entry, _ := l.stack.Pop(); entry.kind.isBlock() {
			l.marker(CloseBlock, tok)
		}
	}
}

// afterToken records what the token opens
func (l *Layout) afterToken(tok Token) {
	switch tok.Kind {
	case Let:
		l.stack.Push(layoutEntry{kind: contextLet, col: tok.Loc.Column})
	case If:
		l.stack.Push(layoutEntry{kind: contextIf, col: tok.Loc.Column})
	case Equals:
		if top := l.top(); top.kind == contextLet && !top.bound {
			l.stack.Pop()
			top.bound = true
			l.stack.Push(top)
			l.setPending(blockLet)
		}
	case RArrow:
		l.setPending(blockArrow)
	case With:
		l.setPending(blockAlts)
		l.pendingIndent = l.lineIndent
	case Then:
		l.setPending(blockThen)
	case Else:
		l.setPending(blockElse)
	case LParen, LBracket, LBrace:
		l.stack.Push(layoutEntry{kind: delimOpeners[tok.Kind], col: tok.Loc.Column})
	case RParen, RBracket, RBrace:
		if top := l.top(); top.kind == delimClosers[tok.Kind] {
			l.stack.Pop()
		}
	}
}

func (l *Layout) setPending(kind layoutKind) {
	l.pending = kind
	l.hasPending = true
}

// finish closes every outstanding block. The markers point at the last real
// token, or at a trailing comment, so that diagnostics raised against them
// point at real text
func (l *Layout) finish(eof Token) {
	span := l.lastSpan
	if !eof.Span.IsEmpty() || !l.started {
		span = eof.Span
	}

	end := func(kind TokenKind) {
		l.queue = append(l.queue, Token{Kind: kind, Span: span, Loc: eof.Loc})
	}

	if l.hasPending {
		l.hasPending = false
		end(OpenBlock)
		end(CloseBlock)
	}

	for !l.stack.Empty() {
		if entry, _ := l.stack.Pop(); entry.kind.isBlock() {
			end(CloseBlock)
		}
	}

	l.done = true
	l.eof = eof
	l.queue = append(l.queue, eof)
}
