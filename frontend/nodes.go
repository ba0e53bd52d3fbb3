package frontend

import (
	"github.com/isaacev/Lark/source"
)

// Node is a generic node in the abstract syntax tree (AST)
type Node interface {
	Span() source.Span
}

// Expr represents a Node that produces a value
type Expr interface {
	Node
	exprNode()
}

// Pattern represents a Node that destructures a value
type Pattern interface {
	Node
	patternNode()
}

// ErrorExpr stands in for any expression that could not be parsed
type ErrorExpr struct {
	Where source.Span
}

// IdentExpr represents a variable or constructor reference
type IdentExpr struct {
	Name  string
	Where source.Span
}

// IntegerExpr represents an integer literal
type IntegerExpr struct {
	Lexeme string
	Value  int64
	Where  source.Span
}

// FloatExpr represents a floating point literal
type FloatExpr struct {
	Lexeme string
	Value  float64
	Where  source.Span
}

// StringExpr represents a string literal with its escapes decoded
type StringExpr struct {
	Value string
	Where source.Span
}

// CharExpr represents a character literal
type CharExpr struct {
	Value rune
	Where source.Span
}

// AppExpr represents the application of a function to one or more arguments
type AppExpr struct {
	Func Expr
	Args []Expr
}

// InfixExpr represents a binary operator applied to two operands
type InfixExpr struct {
	Operator   string
	OperatorAt source.Span
	Left       Expr
	Right      Expr
}

// PrefixExpr represents unary negation
type PrefixExpr struct {
	Operator   string
	OperatorAt source.Span
	Operand    Expr
}

// ProjectionExpr represents a field access like `r.x`. When the field name is
// missing, Missing holds the placeholder standing in for it and Field is empty
type ProjectionExpr struct {
	Record  Expr
	Field   string
	FieldAt source.Span
	Missing *ErrorExpr
}

// TupleExpr represents a parenthesized, comma separated list of expressions.
// The unit value `()` is a tuple with no elements
type TupleExpr struct {
	Elements []Expr
	Where    source.Span
}

// ArrayExpr represents an array literal
type ArrayExpr struct {
	Elements []Expr
	Where    source.Span
}

// ExprField is one `name = value` pair in a record literal. Value is nil when
// the field is punned (`{ x }` is short for `{ x = x }`)
type ExprField struct {
	Name   string
	NameAt source.Span
	Value  Expr
}

// RecordExpr represents a record literal
type RecordExpr struct {
	Fields []*ExprField
	Where  source.Span
}

// ValueBinding is the `pattern args = value` part of a let expression. Args is
// non-empty when the binding defines a function
type ValueBinding struct {
	Name  Pattern
	Args  []Pattern
	Value Expr
}

// LetExpr represents a binding scoped over a body expression
type LetExpr struct {
	LetAt   source.Span
	Binding *ValueBinding
	Body    Expr
}

// Alternative is one `| pattern -> expr` arm of a match expression
type Alternative struct {
	Pattern Pattern
	Expr    Expr
}

// MatchExpr represents pattern matching over a scrutinee
type MatchExpr struct {
	MatchAt      source.Span
	Scrutinee    Expr
	Alternatives []*Alternative
}

// IfExpr represents a conditional expression
type IfExpr struct {
	IfAt source.Span
	Cond Expr
	Then Expr
	Else Expr
}

// LambdaExpr represents an anonymous function
type LambdaExpr struct {
	LambdaAt source.Span
	Params   []Pattern
	Body     Expr
}

// BlockExpr represents a layout block holding more than one expression. The
// value of the block is the value of its last expression
type BlockExpr struct {
	Exprs []Expr
}

// ErrorPattern stands in for any pattern that could not be parsed
type ErrorPattern struct {
	Where source.Span
}

// IdentPattern binds the matched value to a name
type IdentPattern struct {
	Name  string
	Where source.Span
}

// WildcardPattern matches anything without binding it
type WildcardPattern struct {
	Where source.Span
}

// LiteralPattern matches a literal value
type LiteralPattern struct {
	Literal Expr
}

// ConstructorPattern matches a variant like `Some x`
type ConstructorPattern struct {
	Name   string
	NameAt source.Span
	Args   []Pattern
}

// TuplePattern matches a tuple element by element
type TuplePattern struct {
	Elements []Pattern
	Where    source.Span
}

// PatternField is one field of a record pattern. Value is nil when the field
// is punned, and is an ErrorPattern (never nil) when a value was started but
// could not be parsed
type PatternField struct {
	Name   string
	NameAt source.Span
	Value  Pattern
}

// RecordPattern matches the named fields of a record
type RecordPattern struct {
	Fields []*PatternField
	Where  source.Span
}

func (e *ErrorExpr) Span() source.Span   { return e.Where }
func (e *IdentExpr) Span() source.Span   { return e.Where }
func (e *IntegerExpr) Span() source.Span { return e.Where }
func (e *FloatExpr) Span() source.Span   { return e.Where }
func (e *StringExpr) Span() source.Span  { return e.Where }
func (e *CharExpr) Span() source.Span    { return e.Where }
func (e *TupleExpr) Span() source.Span   { return e.Where }
func (e *ArrayExpr) Span() source.Span   { return e.Where }
func (e *RecordExpr) Span() source.Span  { return e.Where }

// Span returns the source range covered by this node
func (e *AppExpr) Span() source.Span {
	span := e.Func.Span()
	if n := len(e.Args); n > 0 {
		span = span.Merge(e.Args[n-1].Span())
	}

	return span
}

// Span returns the source range covered by this node
func (e *InfixExpr) Span() source.Span {
	return e.Left.Span().Merge(e.Right.Span())
}

// Span returns the source range covered by this node
func (e *PrefixExpr) Span() source.Span {
	return e.OperatorAt.Merge(e.Operand.Span())
}

// Span returns the source range covered by this node
func (e *ProjectionExpr) Span() source.Span {
	if e.Missing != nil {
		return e.Record.Span().Merge(e.Missing.Where)
	}

	return e.Record.Span().Merge(e.FieldAt)
}

// Span returns the source range covered by this node
func (e *LetExpr) Span() source.Span {
	return e.LetAt.Merge(e.Body.Span())
}

// Span returns the source range covered by this node
func (e *MatchExpr) Span() source.Span {
	span := e.MatchAt.Merge(e.Scrutinee.Span())
	if n := len(e.Alternatives); n > 0 {
		span = span.Merge(e.Alternatives[n-1].Span())
	}

	return span
}

// Span returns the source range covered by this node
func (e *IfExpr) Span() source.Span {
	return e.IfAt.Merge(e.Else.Span())
}

// Span returns the source range covered by this node
func (e *LambdaExpr) Span() source.Span {
	return e.LambdaAt.Merge(e.Body.Span())
}

// Span returns the source range covered by this node
func (e *BlockExpr) Span() source.Span {
	return e.Exprs[0].Span().Merge(e.Exprs[len(e.Exprs)-1].Span())
}

// Span returns the source range covered by this node
func (b *ValueBinding) Span() source.Span {
	return b.Name.Span().Merge(b.Value.Span())
}

// Span returns the source range covered by this node
func (a *Alternative) Span() source.Span {
	return a.Pattern.Span().Merge(a.Expr.Span())
}

// Span returns the source range covered by this node
func (f *ExprField) Span() source.Span {
	if f.Value == nil {
		return f.NameAt
	}

	return f.NameAt.Merge(f.Value.Span())
}

func (p *ErrorPattern) Span() source.Span    { return p.Where }
func (p *IdentPattern) Span() source.Span    { return p.Where }
func (p *WildcardPattern) Span() source.Span { return p.Where }
func (p *LiteralPattern) Span() source.Span  { return p.Literal.Span() }
func (p *TuplePattern) Span() source.Span    { return p.Where }
func (p *RecordPattern) Span() source.Span   { return p.Where }

// Span returns the source range covered by this node
func (p *ConstructorPattern) Span() source.Span {
	span := p.NameAt
	if n := len(p.Args); n > 0 {
		span = span.Merge(p.Args[n-1].Span())
	}

	return span
}

// Span returns the source range covered by this node
func (f *PatternField) Span() source.Span {
	if f.Value == nil {
		return f.NameAt
	}

	return f.NameAt.Merge(f.Value.Span())
}

func (*ErrorExpr) exprNode()      {}
func (*IdentExpr) exprNode()      {}
func (*IntegerExpr) exprNode()    {}
func (*FloatExpr) exprNode()      {}
func (*StringExpr) exprNode()     {}
func (*CharExpr) exprNode()       {}
func (*AppExpr) exprNode()        {}
func (*InfixExpr) exprNode()      {}
func (*PrefixExpr) exprNode()     {}
func (*ProjectionExpr) exprNode() {}
func (*TupleExpr) exprNode()      {}
func (*ArrayExpr) exprNode()      {}
func (*RecordExpr) exprNode()     {}
func (*LetExpr) exprNode()        {}
func (*MatchExpr) exprNode()      {}
func (*IfExpr) exprNode()         {}
func (*LambdaExpr) exprNode()     {}
func (*BlockExpr) exprNode()      {}

func (*ErrorPattern) patternNode()       {}
func (*IdentPattern) patternNode()       {}
func (*WildcardPattern) patternNode()    {}
func (*LiteralPattern) patternNode()     {}
func (*ConstructorPattern) patternNode() {}
func (*TuplePattern) patternNode()       {}
func (*RecordPattern) patternNode()      {}
