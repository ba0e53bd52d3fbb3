package frontend

// Visitor has its Visit method invoked for each node encountered by Walk. If
// the result visitor w is not nil, Walk visits each of the children of node
// with the visitor w, followed by a call of w.Visit(nil)
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a tree in depth-first order. Expressions, patterns, let
// bindings, match alternatives and record fields are all visited. Nil
// children (the value of a punned field) are skipped
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *AppExpr:
		Walk(v, n.Func)
		walkExprs(v, n.Args)
	case *InfixExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *PrefixExpr:
		Walk(v, n.Operand)
	case *ProjectionExpr:
		Walk(v, n.Record)
		if n.Missing != nil {
			Walk(v, n.Missing)
		}
	case *TupleExpr:
		walkExprs(v, n.Elements)
	case *ArrayExpr:
		walkExprs(v, n.Elements)
	case *RecordExpr:
		for _, field := range n.Fields {
			Walk(v, field)
		}
	case *ExprField:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *LetExpr:
		Walk(v, n.Binding)
		Walk(v, n.Body)
	case *ValueBinding:
		Walk(v, n.Name)
		walkPatterns(v, n.Args)
		Walk(v, n.Value)
	case *MatchExpr:
		Walk(v, n.Scrutinee)
		for _, alt := range n.Alternatives {
			Walk(v, alt)
		}
	case *Alternative:
		Walk(v, n.Pattern)
		Walk(v, n.Expr)
	case *IfExpr:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *LambdaExpr:
		walkPatterns(v, n.Params)
		Walk(v, n.Body)
	case *BlockExpr:
		walkExprs(v, n.Exprs)
	case *LiteralPattern:
		Walk(v, n.Literal)
	case *ConstructorPattern:
		walkPatterns(v, n.Args)
	case *TuplePattern:
		walkPatterns(v, n.Elements)
	case *RecordPattern:
		for _, field := range n.Fields {
			Walk(v, field)
		}
	case *PatternField:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	}

	v.Visit(nil)
}

func walkExprs(v Visitor, exprs []Expr) {
	for _, expr := range exprs {
		Walk(v, expr)
	}
}

func walkPatterns(v Visitor, patterns []Pattern) {
	for _, pattern := range patterns {
		Walk(v, pattern)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}

	return nil
}

// Inspect traverses a tree in depth-first order, calling f for each node. If
// f returns true the children of the node are inspected too. After the
// children, f is called with nil
func Inspect(node Node, f func(Node) bool) {
	if node == nil {
		return
	}

	Walk(inspector(f), node)
}

// HasErrors reports whether the tree holds any error placeholder
func HasErrors(node Node) bool {
	return len(ErrorNodes(node)) > 0
}

// ErrorNodes lists the error placeholders of a tree in traversal order
func ErrorNodes(node Node) (errs []Node) {
	Inspect(node, func(n Node) bool {
		switch n.(type) {
		case *ErrorExpr, *ErrorPattern:
			errs = append(errs, n)
		}

		return true
	})

	return errs
}
