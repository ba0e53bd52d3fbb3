package frontend

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringify renders a tree as an S-expression. Error placeholders render as
// `<error>` so partial trees from malformed input can be compared in tests
func Stringify(node Node) string {
	if node == nil {
		return "<nil>"
	}

	return stringifyNode(node)
}

func stringifyNode(generic Node) string {
	switch node := generic.(type) {
	case *ErrorExpr, *ErrorPattern:
		return "<error>"
	case *IdentExpr:
		return node.Name
	case *IntegerExpr:
		return strconv.FormatInt(node.Value, 10)
	case *FloatExpr:
		return node.Lexeme
	case *StringExpr:
		return strconv.Quote(node.Value)
	case *CharExpr:
		return strconv.QuoteRune(node.Value)
	case *AppExpr:
		return fmt.Sprintf("(%s %s)",
			stringifyNode(node.Func),
			stringifyExprs(node.Args, " "))
	case *InfixExpr:
		return fmt.Sprintf("(%s %s %s)",
			node.Operator,
			stringifyNode(node.Left),
			stringifyNode(node.Right))
	case *PrefixExpr:
		return fmt.Sprintf("(%s %s)",
			node.Operator,
			stringifyNode(node.Operand))
	case *ProjectionExpr:
		if node.Missing != nil {
			return fmt.Sprintf("(. %s <error>)", stringifyNode(node.Record))
		}

		return fmt.Sprintf("(. %s %s)",
			stringifyNode(node.Record),
			node.Field)
	case *TupleExpr:
		if len(node.Elements) == 0 {
			return "()"
		}

		return fmt.Sprintf("(tuple %s)", stringifyExprs(node.Elements, " "))
	case *ArrayExpr:
		return fmt.Sprintf("[%s]", stringifyExprs(node.Elements, " "))
	case *RecordExpr:
		fields := make([]string, len(node.Fields))
		for i, field := range node.Fields {
			fields[i] = stringifyNode(field)
		}

		return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
	case *ExprField:
		if node.Value == nil {
			return node.Name
		}

		return fmt.Sprintf("%s = %s", node.Name, stringifyNode(node.Value))
	case *LetExpr:
		return fmt.Sprintf("(let %s %s)",
			stringifyNode(node.Binding),
			stringifyNode(node.Body))
	case *ValueBinding:
		if len(node.Args) == 0 {
			return fmt.Sprintf("%s %s",
				stringifyNode(node.Name),
				stringifyNode(node.Value))
		}

		return fmt.Sprintf("(%s %s) %s",
			stringifyNode(node.Name),
			stringifyPatterns(node.Args, " "),
			stringifyNode(node.Value))
	case *MatchExpr:
		match := "(match " + stringifyNode(node.Scrutinee)

		for _, alt := range node.Alternatives {
			match += " " + stringifyNode(alt)
		}

		return match + ")"
	case *Alternative:
		return fmt.Sprintf("(%s -> %s)",
			stringifyNode(node.Pattern),
			stringifyNode(node.Expr))
	case *IfExpr:
		return fmt.Sprintf("(if %s %s %s)",
			stringifyNode(node.Cond),
			stringifyNode(node.Then),
			stringifyNode(node.Else))
	case *LambdaExpr:
		return fmt.Sprintf("(fn (%s) %s)",
			stringifyPatterns(node.Params, " "),
			stringifyNode(node.Body))
	case *BlockExpr:
		return fmt.Sprintf("(block %s)", stringifyExprs(node.Exprs, " "))
	case *IdentPattern:
		return node.Name
	case *WildcardPattern:
		return "_"
	case *LiteralPattern:
		return stringifyNode(node.Literal)
	case *ConstructorPattern:
		if len(node.Args) == 0 {
			return node.Name
		}

		return fmt.Sprintf("(%s %s)", node.Name, stringifyPatterns(node.Args, " "))
	case *TuplePattern:
		if len(node.Elements) == 0 {
			return "()"
		}

		return fmt.Sprintf("(tuple %s)", stringifyPatterns(node.Elements, " "))
	case *RecordPattern:
		fields := make([]string, len(node.Fields))
		for i, field := range node.Fields {
			fields[i] = stringifyNode(field)
		}

		return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
	case *PatternField:
		if node.Value == nil {
			return node.Name
		}

		return fmt.Sprintf("%s = %s", node.Name, stringifyNode(node.Value))
	default:
		return fmt.Sprintf("%T", node)
	}
}

func stringifyExprs(exprs []Expr, sep string) string {
	strs := make([]string, len(exprs))
	for i, expr := range exprs {
		strs[i] = stringifyNode(expr)
	}

	return strings.Join(strs, sep)
}

func stringifyPatterns(patterns []Pattern, sep string) string {
	strs := make([]string, len(patterns))
	for i, pattern := range patterns {
		strs[i] = stringifyNode(pattern)
	}

	return strings.Join(strs, sep)
}
