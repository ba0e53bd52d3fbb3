package frontend

import (
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaacev/Lark/source"
)

func unexpectedToken(start, end source.BytePos, found TokenKind) Diagnostic {
	return Diagnostic{
		Span: source.NewSpan(start, end),
		Err:  &UnexpectedToken{Found: found},
	}
}

func TestParseValidPrograms(t *testing.T) {
	var tests = []struct {
		Name  string
		Input string
		Tree  string
	}{
		{
			Name:  "precedence",
			Input: "1 + 2 * 3",
			Tree:  "(+ 1 (* 2 3))",
		},
		{
			Name:  "left-associative",
			Input: "1 - 2 - 3",
			Tree:  "(- (- 1 2) 3)",
		},
		{
			Name:  "right-associative",
			Input: "a ++ b ++ c",
			Tree:  "(++ a (++ b c))",
		},
		{
			Name:  "pipe-left",
			Input: "f <| g <| x",
			Tree:  "(<| f (<| g x))",
		},
		{
			Name:  "application-and-projection",
			Input: "f x y.z",
			Tree:  "(f x (. y z))",
		},
		{
			Name:  "negation",
			Input: "-f x",
			Tree:  "(- (f x))",
		},
		{
			Name:  "literals",
			Input: `(1, "a", 'c', 1.5e3)`,
			Tree:  `(tuple 1 "a" 'c' 1.5e3)`,
		},
		{
			Name:  "unit",
			Input: "()",
			Tree:  "()",
		},
		{
			Name:  "grouping",
			Input: "(1 + 2) * 3",
			Tree:  "(* (+ 1 2) 3)",
		},
		{
			Name:  "arrays",
			Input: "[[], [1, 2]]",
			Tree:  "[[] [1 2]]",
		},
		{
			Name:  "record",
			Input: "{ x = 1, y }",
			Tree:  "{x = 1, y}",
		},
		{
			Name:  "let-in",
			Input: "let f x y = x + y in f 1 2",
			Tree:  "(let (f x y) (+ x y) (f 1 2))",
		},
		{
			Name:  "lambda",
			Input: `\x y -> x`,
			Tree:  "(fn (x y) x)",
		},
		{
			Name:  "if",
			Input: "if a then b else c",
			Tree:  "(if a b c)",
		},
		{
			Name:  "if-blocks",
			Input: "if a then\n    b\nelse\n    c",
			Tree:  "(if a b c)",
		},
		{
			Name:  "match-constructors",
			Input: "match m with\n| Some x -> x\n| None -> 0",
			Tree:  "(match m ((Some x) -> x) (None -> 0))",
		},
		{
			Name:  "match-patterns",
			Input: "match p with | (a, _) -> a | { x, y = 1 } -> x",
			Tree:  "(match p ((tuple a _) -> a) ({x, y = 1} -> x))",
		},
		{
			Name:  "let-scopes-over-block",
			Input: "let x = 1\nlet y = 2\nx + y",
			Tree:  "(let x 1 (let y 2 (+ x y)))",
		},
		{
			Name:  "block",
			Input: "f 1\ng 2",
			Tree:  "(block (f 1) (g 2))",
		},
		{
			Name:  "let-block-value",
			Input: "let x =\n    f 1\n    g 2\nx",
			Tree:  "(let x (block (f 1) (g 2)) x)",
		},
		{
			Name:  "let-destructures",
			Input: "let { x = a } = r in a",
			Tree:  "(let {x = a} r a)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			expr, diags := ParseString(tc.Input)
			require.Empty(t, diags)
			require.NotNil(t, expr)
			assert.Equal(t, tc.Tree, Stringify(expr))
			assert.False(t, HasErrors(expr))
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	expr, diags := ParseString("")
	assert.Nil(t, expr)
	assert.Equal(t, Diagnostics{{
		Span: source.Point(0),
		Err:  &UnexpectedEndOfInput{},
	}}, diags.WithoutExpected())
}

func TestParseMissingMatchExpr(t *testing.T) {
	expr, diags := ParseString("\n    match with\n    | x -> x\n    ")

	require.NotNil(t, expr)
	assert.Equal(t, "(match <error> (x -> x))", Stringify(expr))

	match, ok := expr.(*MatchExpr)
	require.True(t, ok)
	assert.IsType(t, &ErrorExpr{}, match.Scrutinee)
	require.Len(t, match.Alternatives, 1)
	assert.Equal(t, &IdentPattern{Name: "x", Where: source.NewSpan(22, 23)}, match.Alternatives[0].Pattern)

	assert.Equal(t, Diagnostics{unexpectedToken(11, 15, With)}, diags.WithoutExpected())
}

func TestParseWrongIndentExpression(t *testing.T) {
	expr, diags := ParseString("\nlet y =\n    let x = 1\n    x\n   2\ny\n")

	assert.Equal(t, "(let y (let x 1 x) y)", Stringify(expr))
	assert.Equal(t, Diagnostics{unexpectedToken(32, 33, IntLiteral)}, diags.WithoutExpected())
}

func TestParseUnclosedString(t *testing.T) {
	expr, diags := ParseString("\n\"abc\n")

	assert.Nil(t, expr)
	assert.Equal(t, Diagnostics{{
		Span: source.NewSpan(1, 5),
		Err:  &LexicalFailure{Kind: UnterminatedStringLiteral},
	}}, diags)
}

func TestParseTokenizerError(t *testing.T) {
	var tests = []struct {
		Name  string
		Input string
		Span  source.Span
	}{
		{
			Name:  "before-more-tokens",
			Input: "\n12345678901234567890 test\n",
			Span:  source.NewSpan(1, 21),
		},
		{
			Name:  "at-eof",
			Input: "\n12345678901234567890\n",
			Span:  source.NewSpan(1, 21),
		},
		{
			Name:  "after-valid-tokens",
			Input: "let x = 1\nlet y = 12345678901234567890\nx",
			Span:  source.NewSpan(18, 38),
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			file := source.NewFile("test.lark", tc.Input)

			expr, diags := Parse(file)
			assert.Nil(t, expr)
			assert.Equal(t, Diagnostics{{
				Span: tc.Span,
				Err:  &LexicalFailure{Kind: NonParseableInt},
			}}, diags)

			expr, diags = ParseWithOptions(file, Options{LexicalErrorsAtStart: true})
			assert.Nil(t, expr)
			assert.Equal(t, Diagnostics{{
				Span: source.Point(0),
				Err:  &LexicalFailure{Kind: NonParseableInt},
			}}, diags)
		})
	}
}

func TestParseNoInfiniteLoopFromDefaultBlock(t *testing.T) {
	_, diags := ParseString("\nlet x = 1\n\n    x,\n    y = 1\n}\n")
	assert.True(t, diags.HasErrors())
}

func TestParseMissingPattern(t *testing.T) {
	expr, diags := ParseString("\n    match 1 with\n    | -> x\n    ")

	assert.Equal(t, "(match 1 (<error> -> x))", Stringify(expr))
	assert.Equal(t, Diagnostics{unexpectedToken(24, 26, RArrow)}, diags.WithoutExpected())
}

func TestParseIncompleteAlternative(t *testing.T) {
	expr, diags := ParseString("\n    match 1 with\n    | //\n    ")

	assert.Equal(t, "(match 1 (<error> -> <error>))", Stringify(expr))
	assert.Equal(t, Diagnostics{unexpectedToken(24, 26, CloseBlock)}, diags.WithoutExpected())
}

func TestParseIncompleteAlternativeBeforeCompleteAlternative(t *testing.T) {
	expr, diags := ParseString("\n    match 1 with\n    | //\n    | x -> x\n    ")

	assert.Equal(t, "(match 1 (<error> -> <error>) (x -> x))", Stringify(expr))

	// Reported at the second `|` itself rather than at the zero-width end of
	// the comment line ([24,24)). Layout markers here never sit at comment
	// ends, so the offending token's span is kept.
	assert.Equal(t, Diagnostics{unexpectedToken(31, 32, Pipe)}, diags.WithoutExpected())
}

func TestParseIncompleteAlternativeWithPartialPattern(t *testing.T) {
	expr, diags := ParseString("\n    match 1 with\n    | { x = }\n    ")

	assert.Equal(t, "(match 1 ({x = <error>} -> <error>))", Stringify(expr))

	match, ok := expr.(*MatchExpr)
	require.True(t, ok)
	require.Len(t, match.Alternatives, 1)

	record, ok := match.Alternatives[0].Pattern.(*RecordPattern)
	require.True(t, ok)
	require.Len(t, record.Fields, 1)
	assert.Equal(t, "x", record.Fields[0].Name)
	assert.IsType(t, &ErrorPattern{}, record.Fields[0].Value)
	assert.IsType(t, &ErrorExpr{}, match.Alternatives[0].Expr)

	// both diagnostics point at the closing brace
	assert.Equal(t, Diagnostics{
		unexpectedToken(30, 31, RBrace),
		unexpectedToken(30, 31, CloseBlock),
	}, diags.WithoutExpected())
}

func TestParseUnexpectedEndOfInput(t *testing.T) {
	expr, diags := ParseString("let x = 1 in")

	require.NotNil(t, expr)
	assert.Equal(t, "(let x 1 <error>)", Stringify(expr))
	require.Len(t, diags, 1)

	eoi, ok := diags[0].Err.(*UnexpectedEndOfInput)
	require.True(t, ok)
	assert.NotEmpty(t, eoi.Expected)
	assert.Equal(t, source.Point(12), diags[0].Span)
}

func TestParseProjectionKeepsRecord(t *testing.T) {
	expr, diags := ParseString("r.x.")

	assert.Equal(t, "(. (. r x) <error>)", Stringify(expr))
	assert.Equal(t, Diagnostics{{
		Span: source.Point(4),
		Err:  &UnexpectedEndOfInput{},
	}}, diags.WithoutExpected())

	proj, ok := expr.(*ProjectionExpr)
	require.True(t, ok)
	require.NotNil(t, proj.Missing)
	assert.Empty(t, proj.Field)
	assert.Equal(t, "(. r x)", Stringify(proj.Record))
	assert.Equal(t, source.NewSpan(0, 4), proj.Span())
	assert.Equal(t, []Node{proj.Missing}, ErrorNodes(expr))
}

func TestParseRecovery(t *testing.T) {
	var tests = []struct {
		Name  string
		Input string
		Tree  string
		Count int
	}{
		{
			Name:  "stray-closer",
			Input: "f x )",
			Tree:  "(f x)",
			Count: 1,
		},
		{
			Name:  "missing-operand",
			Input: "1 +",
			Tree:  "(+ 1 <error>)",
			Count: 1,
		},
		{
			Name:  "missing-then",
			Input: "if a b else c",
			Tree:  "(if (a b) <error> c)",
			Count: 1,
		},
		{
			Name:  "missing-lambda-params",
			Input: `\ -> x`,
			Tree:  "(fn () x)",
			Count: 1,
		},
		{
			Name:  "bad-tuple-element",
			Input: "(1, in, 3)",
			Tree:  "(tuple 1 <error> 3)",
			Count: 1,
		},
		{
			Name:  "bad-tokens-skipped-to-next-item",
			Input: "f 1\n) 2\ng 3",
			Tree:  "(block (f 1) (g 3))",
			Count: 1,
		},
		{
			Name:  "missing-projection-field",
			Input: "a.",
			Tree:  "(. a <error>)",
			Count: 1,
		},
		{
			Name:  "missing-projection-field-in-argument",
			Input: "f x.",
			Tree:  "(f (. x <error>))",
			Count: 1,
		},
		{
			Name:  "unknown-character",
			Input: "x § y",
			Tree:  "x",
			Count: 1,
		},
		{
			Name:  "broken-alternatives-are-independent",
			Input: "match x with\n| A -> )\n| B -> 2",
			Tree:  "(match x (A -> <error>) (B -> 2))",
			Count: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			expr, diags := ParseString(tc.Input)
			assert.Equal(t, tc.Tree, Stringify(expr))
			assert.Len(t, diags, tc.Count)
		})
	}
}

func TestParseDiagnosticsAreStable(t *testing.T) {
	src := "match with\n| { x = } ->\n| -> 1\nlet = in"

	first, firstDiags := ParseString(src)
	second, secondDiags := ParseString(src)

	assert.Equal(t, Stringify(first), Stringify(second))
	assert.Equal(t, firstDiags, secondDiags)
}

func TestParseConcurrently(t *testing.T) {
	src := "let f x =\n    match x with\n    | { y = } -> y\n    | _ -> 0\nf 1"
	want, wantDiags := ParseString(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			got, gotDiags := ParseString(src)
			assert.Equal(t, Stringify(want), Stringify(got))
			assert.Equal(t, wantDiags, gotDiags)
		}()
	}

	wg.Wait()
}

func TestParseTotality(t *testing.T) {
	inputs := []string{
		")", "(((", "]]]", "}", "let", "let x", "let x =", "let x = 1 in",
		"match", "match x", "match x with", `\`, `\ ->`, "if", "if a then",
		"if a then b else", "{", "{ x = ", "{ = }", "| | |", "in in in", "else",
		",,,", "....", "a.", "a.1", "§§", "1 +", "-", "- -", "( 1 , , )",
		"let (a, b = 1", "match x with | -> | -> |", "x\n  y\n z\n    w\n)",
		"\t\tlet\n x =\n\t\t\t\t y", "let x = ( \n in", "let x = 1\n  in\n in",
		"match x with\n| A ->\n| B ->\n", "[1, 2", "(\\x ->", "{ x = { y = { z",
	}

	// a deterministic stream of token soup on top of the hand written cases
	fragments := []string{
		"let", "in", "match", "with", "if", "then", "else", "x", "Some", "_",
		"1", "2.5", `"s"`, "'c'", "=", "|", "->", `\`, ".", ",", "+", "-",
		"(", ")", "[", "]", "{", "}", "\n", "\n  ", "\n    ", "\n\t", " ",
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		var b strings.Builder
		for j := rng.Intn(40); j >= 0; j-- {
			b.WriteString(fragments[rng.Intn(len(fragments))])
			b.WriteByte(' ')
		}

		inputs = append(inputs, b.String())
	}

	for _, input := range inputs {
		expr, diags := ParseString(input)

		if len(diags) == 0 {
			assert.NotNil(t, expr, "no tree and no diagnostics for %q", input)
		}

		if expr != nil && HasErrors(expr) {
			assert.NotEmpty(t, diags, "error nodes without diagnostics for %q", input)
		}

		for _, d := range diags {
			assert.LessOrEqual(t, d.Span.Start, d.Span.End)
			assert.LessOrEqual(t, int(d.Span.End), len(input))
		}
	}
}
