package frontend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaacev/Lark/source"
)

func TestSyntaxErrorMessages(t *testing.T) {
	var tests = []struct {
		Name string
		Err  SyntaxError
		Msg  string
	}{
		{
			Name: "unexpected-token",
			Err:  &UnexpectedToken{Found: RBrace},
			Msg:  "unexpected `}`",
		},
		{
			Name: "unexpected-token-one-expected",
			Err:  &UnexpectedToken{Found: IntLiteral, Expected: []TokenKind{With}},
			Msg:  "unexpected integer literal, expected `with`",
		},
		{
			Name: "unexpected-token-many-expected",
			Err:  &UnexpectedToken{Found: Comma, Expected: []TokenKind{Identifier, RBrace}},
			Msg:  "unexpected `,`, expected one of identifier, `}`",
		},
		{
			Name: "end-of-input",
			Err:  &UnexpectedEndOfInput{Expected: []TokenKind{In}},
			Msg:  "unexpected end of input, expected `in`",
		},
		{
			Name: "lexical-failure",
			Err:  &LexicalFailure{Kind: UnterminatedStringLiteral},
			Msg:  "unterminated string literal",
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Msg, tc.Err.Error())
		})
	}
}

func TestDiagnostics(t *testing.T) {
	var diags Diagnostics
	assert.False(t, diags.HasErrors())
	assert.NoError(t, diags.Err())
	assert.Nil(t, diags.WithoutExpected())

	diags.Add(source.NewSpan(3, 4), &UnexpectedToken{Found: Pipe, Expected: []TokenKind{RArrow}})
	diags.Add(source.Point(9), &UnexpectedEndOfInput{Expected: []TokenKind{RBrace}})

	assert.True(t, diags.HasErrors())
	assert.Equal(t, 2, diags.Len())
	require.Error(t, diags.Err())
	assert.Equal(t,
		"[3,4): unexpected `|`, expected `->`\n[9,9): unexpected end of input, expected `}`",
		diags.Err().Error())

	stripped := diags.WithoutExpected()
	assert.Equal(t, &UnexpectedToken{Found: Pipe}, stripped[0].Err)
	assert.Equal(t, &UnexpectedEndOfInput{}, stripped[1].Err)
	assert.Equal(t, []TokenKind{RArrow}, diags[0].Err.(*UnexpectedToken).Expected,
		"WithoutExpected must not modify the receiver")
}

func TestDiagnosticsUnwrap(t *testing.T) {
	_, diags := ParseString("let x = 1 in")
	err := diags.Err()
	require.Error(t, err)

	var eoi *UnexpectedEndOfInput
	assert.True(t, errors.As(err, &eoi))

	var diag Diagnostic
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, source.Point(12), diag.Span)

	var lexical *LexicalFailure
	assert.False(t, errors.As(err, &lexical))
}

func TestTokenizeErrorKindStrings(t *testing.T) {
	assert.Equal(t, "EmptyCharLiteral", EmptyCharLiteral.String())
	assert.Equal(t, "empty char literal", EmptyCharLiteral.Describe())
	assert.Equal(t, "TokenizeErrorKind(42)", TokenizeErrorKind(42).String())

	err := &LexicalError{Kind: NonParseableInt, Span: source.NewSpan(1, 21)}
	assert.Equal(t, "integer literal is out of range at [1,21)", err.Error())
}
