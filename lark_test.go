package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaacev/Lark/config"
	"github.com/isaacev/Lark/frontend"
	"github.com/isaacev/Lark/source"
)

func plainConfig() config.Config {
	cfg := config.Default()
	cfg.Color = false
	return cfg
}

func TestReadSourceFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "main.lark")
	require.NoError(t, os.WriteFile(good, []byte("f 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	var errOut bytes.Buffer
	files := readSourceFiles(&errOut, []string{
		good,
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "missing.lark"),
	})

	require.Len(t, files, 1)
	assert.Equal(t, good, files[0].Filename)
	assert.Equal(t, "f 1", files[0].Contents)
	assert.Contains(t, errOut.String(), "with extension '.txt'")
	assert.Contains(t, errOut.String(), "missing.lark")
}

func TestCheckFile(t *testing.T) {
	var out bytes.Buffer

	ok := source.NewFile("ok.lark", "let x = 1\nx")
	assert.False(t, checkFile(&out, ok, plainConfig(), false))
	assert.Empty(t, out.String())

	assert.False(t, checkFile(&out, ok, plainConfig(), true))
	assert.Equal(t, "# ok.lark\n(let x 1 x)\n", out.String())

	out.Reset()
	bad := source.NewFile("bad.lark", "\n    match with\n    | x -> x\n    ")
	assert.True(t, checkFile(&out, bad, plainConfig(), false))
	assert.Contains(t, out.String(), "# bad.lark\nerror: syntax error\n --> bad.lark:2:11")
	assert.Contains(t, out.String(), "unexpected `with`")
}

func TestCheckFileMaxErrors(t *testing.T) {
	src := "match x with\n| A -> )\n| B -> ]\n| C -> }"
	file := source.NewFile("many.lark", src)

	_, diags := frontend.Parse(file)
	require.Len(t, diags, 3)

	cfg := plainConfig()
	cfg.MaxErrors = 1

	var out bytes.Buffer
	assert.True(t, checkFile(&out, file, cfg, false))
	assert.Equal(t, 1, strings.Count(out.String(), "error: syntax error"))
	assert.Contains(t, out.String(), "... and 2 more\n")

	out.Reset()
	cfg.MaxErrors = 0
	checkFile(&out, file, cfg, false)
	assert.Equal(t, 3, strings.Count(out.String(), "error: syntax error"))
	assert.NotContains(t, out.String(), "more")
}

func TestDumpTokens(t *testing.T) {
	var out bytes.Buffer
	err := dumpTokens(&out, source.NewFile("t.lark", "let x =\n  1\nx"), frontend.Options{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "1:1 "))
	assert.Contains(t, lines[0], "Let")
	assert.Contains(t, lines[3], "OpenBlock")
	assert.Contains(t, lines[8], "EOF")

	out.Reset()
	err = dumpTokens(&out, source.NewFile("t.lark", `x "open`), frontend.Options{})

	var lexErr *frontend.LexicalError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, frontend.UnterminatedStringLiteral, lexErr.Kind)
}

func TestIsIncomplete(t *testing.T) {
	var tests = []struct {
		Input      string
		Incomplete bool
	}{
		{"f x", false},
		{"let x = 1", true},
		{"let x = 1 in", true},
		{"match x with", true},
		{"if a then b", true},
		{"(1, 2", true},
		{"f )", false},
		{"let x = 1\nx", false},
	}

	for _, tc := range tests {
		_, diags := frontend.ParseString(tc.Input)
		assert.Equal(t, tc.Incomplete, isIncomplete(tc.Input, diags), "input %q", tc.Input)
	}
}

func TestEvalSource(t *testing.T) {
	assert.Equal(t, "(+ 1 (* 2 3))", evalSource("1 + 2 * 3", plainConfig()))

	rendered := evalSource("f )", plainConfig())
	assert.Contains(t, rendered, "error: syntax error")
	assert.Contains(t, rendered, "<repl>:1:3")
}
