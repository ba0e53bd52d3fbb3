package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/isaacev/Lark/config"
	"github.com/isaacev/Lark/feedback"
	"github.com/isaacev/Lark/frontend"
	"github.com/isaacev/Lark/source"
)

const (
	historyFile = ".lark_history"
	promptMain  = "lark> "
	promptCont  = "  ... "
	replFile    = "<repl>"
)

func runRepl(w io.Writer, cfg config.Config) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	opts := cfg.ParserOptions()

	for {
		src, ok := readByParseProbe(ln, opts)
		if !ok {
			fmt.Fprintln(w)
			return nil
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit", ":q":
			return nil
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		fmt.Fprintln(w, evalSource(src, cfg))
	}
}

// readByParseProbe keeps reading lines while the accumulated input only fails
// because it ended too early. An empty continuation line submits the input as
// it stands
func readByParseProbe(ln *liner.State, opts frontend.Options) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		} else if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}

			b.WriteByte('\n')
		}

		b.WriteString(line)

		src := b.String()
		_, diags := frontend.ParseWithOptions(source.NewFile(replFile, src), opts)
		if !isIncomplete(src, diags) {
			return src, true
		}
	}
}

// isIncomplete reports whether the first diagnostic of a parse was caused by
// the input ending: either end of input itself or a layout marker synthesized
// at the end of the input
func isIncomplete(src string, diags frontend.Diagnostics) bool {
	if len(diags) == 0 {
		return false
	}

	end := source.BytePos(len(strings.TrimRight(src, " \t\r\n")))

	switch err := diags[0].Err.(type) {
	case *frontend.UnexpectedEndOfInput:
		return true
	case *frontend.UnexpectedToken:
		return err.Found.IsLayout() && diags[0].Span.End >= end
	default:
		return false
	}
}

// evalSource parses a complete REPL entry and renders the tree, or the
// diagnostics when there are any
func evalSource(src string, cfg config.Config) string {
	file := source.NewFile(replFile, src)
	expr, diags := frontend.ParseWithOptions(file, cfg.ParserOptions())

	if len(diags) == 0 {
		return frontend.Stringify(expr)
	}

	rendered := make([]string, len(diags))
	for i, d := range diags {
		rendered[i] = feedback.FromDiagnostic(file, d).Make(cfg.Color)
	}

	return strings.Join(rendered, "\n")
}
