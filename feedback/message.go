package feedback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"github.com/isaacev/Lark/frontend"
	"github.com/isaacev/Lark/source"
)

// Message is the interface for everything the front-end can report to a
// source code author
type Message interface {
	Make(withColor bool) string
}

// Selection represents a region of the source code file along with a
// corresponding description that supplies information as to why an error
// occured
type Selection struct {
	Description string
	Span        source.Span
}

// Error classification constants
const (
	SyntaxError  string = "syntax error"
	LexicalError string = "lexical error"
)

// Error messages describe a single diagnostic. Notes are printed below the
// highlighted source line
type Error struct {
	Classification string
	File           *source.File
	What           Selection
	Notes          []string
}

// Make takes an Error and produces a fully rendered message with the option of
// using colors to make elements of the message more clear. The rendered message
// is returned as a single string and can be then output to stdout or some other
// destination
func (e Error) Make(withColor bool) string {
	return makeMessage(e.Classification, e.File, e.What, e.Notes, newPalette(withColor))
}

// FromDiagnostic converts a parser diagnostic into a renderable Error
func FromDiagnostic(file *source.File, d frontend.Diagnostic) Error {
	msg := Error{
		Classification: SyntaxError,
		File:           file,
		What:           Selection{Span: d.Span},
	}

	switch err := d.Err.(type) {
	case *frontend.UnexpectedToken:
		msg.What.Description = "unexpected " + err.Found.Describe()
		msg.Notes = expectedNotes(err.Expected)
	case *frontend.UnexpectedEndOfInput:
		msg.What.Description = "unexpected end of input"
		msg.Notes = expectedNotes(err.Expected)
	case *frontend.LexicalFailure:
		msg.Classification = LexicalError
		msg.What.Description = err.Kind.Describe()
	default:
		msg.What.Description = d.Err.Error()
	}

	return msg
}

func expectedNotes(expected []frontend.TokenKind) []string {
	switch len(expected) {
	case 0:
		return nil
	case 1:
		return []string{"expected " + expected[0].Describe()}
	}

	names := make([]string, len(expected))
	for i, kind := range expected {
		names[i] = kind.Describe()
	}

	return []string{"expected one of " + strings.Join(names, ", ")}
}

type palette struct {
	header func(a ...interface{}) string
	gutter func(a ...interface{}) string
	focus  func(a ...interface{}) string
}

// newPalette builds colors that ignore the package-wide color.NoColor switch
// so concurrent renders with different settings do not interfere
func newPalette(withColor bool) palette {
	header := color.New(color.FgRed, color.Bold)
	gutter := color.New(color.FgBlue)
	focus := color.New(color.FgRed)

	for _, c := range []*color.Color{header, gutter, focus} {
		if withColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return palette{
		header: header.SprintFunc(),
		gutter: gutter.SprintFunc(),
		focus:  focus.SprintFunc(),
	}
}

// makeMessage renders a message of the form:
//
//	error: <classification>
//	 --> <filename>:<line number>:<column number>
//	  |
//	1 | <offending line of source code>
//	  |  ^^^^^^^^^ <message detailing error>
//	  = note: <note>
func makeMessage(classification string, file *source.File, what Selection, notes []string, colors palette) string {
	start := file.Location(what.Span.Start)
	placeValues := len(strconv.Itoa(start.Line))
	margin := mulStr(" ", placeValues)

	var lines []string
	lines = append(lines, colors.header("error: "+classification))

	lines = append(lines, fmt.Sprintf("%s%s %s:%d:%d",
		margin,
		colors.gutter("-->"),
		file.Filename,
		start.Line,
		start.Column))

	lines = append(lines, colors.gutter(margin+" |"))
	lines = append(lines, sourceCodeSelection(file, what, colors, placeValues)...)

	for _, note := range notes {
		lines = append(lines, fmt.Sprintf("%s %s note: %s", margin, colors.gutter("="), note))
	}

	return strings.Join(lines, "\n")
}

// sourceCodeSelection extracts the first line touched by a selection and
// renders it with the selected region underlined. Spans running past the end
// of that line are underlined up to the end of the line
func sourceCodeSelection(file *source.File, sel Selection, colors palette, placeValues int) []string {
	start := file.Location(sel.Span.Start)
	end := file.Location(sel.Span.End)
	srcLine := []rune(file.Line(start.Line))

	focusStart := clamp(start.Column-1, 0, len(srcLine))
	focusEnd := len(srcLine)
	if end.Line == start.Line {
		focusEnd = clamp(end.Column-1, focusStart, len(srcLine))
	}

	prefix := string(srcLine[:focusStart])
	focus := string(srcLine[focusStart:focusEnd])
	suffix := string(srcLine[focusEnd:])

	lineNumFmt := fmt.Sprintf(fmt.Sprintf("%%%dd", placeValues), start.Line)
	emptyMargFmt := mulStr(" ", placeValues)

	lines := []string{fmt.Sprintf("%s %s %s%s%s",
		colors.gutter(lineNumFmt),
		colors.gutter("|"),
		expandTabs(prefix),
		colors.focus(expandTabs(focus)),
		expandTabs(suffix))}

	// Underline width must be at least 1 character wide
	underline := mulStr("^", max(displayWidth(focus), 1))
	leftPad := mulStr(" ", displayWidth(prefix))

	underlined := fmt.Sprintf("%s %s %s%s", emptyMargFmt, colors.gutter("|"), leftPad, colors.focus(underline))
	if sel.Description != "" {
		underlined += " " + colors.focus(sel.Description)
	}

	return append(lines, underlined)
}

const tabDisplay = "    "

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", tabDisplay)
}

// displayWidth is the number of terminal cells a string occupies. East Asian
// wide and fullwidth runes take two cells
func displayWidth(s string) (cells int) {
	for _, r := range s {
		switch {
		case r == '\t':
			cells += len(tabDisplay)
		case isWide(r):
			cells += 2
		default:
			cells++
		}
	}

	return cells
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	default:
		return false
	}
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}

// mulStr repeats a string "n" times
func mulStr(s string, n int) string {
	if n <= 0 {
		return ""
	}

	return strings.Repeat(s, n)
}
