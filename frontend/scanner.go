package frontend

import (
	"unicode/utf8"

	"github.com/isaacev/Lark/source"
)

/**
 * # Handling of Lines, Columns & File terminations
 *
 * The first character in each line is considered to be in column 1. Columns
 * count runes, except for tabs which advance the column to the next multiple
 * of the tab width (plus one). These are the columns the layout engine
 * compares, so a tab and the equivalent run of spaces line up with each other.
 *
 * Unlike a cursor over a fixed-size buffer, the scanner never panics at the
 * end of the document: Peek and Next return the zero rune with the EOF flag
 * set for every read past the last rune.
 */

// Scanner structs hold the state of a scanner instance which consumes source
// code runes one at a time. Since source code documents can be Unicode, the
// scanner must keep track of each rune's byte offset. The scanner also records
// line and column data which it emits along with each rune.
type Scanner struct {
	File     *source.File
	tabWidth int
	nextByte int // initialized to 0
	nextLine int // ...  ...  ...  1
	nextCol  int // ...  ...  ...  1
}

// NewScanner is a basic constructor function for Scanners which populates
// private fields with the appropriate starting values
func NewScanner(file *source.File, tabWidth int) *Scanner {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}

	return &Scanner{
		File:     file,
		tabWidth: tabWidth,
		nextByte: 0,
		nextLine: 1,
		nextCol:  1,
	}
}

// Offset returns the byte offset of the next rune
func (s *Scanner) Offset() source.BytePos {
	return source.BytePos(s.nextByte)
}

// Location returns the line/column of the next rune
func (s *Scanner) Location() source.Location {
	return source.Location{Line: s.nextLine, Column: s.nextCol}
}

// Peek returns the next rune and an end-of-file flag without advancing
func (s *Scanner) Peek() (r rune, EOF bool) {
	if s.nextByte >= len(s.File.Contents) {
		return 0, true
	}

	r, _ = utf8.DecodeRuneInString(s.File.Contents[s.nextByte:])
	return r, false
}

// PeekAt returns the rune n runes after the next one (PeekAt(0) == Peek)
func (s *Scanner) PeekAt(n int) (r rune, EOF bool) {
	offset := s.nextByte

	for ; n >= 0; n-- {
		if offset >= len(s.File.Contents) {
			return 0, true
		}

		var width int
		r, width = utf8.DecodeRuneInString(s.File.Contents[offset:])
		offset += width
	}

	return r, false
}

// Next returns the next rune and an end-of-file flag. A call to Next will
// advance the Scanner permanently
func (s *Scanner) Next() (r rune, EOF bool) {
	if s.nextByte >= len(s.File.Contents) {
		return 0, true
	}

	// Extract the next rune from the document buffer
	r, width := utf8.DecodeRuneInString(s.File.Contents[s.nextByte:])

	// Update `nextLine`, `nextCol`
	switch r {
	case '\n':
		s.nextLine++
		s.nextCol = 1
	case '\t':
		s.nextCol += s.tabWidth - (s.nextCol-1)%s.tabWidth
	default:
		s.nextCol++
	}

	// Update `nextByte` to account for byte width of this rune
	s.nextByte += width

	return r, false
}
