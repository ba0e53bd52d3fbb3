package source

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// File represents a chunk of source code to be processed by the front-end. The
// "Contents" field is a raw string representation of the file's contents. The
// "Lines" field is a cached slice of the file's contents split after each '\n'
// so that error messages aren't required to repeatedly split the contents.
type File struct {
	Filename string
	Contents string
	Lines    []string

	// lineStarts[i] is the byte offset of the first byte of line i+1
	lineStarts []BytePos
}

// NewFile builds a File and caches its lines and line offsets
func NewFile(filename, contents string) *File {
	lines := strings.SplitAfter(contents, "\n")
	starts := make([]BytePos, 0, len(lines))

	offset := 0
	for _, line := range lines {
		starts = append(starts, BytePos(offset))
		offset += len(line)
	}

	return &File{
		Filename:   filename,
		Contents:   contents,
		Lines:      lines,
		lineStarts: starts,
	}
}

// Location converts a byte offset into a 1-based line and a 1-based column
// counted in runes. Offsets past the end of the file clamp to the end
func (f *File) Location(pos BytePos) Location {
	if pos < 0 {
		pos = 0
	}

	if int(pos) > len(f.Contents) {
		pos = BytePos(len(f.Contents))
	}

	starts := f.lineStarts
	if starts == nil {
		starts = NewFile(f.Filename, f.Contents).lineStarts
	}

	// index of the last line starting at or before pos
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
	if line < 0 {
		line = 0
	}

	col := utf8.RuneCountInString(f.Contents[starts[line]:pos]) + 1
	return Location{Line: line + 1, Column: col}
}

// Line returns the text of a 1-based line without its trailing newline
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.Lines) {
		return ""
	}

	return strings.TrimRight(f.Lines[n-1], "\r\n")
}

// Slice returns the source text covered by a span
func (f *File) Slice(span Span) string {
	start, end := int(span.Start), int(span.End)

	if start < 0 {
		start = 0
	}

	if end > len(f.Contents) {
		end = len(f.Contents)
	}

	if start > end {
		return ""
	}

	return f.Contents[start:end]
}
