package source

import (
	"fmt"
)

// BytePos is an offset measured in bytes from the start of a source document
type BytePos int

// Span holds a half-open range [Start, End) of byte offsets in a source code
// document. Every token, syntax tree node and diagnostic carries one
type Span struct {
	Start BytePos
	End   BytePos
}

// NewSpan builds a Span from two offsets, swapping them if they were given in
// the wrong order so that Start <= End always holds
func NewSpan(start, end BytePos) Span {
	if end < start {
		start, end = end, start
	}

	return Span{Start: start, End: end}
}

// Point returns the zero-width span sitting at a single offset
func Point(pos BytePos) Span {
	return Span{Start: pos, End: pos}
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return int(s.End - s.Start)
}

// IsEmpty reports whether the span covers zero bytes
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether an offset falls inside the span
func (s Span) Contains(pos BytePos) bool {
	return pos >= s.Start && pos < s.End
}

// Merge returns the smallest span covering both s and other
func (s Span) Merge(other Span) Span {
	merged := s

	if other.Start < merged.Start {
		merged.Start = other.Start
	}

	if other.End > merged.End {
		merged.End = other.End
	}

	return merged
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Location holds the 1-based line/column data for a single rune in a source
// code document. It is only used when rendering messages for humans
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
