package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpanOrdersBounds(t *testing.T) {
	assert.Equal(t, Span{Start: 3, End: 9}, NewSpan(3, 9))
	assert.Equal(t, Span{Start: 3, End: 9}, NewSpan(9, 3))
	assert.True(t, Point(4).IsEmpty())
	assert.Equal(t, "[3,9)", NewSpan(3, 9).String())
}

func TestSpanHelpers(t *testing.T) {
	s := NewSpan(2, 5)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))
	assert.Equal(t, NewSpan(0, 5), s.Merge(NewSpan(0, 1)))
	assert.Equal(t, NewSpan(2, 12), s.Merge(NewSpan(10, 12)))
}

func TestFileLocation(t *testing.T) {
	f := NewFile("test.lark", "let x = 1\n  héllo\n\nlast")

	tests := []struct {
		Pos  BytePos
		Want Location
	}{
		{0, Location{1, 1}},
		{4, Location{1, 5}},
		{9, Location{1, 10}},
		{10, Location{2, 1}},
		{12, Location{2, 3}},
		// 'é' is two bytes wide but one column
		{15, Location{2, 5}},
		{18, Location{2, 8}},
		{19, Location{3, 1}},
		{20, Location{4, 1}},
		{100, Location{4, 5}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.Want, f.Location(tc.Pos), "offset %d", tc.Pos)
	}
}

func TestFileLineAndSlice(t *testing.T) {
	f := NewFile("test.lark", "first\r\nsecond\n")

	assert.Equal(t, "first", f.Line(1))
	assert.Equal(t, "second", f.Line(2))
	assert.Equal(t, "", f.Line(3))
	assert.Equal(t, "", f.Line(42))
	assert.Equal(t, "sec", f.Slice(NewSpan(7, 10)))
	assert.Equal(t, "", f.Slice(NewSpan(40, 50)))
}
