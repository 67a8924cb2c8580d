package text

import "testing"

func TestCursorAdvance(t *testing.T) {
	in := NewInput("test.txt", []byte("abc"))
	c := in.Cursor()

	begin := c
	if c.Peek() != 'a' {
		t.Errorf("Peek() = %q, want 'a'", c.Peek())
	}
	c = c.Next()
	c = c.Next()
	c = c.Next()

	if !c.AtEnd() {
		t.Error("expected cursor at end after three advances")
	}
	if c.Peek() != 0 {
		t.Errorf("Peek() at end = %q, want 0", c.Peek())
	}
	if next := c.Next(); next != c {
		t.Error("advancing at end should be a no-op")
	}

	lex := Span(begin, c)
	if lex.Len() != 3 {
		t.Errorf("Len() = %d, want 3", lex.Len())
	}
	if lex.String(in) != "abc" {
		t.Errorf("String() = %q, want %q", lex.String(in), "abc")
	}
}

func TestCursorRestrict(t *testing.T) {
	in := NewInput("test.txt", []byte("abcdef"))
	c := in.Cursor().Next() // at 'b'

	r := c.Restrict(3) // view of "bc"
	if r.Peek() != 'b' {
		t.Errorf("Peek() = %q, want 'b'", r.Peek())
	}
	r = r.Next()
	r = r.Next()
	if !r.AtEnd() {
		t.Error("restricted cursor should end at the bound")
	}
	if r.Offset() != 3 {
		t.Errorf("Offset() = %d, want 3", r.Offset())
	}

	// The unrestricted cursor still sees the full input.
	if c.Restrict(1).Offset() != 1 {
		t.Error("restricting before the cursor clamps the bound")
	}
}

func TestPositionAt(t *testing.T) {
	in := NewInput("test.txt", []byte("ab\ncd\ne"))
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 3, 2},
		{99, 3, 2}, // clamped
	}

	for _, tt := range tests {
		pos := in.PositionAt(tt.offset)
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("PositionAt(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
	}
}

func TestLine(t *testing.T) {
	in := NewInput("test.txt", []byte("ab\ncd\ne"))
	if got := in.Line(4); got != "cd" {
		t.Errorf("Line(4) = %q, want %q", got, "cd")
	}
	if got := in.Line(0); got != "ab" {
		t.Errorf("Line(0) = %q, want %q", got, "ab")
	}
	if got := in.Line(6); got != "e" {
		t.Errorf("Line(6) = %q, want %q", got, "e")
	}
}
