package text

// Cursor is an immutable forward position over an Input. Cursors are plain
// values: saving one before a speculative match and assigning it back is all
// that backtracking costs. Two cursors over the same Input compare equal
// exactly when they designate the same position and bound.
type Cursor struct {
	in     *Input
	offset int
	limit  int
}

// Cursor returns a cursor at the start of the input.
func (in *Input) Cursor() Cursor {
	return Cursor{in: in, offset: 0, limit: len(in.src)}
}

// CursorAt returns a cursor at the given offset.
func (in *Input) CursorAt(off int) Cursor {
	return Cursor{in: in, offset: off, limit: len(in.src)}
}

func (c Cursor) Input() *Input { return c.in }

func (c Cursor) Offset() int { return c.offset }

func (c Cursor) AtEnd() bool { return c.offset >= c.limit }

// Peek dereferences the cursor. At the end of input it returns 0.
func (c Cursor) Peek() byte {
	if c.offset >= c.limit {
		return 0
	}
	return c.in.src[c.offset]
}

// Next advances by one character. Advancing at the end is a no-op.
func (c Cursor) Next() Cursor {
	if c.offset < c.limit {
		c.offset++
	}
	return c
}

// Restrict bounds the cursor to [c.Offset(), end). The restricted view is
// what reserved-identifier probing runs against: a rule counts as matching
// the restricted span only if it consumes all of it.
func (c Cursor) Restrict(end int) Cursor {
	if end < c.offset {
		end = c.offset
	}
	c.limit = end
	return c
}

// Lexeme is a half-open span [Begin, End) over an input. It may be empty.
type Lexeme struct {
	Begin int
	End   int
}

// Span builds the lexeme between two cursors over the same input.
func Span(begin, end Cursor) Lexeme {
	return Lexeme{Begin: begin.offset, End: end.offset}
}

func (l Lexeme) Empty() bool { return l.Begin == l.End }

func (l Lexeme) Len() int { return l.End - l.Begin }

func (l Lexeme) Bytes(in *Input) []byte { return in.Slice(l.Begin, l.End) }

func (l Lexeme) String(in *Input) string { return string(in.Slice(l.Begin, l.End)) }
