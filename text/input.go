// Package text provides the input buffer and cursor primitives the parsing
// engine operates on. Inputs are immutable once created; cursors are cheap
// value types that can be saved and restored freely for backtracking.
package text

import "strconv"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return p.File + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Input is an immutable character sequence being parsed. It is safe to share
// one Input between concurrently executing, independent runs.
type Input struct {
	file string
	src  []byte
}

func NewInput(file string, src []byte) *Input {
	return &Input{file: file, src: src}
}

func (in *Input) File() string { return in.file }

func (in *Input) Len() int { return len(in.src) }

func (in *Input) Byte(i int) byte { return in.src[i] }

func (in *Input) Slice(begin, end int) []byte { return in.src[begin:end] }

func (in *Input) Text() string { return string(in.src) }

// PositionAt computes the line/column position of the given offset by
// scanning the buffer. Offsets past the end clamp to the final position.
func (in *Input) PositionAt(off int) Position {
	if off > len(in.src) {
		off = len(in.src)
	}
	line, col := 1, 1
	for i := 0; i < off; i++ {
		if in.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{File: in.file, Offset: off, Line: line, Column: col}
}

// Line returns the text of the 1-based line containing the given offset,
// without its trailing newline.
func (in *Input) Line(off int) string {
	if off > len(in.src) {
		off = len(in.src)
	}
	begin := off
	for begin > 0 && in.src[begin-1] != '\n' {
		begin--
	}
	end := off
	for end < len(in.src) && in.src[end] != '\n' {
		end++
	}
	return string(in.src[begin:end])
}
