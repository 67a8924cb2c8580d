package engine

import "github.com/dhamidi/gram/text"

// LiteralMatcher matches an exact string. On failure the code is the
// zero-based index of the first mismatched character plus one, and the cursor
// is left at that character.
type LiteralMatcher struct {
	lit string
}

func Literal(lit string) LiteralMatcher {
	return LiteralMatcher{lit: lit}
}

func (m LiteralMatcher) String() string { return m.lit }

func (m LiteralMatcher) Match(c *text.Cursor) Code {
	for i := 0; i < len(m.lit); i++ {
		if c.AtEnd() || c.Peek() != m.lit[i] {
			return Code(i + 1)
		}
		*c = c.Next()
	}
	return OK
}

// ClassMatcher matches a single character satisfying a predicate. The dotted
// name (e.g. "ascii.alnum") is a stable identifier carried into diagnostics
// for external tool matching.
type ClassMatcher struct {
	name string
	pred func(byte) bool
}

func Class(name string, pred func(byte) bool) ClassMatcher {
	return ClassMatcher{name: name, pred: pred}
}

func (m ClassMatcher) Name() string { return m.name }

func (m ClassMatcher) Match(c *text.Cursor) Code {
	if c.AtEnd() || !m.pred(c.Peek()) {
		return 1
	}
	*c = c.Next()
	return OK
}

// AnyMatcher unconditionally consumes one character; it fails only at the end
// of input.
type AnyMatcher struct{}

var Any = AnyMatcher{}

func (AnyMatcher) Match(c *text.Cursor) Code {
	if c.AtEnd() {
		return 1
	}
	*c = c.Next()
	return OK
}

// WhileMatcher repeats an engine until it fails to consume. It always
// succeeds, possibly consuming nothing.
type WhileMatcher struct {
	body Matcher
}

func While(body Matcher) WhileMatcher {
	return WhileMatcher{body: body}
}

func (m WhileMatcher) Match(c *text.Cursor) Code {
	for {
		before := c.Offset()
		if !TryMatch(m.body, c) || c.Offset() == before {
			return OK
		}
	}
}

// FindMatcher scans forward, consuming, until its condition would match.
// The condition itself is not consumed. Fails if the end of input is reached
// without the condition ever matching.
type FindMatcher struct {
	cond Matcher
}

func Find(cond Matcher) FindMatcher {
	return FindMatcher{cond: cond}
}

func (m FindMatcher) Match(c *text.Cursor) Code {
	for {
		if Peek(m.cond, *c) {
			return OK
		}
		if c.AtEnd() {
			return 1
		}
		*c = c.Next()
	}
}

// SeqMatcher matches a fixed sequence of engines. The failure code is the
// one-based index of the engine that failed.
type SeqMatcher struct {
	parts []Matcher
}

func Seq(parts ...Matcher) SeqMatcher {
	return SeqMatcher{parts: parts}
}

func (m SeqMatcher) Match(c *text.Cursor) Code {
	for i, part := range m.parts {
		if part.Match(c) != OK {
			return Code(i + 1)
		}
	}
	return OK
}
