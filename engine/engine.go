// Package engine provides the primitive, allocation-free matchers the rule
// layer composes into grammars. An engine either consumes input and succeeds,
// or fails with a compact failure code; it never builds a diagnostic itself.
// Turning a code into a full error is deferred to the caller, so the success
// path pays nothing for error formatting.
package engine

import "github.com/dhamidi/gram/text"

// Code is a compact failure code. Zero means the engine matched.
type Code int

const OK Code = 0

// Matcher matches a prefix of the input at the cursor. On success the cursor
// sits after the consumed characters. On failure the cursor may have been
// partially advanced; use TryMatch when rollback is required.
type Matcher interface {
	Match(c *text.Cursor) Code
}

// Peek reports whether m would match at the cursor, without consuming.
func Peek(m Matcher, c text.Cursor) bool {
	return m.Match(&c) == OK
}

// TryMatch attempts m and commits the consumed characters on success. On
// failure the cursor is rolled back to where it was.
func TryMatch(m Matcher, c *text.Cursor) bool {
	probe := *c
	if m.Match(&probe) != OK {
		return false
	}
	*c = probe
	return true
}
