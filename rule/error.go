package rule

import (
	"fmt"

	"github.com/dhamidi/gram/text"
)

// ErrorKind categorizes a diagnosable error. The string tags are stable and
// intended for external tool matching.
type ErrorKind int

const (
	ExpectedLiteral ErrorKind = iota
	ExpectedKeyword
	ExpectedCharClass
	ExpectedToken
	ExpectedEOF
	ReservedIdentifier
	ExhaustedChoice
)

var errorKindTags = map[ErrorKind]string{
	ExpectedLiteral:    "expected_literal",
	ExpectedKeyword:    "expected_keyword",
	ExpectedCharClass:  "expected_char_class",
	ExpectedToken:      "expected_token",
	ExpectedEOF:        "expected_eof",
	ReservedIdentifier: "reserved_identifier",
	ExhaustedChoice:    "exhausted_choice",
}

func (k ErrorKind) Tag() string {
	if tag, ok := errorKindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// ErrorContext records which production an error was reported from. It is
// attached exactly once, at the point of reporting.
type ErrorContext struct {
	Production string
	Input      *text.Input
	Start      int
}

// Error is a diagnosable parse error: a kind tag, an anchor that is either a
// single position (End == Begin) or a range [Begin, End), and a
// kind-specific payload.
type Error struct {
	Kind  ErrorKind
	Begin int
	End   int

	// Payload fields; which are meaningful depends on Kind.
	Literal string // expected_literal, expected_keyword: the expected string
	Index   int    // expected_literal: index of the first mismatched character
	Found   byte   // expected_literal: the mismatched character, 0 at end of input
	Class   string // expected_char_class: stable dotted name, e.g. "ascii.alnum"

	Context ErrorContext
}

func (e *Error) Tag() string { return e.Kind.Tag() }

// IsRange reports whether the anchor covers a span rather than a position.
func (e *Error) IsRange() bool { return e.End > e.Begin }

// Position resolves the error anchor against the input it was reported on.
func (e *Error) Position() text.Position {
	return e.Context.Input.PositionAt(e.Begin)
}

func (e *Error) Message() string {
	switch e.Kind {
	case ExpectedLiteral:
		return fmt.Sprintf("expected %q", e.Literal)
	case ExpectedKeyword:
		return fmt.Sprintf("expected keyword %q", e.Literal)
	case ExpectedCharClass:
		return fmt.Sprintf("expected character class %s", e.Class)
	case ExpectedToken:
		return "expected token"
	case ExpectedEOF:
		return "expected end of input"
	case ReservedIdentifier:
		return "reserved identifier"
	case ExhaustedChoice:
		return "no alternative matched"
	}
	return "parse error"
}

func (e *Error) String() string {
	if e.Context.Input == nil {
		return e.Tag() + ": " + e.Message()
	}
	msg := e.Position().String() + ": " + e.Message()
	if e.Context.Production != "" {
		msg += " (while parsing " + e.Context.Production + ")"
	}
	return msg
}

// Outcome classifies a finished run. Exactly one of the three holds.
type Outcome int

const (
	Success Outcome = iota
	RecoveredError
	FatalError
)

func (o Outcome) IsError() bool { return o != Success }

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case RecoveredError:
		return "RecoveredError"
	case FatalError:
		return "FatalError"
	}
	return "Unknown"
}
