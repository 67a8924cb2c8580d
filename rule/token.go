package rule

import (
	"github.com/dhamidi/gram/engine"
	"github.com/dhamidi/gram/text"
)

// tokenError translates a compact engine failure code into a diagnosable
// error. This runs only when a rule has decided to report, keeping the
// success path free of diagnostic construction.
func tokenError(ctx *Context, m engine.Matcher, code engine.Code, begin, at int) *Error {
	switch m := m.(type) {
	case engine.LiteralMatcher:
		idx := int(code) - 1
		var found byte
		if begin+idx < ctx.Input.Len() {
			found = ctx.Input.Byte(begin + idx)
		}
		return &Error{
			Kind:    ExpectedLiteral,
			Begin:   begin,
			End:     begin,
			Literal: m.String(),
			Index:   idx,
			Found:   found,
		}
	case engine.ClassMatcher:
		return &Error{Kind: ExpectedCharClass, Begin: at, End: at, Class: m.Name()}
	default:
		return &Error{Kind: ExpectedToken, Begin: begin, End: begin}
	}
}

type tokenRule struct {
	kind TokenKind
	eng  engine.Matcher
}

// Token wraps an engine into a rule. It emits a token event on success and
// produces no value.
func Token(kind TokenKind, m engine.Matcher) Rule {
	return tokenRule{kind: kind, eng: m}
}

// Lit matches an exact string as a token.
func Lit(kind TokenKind, lit string) Rule {
	return Token(kind, engine.Literal(lit))
}

func (r tokenRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	begin := c.Offset()
	if code := r.eng.Match(c); code != engine.OK {
		ctx.report(tokenError(ctx, r.eng, code, begin, c.Offset()))
		return false
	}
	// A zero-width match produces no token; empty tokens carry nothing.
	if end := c.Offset(); end > begin {
		ctx.handler.Token(r.kind, begin, end)
	}
	return next(ctx, c, args)
}

func (r tokenRule) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	begin := c.Offset()
	if !engine.TryMatch(r.eng, c) {
		return false, false
	}
	if end := c.Offset(); end > begin {
		ctx.handler.Token(r.kind, begin, end)
	}
	return true, next(ctx, c, args)
}

type captureRule struct {
	kind TokenKind
	eng  engine.Matcher
}

// Capture is Token plus a value: the consumed span is appended to the
// argument list as a text.Lexeme.
func Capture(kind TokenKind, m engine.Matcher) Rule {
	return captureRule{kind: kind, eng: m}
}

func (r captureRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	begin := c.Offset()
	if code := r.eng.Match(c); code != engine.OK {
		ctx.report(tokenError(ctx, r.eng, code, begin, c.Offset()))
		return false
	}
	end := c.Offset()
	if end > begin {
		ctx.handler.Token(r.kind, begin, end)
	}
	return next(ctx, c, append(args, text.Lexeme{Begin: begin, End: end}))
}

func (r captureRule) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	begin := c.Offset()
	if !engine.TryMatch(r.eng, c) {
		return false, false
	}
	end := c.Offset()
	if end > begin {
		ctx.handler.Token(r.kind, begin, end)
	}
	return true, next(ctx, c, append(args, text.Lexeme{Begin: begin, End: end}))
}

type eofRule struct{}

// EOF succeeds only at the end of input.
func EOF() Rule { return eofRule{} }

func (eofRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	if !c.AtEnd() {
		ctx.report(&Error{Kind: ExpectedEOF, Begin: c.Offset(), End: c.Offset()})
		return false
	}
	return next(ctx, c, args)
}

func (eofRule) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	if !c.AtEnd() {
		return false, false
	}
	return true, next(ctx, c, args)
}
