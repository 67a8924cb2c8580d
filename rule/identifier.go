package rule

import (
	"github.com/dhamidi/gram/engine"
	"github.com/dhamidi/gram/text"
)

// IdentifierRule matches a leading character followed by any number of
// trailing characters, producing the consumed span as a text.Lexeme.
// Reserved probes are checked against the lexed span after the fact: a probe
// that consumes the entire span makes the identifier reserved, which is
// reported as a recoverable error while the identifier value is still
// produced. The lexed extent never depends on the reserved set.
type IdentifierRule struct {
	kind     TokenKind
	leading  engine.Matcher
	trailing engine.Matcher
	reserved []engine.Matcher
}

// Identifier builds an identifier rule from a leading and a trailing
// character class.
func Identifier(kind TokenKind, leading, trailing engine.Matcher) IdentifierRule {
	return IdentifierRule{kind: kind, leading: leading, trailing: trailing}
}

func (r IdentifierRule) withProbes(probes ...engine.Matcher) IdentifierRule {
	r.reserved = append(r.reserved[:len(r.reserved):len(r.reserved)], probes...)
	return r
}

// Reserve marks the exact words as reserved.
func (r IdentifierRule) Reserve(words ...string) IdentifierRule {
	probes := make([]engine.Matcher, len(words))
	for i, w := range words {
		probes[i] = engine.Literal(w)
	}
	return r.withProbes(probes...)
}

// ReservePrefix marks every identifier starting with one of the prefixes as
// reserved.
func (r IdentifierRule) ReservePrefix(prefixes ...string) IdentifierRule {
	probes := make([]engine.Matcher, len(prefixes))
	for i, p := range prefixes {
		probes[i] = engine.Seq(engine.Literal(p), engine.While(engine.Any))
	}
	return r.withProbes(probes...)
}

// ReserveContaining marks every identifier containing one of the substrings
// as reserved.
func (r IdentifierRule) ReserveContaining(substrings ...string) IdentifierRule {
	probes := make([]engine.Matcher, len(substrings))
	for i, s := range substrings {
		probes[i] = engine.Seq(engine.Find(engine.Literal(s)), engine.While(engine.Any))
	}
	return r.withProbes(probes...)
}

func (r IdentifierRule) checkReserved(ctx *Context, begin, end int) {
	for _, probe := range r.reserved {
		// A probe only counts when it consumes the whole identifier, so it
		// runs against a cursor restricted to the lexed span.
		rc := ctx.Input.CursorAt(begin).Restrict(end)
		if probe.Match(&rc) == engine.OK && rc.AtEnd() {
			ctx.report(&Error{Kind: ReservedIdentifier, Begin: begin, End: end})
			return
		}
	}
}

func (r IdentifierRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	begin := c.Offset()
	if code := r.leading.Match(c); code != engine.OK {
		ctx.report(tokenError(ctx, r.leading, code, begin, c.Offset()))
		return false
	}
	engine.While(r.trailing).Match(c)
	end := c.Offset()
	ctx.handler.Token(r.kind, begin, end)
	r.checkReserved(ctx, begin, end)
	return next(ctx, c, append(args, text.Lexeme{Begin: begin, End: end}))
}

func (r IdentifierRule) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	begin := c.Offset()
	if !engine.TryMatch(r.leading, c) {
		return false, false
	}
	engine.While(r.trailing).Match(c)
	end := c.Offset()
	ctx.handler.Token(r.kind, begin, end)
	r.checkReserved(ctx, begin, end)
	return true, next(ctx, c, append(args, text.Lexeme{Begin: begin, End: end}))
}

type keywordRule struct {
	kind TokenKind
	lit  engine.LiteralMatcher
	id   IdentifierRule
}

// Keyword matches the literal as a keyword of this identifier rule: the
// literal must not be followed by a trailing identifier character, so "int"
// never matches inside "integer". On failure the reported range covers the
// identifier the input holds at that position instead.
func (r IdentifierRule) Keyword(kind TokenKind, lit string) Rule {
	return keywordRule{kind: kind, lit: engine.Literal(lit), id: r}
}

// failSpan re-scans the input to find the extent of the identifier the
// keyword failed against. If nothing was consumed the leading class decides
// whether there is an identifier here at all; otherwise the consumed prefix
// already is one and only the trailing characters remain.
func (r keywordRule) failSpan(ctx *Context, begin, cur int) (int, int) {
	rc := ctx.Input.CursorAt(cur)
	if cur == begin {
		if r.id.leading.Match(&rc) != engine.OK {
			return begin, begin
		}
	}
	engine.While(r.id.trailing).Match(&rc)
	return begin, rc.Offset()
}

func (r keywordRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	begin := c.Offset()
	if code := r.lit.Match(c); code == engine.OK && !engine.Peek(r.id.trailing, *c) {
		ctx.handler.Token(r.kind, begin, c.Offset())
		return next(ctx, c, args)
	}
	b, e := r.failSpan(ctx, begin, c.Offset())
	ctx.report(&Error{Kind: ExpectedKeyword, Begin: b, End: e, Literal: r.lit.String()})
	return false
}

func (r keywordRule) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	save := *c
	begin := c.Offset()
	if !engine.TryMatch(r.lit, c) {
		return false, false
	}
	if engine.Peek(r.id.trailing, *c) {
		*c = save
		return false, false
	}
	ctx.handler.Token(r.kind, begin, c.Offset())
	return true, next(ctx, c, args)
}
