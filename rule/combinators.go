package rule

import (
	"fmt"

	"github.com/dhamidi/gram/text"
)

type seqRule struct {
	rules []Rule
}

// Seq applies rules left to right. Each rule is applied with a continuation
// of "the rest of the sequence, then the original continuation".
func Seq(rules ...Rule) Rule {
	if len(rules) == 0 {
		panic("rule: Seq needs at least one rule")
	}
	return seqRule{rules: rules}
}

func (r seqRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	return r.parseFrom(0, ctx, c, next, args)
}

func (r seqRule) parseFrom(i int, ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	if i == len(r.rules) {
		return next(ctx, c, args)
	}
	return r.rules[i].parse(ctx, c, func(ctx *Context, c *text.Cursor, args []any) bool {
		return r.parseFrom(i+1, ctx, c, next, args)
	}, args)
}

// A sequence branches on its first element: once that has consumed, the
// whole sequence is committed.
func (r seqRule) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	head, ok := r.rules[0].(branchRule)
	if !ok {
		panic(fmt.Sprintf("rule: %T cannot start an alternative branch", r.rules[0]))
	}
	return head.parseBranch(ctx, c, func(ctx *Context, c *text.Cursor, args []any) bool {
		return r.parseFrom(1, ctx, c, next, args)
	}, args)
}

type choiceRule struct {
	branches []branchRule
}

// Choice tries each branch left to right; the first branch whose deciding
// pattern matches is committed and wins. A branch that fails without having
// consumed is rolled back silently. If no branch applies, the choice reports
// an exhausted_choice error and aborts.
func Choice(branches ...Rule) Rule {
	if len(branches) < 2 {
		panic("rule: Choice needs at least two branches")
	}
	bs := make([]branchRule, len(branches))
	for i, b := range branches {
		br, ok := b.(branchRule)
		if !ok {
			panic(fmt.Sprintf("rule: %T cannot be used as an alternative branch", b))
		}
		bs[i] = br
	}
	return choiceRule{branches: bs}
}

func (r choiceRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	for _, b := range r.branches {
		if taken, ok := b.parseBranch(ctx, c, next, args); taken {
			return ok
		}
	}
	ctx.report(&Error{Kind: ExhaustedChoice, Begin: c.Offset(), End: c.Offset()})
	return false
}

func (r choiceRule) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	for _, b := range r.branches {
		if taken, ok := b.parseBranch(ctx, c, next, args); taken {
			return true, ok
		}
	}
	return false, false
}

type optRule struct {
	body branchRule
}

// Opt tries the body; if its deciding pattern does not match, parsing
// continues with no values. A failure after the body has committed
// propagates as an error.
func Opt(body Rule) Rule {
	br, ok := body.(branchRule)
	if !ok {
		panic(fmt.Sprintf("rule: %T cannot be made optional", body))
	}
	return optRule{body: br}
}

func (r optRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	if taken, ok := r.body.parseBranch(ctx, c, next, args); taken {
		return ok
	}
	return next(ctx, c, args)
}

type loopRule struct {
	body branchRule
}

// Loop repeats the body until its deciding pattern no longer matches. The
// repetition is driven by an iterative loop, never by recursion: each
// iteration runs the body against a continuation that terminates and hands
// control back to the driver, so stack depth is bounded regardless of how
// many repetitions the input sustains. Values produced by iterations feed
// the current production's sink; the finalized sink result joins the
// argument list at the loop's position.
func Loop(body Rule) Rule {
	br, ok := body.(branchRule)
	if !ok {
		panic(fmt.Sprintf("rule: %T cannot be looped", body))
	}
	return loopRule{body: br}
}

func (r loopRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	// The sink exists for the loop's whole lifetime: zero iterations still
	// finish it, so the value's position in the argument list is stable.
	sink := ctx.handler.Sink(ctx.prod)
	iterate := func(ctx *Context, c *text.Cursor, vals []any) bool {
		if len(vals) > 0 {
			sink.Feed(vals...)
		}
		return true
	}

	for {
		before := c.Offset()
		taken, ok := r.body.parseBranch(ctx, c, iterate, nil)
		if !taken {
			break
		}
		if !ok {
			return false
		}
		if c.Offset() == before {
			// The body matched without consuming; repeating it would
			// never terminate.
			break
		}
	}

	return next(ctx, c, append(args, sink.Finish()))
}

type recoverRule struct {
	body        Rule
	placeholder []any
}

// Recover attaches a recovery strategy to a rule: if the body fails, its
// deferred diagnostics are reported as recoverable, the cursor is restored,
// and parsing continues with the placeholder values instead of the body's.
func Recover(body Rule, placeholder ...any) Rule {
	return recoverRule{body: body, placeholder: placeholder}
}

// recoverScope wraps a recovery body in a handler-visible production so
// that a failed body's events, tokens as well as productions it started
// but never finished, are discarded with a single backtrack. The scope is
// transparent: a body that succeeds leaves no trace of the wrapper.
var recoverScope = &Production{name: "recover-scope", transparent: true}

func (r recoverRule) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	save := *c
	marker := ctx.handler.StartProduction(recoverScope, c.Offset())
	prevTrap := ctx.trap
	var trapped []*Error
	ctx.trap = &trapped

	entered := false
	ok := r.body.parse(ctx, c, func(ctx *Context, c *text.Cursor, vals []any) bool {
		entered = true
		ctx.handler.FinishProduction(recoverScope, marker, nil)
		ctx.trap = prevTrap
		for _, e := range trapped {
			ctx.emit(e)
		}
		return next(ctx, c, append(args, vals...))
	}, nil)

	if entered {
		return ok
	}

	// The body failed before reaching its continuation: discard whatever
	// it emitted, report what it collected, and continue with the
	// placeholder.
	ctx.handler.BacktrackProduction(recoverScope, marker)
	ctx.trap = prevTrap
	for _, e := range trapped {
		ctx.emit(e)
	}
	*c = save
	return next(ctx, c, append(args, r.placeholder...))
}
