// Package rule implements the rule/continuation layer of the parsing engine.
// Rules compose token engines and sub-rules into an immutable grammar graph,
// built once and shared freely between concurrent runs. Applying a rule at a
// cursor passes "the remainder of the grammar" forward as a continuation: on
// success the rule invokes it with any produced values appended; on failure
// it reports an error and aborts the chain, unless the rule was defined with
// a recovery strategy.
//
// Every evaluation mode is this same engine driven against a different
// Handler; the handler is the terminal consumer of production, token and
// error events.
package rule

import (
	"github.com/dhamidi/gram/callback"
	"github.com/dhamidi/gram/text"
)

// TokenKind tags tokens. The engine assigns no meaning to kinds beyond
// identity; grammars define their own.
type TokenKind int

// Cont is a continuation: the remainder of the grammar. args carries the
// values accumulated so far in the current production.
type Cont func(ctx *Context, c *text.Cursor, args []any) bool

// Rule is a node in the immutable composition graph.
type Rule interface {
	parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool
}

// branchRule is a rule that can decide, by attempting its own pattern,
// whether an alternative branch applies. If the deciding pattern does not
// match, the cursor is restored, nothing is reported and taken is false.
// Once taken the branch is committed: the result is final and sibling
// branches are never retried.
type branchRule interface {
	Rule
	parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (taken, ok bool)
}

// Handler consumes the events of a run. Implementations decide what a run
// produces: nothing (match), an error collection (validate), a value
// (parse), or a lossless tree.
//
// BacktrackProduction discards the production identified by marker together
// with everything recorded since its StartProduction, including tokens and
// productions that were started but never finished.
type Handler interface {
	StartProduction(p *Production, pos int) any
	Token(kind TokenKind, begin, end int)
	FinishProduction(p *Production, marker any, args []any) (value any, hasValue bool)
	BacktrackProduction(p *Production, marker any)
	Sink(p *Production) callback.Sink
	Error(err *Error)
}

// Context is the per-run state threaded through the continuation chain.
// A fresh context belongs to exactly one run.
type Context struct {
	Input   *text.Input
	handler Handler

	prod      *Production
	prodStart int
	trap      *[]*Error
}

// report attaches the current error context and delivers the error, unless a
// recovery construct is currently trapping errors.
func (ctx *Context) report(err *Error) {
	err.Context = ErrorContext{Input: ctx.Input, Start: ctx.prodStart}
	if ctx.prod != nil {
		err.Context.Production = ctx.prod.name
	}
	ctx.emit(err)
}

// emit delivers an error whose context is already attached.
func (ctx *Context) emit(err *Error) {
	if ctx.trap != nil {
		*ctx.trap = append(*ctx.trap, err)
		return
	}
	ctx.handler.Error(err)
}

// Run evaluates the production against the input, delivering all events to
// the handler. ok reports whether the continuation chain ran to completion;
// a false return means a fatal, unrecovered abort. value is whatever the
// root production handed to the final continuation, if anything.
func Run(p *Production, in *text.Input, h Handler) (value any, hasValue, ok bool) {
	ctx := &Context{Input: in, handler: h}
	c := in.Cursor()
	final := func(_ *Context, _ *text.Cursor, args []any) bool {
		if len(args) > 0 {
			value, hasValue = args[0], true
		}
		return true
	}
	ok = p.parse(ctx, &c, final, nil)
	return value, hasValue, ok
}
