// Package gram is the evaluation front end of the parsing engine. A grammar
// is a graph of rule.Productions; this package runs a grammar against an
// input in one of four modes that share the same engine and differ only in
// what they retain: Match keeps nothing, Validate keeps diagnostics, Parse
// adds value synthesis, ParseAsTree builds the lossless parse tree.
//
// Errors cross the API boundary through a collector: pass a
// func(*rule.Error) to observe each error as it is reported, a
// callback.SinkFactory to accumulate them into a collection of your own
// type, or nil to discard them. Result.Errors carries whatever the
// collector's Finish produced.
package gram

import (
	"fmt"

	"github.com/dhamidi/gram/callback"
	"github.com/dhamidi/gram/rule"
	"github.com/dhamidi/gram/text"
	"github.com/dhamidi/gram/tree"
)

// Result is the outcome of a validating run.
type Result struct {
	Outcome rule.Outcome
	// Errors is the error collector's finished value: nil for a nil
	// collector, the error count for a plain func collector, or the
	// collection a SinkFactory accumulated.
	Errors any
}

// ParseResult extends Result with the synthesized value.
type ParseResult struct {
	Result
	Value    any
	HasValue bool
}

// TreeResult extends Result with the lossless parse tree. Tree is non-nil
// for Success and RecoveredError and nil after a fatal abort.
type TreeResult struct {
	Result
	Tree *tree.Tree
}

// CollectErrors returns a collector that accumulates every reported error,
// in order, into a []*rule.Error.
func CollectErrors() callback.SinkFactory {
	return callback.CollectInto(func(args ...any) *rule.Error {
		return args[0].(*rule.Error)
	})
}

// errorSink adapts a caller-supplied collector to the handler protocol and
// counts reported errors for outcome classification.
type errorSink struct {
	sink  callback.Sink
	count int
}

func newErrorSink(collector any) *errorSink {
	var s callback.Sink
	switch c := collector.(type) {
	case nil:
		s = callback.Noop.Sink()
	case func(*rule.Error):
		s = callback.Collect(func(args ...any) any {
			c(args[0].(*rule.Error))
			return nil
		}).Sink()
	case callback.SinkFactory:
		s = c.Sink()
	case callback.Sink:
		s = c
	default:
		panic(fmt.Sprintf("gram: unsupported error collector %T", collector))
	}
	return &errorSink{sink: s}
}

func (s *errorSink) report(err *rule.Error) {
	s.count++
	s.sink.Feed(err)
}

func (s *errorSink) result(ok bool) Result {
	r := Result{Errors: s.sink.Finish()}
	switch {
	case !ok:
		r.Outcome = rule.FatalError
	case s.count > 0:
		r.Outcome = rule.RecoveredError
	default:
		r.Outcome = rule.Success
	}
	return r
}

// resolveValue combines a finished production's accumulated values per its
// value function. A nil value forwards: the single value as-is, several as a
// slice, none as no value. A list-shaped production already received
// everything through its sink, so the finish result passes through
// untouched; only plain and mixed shapes invoke the value as a callback.
func resolveValue(p *rule.Production, args []any) (any, bool) {
	v := p.Value()
	if v == nil {
		switch len(args) {
		case 0:
			return nil, false
		case 1:
			return args[0], true
		default:
			return append([]any(nil), args...), true
		}
	}
	if p.Shape() == rule.ShapeList {
		if len(args) == 0 {
			return nil, false
		}
		return args[0], true
	}
	if caller, ok := v.(callback.Caller); ok {
		return caller.Call(args...), true
	}
	return nil, false
}

func productionSink(p *rule.Production) callback.Sink {
	if f, ok := p.Value().(callback.SinkFactory); ok {
		return f.Sink()
	}
	return callback.AsList[any]().Sink()
}

// matchHandler discards everything.
type matchHandler struct{}

func (matchHandler) StartProduction(p *rule.Production, pos int) any { return nil }
func (matchHandler) Token(kind rule.TokenKind, begin, end int)       {}
func (matchHandler) FinishProduction(p *rule.Production, marker any, args []any) (any, bool) {
	return nil, false
}
func (matchHandler) BacktrackProduction(p *rule.Production, marker any) {}
func (matchHandler) Sink(p *rule.Production) callback.Sink              { return callback.Noop }
func (matchHandler) Error(err *rule.Error)                              {}

// Match reports whether the production matches the input: true for Success
// and RecoveredError, false only for a fatal abort. It allocates no
// diagnostics and synthesizes no values.
func Match(p *rule.Production, in *text.Input) bool {
	_, _, ok := rule.Run(p, in, matchHandler{})
	return ok
}

type validateHandler struct {
	errs *errorSink
}

func (h *validateHandler) StartProduction(p *rule.Production, pos int) any { return nil }
func (h *validateHandler) Token(kind rule.TokenKind, begin, end int)       {}
func (h *validateHandler) FinishProduction(p *rule.Production, marker any, args []any) (any, bool) {
	return nil, false
}
func (h *validateHandler) BacktrackProduction(p *rule.Production, marker any) {}
func (h *validateHandler) Sink(p *rule.Production) callback.Sink              { return callback.Noop }
func (h *validateHandler) Error(err *rule.Error)                              { h.errs.report(err) }

// Validate runs the production and delivers every error, in input order, to
// the collector. No values are synthesized.
func Validate(p *rule.Production, in *text.Input, collector any) Result {
	h := &validateHandler{errs: newErrorSink(collector)}
	_, _, ok := rule.Run(p, in, h)
	return h.errs.result(ok)
}

type parseHandler struct {
	errs *errorSink
}

func (h *parseHandler) StartProduction(p *rule.Production, pos int) any { return nil }
func (h *parseHandler) Token(kind rule.TokenKind, begin, end int)       {}
func (h *parseHandler) FinishProduction(p *rule.Production, marker any, args []any) (any, bool) {
	return resolveValue(p, args)
}
func (h *parseHandler) BacktrackProduction(p *rule.Production, marker any) {}
func (h *parseHandler) Sink(p *rule.Production) callback.Sink              { return productionSink(p) }
func (h *parseHandler) Error(err *rule.Error)                              { h.errs.report(err) }

// Parse runs the production, synthesizing values through the grammar's
// callbacks and sinks. The value is meaningful for Success and
// RecoveredError; after a fatal abort HasValue is false.
func Parse(p *rule.Production, in *text.Input, collector any) ParseResult {
	h := &parseHandler{errs: newErrorSink(collector)}
	value, hasValue, ok := rule.Run(p, in, h)
	res := ParseResult{Result: h.errs.result(ok)}
	if ok {
		res.Value, res.HasValue = value, hasValue
	}
	return res
}

type treeHandler struct {
	errs    *errorSink
	builder *tree.Builder
}

func (h *treeHandler) StartProduction(p *rule.Production, pos int) any {
	return h.builder.StartProduction(p.Name(), p.Transparent())
}
func (h *treeHandler) Token(kind rule.TokenKind, begin, end int) {
	h.builder.Token(int(kind), begin, end)
}
func (h *treeHandler) FinishProduction(p *rule.Production, marker any, args []any) (any, bool) {
	h.builder.FinishProduction(marker.(tree.Marker))
	return nil, false
}
func (h *treeHandler) BacktrackProduction(p *rule.Production, marker any) {
	h.builder.BacktrackProduction(marker.(tree.Marker))
}
func (h *treeHandler) Sink(p *rule.Production) callback.Sink { return callback.Noop }
func (h *treeHandler) Error(err *rule.Error)                 { h.errs.report(err) }

// ParseAsTree runs the production and records every consumed token and
// every non-transparent production into a lossless parse tree. The tree is
// kept for Success and RecoveredError; a fatal abort discards the partial
// tree and returns it as nil.
func ParseAsTree(p *rule.Production, in *text.Input, collector any) TreeResult {
	h := &treeHandler{errs: newErrorSink(collector), builder: tree.NewBuilder(in)}
	_, _, ok := rule.Run(p, in, h)
	res := TreeResult{Result: h.errs.result(ok)}
	if ok {
		res.Tree = h.builder.Finish()
	}
	return res
}
