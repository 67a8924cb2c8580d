package rule

import (
	"github.com/dhamidi/gram/callback"
	"github.com/dhamidi/gram/text"
)

// Shape describes how a production delivers values to its callback. It is
// computed from the rule graph when the production is defined, without
// descending into child productions, so mutually recursive grammars are
// analyzable before all of them are defined.
type Shape int

const (
	// ShapePlain productions produce only positional values.
	ShapePlain Shape = iota
	// ShapeList productions produce only a sink result.
	ShapeList
	// ShapeMixed productions produce a sink result alongside positional
	// values and need a value bound from both a sink and a finishing
	// callback.
	ShapeMixed
)

func (s Shape) String() string {
	switch s {
	case ShapePlain:
		return "plain"
	case ShapeList:
		return "list"
	case ShapeMixed:
		return "mixed"
	}
	return "unknown"
}

// Production is a named grammar nonterminal. Productions are created first
// and defined second, so recursive and mutually recursive grammars can refer
// to productions whose rules do not exist yet. Once defined a production is
// immutable.
type Production struct {
	name        string
	rule        Rule
	value       any
	transparent bool
	shape       Shape
}

// ProductionOption configures a production at creation.
type ProductionOption func(*Production)

// WithValue attaches the value synthesizer: a callback.Caller for positional
// values, a callback.SinkFactory for list values, or a callback.Bound for
// both. Compatibility with the rule is checked at Define time.
func WithValue(v any) ProductionOption {
	return func(p *Production) { p.value = v }
}

// Transparent marks the production as invisible in lossless trees: its
// children attach directly to its parent.
func Transparent() ProductionOption {
	return func(p *Production) { p.transparent = true }
}

func NewProduction(name string, opts ...ProductionOption) *Production {
	p := &Production{name: name}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Production) Name() string      { return p.name }
func (p *Production) Transparent() bool { return p.transparent }
func (p *Production) Value() any        { return p.value }
func (p *Production) Shape() Shape      { return p.shape }

// Define sets the production's rule. It panics on redefinition and when the
// attached value cannot serve the shape the rule produces.
func (p *Production) Define(r Rule) *Production {
	if p.rule != nil {
		panic("rule: production " + p.name + " defined twice")
	}
	plain, list := analyzeShape(r)
	switch {
	case list && plain:
		p.shape = ShapeMixed
	case list:
		p.shape = ShapeList
	default:
		p.shape = ShapePlain
	}
	p.checkValue()
	p.rule = r
	return p
}

func (p *Production) checkValue() {
	if p.value == nil {
		return
	}
	_, isCaller := p.value.(callback.Caller)
	_, isFactory := p.value.(callback.SinkFactory)
	switch p.shape {
	case ShapePlain:
		if !isCaller {
			panic("rule: production " + p.name + " produces positional values but its value cannot be called")
		}
	case ShapeList:
		if !isFactory {
			panic("rule: production " + p.name + " produces a list but its value is no sink factory")
		}
	case ShapeMixed:
		if !isCaller || !isFactory {
			panic("rule: production " + p.name + " produces mixed values and needs a value bound from a sink and a callback")
		}
	}
}

// analyzeShape reports which value channels the rule graph feeds. Child
// productions count as a single positional value and are not entered.
func analyzeShape(r Rule) (plain, list bool) {
	switch r := r.(type) {
	case seqRule:
		for _, s := range r.rules {
			p, l := analyzeShape(s)
			plain, list = plain || p, list || l
		}
	case choiceRule:
		for _, b := range r.branches {
			p, l := analyzeShape(b)
			plain, list = plain || p, list || l
		}
	case optRule:
		return analyzeShape(r.body)
	case loopRule:
		// Iteration values feed the sink, never the positional list.
		list = true
	case recoverRule:
		p, l := analyzeShape(r.body)
		plain = p || len(r.placeholder) > 0
		list = l
	case captureRule, IdentifierRule:
		plain = true
	case *Production:
		plain = true
	}
	return plain, list
}

func (p *Production) parse(ctx *Context, c *text.Cursor, next Cont, args []any) bool {
	if p.rule == nil {
		panic("rule: production " + p.name + " used before Define")
	}
	marker := ctx.handler.StartProduction(p, c.Offset())
	prevProd, prevStart := ctx.prod, ctx.prodStart
	ctx.prod, ctx.prodStart = p, c.Offset()
	finished := false
	ok := p.rule.parse(ctx, c, func(ctx *Context, c *text.Cursor, vals []any) bool {
		finished = true
		ctx.prod, ctx.prodStart = prevProd, prevStart
		value, hasValue := ctx.handler.FinishProduction(p, marker, vals)
		if hasValue {
			args = append(args, value)
		}
		return next(ctx, c, args)
	}, nil)
	if !finished {
		ctx.prod, ctx.prodStart = prevProd, prevStart
	}
	return ok
}

func (p *Production) parseBranch(ctx *Context, c *text.Cursor, next Cont, args []any) (bool, bool) {
	if p.rule == nil {
		panic("rule: production " + p.name + " used before Define")
	}
	br, isBranch := p.rule.(branchRule)
	if !isBranch {
		panic("rule: production " + p.name + " cannot decide an alternative branch")
	}
	marker := ctx.handler.StartProduction(p, c.Offset())
	prevProd, prevStart := ctx.prod, ctx.prodStart
	ctx.prod, ctx.prodStart = p, c.Offset()
	finished := false
	taken, ok := br.parseBranch(ctx, c, func(ctx *Context, c *text.Cursor, vals []any) bool {
		finished = true
		ctx.prod, ctx.prodStart = prevProd, prevStart
		value, hasValue := ctx.handler.FinishProduction(p, marker, vals)
		if hasValue {
			args = append(args, value)
		}
		return next(ctx, c, args)
	}, nil)
	if !finished {
		ctx.prod, ctx.prodStart = prevProd, prevStart
	}
	if !taken {
		ctx.handler.BacktrackProduction(p, marker)
	}
	return taken, ok
}
