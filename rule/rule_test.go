package rule

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dhamidi/gram/callback"
	"github.com/dhamidi/gram/engine"
	"github.com/dhamidi/gram/text"
)

const (
	kindWord TokenKind = iota + 1
	kindPunct
	kindKeyword
)

// testHandler records the event stream and resolves production values the
// way a parsing handler would, so rule behavior can be asserted without the
// full evaluation front end.
type testHandler struct {
	events []string
	errs   []*Error
}

func (h *testHandler) StartProduction(p *Production, pos int) any {
	h.events = append(h.events, fmt.Sprintf("start:%s@%d", p.Name(), pos))
	return pos
}

func (h *testHandler) Token(kind TokenKind, begin, end int) {
	h.events = append(h.events, fmt.Sprintf("token:%d[%d,%d)", kind, begin, end))
}

func (h *testHandler) FinishProduction(p *Production, marker any, args []any) (any, bool) {
	h.events = append(h.events, "finish:"+p.Name())
	if b, ok := p.Value().(*callback.Bound); ok {
		return b.Call(args...), true
	}
	if caller, ok := p.Value().(callback.Caller); ok && p.Shape() == ShapePlain {
		return caller.Call(args...), true
	}
	switch len(args) {
	case 0:
		return nil, false
	case 1:
		return args[0], true
	default:
		return args, true
	}
}

func (h *testHandler) BacktrackProduction(p *Production, marker any) {
	h.events = append(h.events, "backtrack:"+p.Name())
}

func (h *testHandler) Sink(p *Production) callback.Sink {
	if f, ok := p.Value().(callback.SinkFactory); ok {
		return f.Sink()
	}
	return callback.AsList[any]().Sink()
}

func (h *testHandler) Error(err *Error) { h.errs = append(h.errs, err) }

func runRule(p *Production, src string) (h *testHandler, value any, hasValue, ok bool) {
	h = &testHandler{}
	value, hasValue, ok = Run(p, text.NewInput("test", []byte(src)), h)
	return h, value, hasValue, ok
}

var (
	alpha = engine.Class("ascii.alpha", func(b byte) bool {
		return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
	})
	alnum = engine.Class("ascii.alnum", func(b byte) bool {
		return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
	})
)

func TestSeqProducesValuesInOrder(t *testing.T) {
	p := NewProduction("pair").Define(Seq(
		Lit(kindPunct, "("),
		Capture(kindWord, engine.Literal("hi")),
		Lit(kindPunct, ")"),
		EOF(),
	))
	h, value, hasValue, ok := runRule(p, "(hi)")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: ok=%v errs=%v", ok, h.errs)
	}
	if !hasValue {
		t.Fatal("expected a value")
	}
	lex, isLexeme := value.(text.Lexeme)
	if !isLexeme || lex.Begin != 1 || lex.End != 3 {
		t.Errorf("value = %#v, want lexeme [1,3)", value)
	}
}

func TestSeqReportsFirstFailure(t *testing.T) {
	p := NewProduction("pair").Define(Seq(Lit(kindPunct, "("), Lit(kindPunct, ")")))
	h, _, _, ok := runRule(p, "(]")
	if ok {
		t.Fatal("parse should fail")
	}
	if len(h.errs) != 1 {
		t.Fatalf("errs = %v, want one error", h.errs)
	}
	e := h.errs[0]
	if e.Kind != ExpectedLiteral || e.Literal != ")" || e.Begin != 1 {
		t.Errorf("error = %+v, want expected_literal %q at 1", e, ")")
	}
	if e.Context.Production != "pair" {
		t.Errorf("error production = %q, want %q", e.Context.Production, "pair")
	}
}

func TestChoiceTakesFirstMatch(t *testing.T) {
	p := NewProduction("sign").Define(Seq(Choice(
		Capture(kindPunct, engine.Literal("+")),
		Capture(kindPunct, engine.Literal("-")),
	), EOF()))
	for src, want := range map[string]int{"+": 0, "-": 0} {
		h, value, _, ok := runRule(p, src)
		if !ok || len(h.errs) != 0 {
			t.Fatalf("%q: parse failed: %v", src, h.errs)
		}
		if lex := value.(text.Lexeme); lex.Begin != want {
			t.Errorf("%q: lexeme begin = %d, want %d", src, lex.Begin, want)
		}
	}
}

func TestChoiceExhausted(t *testing.T) {
	p := NewProduction("sign").Define(Choice(
		Lit(kindPunct, "+"),
		Lit(kindPunct, "-"),
	))
	h, _, _, ok := runRule(p, "*")
	if ok {
		t.Fatal("parse should fail")
	}
	if len(h.errs) != 1 || h.errs[0].Kind != ExhaustedChoice {
		t.Fatalf("errs = %v, want one exhausted_choice", h.errs)
	}
	if h.errs[0].Begin != 0 || h.errs[0].IsRange() {
		t.Errorf("error anchor = [%d,%d), want position 0", h.errs[0].Begin, h.errs[0].End)
	}
}

func TestChoiceCommitsAfterDecidingToken(t *testing.T) {
	// Once "(" matched the first branch is committed; the failure of ")" must
	// not fall through to the second branch.
	p := NewProduction("expr").Define(Choice(
		Seq(Lit(kindPunct, "("), Lit(kindPunct, ")")),
		Seq(Lit(kindPunct, "("), Lit(kindPunct, "]")),
	))
	h, _, _, ok := runRule(p, "(]")
	if ok {
		t.Fatal("parse should fail")
	}
	if len(h.errs) != 1 || h.errs[0].Kind != ExpectedLiteral || h.errs[0].Literal != ")" {
		t.Errorf("errs = %v, want the committed branch's expected_literal %q", h.errs, ")")
	}
}

func TestOpt(t *testing.T) {
	p := NewProduction("opt").Define(Seq(
		Opt(Capture(kindPunct, engine.Literal("-"))),
		Lit(kindWord, "x"),
		EOF(),
	))
	h, value, hasValue, ok := runRule(p, "-x")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	if !hasValue || value.(text.Lexeme).Begin != 0 {
		t.Errorf("value = %#v, want captured sign", value)
	}

	h, _, hasValue, ok = runRule(p, "x")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse without sign failed: %v", h.errs)
	}
	if hasValue {
		t.Error("absent optional should produce no value")
	}
}

func TestLoopFeedsSink(t *testing.T) {
	p := NewProduction("list", WithValue(callback.AsList[any]())).Define(Seq(
		Loop(Seq(Capture(kindWord, engine.Literal("a")), Opt(Lit(kindPunct, ",")))),
		EOF(),
	))
	if p.Shape() != ShapeList {
		t.Fatalf("shape = %v, want list", p.Shape())
	}
	h, value, hasValue, ok := runRule(p, "a,a,a")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	if !hasValue {
		t.Fatal("expected a value")
	}
	items := value.([]any)
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	for i, item := range items {
		lex := item.(text.Lexeme)
		if lex.Begin != i*2 || lex.End != i*2+1 {
			t.Errorf("items[%d] = %+v, want [%d,%d)", i, lex, i*2, i*2+1)
		}
	}
}

func TestLoopStopsWithoutConsumption(t *testing.T) {
	// While always matches; a body that consumes nothing must terminate the
	// loop instead of spinning.
	p := NewProduction("spin").Define(Seq(
		Loop(Token(kindWord, engine.While(alpha))),
		EOF(),
	))
	h, _, _, ok := runRule(p, "abc")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
}

func TestLoopEmptyInput(t *testing.T) {
	p := NewProduction("list", WithValue(callback.AsList[any]())).Define(Seq(
		Loop(Capture(kindWord, engine.Literal("a"))),
		EOF(),
	))
	h, value, hasValue, ok := runRule(p, "")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	if !hasValue {
		t.Fatal("zero iterations still finish the sink")
	}
	if items := value.([]any); len(items) != 0 {
		t.Errorf("items = %#v, want an empty list", items)
	}
}

func TestIdentifierReservedWord(t *testing.T) {
	id := Identifier(kindWord, alpha, alnum).Reserve("if", "while")
	p := NewProduction("name").Define(Seq(id, EOF()))

	h, value, hasValue, ok := runRule(p, "if")
	if !ok {
		t.Fatal("reserved identifier should be recoverable, not fatal")
	}
	if len(h.errs) != 1 || h.errs[0].Kind != ReservedIdentifier {
		t.Fatalf("errs = %v, want one reserved_identifier", h.errs)
	}
	if h.errs[0].Begin != 0 || h.errs[0].End != 2 {
		t.Errorf("error range = [%d,%d), want [0,2)", h.errs[0].Begin, h.errs[0].End)
	}
	if !hasValue || value.(text.Lexeme).End != 2 {
		t.Errorf("value = %#v, reserved identifier must still be produced", value)
	}
}

func TestIdentifierReservedNeedsFullSpan(t *testing.T) {
	// "iffy" starts with the reserved word but the probe does not consume the
	// whole identifier, so it is not reserved.
	id := Identifier(kindWord, alpha, alnum).Reserve("if")
	p := NewProduction("name").Define(Seq(id, EOF()))
	h, value, _, ok := runRule(p, "iffy")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	if value.(text.Lexeme).End != 4 {
		t.Errorf("lexeme end = %d, want 4", value.(text.Lexeme).End)
	}
}

func TestIdentifierReservedPrefixAndContaining(t *testing.T) {
	lead := engine.Class("ascii.alpha-underscore", func(b byte) bool {
		return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
	})
	trail := engine.Class("ascii.word", func(b byte) bool {
		return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
	})

	id := Identifier(kindWord, lead, trail).ReservePrefix("__").ReserveContaining("zz")
	p := NewProduction("name").Define(Seq(id, EOF()))

	tests := []struct {
		src      string
		reserved bool
	}{
		{"__init", true},
		{"_init", false},
		{"fizzle", true},
		{"fizle", false},
	}
	for _, tt := range tests {
		h, _, _, ok := runRule(p, tt.src)
		if !ok {
			t.Fatalf("%q: parse aborted: %v", tt.src, h.errs)
		}
		if got := len(h.errs) == 1 && h.errs[0].Kind == ReservedIdentifier; got != tt.reserved {
			t.Errorf("%q: reserved = %v, want %v (errs %v)", tt.src, got, tt.reserved, h.errs)
		}
	}
}

func TestIdentifierLexingIgnoresReservedSet(t *testing.T) {
	plain := NewProduction("plain").Define(Seq(Identifier(kindWord, alpha, alnum), EOF()))
	restricted := NewProduction("restricted").Define(Seq(
		Identifier(kindWord, alpha, alnum).Reserve("total"), EOF(),
	))
	h1, v1, _, _ := runRule(plain, "totality")
	h2, v2, _, _ := runRule(restricted, "totality")
	if !reflect.DeepEqual(v1, v2) {
		t.Errorf("lexemes differ: %#v vs %#v", v1, v2)
	}
	if len(h1.errs) != 0 || len(h2.errs) != 0 {
		t.Errorf("unexpected errors: %v %v", h1.errs, h2.errs)
	}
}

func TestKeyword(t *testing.T) {
	id := Identifier(kindWord, alpha, alnum)
	p := NewProduction("stmt").Define(id.Keyword(kindKeyword, "if"))

	if h, _, _, ok := runRule(p, "if"); !ok || len(h.errs) != 0 {
		t.Errorf("keyword at end of input should match: %v", h.errs)
	}
	if h, _, _, ok := runRule(p, "if+"); !ok || len(h.errs) != 0 {
		t.Errorf("keyword before non-identifier character should match: %v", h.errs)
	}
}

func TestKeywordRejectsLongerIdentifier(t *testing.T) {
	id := Identifier(kindWord, alpha, alnum)
	p := NewProduction("stmt").Define(id.Keyword(kindKeyword, "if"))
	h, _, _, ok := runRule(p, "ifx")
	if ok {
		t.Fatal("keyword must not match inside a longer identifier")
	}
	if len(h.errs) != 1 {
		t.Fatalf("errs = %v, want one error", h.errs)
	}
	e := h.errs[0]
	if e.Kind != ExpectedKeyword || e.Literal != "if" {
		t.Errorf("error = %+v, want expected_keyword %q", e, "if")
	}
	if e.Begin != 0 || e.End != 3 {
		t.Errorf("error range = [%d,%d), want the whole identifier [0,3)", e.Begin, e.End)
	}
}

func TestKeywordMismatchCoversIdentifier(t *testing.T) {
	id := Identifier(kindWord, alpha, alnum)
	p := NewProduction("stmt").Define(id.Keyword(kindKeyword, "while"))
	h, _, _, ok := runRule(p, "whale")
	if ok {
		t.Fatal("parse should fail")
	}
	e := h.errs[0]
	if e.Kind != ExpectedKeyword || e.Begin != 0 || e.End != 5 {
		t.Errorf("error = %+v, want expected_keyword over [0,5)", e)
	}
}

func TestRecoverSubstitutesPlaceholder(t *testing.T) {
	p := NewProduction("line").Define(Seq(
		Recover(Capture(kindPunct, engine.Literal("!")), "bang"),
		Capture(kindWord, engine.Literal("a")),
		EOF(),
	))
	h, value, _, ok := runRule(p, "a")
	if !ok {
		t.Fatal("recovered failure must not abort the run")
	}
	if len(h.errs) != 1 || h.errs[0].Kind != ExpectedLiteral {
		t.Fatalf("errs = %v, want the recovered expected_literal", h.errs)
	}
	vals := value.([]any)
	if len(vals) != 2 || vals[0] != "bang" {
		t.Errorf("values = %#v, want placeholder then capture", vals)
	}
}

func TestRecoverPassesThroughOnSuccess(t *testing.T) {
	p := NewProduction("line").Define(Seq(
		Recover(Capture(kindPunct, engine.Literal("!")), "bang"),
		EOF(),
	))
	h, value, _, ok := runRule(p, "!")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	if _, isLexeme := value.(text.Lexeme); !isLexeme {
		t.Errorf("value = %#v, want the body's capture", value)
	}
}

func TestErrorsReportedInPositionOrder(t *testing.T) {
	p := NewProduction("line").Define(Seq(
		Recover(Lit(kindPunct, "<")),
		Lit(kindWord, "a"),
		Recover(Lit(kindPunct, ">")),
		Lit(kindWord, "b"),
		EOF(),
	))
	h, _, _, ok := runRule(p, "ab")
	if !ok {
		t.Fatal("both failures are recovered, run must complete")
	}
	if len(h.errs) != 2 {
		t.Fatalf("errs = %v, want two", h.errs)
	}
	if h.errs[0].Begin > h.errs[1].Begin {
		t.Errorf("errors out of order: %d then %d", h.errs[0].Begin, h.errs[1].Begin)
	}
	if h.errs[0].Literal != "<" || h.errs[1].Literal != ">" {
		t.Errorf("errs = %v, %v", h.errs[0], h.errs[1])
	}
}

func TestErrorsOrderedAcrossChoiceBranches(t *testing.T) {
	id := Identifier(kindWord, alpha, alnum).Reserve("bad")
	arm := func() Rule {
		return Choice(
			Seq(Lit(kindPunct, "!"), id),
			Seq(Lit(kindPunct, "?"), id),
		)
	}
	p := NewProduction("line").Define(Seq(arm(), arm(), arm(), EOF()))

	h, _, _, ok := runRule(p, "!bad?bad!bad")
	if !ok {
		t.Fatal("reserved identifiers are recoverable, run must complete")
	}
	if len(h.errs) != 3 {
		t.Fatalf("errs = %v, want three", h.errs)
	}
	for i, want := range []int{1, 5, 9} {
		if h.errs[i].Kind != ReservedIdentifier || h.errs[i].Begin != want {
			t.Errorf("errs[%d] = %v, want reserved_identifier at %d", i, h.errs[i], want)
		}
	}
}

func TestRecoverUnwindsFailedBodyEvents(t *testing.T) {
	pair := NewProduction("pair").Define(Seq(Lit(kindWord, "a"), Lit(kindWord, "b")))
	p := NewProduction("line").Define(Seq(
		Recover(pair),
		Capture(kindWord, engine.Literal("ax")),
		EOF(),
	))

	h, _, _, ok := runRule(p, "ax")
	if !ok {
		t.Fatal("recovered failure must not abort the run")
	}
	if len(h.errs) != 1 || h.errs[0].Kind != ExpectedLiteral || h.errs[0].Literal != "b" {
		t.Fatalf("errs = %v, want the recovered expected_literal for b", h.errs)
	}
	// The failed body's events, including the production it left open and
	// the token it already emitted, are discarded by a single backtrack.
	want := []string{
		"start:line@0",
		"start:recover-scope@0",
		"start:pair@0",
		"token:1[0,1)",
		"backtrack:recover-scope",
		"token:1[0,2)",
		"finish:line",
	}
	if !reflect.DeepEqual(h.events, want) {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}

func TestNestedProductions(t *testing.T) {
	inner := NewProduction("inner").Define(Capture(kindWord, engine.Literal("x")))
	outer := NewProduction("outer").Define(Seq(Lit(kindPunct, "("), inner, Lit(kindPunct, ")"), EOF()))
	h, value, hasValue, ok := runRule(outer, "(x)")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	if !hasValue || value.(text.Lexeme).Begin != 1 {
		t.Errorf("value = %#v, want inner's capture", value)
	}
	want := []string{
		"start:outer@0",
		"token:2[0,1)",
		"start:inner@1",
		"token:1[1,2)",
		"finish:inner",
		"token:2[2,3)",
		"finish:outer",
	}
	if !reflect.DeepEqual(h.events, want) {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}

func TestProductionBranchBacktracks(t *testing.T) {
	letter := NewProduction("letter").Define(Capture(kindWord, engine.Literal("x")))
	p := NewProduction("item").Define(Seq(Choice(
		letter,
		Capture(kindPunct, engine.Literal("+")),
	), EOF()))
	h, value, _, ok := runRule(p, "+")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	if value.(text.Lexeme).Begin != 0 {
		t.Errorf("value = %#v", value)
	}
	found := false
	for _, ev := range h.events {
		if ev == "backtrack:letter" {
			found = true
		}
	}
	if !found {
		t.Errorf("events = %v, want a backtrack for the untaken production branch", h.events)
	}
}

func TestDefineValidatesValueShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Define should panic for a list production without a sink factory")
		}
	}()
	NewProduction("bad", WithValue(callback.Callback(callback.Forward))).
		Define(Loop(Capture(kindWord, engine.Literal("a"))))
}

func TestDefineTwicePanics(t *testing.T) {
	p := NewProduction("once").Define(Lit(kindWord, "a"))
	defer func() {
		if recover() == nil {
			t.Error("second Define should panic")
		}
	}()
	p.Define(Lit(kindWord, "b"))
}

func TestMixedShapeNeedsBound(t *testing.T) {
	head := Capture(kindWord, engine.Literal("a"))
	rest := Loop(Seq(Lit(kindPunct, ","), Capture(kindWord, engine.Literal("a"))))
	p := NewProduction("list", WithValue(callback.Bind(
		callback.AsList[any](),
		func(args ...any) any { return args },
	))).Define(Seq(head, rest, EOF()))
	if p.Shape() != ShapeMixed {
		t.Fatalf("shape = %v, want mixed", p.Shape())
	}
	h, value, _, ok := runRule(p, "a,a")
	if !ok || len(h.errs) != 0 {
		t.Fatalf("parse failed: %v", h.errs)
	}
	vals := value.([]any)
	if len(vals) != 2 {
		t.Fatalf("values = %#v, want head lexeme and tail list", vals)
	}
	if _, isLexeme := vals[0].(text.Lexeme); !isLexeme {
		t.Errorf("vals[0] = %#v, want the head lexeme", vals[0])
	}
	if tail := vals[1].([]any); len(tail) != 1 {
		t.Errorf("tail = %#v, want one element", vals[1])
	}
}
