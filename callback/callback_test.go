package callback

import (
	"reflect"
	"testing"

	"github.com/dhamidi/gram/text"
)

func TestPipe(t *testing.T) {
	double := Callback(func(args ...any) any { return args[0].(int) * 2 })
	addOne := Callback(func(args ...any) any { return args[0].(int) + 1 })

	got := Pipe(double, addOne)(20)
	if got != 41 {
		t.Errorf("Pipe(double, addOne)(20) = %v, want 41", got)
	}
}

func TestCollectCounts(t *testing.T) {
	var seen []any
	factory := Collect(func(args ...any) any {
		seen = append(seen, args[0])
		return nil
	})

	s := factory.Sink()
	s.Feed("a")
	s.Feed("b")
	s.Feed("c")

	if n := s.Finish(); n != 3 {
		t.Errorf("Finish() = %v, want 3", n)
	}
	if len(seen) != 3 {
		t.Errorf("callback invoked %d times, want 3", len(seen))
	}

	// A nil callback still counts.
	s = Collect(nil).Sink()
	s.Feed(1)
	if n := s.Finish(); n != 1 {
		t.Errorf("Finish() = %v, want 1", n)
	}
}

func TestCollectInto(t *testing.T) {
	factory := CollectInto(func(args ...any) string {
		return args[0].(string) + "!"
	})

	s := factory.Sink()
	s.Feed("a")
	s.Feed("b")

	got := s.Finish()
	if !reflect.DeepEqual(got, []string{"a!", "b!"}) {
		t.Errorf("Finish() = %v, want [a! b!]", got)
	}
}

func TestBind(t *testing.T) {
	sum := Callback(func(args ...any) any {
		total := 0
		for _, a := range args {
			total += a.(int)
		}
		return total
	})

	b := Bind(AsList[int](), sum)

	s := b.Sink()
	s.Feed(1)
	s.Feed(2)
	list := s.Finish().([]int)
	if !reflect.DeepEqual(list, []int{1, 2}) {
		t.Fatalf("sink result = %v, want [1 2]", list)
	}

	// At production finish the callback sees the combined argument list.
	if got := b.Call(3, 4); got != 7 {
		t.Errorf("Call(3, 4) = %v, want 7", got)
	}
}

func TestAsString(t *testing.T) {
	in := text.NewInput("test.txt", []byte("hello world"))
	as := AsString(in)

	if got := as.Call(text.Lexeme{Begin: 0, End: 5}); got != "hello" {
		t.Errorf("Call(lexeme) = %v, want hello", got)
	}
	if got := as.Call("pass"); got != "pass" {
		t.Errorf("Call(string) = %v, want pass", got)
	}

	s := as.Sink()
	s.Feed(text.Lexeme{Begin: 0, End: 5})
	s.Feed(" ")
	s.Feed(text.Lexeme{Begin: 6, End: 11})
	if got := s.Finish(); got != "hello world" {
		t.Errorf("Finish() = %v, want hello world", got)
	}
}

func TestAsList(t *testing.T) {
	as := AsList[string]()

	if got := as.Call("x", "y"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Call = %v, want [x y]", got)
	}

	s := as.Sink()
	s.Feed("a")
	s.Feed("b")
	if got := s.Finish(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Finish() = %v, want [a b]", got)
	}
}

func TestNoopAndCount(t *testing.T) {
	s := Noop.Sink()
	s.Feed(1, 2, 3)
	if s.Finish() != nil {
		t.Error("Noop.Finish() should be nil")
	}

	cs := Count{}.Sink()
	cs.Feed("a")
	cs.Feed("b", "c")
	if got := cs.Finish(); got != 2 {
		t.Errorf("Count sink counts feeds: got %v, want 2", got)
	}
}
