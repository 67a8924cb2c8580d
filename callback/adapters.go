package callback

import "github.com/dhamidi/gram/text"

// Noop is both a callback and a sink factory that discards everything.
type noop struct{}

var Noop = noop{}

func (noop) Call(args ...any) any { return nil }
func (n noop) Sink() Sink         { return n }
func (noop) Feed(args ...any)     {}
func (noop) Finish() any          { return nil }

// Forward returns its single argument unchanged.
func Forward(args ...any) any {
	if len(args) != 1 {
		panic("callback: Forward expects exactly one value")
	}
	return args[0]
}

// StringIn builds the as-string adapter for a given input: as a callback it
// converts a lexeme (or passes a string through); as a sink it appends
// lexemes, strings and bytes into one string.
type StringIn struct {
	Input *text.Input
}

func AsString(in *text.Input) StringIn { return StringIn{Input: in} }

func (s StringIn) Call(args ...any) any {
	if len(args) != 1 {
		panic("callback: AsString expects exactly one value")
	}
	return s.convert(args[0])
}

// Callback adapts the struct form to the plain Callback type.
func (s StringIn) Callback() Callback { return s.Call }

func (s StringIn) convert(v any) string {
	switch v := v.(type) {
	case text.Lexeme:
		return v.String(s.Input)
	case string:
		return v
	case byte:
		return string(v)
	default:
		panic("callback: AsString cannot convert value")
	}
}

func (s StringIn) Sink() Sink {
	acc := ""
	return &sinkFunc{
		feed: func(args ...any) {
			for _, a := range args {
				acc += s.convert(a)
			}
		},
		finish: func() any { return acc },
	}
}

// List builds []T: as a callback it gathers its arguments, as a sink it
// appends the first value of every feed.
type List[T any] struct{}

func AsList[T any]() List[T] { return List[T]{} }

func (List[T]) Call(args ...any) any {
	result := make([]T, 0, len(args))
	for _, a := range args {
		result = append(result, a.(T))
	}
	return result
}

func (l List[T]) Callback() Callback { return l.Call }

func (List[T]) Sink() Sink {
	var result []T
	return &sinkFunc{
		feed: func(args ...any) {
			for _, a := range args {
				result = append(result, a.(T))
			}
		},
		finish: func() any { return result },
	}
}

// Count ignores its values: as a sink it counts feeds.
type Count struct{}

func (Count) Call(args ...any) any { return len(args) }

func (Count) Sink() Sink {
	n := 0
	return &sinkFunc{
		feed:   func(args ...any) { n++ },
		finish: func() any { return n },
	}
}
