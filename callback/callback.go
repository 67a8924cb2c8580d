// Package callback implements the value-synthesis protocol of the parsing
// engine. A Callback is a stateless function invoked once with the values a
// production accumulated. A Sink is fed a variable number of times and then
// finalized exactly once; list-shaped productions feed their per-iteration
// values into a sink. Compositions let one designated function serve both
// roles for productions that mix list and non-list values.
package callback

// Callback combines accumulated production values into a single result.
// A callback used purely for its side effects returns nil.
type Callback func(args ...any) any

// Call makes Callback satisfy Caller.
func (f Callback) Call(args ...any) any { return f(args...) }

// Caller is the interface form of Callback, implemented by adapters that
// serve as callback and sink at the same time.
type Caller interface {
	Call(args ...any) any
}

// Sink accumulates values and is finalized exactly once.
type Sink interface {
	Feed(args ...any)
	Finish() any
}

// SinkFactory creates a fresh sink per use. Factories are stateless and may
// be shared between concurrent runs; the sinks they produce are not.
type SinkFactory interface {
	Sink() Sink
}

// Pipe feeds the result of first as the sole argument of second.
func Pipe(first, second Callback) Callback {
	return func(args ...any) any {
		return second(first(args...))
	}
}

// Bound is a sink >> callback composition: it behaves as the sink while the
// production's list is being fed; at production finish the callback is
// invoked with the sink's result concatenated positionally with the
// production's other values.
type Bound struct {
	Factory  SinkFactory
	Finisher Callback
}

// Bind composes a sink factory with a finishing callback.
func Bind(factory SinkFactory, finisher Callback) *Bound {
	return &Bound{Factory: factory, Finisher: finisher}
}

func (b *Bound) Sink() Sink { return b.Factory.Sink() }

func (b *Bound) Call(args ...any) any { return b.Finisher(args...) }

type sinkFunc struct {
	feed   func(args ...any)
	finish func() any
}

func (s *sinkFunc) Feed(args ...any) { s.feed(args...) }
func (s *sinkFunc) Finish() any      { return s.finish() }

type factoryFunc func() Sink

func (f factoryFunc) Sink() Sink { return f() }

// Factory adapts a function returning fresh sinks into a SinkFactory.
func Factory(fn func() Sink) SinkFactory { return factoryFunc(fn) }

// Collect turns a single-shot, side-effecting callback into a repeatable
// sink. The callback is invoked once per feed; finishing yields the number
// of invocations. This is the adapter behind the error-collector boundary:
// a caller-supplied func is wrapped with Collect and the run reports how
// many errors were seen.
func Collect(cb Callback) SinkFactory {
	return Factory(func() Sink {
		count := 0
		return &sinkFunc{
			feed: func(args ...any) {
				count++
				if cb != nil {
					cb(args...)
				}
			},
			finish: func() any { return count },
		}
	})
}

// CollectInto accumulates each callback result into a slice, for callbacks
// that produce a value per invocation.
func CollectInto[T any](cb func(args ...any) T) SinkFactory {
	return Factory(func() Sink {
		var result []T
		return &sinkFunc{
			feed: func(args ...any) {
				result = append(result, cb(args...))
			},
			finish: func() any { return result },
		}
	})
}
