package pathfind

import "fmt"

// Option configures a search via functional arguments.
// An invalid Option is recorded and surfaced as an InternalFault outcome.
type Option func(*Options)

// Options holds the tunables and hooks of one search.
type Options struct {
	// MaxHops is the longest route, in edges, the search may return.
	MaxHops int

	// OnExpand runs after each successful neighbour lookup with the expanded
	// node, its step and the running request count.
	OnExpand func(node NodeID, step, requests int)

	// OnEnqueue runs for every candidate pushed onto the frontier.
	OnEnqueue func(c Candidate)

	err error
}

// DefaultOptions returns Options with DefaultMaxHops and no-op hooks.
func DefaultOptions() Options {
	return Options{
		MaxHops:   DefaultMaxHops,
		OnExpand:  func(NodeID, int, int) {},
		OnEnqueue: func(Candidate) {},
	}
}

// WithMaxHops caps route length. n must be positive.
func WithMaxHops(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxHops must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxHops = n
	}
}

// WithOnExpand registers a progress hook.
func WithOnExpand(fn func(node NodeID, step, requests int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExpand = fn
		}
	}
}

// WithOnEnqueue registers a hook called for every pushed candidate.
func WithOnEnqueue(fn func(c Candidate)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}
