// Package pathfind finds every shortest route between two nodes of a graph
// whose edges are only discovered by asking an EdgeResolver, one node at a time.
//
// The search is breadth-first over a FIFO of path candidates. Each distinct
// node is resolved at most once per search, lookups are strictly sequential,
// and the first terminal condition ends the search:
//
//   - the goal is reached: every route tied at that depth is returned,
//   - a candidate reaches the hop cap without being the goal: the whole
//     search stops with DepthExceeded, even if another branch could still
//     reach the goal within the cap,
//   - a lookup fails: the search stops and partial routes are discarded,
//   - the reachable component is exhausted: NoPath.
package pathfind

import (
	"context"
	"fmt"
	"slices"
)

// searcher holds the mutable state of one Search call.
type searcher struct {
	ctx      context.Context
	end      NodeID
	resolver EdgeResolver
	opts     Options
	frontier *Frontier
	memo     map[NodeID][]NodeID
	requests int
}

// Search runs one breadth-first route search from start to end.
// It never returns an error directly: every terminal state, including
// resolver and engine failures, is reported through the Outcome.
// ctx is handed to the resolver; the engine itself does not poll it.
func Search(ctx context.Context, start, end NodeID, resolver EdgeResolver, opts ...Option) (out Outcome) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case o.err != nil:
		return faultOutcome(o.err, 0)
	case start == "" || end == "":
		return faultOutcome(ErrEmptyNodeID, 0)
	case resolver == nil:
		return faultOutcome(ErrNilResolver, 0)
	}

	s := &searcher{
		ctx:      ctx,
		end:      end,
		resolver: resolver,
		opts:     o,
		frontier: NewFrontier(),
		memo:     make(map[NodeID][]NodeID),
	}

	defer func() {
		if r := recover(); r != nil {
			out = faultOutcome(fmt.Errorf("panic: %v", r), s.requests)
		}
	}()

	return s.run(start)
}

func (s *searcher) run(start NodeID) Outcome {
	if err := s.push(Candidate{Path: []NodeID{start}}); err != nil {
		return faultOutcome(err, s.requests)
	}

	for {
		current, ok := s.frontier.Next()
		if !ok {
			return Outcome{Kind: NoPath, Requests: s.requests}
		}

		head := current.Head()

		if head == s.end {
			return s.collect(current)
		}

		if current.Step >= s.opts.MaxHops {
			return Outcome{Kind: DepthExceeded, Depth: current.Step, Requests: s.requests}
		}

		neighbors, err := s.neighbors(head)
		if err != nil {
			return Outcome{
				Kind:     ResolveFailure,
				Requests: s.requests,
				Err:      fmt.Errorf("%w: resolving %s: %w", ErrResolve, head, err),
			}
		}

		s.opts.OnExpand(head, current.Step, s.requests)

		if err := s.expand(current, neighbors); err != nil {
			return faultOutcome(err, s.requests)
		}
	}
}

// collect gathers the first goal hit plus every later frontier entry that
// reaches the goal at the same step. Level order guarantees no shallower
// goal candidate is still queued.
func (s *searcher) collect(first Candidate) Outcome {
	paths := [][]NodeID{slices.Clone(first.Path)}

	s.frontier.ScanAhead(func(c Candidate) {
		if c.Step == first.Step && c.Head() == s.end {
			paths = append(paths, slices.Clone(c.Path))
		}
	})

	return Outcome{Kind: Found, Paths: paths, Depth: first.Step, Requests: s.requests}
}

// expand pushes one extension of current per admissible neighbour. A
// neighbour is skipped when some queued candidate already ends there at a
// step no deeper than current's.
func (s *searcher) expand(current Candidate, neighbors []NodeID) error {
	seen := make(map[NodeID]struct{}, len(neighbors))

	for _, n := range neighbors {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}

		if best, ok := s.frontier.Best(n); ok && best <= current.Step {
			continue
		}

		if err := s.push(current.Extend(n)); err != nil {
			return err
		}
	}

	return nil
}

// neighbors resolves node, reusing the answer if node was already expanded
// in this search.
func (s *searcher) neighbors(node NodeID) ([]NodeID, error) {
	if cached, ok := s.memo[node]; ok {
		return cached, nil
	}

	result, err := s.resolver.Resolve(s.ctx, node)
	if err != nil {
		return nil, err
	}

	s.requests++
	s.memo[node] = result

	return result, nil
}

func (s *searcher) push(c Candidate) error {
	if err := s.frontier.Push(c); err != nil {
		return err
	}

	s.opts.OnEnqueue(c)

	return nil
}

func faultOutcome(err error, requests int) Outcome {
	return Outcome{
		Kind:     InternalFault,
		Requests: requests,
		Err:      fmt.Errorf("%w: %w", ErrInternal, err),
	}
}
