package pathfind

import (
	"context"
	"errors"
)

// DefaultMaxHops is the longest route, in borders crossed, the engine will report.
const DefaultMaxHops = 10

// Sentinel errors carried by non-Found outcomes.
var (
	// ErrResolve wraps every failure returned by an EdgeResolver.
	ErrResolve = errors.New("pathfind: edge lookup failed")

	// ErrInternal marks engine faults (bad candidates, panics, bad options).
	ErrInternal = errors.New("pathfind: internal fault")

	// ErrEmptyNodeID is returned when start or end is empty.
	ErrEmptyNodeID = errors.New("pathfind: empty node id")

	// ErrNilResolver is returned when Search is called without a resolver.
	ErrNilResolver = errors.New("pathfind: resolver is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("pathfind: invalid option supplied")

	// ErrMalformedCandidate is returned when a candidate's path and step disagree.
	ErrMalformedCandidate = errors.New("pathfind: malformed candidate")

	// ErrStepOrder is returned when a push would break level order.
	ErrStepOrder = errors.New("pathfind: frontier step order violated")
)

// NodeID identifies a node of the implicit graph (a cca3 country code).
type NodeID string

// EdgeResolver returns the neighbours of a node. Each call is one remote round trip.
type EdgeResolver interface {
	Resolve(ctx context.Context, node NodeID) ([]NodeID, error)
}

// ResolverFunc adapts a plain function to EdgeResolver.
type ResolverFunc func(ctx context.Context, node NodeID) ([]NodeID, error)

// Resolve calls f(ctx, node).
func (f ResolverFunc) Resolve(ctx context.Context, node NodeID) ([]NodeID, error) {
	return f(ctx, node)
}

// Candidate is one partial route. Step is the number of edges in Path.
type Candidate struct {
	Path []NodeID
	Step int
}

// Head returns the last node of the candidate's path.
func (c Candidate) Head() NodeID {
	return c.Path[len(c.Path)-1]
}

// Extend returns a new candidate one hop longer. The receiver is not modified.
func (c Candidate) Extend(next NodeID) Candidate {
	path := make([]NodeID, len(c.Path), len(c.Path)+1)
	copy(path, c.Path)

	return Candidate{Path: append(path, next), Step: c.Step + 1}
}

func (c Candidate) valid() bool {
	return len(c.Path) > 0 && c.Step == len(c.Path)-1
}

// Kind enumerates the terminal states of a search.
type Kind int

const (
	// Found means at least one route to the goal was collected.
	Found Kind = iota
	// DepthExceeded means the first candidate past the hop cap ended the search.
	DepthExceeded
	// NoPath means the reachable component was exhausted without reaching the goal.
	NoPath
	// ResolveFailure means an edge lookup failed; partial results are discarded.
	ResolveFailure
	// InternalFault means the engine itself misbehaved.
	InternalFault
)

// String returns the snake_case label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case DepthExceeded:
		return "depth_exceeded"
	case NoPath:
		return "no_path"
	case ResolveFailure:
		return "resolve_failure"
	case InternalFault:
		return "internal_fault"
	default:
		return "unknown"
	}
}

// Outcome is the single value returned by Search.
//
//   - Found: Paths holds every shortest route, Depth their hop count.
//   - DepthExceeded: Depth is the step of the candidate that tripped the cap.
//   - NoPath: no payload.
//   - ResolveFailure, InternalFault: Err holds the cause.
//
// Requests is always the number of successful resolver calls.
type Outcome struct {
	Kind     Kind
	Paths    [][]NodeID
	Depth    int
	Requests int
	Err      error
}
