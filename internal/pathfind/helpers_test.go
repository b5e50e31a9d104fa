package pathfind_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/persistorai/borderhop/internal/pathfind"
)

// graph is an undirected adjacency map used as a fake border service.
type graph map[pathfind.NodeID][]pathfind.NodeID

func newGraph(edges ...[2]pathfind.NodeID) graph {
	g := graph{}
	for _, e := range edges {
		g[e[0]] = append(g[e[0]], e[1])
		g[e[1]] = append(g[e[1]], e[0])
	}
	return g
}

// chain builds n0 - n1 - ... - n{size-1}.
func chain(size int) graph {
	edges := make([][2]pathfind.NodeID, 0, size)
	for i := 0; i+1 < size; i++ {
		edges = append(edges, [2]pathfind.NodeID{node(i), node(i + 1)})
	}
	return newGraph(edges...)
}

func node(i int) pathfind.NodeID {
	return pathfind.NodeID(fmt.Sprintf("N%02d", i))
}

var errUnavailable = errors.New("service unavailable")

// recordingResolver serves a graph and records every lookup.
type recordingResolver struct {
	g      graph
	failOn int // 1-based call number that fails; 0 never fails

	mu    sync.Mutex
	calls []pathfind.NodeID
}

func (r *recordingResolver) Resolve(_ context.Context, n pathfind.NodeID) ([]pathfind.NodeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, n)
	if r.failOn > 0 && len(r.calls) == r.failOn {
		return nil, errUnavailable
	}
	return r.g[n], nil
}

func (r *recordingResolver) callCount(n pathfind.NodeID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, c := range r.calls {
		if c == n {
			count++
		}
	}
	return count
}

// distance is a reference BFS over the full graph.
func distance(g graph, from, to pathfind.NodeID) (int, bool) {
	dist := map[pathfind.NodeID]int{from: 0}
	queue := []pathfind.NodeID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return dist[cur], true
		}
		for _, n := range g[cur] {
			if _, ok := dist[n]; !ok {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	return 0, false
}

// simplePaths enumerates every simple path of exactly hops edges.
func simplePaths(g graph, from, to pathfind.NodeID, hops int) [][]pathfind.NodeID {
	var out [][]pathfind.NodeID
	var walk func(path []pathfind.NodeID, onPath map[pathfind.NodeID]bool)
	walk = func(path []pathfind.NodeID, onPath map[pathfind.NodeID]bool) {
		head := path[len(path)-1]
		if len(path)-1 == hops {
			if head == to {
				out = append(out, append([]pathfind.NodeID(nil), path...))
			}
			return
		}
		for _, n := range g[head] {
			if onPath[n] {
				continue
			}
			onPath[n] = true
			walk(append(path, n), onPath)
			onPath[n] = false
		}
	}
	walk([]pathfind.NodeID{from}, map[pathfind.NodeID]bool{from: true})
	return out
}
