// Package graph implements the dependency-graph engine: adjacency
// construction, reachability, the cycle pre-check used before persisting a
// new edge, ready-task derivation, and topological ordering. Every function
// is a pure computation over a snapshot handed in by the caller; the package
// holds no state and performs no I/O.
package graph

import (
	"errors"
	"sort"

	"github.com/groblegark/flowtask/internal/model"
)

// ErrCycle is returned when a proposed dependency edge would close a cycle.
// It is an expected, recoverable rejection of user input.
var ErrCycle = errors.New("dependency would create a cycle")

// ErrGraphInconsistent is returned when the persisted edge set already
// contains a cycle. The insertion-time pre-check makes this unreachable in
// normal operation, so it indicates a data-integrity fault.
var ErrGraphInconsistent = errors.New("dependency graph contains a cycle")

// Edge is a directed "depends-on" pair: TaskID depends on DependsOnID.
type Edge struct {
	TaskID      int64
	DependsOnID int64
}

// EdgesOf converts stored dependency rows into graph edges.
func EdgesOf(deps []*model.Dependency) []Edge {
	edges := make([]Edge, len(deps))
	for i, d := range deps {
		edges[i] = Edge{TaskID: d.TaskID, DependsOnID: d.DependsOnID}
	}
	return edges
}

// BuildAdjacency maps every node appearing in the edge list to the set of
// its direct prerequisites. Nodes that only ever appear as a prerequisite
// still get an entry with an empty set, so traversal never needs an
// existence check.
func BuildAdjacency(edges []Edge) map[int64]map[int64]struct{} {
	adj := make(map[int64]map[int64]struct{})
	for _, e := range edges {
		if adj[e.TaskID] == nil {
			adj[e.TaskID] = make(map[int64]struct{})
		}
		adj[e.TaskID][e.DependsOnID] = struct{}{}
		if adj[e.DependsOnID] == nil {
			adj[e.DependsOnID] = make(map[int64]struct{})
		}
	}
	return adj
}

// HasPath reports whether target is reachable from start by following
// depends-on edges. A zero-hop path exists when start == target. The visited
// set bounds work on diamond-shaped graphs; the graph is acyclic by
// invariant so no further bookkeeping is needed.
func HasPath(adj map[int64]map[int64]struct{}, start, target int64) bool {
	if start == target {
		return true
	}
	stack := []int64{start}
	visited := make(map[int64]struct{})
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[node]; ok {
			continue
		}
		visited[node] = struct{}{}
		for next := range adj[node] {
			if next == target {
				return true
			}
			if _, ok := visited[next]; !ok {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// WouldCreateCycle reports whether adding the edge "taskID depends on
// prereqID" to the current edge set would close a cycle. A self-edge is a
// degenerate cycle and is always rejected. Otherwise the edge closes a cycle
// exactly when prereqID can already reach taskID. The check runs against the
// graph before the edge is added; the caller must only persist the edge when
// this returns false.
func WouldCreateCycle(edges []Edge, taskID, prereqID int64) bool {
	if taskID == prereqID {
		return true
	}
	adj := BuildAdjacency(edges)
	return HasPath(adj, prereqID, taskID)
}

// TopoSort orders taskIDs so that every prerequisite appears strictly before
// every task depending on it, using Kahn's algorithm over the inverted
// relation (prerequisite to dependents). Edges with an endpoint outside
// taskIDs are ignored. Ties are broken by ascending id so the output is
// deterministic. If fewer nodes come out than went in, the stored edge set
// contains a cycle and ErrGraphInconsistent is returned.
func TopoSort(taskIDs []int64, edges []Edge) ([]int64, error) {
	inSet := make(map[int64]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		inSet[id] = struct{}{}
	}

	dependents := make(map[int64][]int64)
	indegree := make(map[int64]int, len(inSet))
	for id := range inSet {
		indegree[id] = 0
	}
	for _, e := range edges {
		if _, ok := inSet[e.TaskID]; !ok {
			continue
		}
		if _, ok := inSet[e.DependsOnID]; !ok {
			continue
		}
		dependents[e.DependsOnID] = append(dependents[e.DependsOnID], e.TaskID)
		indegree[e.TaskID]++
	}
	for id := range dependents {
		sort.Slice(dependents[id], func(i, j int) bool { return dependents[id][i] < dependents[id][j] })
	}

	var frontier []int64
	for id, deg := range indegree {
		if deg == 0 {
			frontier = append(frontier, id)
		}
	}
	sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })

	out := make([]int64, 0, len(inSet))
	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]
		out = append(out, node)
		for _, dep := range dependents[node] {
			indegree[dep]--
			if indegree[dep] == 0 {
				frontier = append(frontier, dep)
			}
		}
	}

	if len(out) != len(inSet) {
		return nil, ErrGraphInconsistent
	}
	return out, nil
}
