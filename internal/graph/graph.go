// Package graph builds the directed dependency graph over a task
// decomposition and computes its critical path.
package graph

import (
	"sort"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// Builder constructs DependencyGraphs. It is stateless and safe for
// concurrent use.
type Builder struct{}

// New returns a Builder.
func New() *Builder {
	return &Builder{}
}

// Build constructs the graph for the decomposition. Edges point from a
// dependency to its dependent. Cycles are broken by dropping the closing edge
// discovered during traversal, and the critical path is the heaviest chain by
// estimated hours. An empty decomposition yields an empty graph, not an error.
func (b *Builder) Build(d *model.TaskDecomposition) (*model.DependencyGraph, error) {
	if err := model.ValidateDecomposition(d); err != nil {
		return nil, err
	}

	g := &model.DependencyGraph{
		Nodes:        d.TaskIDs(),
		Edges:        []model.GraphEdge{},
		CriticalPath: []string{},
	}
	if len(d.Tasks) == 0 {
		return g, nil
	}

	hours := make(map[string]float64, len(d.Tasks))
	for _, t := range d.Tasks {
		hours[t.ID] = t.EstimatedHours
	}

	edges := make([]model.GraphEdge, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		for _, dep := range t.Dependencies {
			edges = append(edges, model.GraphEdge{From: dep, To: t.ID})
		}
	}

	g.Edges = breakCycles(g.Nodes, edges)
	g.CriticalPath = criticalPath(g.Nodes, g.Edges, hours)
	return g, nil
}

// breakCycles removes the closing edge of every cycle found by depth-first
// traversal. Traversal order is sorted, so the same input always drops the
// same edges.
func breakCycles(nodes []string, edges []model.GraphEdge) []model.GraphEdge {
	adj := make(map[string][]string, len(nodes))
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	for _, targets := range adj {
		sort.Strings(targets)
	}

	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(nodes))
	removed := make(map[model.GraphEdge]bool)

	var visit func(u string)
	visit = func(u string) {
		state[u] = onStack
		for _, v := range adj[u] {
			e := model.GraphEdge{From: u, To: v}
			if removed[e] {
				continue
			}
			switch state[v] {
			case onStack:
				removed[e] = true
			case unvisited:
				visit(v)
			}
		}
		state[u] = done
	}

	sorted := append([]string(nil), nodes...)
	sort.Strings(sorted)
	for _, n := range sorted {
		if state[n] == unvisited {
			visit(n)
		}
	}

	if len(removed) == 0 {
		return edges
	}
	kept := make([]model.GraphEdge, 0, len(edges)-len(removed))
	for _, e := range edges {
		if !removed[e] {
			kept = append(kept, e)
		}
	}
	return kept
}

// criticalPath returns the heaviest chain of tasks by summed estimated hours,
// in execution order. Ties resolve to the path whose first task ID is
// lexicographically smaller, so each chain's head is carried through the DP.
func criticalPath(nodes []string, edges []model.GraphEdge, hours map[string]float64) []string {
	preds := make(map[string][]string, len(nodes))
	for _, e := range edges {
		preds[e.To] = append(preds[e.To], e.From)
	}
	for _, ps := range preds {
		sort.Strings(ps)
	}

	order := topoOrder(nodes, edges)

	dist := make(map[string]float64, len(nodes))
	back := make(map[string]string, len(nodes))
	head := make(map[string]string, len(nodes))
	for _, n := range order {
		dist[n] = hours[n]
		head[n] = n
		for _, p := range preds[n] {
			candidate := dist[p] + hours[n]
			if candidate > dist[n] || (candidate == dist[n] && head[p] < head[n]) {
				dist[n] = candidate
				back[n] = p
				head[n] = head[p]
			}
		}
	}

	var end string
	for _, n := range order {
		if end == "" || dist[n] > dist[end] ||
			(dist[n] == dist[end] && (head[n] < head[end] || (head[n] == head[end] && n < end))) {
			end = n
		}
	}

	var path []string
	for n := end; n != ""; n = back[n] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// topoOrder returns the nodes in dependency order using Kahn's algorithm,
// taking the lexicographically smallest ready node first.
func topoOrder(nodes []string, edges []model.GraphEdge) []string {
	indegree := make(map[string]int, len(nodes))
	adj := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		indegree[n] = 0
	}
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
		indegree[e.To]++
	}

	var ready []string
	for _, n := range nodes {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, m := range adj[n] {
			indegree[m]--
			if indegree[m] == 0 {
				i := sort.SearchStrings(ready, m)
				ready = append(ready, "")
				copy(ready[i+1:], ready[i:])
				ready[i] = m
			}
		}
	}
	return order
}
