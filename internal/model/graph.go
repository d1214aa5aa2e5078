package model

// GraphEdge is a directed ordering constraint: From must complete before To.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DependencyGraph is the acyclic ordering structure built over a task
// decomposition. CriticalPath is a topologically-valid walk through the edges
// whose cumulative estimated duration is maximal among all source-to-sink paths.
type DependencyGraph struct {
	Nodes        []string    `json:"nodes"`
	Edges        []GraphEdge `json:"edges"`
	CriticalPath []string    `json:"critical_path"`
}

// HasEdge reports whether the graph contains the given directed edge.
func (g *DependencyGraph) HasEdge(from, to string) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}
