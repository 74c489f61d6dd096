// Package graph implements a directed multigraph over string node identifiers.
// Parallel edges are kept, one per link occurrence, and edge order follows
// insertion order so backlink listings are reproducible.
package graph

import "sort"

// Edge is one directed occurrence from Source to Target.
type Edge struct {
	Source string
	Target string
}

// MultiDiGraph is a directed graph that allows parallel edges and isolated
// nodes. It is not safe for concurrent mutation.
type MultiDiGraph struct {
	nodes map[string]struct{}
	out   map[string][]string
	in    map[string][]string
	edges int
}

// New returns an empty multigraph.
func New() *MultiDiGraph {
	return &MultiDiGraph{
		nodes: make(map[string]struct{}),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
	}
}

// Build constructs a graph from an adjacency map. Sources are added in sorted
// order so edge insertion, and with it backlink order, is deterministic.
// Targets that only ever appear on the right-hand side become nodes too.
func Build(adjacency map[string][]string) *MultiDiGraph {
	g := New()
	sources := make([]string, 0, len(adjacency))
	for src := range adjacency {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		g.AddNode(src)
		for _, dst := range adjacency[src] {
			g.AddEdge(src, dst)
		}
	}
	return g
}

// AddNode inserts a node. Re-adding an existing node is a no-op.
func (g *MultiDiGraph) AddNode(name string) {
	g.nodes[name] = struct{}{}
}

// AddEdge inserts one directed occurrence, creating both endpoints as needed.
func (g *MultiDiGraph) AddEdge(source, target string) {
	g.AddNode(source)
	g.AddNode(target)
	g.out[source] = append(g.out[source], target)
	g.in[target] = append(g.in[target], source)
	g.edges++
}

// HasNode reports whether name is a node in the graph.
func (g *MultiDiGraph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Nodes returns all node names in sorted order.
func (g *MultiDiGraph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *MultiDiGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the total number of edge occurrences.
func (g *MultiDiGraph) EdgeCount() int { return g.edges }

// Predecessors returns the source of every edge pointing at name, one entry
// per occurrence, in insertion order.
func (g *MultiDiGraph) Predecessors(name string) []string {
	in := g.in[name]
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Successors returns the target of every edge leaving name, one entry per
// occurrence, in insertion order.
func (g *MultiDiGraph) Successors(name string) []string {
	src := g.out[name]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// InDegree returns the number of edges pointing at name.
func (g *MultiDiGraph) InDegree(name string) int { return len(g.in[name]) }

// OutDegree returns the number of edges leaving name.
func (g *MultiDiGraph) OutDegree(name string) int { return len(g.out[name]) }

// Isolates returns nodes with no incident edges, sorted.
func (g *MultiDiGraph) Isolates() []string {
	var out []string
	for n := range g.nodes {
		if len(g.in[n]) == 0 && len(g.out[n]) == 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge occurrence. Sources come out sorted, with each
// source's targets in insertion order.
func (g *MultiDiGraph) Edges() []Edge {
	sources := make([]string, 0, len(g.out))
	for src := range g.out {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	out := make([]Edge, 0, g.edges)
	for _, src := range sources {
		for _, dst := range g.out[src] {
			out = append(out, Edge{Source: src, Target: dst})
		}
	}
	return out
}
