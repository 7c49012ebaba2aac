// Package layout computes a left-to-right layered arrangement of a workflow
// graph from its topology alone. Existing node positions are ignored.
package layout

import "github.com/meikuraledutech/flow"

// Options sizes the layout grid.
type Options struct {
	NodeWidth     float64
	NodeHeight    float64
	HorizontalGap float64
	VerticalGap   float64
}

// DefaultOptions returns the reference sizing.
func DefaultOptions() Options {
	return Options{
		NodeWidth:     150,
		NodeHeight:    60,
		HorizontalGap: 100,
		VerticalGap:   50,
	}
}

// Levels assigns each node its layer.
//
// Roots (no incoming edge) are level 0. A breadth-first walk from all roots
// sets each reached node to the maximum of its current level and its
// parent's level plus one; nodes are expanded only once, so cycles
// terminate. Nodes the walk never reaches get level 0. Edges with a missing
// endpoint are ignored.
func Levels(g flow.Graph) map[string]int {
	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}

	forward := make(map[string][]string)
	indegree := make(map[string]int)
	for _, e := range g.Edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		forward[e.Source] = append(forward[e.Source], e.Target)
		indegree[e.Target]++
	}

	level := make(map[string]int, len(g.Nodes))
	visited := make(map[string]bool, len(g.Nodes))
	var queue []string
	for _, n := range g.Nodes {
		if indegree[n.ID] == 0 && !visited[n.ID] {
			level[n.ID] = 0
			visited[n.ID] = true
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range forward[id] {
			if l, ok := level[next]; !ok || level[id]+1 > l {
				level[next] = level[id] + 1
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, n := range g.Nodes {
		if _, ok := level[n.ID]; !ok {
			level[n.ID] = 0
		}
	}
	return level
}

// Arrange returns the nodes of g, in their original order, with new
// positions. Within a level nodes are stacked in the order they appear in g.
func Arrange(g flow.Graph, opts Options) []flow.Node {
	level := Levels(g)

	stepX := opts.NodeWidth + opts.HorizontalGap
	stepY := opts.NodeHeight + opts.VerticalGap

	rows := make(map[int]int)
	out := make([]flow.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		l := level[n.ID]
		n.Position = flow.Position{
			X: float64(l) * stepX,
			Y: float64(rows[l]) * stepY,
		}
		rows[l]++
		out[i] = n
	}
	return out
}
