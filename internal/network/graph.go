package network

import (
	"log/slog"
	"sort"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// ErrEmptyNetwork is returned when the filter rule leaves no usable segments.
// This is a fatal configuration error, the optimizer has nothing to work with.
var ErrEmptyNetwork = errors.New("no segments remain after filtering")

// Edge is one retained road segment inside the graph. Edges are indexed
// densely from 0; Index is the identity used by the incidence matrix and
// the optimizer, SegmentID keeps the link back to the source data.
type Edge struct {
	Index     int
	SegmentID int64
	From      int64
	To        int64
	Length    float64
	Weight    float64
	Geometry  orb.LineString
}

type adjEntry struct {
	edge int   // dense edge index
	to   int64 // neighbor node ID
}

// Graph is an undirected weighted road graph restricted to its largest
// connected component. It is built once and read-only afterwards.
type Graph struct {
	edges []Edge
	nodes map[int64]orb.Point
	adj   map[int64][]adjEntry
}

// FilterRule decides which segments enter the graph. The default keeps a
// segment iff it has at least 4 lanes or is classified primary or trunk.
type FilterRule struct {
	MinLanes int
	Classes  []string
}

// DefaultFilterRule returns the arterial-road filter used for route planning.
func DefaultFilterRule() FilterRule {
	return FilterRule{
		MinLanes: 4,
		Classes:  []string{"primary", "trunk"},
	}
}

func (r FilterRule) keep(s Segment) bool {
	if s.Lanes >= r.MinLanes {
		return true
	}
	for _, class := range r.Classes {
		if s.Class == class {
			return true
		}
	}

	return false
}

// Build filters the raw segments, assembles an undirected graph and restricts
// it to the largest connected component. Returns ErrEmptyNetwork when the
// filter leaves nothing.
func Build(segments []Segment, rule FilterRule, logger *slog.Logger) (*Graph, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var kept []Segment
	for _, segment := range segments {
		if rule.keep(segment) {
			kept = append(kept, segment)
		}
	}

	if len(kept) == 0 {
		return nil, errors.Wrapf(ErrEmptyNetwork, "filtered %d input segments", len(segments))
	}

	component := largestComponent(kept)

	graph := &Graph{
		nodes: make(map[int64]orb.Point),
		adj:   make(map[int64][]adjEntry),
	}

	for _, segment := range kept {
		if !component[segment.From] || !component[segment.To] {
			continue
		}
		graph.addEdge(segment)
	}

	logger.Info("road network built",
		"input_segments", len(segments),
		"filtered_segments", len(kept),
		"component_edges", len(graph.edges),
		"component_nodes", len(graph.nodes),
	)

	return graph, nil
}

func (g *Graph) addEdge(segment Segment) {
	index := len(g.edges)
	g.edges = append(g.edges, Edge{
		Index:     index,
		SegmentID: segment.ID,
		From:      segment.From,
		To:        segment.To,
		Length:    segment.Length,
		Weight:    segment.Weight,
		Geometry:  segment.Geometry,
	})

	g.adj[segment.From] = append(g.adj[segment.From], adjEntry{edge: index, to: segment.To})
	g.adj[segment.To] = append(g.adj[segment.To], adjEntry{edge: index, to: segment.From})

	if _, ok := g.nodes[segment.From]; !ok && len(segment.Geometry) > 0 {
		g.nodes[segment.From] = segment.Geometry[0]
	}
	if _, ok := g.nodes[segment.To]; !ok && len(segment.Geometry) > 0 {
		g.nodes[segment.To] = segment.Geometry[len(segment.Geometry)-1]
	}
	if _, ok := g.nodes[segment.From]; !ok {
		g.nodes[segment.From] = orb.Point{}
	}
	if _, ok := g.nodes[segment.To]; !ok {
		g.nodes[segment.To] = orb.Point{}
	}
}

// largestComponent finds the node set of the largest connected component
// using BFS over an adjacency map of the kept segments.
func largestComponent(segments []Segment) map[int64]bool {
	neighbors := make(map[int64][]int64)
	for _, segment := range segments {
		neighbors[segment.From] = append(neighbors[segment.From], segment.To)
		neighbors[segment.To] = append(neighbors[segment.To], segment.From)
	}

	visited := make(map[int64]bool, len(neighbors))
	var best map[int64]bool

	// Deterministic iteration order so edge indexes are stable across runs.
	nodeIDs := make([]int64, 0, len(neighbors))
	for id := range neighbors {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	for _, start := range nodeIDs {
		if visited[start] {
			continue
		}

		component := map[int64]bool{start: true}
		visited[start] = true
		queue := []int64{start}

		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			for _, next := range neighbors[node] {
				if !visited[next] {
					visited[next] = true
					component[next] = true
					queue = append(queue, next)
				}
			}
		}

		if len(component) > len(best) {
			best = component
		}
	}

	return best
}

// Edges returns the dense edge list. Callers must treat it as read-only.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Edge returns the edge at the given dense index.
func (g *Graph) Edge(index int) Edge {
	return g.edges[index]
}

// NumEdges returns the number of edges in the component.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []int64 {
	ids := make([]int64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// NodePoint returns the geographic position of a node.
func (g *Graph) NodePoint(id int64) (orb.Point, bool) {
	point, ok := g.nodes[id]

	return point, ok
}

// Neighbors iterates the adjacency of a node, calling visit with the dense
// edge index, the neighbor node ID and the edge length.
func (g *Graph) Neighbors(node int64, visit func(edge int, to int64, length float64)) {
	for _, entry := range g.adj[node] {
		visit(entry.edge, entry.to, g.edges[entry.edge].Length)
	}
}

// TotalWeight returns the summed weight over the full edge set.
func (g *Graph) TotalWeight() float64 {
	var total float64
	for _, edge := range g.edges {
		total += edge.Weight
	}

	return total
}

// TotalLength returns the summed length over the full edge set.
func (g *Graph) TotalLength() float64 {
	var total float64
	for _, edge := range g.edges {
		total += edge.Length
	}

	return total
}
