package spatial

import (
	"slices"

	"github.com/paulmach/orb"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

// AttrCoords is the reserved attribute key holding geometry: an [orb.Point]
// on nodes, an ordered []orb.Point of intermediate vertices on edges.
const AttrCoords = "coords"

// Attrs stores arbitrary key-value pairs attached to a node or an edge.
// Attribute bags are owned exclusively by the graph once added.
type Attrs map[string]any

// Copy returns a shallow copy of the attribute bag.
// Returns an empty (non-nil) map for a nil receiver.
func (a Attrs) Copy() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// EdgeKey identifies a directed edge by its ordered endpoint pair.
// Parallel edges between the same ordered pair are not supported.
type EdgeKey struct {
	From string // Source node ID
	To   string // Target node ID
}

// Graph is a directed graph with attribute bags on nodes and edges and a
// graph-level coordinate reference system shared by every coordinate.
//
// The zero value is not usable - use New to create a valid instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	crs   string
	nodes map[string]Attrs
	edges map[EdgeKey]Attrs
}

// New creates an empty graph whose coordinates are expressed in crs.
// The CRS descriptor is opaque to this package; it is only compared and
// passed through to persistence and projection collaborators.
func New(crs string) *Graph {
	return &Graph{
		crs:   crs,
		nodes: make(map[string]Attrs),
		edges: make(map[EdgeKey]Attrs),
	}
}

// CRS returns the graph-level coordinate reference system descriptor.
// Reprojection is the only writer; see [Graph.Reproject].
func (g *Graph) CRS() string { return g.crs }

// AddNode adds a node with the given attribute bag.
// Node IDs must be unique and non-empty; a nil bag is initialized to an
// empty map. The graph takes ownership of attrs.
func (g *Graph) AddNode(id string, attrs Attrs) error {
	if id == "" {
		return sderrors.New(sderrors.ErrCodeUsage, "node ID must not be empty")
	}
	if _, exists := g.nodes[id]; exists {
		return sderrors.New(sderrors.ErrCodeUsage, "duplicate node ID %q", id)
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	g.nodes[id] = attrs
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Both endpoints must already be present, and at most one edge may exist
// per ordered pair. The graph takes ownership of attrs.
func (g *Graph) AddEdge(from, to string, attrs Attrs) error {
	if _, ok := g.nodes[from]; !ok {
		return sderrors.New(sderrors.ErrCodeNotFound, "unknown source node %q", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return sderrors.New(sderrors.ErrCodeNotFound, "unknown target node %q", to)
	}
	key := EdgeKey{From: from, To: to}
	if _, exists := g.edges[key]; exists {
		return sderrors.New(sderrors.ErrCodeUsage, "duplicate edge (%q, %q)", from, to)
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	g.edges[key] = attrs
	return nil
}

// Node returns the attribute bag for id and whether the node exists.
// The returned bag is the live bag owned by the graph, not a copy.
func (g *Graph) Node(id string) (Attrs, bool) {
	attrs, ok := g.nodes[id]
	return attrs, ok
}

// Edge returns the attribute bag for the directed edge (from, to) and
// whether the edge exists. The returned bag is the live bag, not a copy.
func (g *Graph) Edge(from, to string) (Attrs, bool) {
	attrs, ok := g.edges[EdgeKey{From: from, To: to}]
	return attrs, ok
}

// Nodes returns all node IDs sorted lexicographically.
// Sorting keeps exports and layer writes deterministic.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edges returns all edge keys sorted by source then target ID.
func (g *Graph) Edges() []EdgeKey {
	keys := make([]EdgeKey, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b EdgeKey) int {
		if a.From != b.From {
			if a.From < b.From {
				return -1
			}
			return 1
		}
		switch {
		case a.To < b.To:
			return -1
		case a.To > b.To:
			return 1
		default:
			return 0
		}
	})
	return keys
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int { return len(g.edges) }

// NodeCoords returns the point geometry of a node.
// Fails with a lookup error if the node is absent or its coords attribute
// is missing or not an [orb.Point].
func (g *Graph) NodeCoords(id string) (orb.Point, error) {
	attrs, ok := g.nodes[id]
	if !ok {
		return orb.Point{}, sderrors.New(sderrors.ErrCodeNotFound, "%q is not a node in the graph", id)
	}
	pt, ok := attrs[AttrCoords].(orb.Point)
	if !ok {
		return orb.Point{}, sderrors.New(sderrors.ErrCodeNotFound, "node %q does not have a coords attribute", id)
	}
	return pt, nil
}

// EdgeVertices returns the intermediate vertex sequence of a directed edge,
// excluding the endpoint coordinates owned by the nodes. The sequence may be
// empty. Fails with a lookup error if the edge is absent or its coords
// attribute is missing or not a []orb.Point.
func (g *Graph) EdgeVertices(from, to string) ([]orb.Point, error) {
	attrs, ok := g.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return nil, sderrors.New(sderrors.ErrCodeNotFound, "(%q, %q) is not an edge in the graph", from, to)
	}
	verts, ok := attrs[AttrCoords].([]orb.Point)
	if !ok {
		return nil, sderrors.New(sderrors.ErrCodeNotFound, "edge (%q, %q) does not have a coords attribute", from, to)
	}
	return verts, nil
}
