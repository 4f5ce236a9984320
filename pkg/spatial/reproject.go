package spatial

import (
	"github.com/paulmach/orb"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

// TransformFunc converts a single coordinate from the graph's current CRS
// into a target CRS. The projection math itself is an external collaborator;
// package proj builds TransformFuncs for EPSG code pairs.
type TransformFunc func(x, y float64) (float64, float64, error)

// Reproject rewrites every stored coordinate from the graph's current CRS
// into targetCRS using fn, then updates the CRS marker.
//
// All transformed coordinates are buffered and applied only after every node
// point and edge vertex transformed cleanly, so a failing transform leaves
// the graph and its CRS marker untouched. Edges with an empty intermediate
// vertex sequence have nothing to transform and keep their empty sequence.
//
// Every node must carry a coords attribute; edges without one fail with a
// lookup error before any mutation.
func (g *Graph) Reproject(targetCRS string, fn TransformFunc) error {
	if fn == nil {
		return sderrors.New(sderrors.ErrCodeProjection, "transform function must not be nil")
	}

	nodeCoords := make(map[string]orb.Point, len(g.nodes))
	for _, id := range g.Nodes() {
		pt, err := g.NodeCoords(id)
		if err != nil {
			return err
		}
		x, y, err := fn(pt[0], pt[1])
		if err != nil {
			return sderrors.Wrap(sderrors.ErrCodeProjection, err, "transform node %q", id)
		}
		nodeCoords[id] = orb.Point{x, y}
	}

	edgeCoords := make(map[EdgeKey][]orb.Point, len(g.edges))
	for _, key := range g.Edges() {
		verts, err := g.EdgeVertices(key.From, key.To)
		if err != nil {
			return err
		}
		if len(verts) == 0 {
			continue
		}
		out := make([]orb.Point, len(verts))
		for i, v := range verts {
			x, y, err := fn(v[0], v[1])
			if err != nil {
				return sderrors.Wrap(sderrors.ErrCodeProjection, err,
					"transform vertex %d of edge (%q, %q)", i, key.From, key.To)
			}
			out[i] = orb.Point{x, y}
		}
		edgeCoords[key] = out
	}

	// All transforms succeeded; apply atomically.
	for id, pt := range nodeCoords {
		g.nodes[id][AttrCoords] = pt
	}
	for key, verts := range edgeCoords {
		g.edges[key][AttrCoords] = verts
	}
	g.crs = targetCRS
	return nil
}
