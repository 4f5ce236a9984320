package spatial

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

// Coords assembles the full ordered coordinate sequence for a node sequence.
//
// For a single node the result is that node's point. For longer sequences
// every consecutive pair must exist as a directed edge, and the result is the
// first node's point followed, per edge (u, v), by the edge's intermediate
// vertices and then v's point. The assembled sequence is suitable for a
// polyline.
//
// Calling with no nodes fails with a usage error; a missing node, edge or
// coords attribute fails with a lookup error naming the missing element.
func (g *Graph) Coords(nodes ...string) ([]orb.Point, error) {
	if len(nodes) == 0 {
		return nil, sderrors.New(sderrors.ErrCodeUsage, "must provide at least one node")
	}

	first, err := g.NodeCoords(nodes[0])
	if err != nil {
		return nil, err
	}

	coords := []orb.Point{first}
	for i := 1; i < len(nodes); i++ {
		u, v := nodes[i-1], nodes[i]
		verts, err := g.EdgeVertices(u, v)
		if err != nil {
			return nil, err
		}
		pt, err := g.NodeCoords(v)
		if err != nil {
			return nil, err
		}
		coords = append(coords, verts...)
		coords = append(coords, pt)
	}
	return coords, nil
}

// Shape returns the geometry for a node sequence: an [orb.Point] for a single
// node, an [orb.LineString] for longer sequences. The same preconditions as
// [Graph.Coords] apply.
func (g *Graph) Shape(nodes ...string) (orb.Geometry, error) {
	coords, err := g.Coords(nodes...)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 {
		return coords[0], nil
	}
	return orb.LineString(coords), nil
}

// RoundPoint rounds both ordinates of p to the given number of decimal
// places. Rounding is half-away-from-zero, matching the usual cartographic
// convention, and negative zero is normalized so rounded points compare
// equal regardless of approach direction.
func RoundPoint(p orb.Point, precision int) orb.Point {
	return orb.Point{roundTo(p[0], precision), roundTo(p[1], precision)}
}

func roundTo(x float64, precision int) float64 {
	scale := math.Pow10(precision)
	r := math.Round(x*scale) / scale
	if r == 0 {
		r = 0 // clears the sign of negative zero
	}
	return r
}

// LocationID encodes a point rounded to the given precision as a canonical
// node identifier. Both identity-resolution modes thus share a single
// comparable ID type: symbolic names under byname, fixed-precision
// coordinate tuples under bylocation.
func LocationID(p orb.Point, precision int) string {
	r := RoundPoint(p, precision)
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(r[0], 'f', precision, 64),
		strconv.FormatFloat(r[1], 'f', precision, 64))
}
