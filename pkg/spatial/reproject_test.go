package spatial

import (
	"testing"

	"github.com/paulmach/orb"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

func TestReproject(t *testing.T) {
	g := pathGraph(t)

	shift := func(x, y float64) (float64, float64, error) {
		return x + 10, y + 20, nil
	}
	if err := g.Reproject("EPSG:3857", shift); err != nil {
		t.Fatalf("Reproject: %v", err)
	}

	if g.CRS() != "EPSG:3857" {
		t.Errorf("CRS = %q, want EPSG:3857", g.CRS())
	}

	pt, err := g.NodeCoords("a")
	if err != nil {
		t.Fatalf("NodeCoords: %v", err)
	}
	if pt != (orb.Point{10, 20}) {
		t.Errorf("node a = %v, want (10, 20)", pt)
	}

	verts, err := g.EdgeVertices("a", "b")
	if err != nil {
		t.Fatalf("EdgeVertices: %v", err)
	}
	if len(verts) != 1 || verts[0] != (orb.Point{11, 21}) {
		t.Errorf("edge vertices = %v, want [(11, 21)]", verts)
	}
}

func TestReprojectFailureLeavesGraphUntouched(t *testing.T) {
	g := pathGraph(t)

	calls := 0
	failing := func(x, y float64) (float64, float64, error) {
		calls++
		if calls > 2 {
			return 0, 0, sderrors.New(sderrors.ErrCodeProjection, "out of bounds")
		}
		return x + 10, y + 20, nil
	}

	err := g.Reproject("EPSG:3857", failing)
	if !sderrors.Is(err, sderrors.ErrCodeProjection) {
		t.Fatalf("error = %v, want PROJECTION_ERROR", err)
	}

	if g.CRS() != "EPSG:4326" {
		t.Errorf("CRS = %q, want EPSG:4326 after failed reprojection", g.CRS())
	}
	pt, err := g.NodeCoords("a")
	if err != nil {
		t.Fatalf("NodeCoords: %v", err)
	}
	if pt != (orb.Point{0, 0}) {
		t.Errorf("node a = %v, want untouched (0, 0)", pt)
	}
}

func TestReprojectEmptyEdgeVertices(t *testing.T) {
	g := New("EPSG:4326")
	g.AddNode("a", Attrs{AttrCoords: orb.Point{0, 0}})
	g.AddNode("b", Attrs{AttrCoords: orb.Point{1, 1}})
	g.AddEdge("a", "b", Attrs{AttrCoords: []orb.Point{}})

	identity := func(x, y float64) (float64, float64, error) { return x, y, nil }
	if err := g.Reproject("EPSG:3857", identity); err != nil {
		t.Fatalf("Reproject: %v", err)
	}

	verts, err := g.EdgeVertices("a", "b")
	if err != nil {
		t.Fatalf("EdgeVertices: %v", err)
	}
	if len(verts) != 0 {
		t.Errorf("edge vertices = %v, want empty", verts)
	}
}

func TestReprojectNilTransform(t *testing.T) {
	g := New("EPSG:4326")
	if err := g.Reproject("EPSG:3857", nil); !sderrors.Is(err, sderrors.ErrCodeProjection) {
		t.Errorf("error = %v, want PROJECTION_ERROR", err)
	}
}
