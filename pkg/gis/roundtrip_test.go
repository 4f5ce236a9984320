package gis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"

	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

// networkGraph builds a small two-edge network with typed attributes.
func networkGraph(t *testing.T) *spatial.Graph {
	t.Helper()
	g := spatial.New("EPSG:4326")
	g.AddNode("a", spatial.Attrs{spatial.AttrCoords: orb.Point{0, 0}, "kind": "depot"})
	g.AddNode("b", spatial.Attrs{spatial.AttrCoords: orb.Point{2, 0}, "kind": "stop"})
	g.AddNode("c", spatial.Attrs{spatial.AttrCoords: orb.Point{4, 2}})
	g.AddEdge("a", "b", spatial.Attrs{
		spatial.AttrCoords: []orb.Point{{1, 1}},
		"lanes":            int64(2),
		"length":           2.5,
		"oneway":           true,
	})
	g.AddEdge("b", "c", spatial.Attrs{spatial.AttrCoords: []orb.Point{}})
	return g
}

func edgeSchemaForNetwork() Schema {
	return Schema{
		{Name: "lanes", Type: FieldInt},
		{Name: "length", Type: FieldFloat},
		{Name: "oneway", Type: FieldBool},
	}
}

func TestRoundTripGeoJSON(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "network")
	g := networkGraph(t)

	err := Write(ctx, g, path, WriteOptions{
		NodeSchema: Schema{{Name: "kind", Type: FieldStr}},
		EdgeSchema: edgeSchemaForNetwork(),
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(ctx, path, ByName())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	assertSameTopology(t, g, got)

	attrs, _ := got.Node("a")
	if attrs["kind"] != "depot" {
		t.Errorf("node a kind = %v, want depot", attrs["kind"])
	}
	attrs, _ = got.Node("c")
	if attrs["kind"] != nil {
		t.Errorf("node c kind = %v, want nil (missing attribute persists as null)", attrs["kind"])
	}

	// JSON decoding hands every number back as float64; declared int fields
	// do not keep their Go integer type under this driver.
	attrs, _ = got.Edge("a", "b")
	if attrs["lanes"] != float64(2) {
		t.Errorf("edge lanes = %v (%T), want 2 (float64)", attrs["lanes"], attrs["lanes"])
	}
	if attrs["length"] != 2.5 {
		t.Errorf("edge length = %v, want 2.5", attrs["length"])
	}
	if attrs["oneway"] != true {
		t.Errorf("edge oneway = %v, want true", attrs["oneway"])
	}

	verts, err := got.EdgeVertices("a", "b")
	if err != nil {
		t.Fatalf("EdgeVertices: %v", err)
	}
	if len(verts) != 1 || verts[0] != (orb.Point{1, 1}) {
		t.Errorf("edge vertices = %v, want [(1, 1)]", verts)
	}
}

func TestRoundTripSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "network.sqlite")
	g := networkGraph(t)

	err := Write(ctx, g, path, WriteOptions{
		NodeSchema: Schema{{Name: "kind", Type: FieldStr}},
		EdgeSchema: edgeSchemaForNetwork(),
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(ctx, path, ByName())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	assertSameTopology(t, g, got)

	// SQLite columns are typed, so declared ints and bools survive intact.
	attrs, _ := got.Edge("a", "b")
	if attrs["lanes"] != int64(2) {
		t.Errorf("edge lanes = %v (%T), want int64(2)", attrs["lanes"], attrs["lanes"])
	}
	if attrs["oneway"] != true {
		t.Errorf("edge oneway = %v, want true", attrs["oneway"])
	}

	pt, err := got.NodeCoords("b")
	if err != nil {
		t.Fatalf("NodeCoords: %v", err)
	}
	if pt != (orb.Point{2, 0}) {
		t.Errorf("node b coords = %v, want (2, 0)", pt)
	}
}

func TestRoundTripByLocation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "network")
	g := networkGraph(t)

	if err := Write(ctx, g, path, WriteOptions{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(ctx, path, ByLocation(1))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.NumNodes() != g.NumNodes() || got.NumEdges() != g.NumEdges() {
		t.Fatalf("topology = (%d, %d), want (%d, %d)",
			got.NumNodes(), got.NumEdges(), g.NumNodes(), g.NumEdges())
	}

	// Node identities are now coordinate tuples.
	a := spatial.LocationID(orb.Point{0, 0}, 1)
	b := spatial.LocationID(orb.Point{2, 0}, 1)
	if _, ok := got.Node(a); !ok {
		t.Errorf("node %q not found", a)
	}
	if _, ok := got.Edge(a, b); !ok {
		t.Errorf("edge (%q, %q) not found", a, b)
	}
}

func TestRoundTripIntIdentity(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "network.sqlite")

	g := spatial.New("EPSG:4326")
	g.AddNode("1", spatial.Attrs{spatial.AttrCoords: orb.Point{0, 0}})
	g.AddNode("2", spatial.Attrs{spatial.AttrCoords: orb.Point{1, 1}})
	g.AddEdge("1", "2", spatial.Attrs{spatial.AttrCoords: []orb.Point{}})

	if err := Write(ctx, g, path, WriteOptions{IDType: FieldInt}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(ctx, path, ByName())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Stored as integers, identities render back to the same string IDs.
	if _, ok := got.Node("1"); !ok {
		t.Errorf("node 1 not found; nodes = %v", got.Nodes())
	}
	if _, ok := got.Edge("1", "2"); !ok {
		t.Errorf("edge (1, 2) not found")
	}
}

func TestWriteUnsupportedSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "network")
	g := networkGraph(t)

	err := Write(ctx, g, path, WriteOptions{
		EdgeSchema: Schema{{Name: "when", Type: "datetime"}},
	})
	if err == nil {
		t.Fatal("Write succeeded with an unsupported field type")
	}

	// The eager schema check fails before the dataset directory is touched.
	if _, statErr := filepath.Glob(filepath.Join(path, "*.geojson")); statErr != nil {
		t.Fatalf("glob: %v", statErr)
	}
	matches, _ := filepath.Glob(filepath.Join(path, "*.geojson"))
	if len(matches) != 0 {
		t.Errorf("layer files written despite schema error: %v", matches)
	}
}

// assertSameTopology checks node and edge sets match between two graphs.
func assertSameTopology(t *testing.T, want, got *spatial.Graph) {
	t.Helper()
	if got.CRS() != want.CRS() {
		t.Errorf("CRS = %q, want %q", got.CRS(), want.CRS())
	}
	if got.NumNodes() != want.NumNodes() || got.NumEdges() != want.NumEdges() {
		t.Fatalf("topology = (%d nodes, %d edges), want (%d, %d)",
			got.NumNodes(), got.NumEdges(), want.NumNodes(), want.NumEdges())
	}
	for _, id := range want.Nodes() {
		if _, ok := got.Node(id); !ok {
			t.Errorf("node %q missing", id)
		}
	}
	for _, e := range want.Edges() {
		if _, ok := got.Edge(e.From, e.To); !ok {
			t.Errorf("edge %v missing", e)
		}
	}
}
