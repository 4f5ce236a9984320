package proj

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

func TestParseCRS(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "Prefixed", in: "EPSG:4326", want: 4326},
		{name: "LowercasePrefix", in: "epsg:3857", want: 3857},
		{name: "BareCode", in: "4326", want: 4326},
		{name: "Whitespace", in: "  EPSG:4326 ", want: 4326},
		{name: "Empty", in: "", wantErr: true},
		{name: "Garbage", in: "WGS84", wantErr: true},
		{name: "NegativeCode", in: "EPSG:-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCRS(tt.in)
			if tt.wantErr {
				if !sderrors.Is(err, sderrors.ErrCodeProjection) {
					t.Fatalf("error = %v, want PROJECTION_ERROR", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCRS(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCRS(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformUnknownCode(t *testing.T) {
	if _, err := Transform("EPSG:4326", "EPSG:999999"); !sderrors.Is(err, sderrors.ErrCodeProjection) {
		t.Errorf("error = %v, want PROJECTION_ERROR", err)
	}
	if _, err := Transform("EPSG:999999", "EPSG:4326"); !sderrors.Is(err, sderrors.ErrCodeProjection) {
		t.Errorf("error = %v, want PROJECTION_ERROR", err)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	forward, err := Transform("EPSG:4326", "EPSG:3857")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	back, err := Transform("EPSG:3857", "EPSG:4326")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	lon, lat := -122.33, 47.61
	x, y, err := forward(lon, lat)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if x == lon && y == lat {
		t.Fatalf("forward transform is a no-op: (%v, %v)", x, y)
	}

	lon2, lat2, err := back(x, y)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if math.Abs(lon2-lon) > 1e-6 || math.Abs(lat2-lat) > 1e-6 {
		t.Errorf("round trip = (%v, %v), want (%v, %v)", lon2, lat2, lon, lat)
	}
}

func TestReproject(t *testing.T) {
	g := spatial.New("EPSG:4326")
	g.AddNode("a", spatial.Attrs{spatial.AttrCoords: orb.Point{-122.33, 47.61}})
	g.AddNode("b", spatial.Attrs{spatial.AttrCoords: orb.Point{-122.30, 47.62}})
	g.AddEdge("a", "b", spatial.Attrs{spatial.AttrCoords: []orb.Point{{-122.32, 47.615}}})

	if err := Reproject(g, "EPSG:3857"); err != nil {
		t.Fatalf("Reproject: %v", err)
	}
	if g.CRS() != "EPSG:3857" {
		t.Errorf("CRS = %q, want EPSG:3857", g.CRS())
	}

	pt, err := g.NodeCoords("a")
	if err != nil {
		t.Fatalf("NodeCoords: %v", err)
	}
	// Web Mercator coordinates are in meters; well outside the degree range.
	if math.Abs(pt[0]) < 1000 || math.Abs(pt[1]) < 1000 {
		t.Errorf("node a = %v, want projected meters", pt)
	}
}

func TestReprojectBadTarget(t *testing.T) {
	g := spatial.New("EPSG:4326")
	if err := Reproject(g, "not-a-crs"); !sderrors.Is(err, sderrors.ErrCodeProjection) {
		t.Errorf("error = %v, want PROJECTION_ERROR", err)
	}
}
