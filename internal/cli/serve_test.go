package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	g := spatial.New("EPSG:4326")
	g.AddNode("a", spatial.Attrs{spatial.AttrCoords: orb.Point{0, 0}, "kind": "depot"})
	g.AddNode("b", spatial.Attrs{spatial.AttrCoords: orb.Point{2, 0}})
	g.AddEdge("a", "b", spatial.Attrs{spatial.AttrCoords: []orb.Point{{1, 1}}})

	logger := newLogger(io.Discard, charmlog.ErrorLevel)
	srv := httptest.NewServer(newRouter(g, logger))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestServeHealthz(t *testing.T) {
	srv := testServer(t)
	body := getJSON(t, srv.URL+"/healthz", http.StatusOK)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestServeFeatures(t *testing.T) {
	srv := testServer(t)
	body := getJSON(t, srv.URL+"/features", http.StatusOK)

	if body["type"] != "FeatureCollection" {
		t.Errorf("type = %v, want FeatureCollection", body["type"])
	}
	features, ok := body["features"].([]any)
	if !ok {
		t.Fatalf("features = %T, want array", body["features"])
	}
	if len(features) != 3 {
		t.Errorf("feature count = %d, want 3 (2 nodes + 1 edge)", len(features))
	}
}

func TestServeNode(t *testing.T) {
	srv := testServer(t)
	body := getJSON(t, srv.URL+"/nodes/a", http.StatusOK)

	props, _ := body["properties"].(map[string]any)
	if props[spatial.PropNode] != "a" {
		t.Errorf("properties[node] = %v, want a", props[spatial.PropNode])
	}
	if props["kind"] != "depot" {
		t.Errorf("properties[kind] = %v, want depot", props["kind"])
	}
}

func TestServeEdge(t *testing.T) {
	srv := testServer(t)
	body := getJSON(t, srv.URL+"/edges/a/b", http.StatusOK)

	geom, _ := body["geometry"].(map[string]any)
	if geom["type"] != "LineString" {
		t.Errorf("geometry type = %v, want LineString", geom["type"])
	}
}

func TestServeNotFound(t *testing.T) {
	srv := testServer(t)
	body := getJSON(t, srv.URL+"/nodes/ghost", http.StatusNotFound)
	if body["error"] == "" {
		t.Error("error body missing")
	}
}
