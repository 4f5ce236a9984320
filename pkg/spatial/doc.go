// Package spatial implements a directed graph whose nodes and edges carry
// explicit geometric coordinates.
//
// Nodes and edges each own an arbitrary key/value attribute bag. The reserved
// attribute key "coords" holds an [orb.Point] on nodes and the ordered
// sequence of intermediate vertices ([]orb.Point, excluding the endpoint
// coordinates) on edges. A single graph-level CRS descriptor applies to every
// coordinate in the structure.
//
// The package provides:
//   - the attributed graph store ([Graph], [Graph.AddNode], [Graph.AddEdge])
//   - geometry assembly for node sequences ([Graph.Coords], [Graph.Shape])
//   - GeoJSON feature export ([Graph.Feature], [Graph.FeatureCollection])
//   - in-place CRS reprojection ([Graph.Reproject])
//
// Persistence to vector datasets lives in package gis; coordinate transform
// construction lives in package proj.
//
// # Example
//
//	g := spatial.New("EPSG:4326")
//	g.AddNode("a", spatial.Attrs{spatial.AttrCoords: orb.Point{0, 0}})
//	g.AddNode("b", spatial.Attrs{spatial.AttrCoords: orb.Point{2, 2}})
//	g.AddEdge("a", "b", spatial.Attrs{spatial.AttrCoords: []orb.Point{{1, 1}}})
//
//	shape, err := g.Shape("a", "b") // LineString (0,0) (1,1) (2,2)
//
// Graph is not safe for concurrent use without external synchronization.
package spatial
