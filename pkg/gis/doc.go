// Package gis persists spatial graphs to paired vector-layer datasets and
// reconstructs them.
//
// A graph serializes to two layers sharing the graph's CRS: a Point layer
// "nodes" and a LineString layer "edges" whose line geometries are the fully
// assembled edge paths (endpoint coordinates included). Property schemas are
// declared per layer as ordered name/type-tag lists and validated eagerly;
// the identity fields ("node" on nodes, "anode"/"bnode" on edges) are forced
// into the schemas under a caller-chosen identity type.
//
// Reconstruction supports two mutually exclusive identity modes:
//
//   - byname: stored identity property values are used verbatim
//   - bylocation: identities are point coordinates rounded to a fixed
//     decimal precision, so layers written without meaningful names can be
//     rejoined spatially
//
// Loads are all-or-nothing. The edge layer must agree with the node layer
// on CRS, and every resolved edge endpoint must match a loaded node;
// violations fail the load with no partial graph returned.
//
// Storage backends are pluggable through package driver (GeoJSON directory,
// SQLite file, MongoDB).
//
// # Example
//
//	err := gis.Write(ctx, g, "roads.sqlite", gis.WriteOptions{
//	    NodeSchema: gis.Schema{{Name: "name", Type: gis.FieldStr}},
//	    EdgeSchema: gis.Schema{{Name: "lanes", Type: gis.FieldInt}},
//	})
//
//	g2, err := gis.Read(ctx, "roads.sqlite", gis.ByLocation(3))
package gis
