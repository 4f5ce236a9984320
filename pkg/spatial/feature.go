package spatial

import (
	"github.com/paulmach/orb/geojson"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

// Identity property keys used in exported features and persisted layers.
const (
	// PropNode carries the node ID on node features.
	PropNode = "node"
	// PropANode carries the source node ID on edge features.
	PropANode = "anode"
	// PropBNode carries the target node ID on edge features.
	PropBNode = "bnode"
)

// Feature exports a single node or a single directed edge as a GeoJSON
// feature.
//
// With one node the feature carries Point geometry and the node's attribute
// bag (minus the coords assembly attribute) plus a "node" identity property.
// With two nodes it carries the assembled LineString geometry of the edge
// and the edge's bag plus "anode"/"bnode" identity properties.
//
// Any other arity fails with a usage error.
func (g *Graph) Feature(nodes ...string) (*geojson.Feature, error) {
	if len(nodes) != 1 && len(nodes) != 2 {
		return nil, sderrors.New(sderrors.ErrCodeUsage, "must provide either one or two nodes")
	}

	geom, err := g.Shape(nodes...)
	if err != nil {
		return nil, err
	}

	f := geojson.NewFeature(geom)
	if len(nodes) == 1 {
		attrs, _ := g.Node(nodes[0])
		f.Properties = exportProperties(attrs)
		f.Properties[PropNode] = nodes[0]
	} else {
		attrs, _ := g.Edge(nodes[0], nodes[1])
		f.Properties = exportProperties(attrs)
		f.Properties[PropANode] = nodes[0]
		f.Properties[PropBNode] = nodes[1]
	}
	return f, nil
}

// FeatureCollection exports the whole graph: one feature per node followed
// by one feature per edge, both in sorted order for deterministic output.
func (g *Graph) FeatureCollection() (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for _, id := range g.Nodes() {
		f, err := g.Feature(id)
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	for _, e := range g.Edges() {
		f, err := g.Feature(e.From, e.To)
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	return fc, nil
}

// exportProperties copies an attribute bag into GeoJSON feature properties,
// dropping the coords attribute, which exists only for geometry assembly.
func exportProperties(attrs Attrs) geojson.Properties {
	props := make(geojson.Properties, len(attrs))
	for k, v := range attrs {
		if k == AttrCoords {
			continue
		}
		props[k] = v
	}
	return props
}
