package gis

import (
	"context"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis/driver"
	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

// Layer names of the paired vector dataset.
const (
	LayerNodes = "nodes"
	LayerEdges = "edges"
)

// WriteOptions configures a dataset write.
type WriteOptions struct {
	// Driver selects the dataset driver by registry name.
	// Empty means infer from the path (see driver.Infer).
	Driver string

	// NodeSchema and EdgeSchema declare the properties persisted per layer.
	// The identity fields ("node"; "anode"/"bnode") are forced into the
	// schemas under IDType, overriding caller entries with those names.
	NodeSchema Schema
	EdgeSchema Schema

	// IDType is the declared type of the identity fields. Empty means str.
	IDType FieldType
}

// Write serializes the graph to two vector layers at path: a Point layer
// "nodes" and a LineString layer "edges" whose geometries are the fully
// assembled edge paths. Both layers share the graph's CRS.
//
// Every declared type tag is validated before anything is written; an
// unsupported tag fails the whole operation with a schema error. Missing
// attributes are persisted as nulls, not errors. Writes are not
// transactional beyond that eager check: a failure mid-iteration can leave
// a partially written dataset.
func Write(ctx context.Context, g *spatial.Graph, path string, opts WriteOptions) error {
	idType := opts.IDType
	if idType == "" {
		idType = FieldStr
	}
	if !supportedTypes[idType] {
		return sderrors.New(sderrors.ErrCodeSchema, "unsupported identity field type %q", idType)
	}

	nodeSchema := opts.NodeSchema.withIdentity(idType, spatial.PropNode)
	edgeSchema := opts.EdgeSchema.withIdentity(idType, spatial.PropANode, spatial.PropBNode)
	if err := nodeSchema.Validate(); err != nil {
		return err
	}
	if err := edgeSchema.Validate(); err != nil {
		return err
	}

	nodeLayer, err := buildNodeLayer(g, nodeSchema, idType)
	if err != nil {
		return err
	}
	edgeLayer, err := buildEdgeLayer(g, edgeSchema, idType)
	if err != nil {
		return err
	}

	d, err := resolveDriver(opts.Driver, path)
	if err != nil {
		return err
	}
	ds, err := d.Create(ctx, path)
	if err != nil {
		return err
	}
	defer ds.Close()

	if err := ds.WriteLayer(ctx, nodeLayer); err != nil {
		return err
	}
	return ds.WriteLayer(ctx, edgeLayer)
}

func resolveDriver(name, path string) (driver.Driver, error) {
	if name == "" {
		name = driver.Infer(path)
	}
	return driver.Lookup(name)
}

func buildNodeLayer(g *spatial.Graph, schema Schema, idType FieldType) (driver.Layer, error) {
	layer := driver.Layer{Def: driver.LayerDef{
		Name:         LayerNodes,
		GeometryType: driver.GeometryPoint,
		CRS:          g.CRS(),
		Fields:       schema.fieldDefs(),
	}}

	for _, id := range g.Nodes() {
		geom, err := g.Shape(id)
		if err != nil {
			return driver.Layer{}, err
		}
		attrs, _ := g.Node(id)

		props, err := castProperties(attrs, schema, spatial.PropNode, spatial.PropANode, spatial.PropBNode)
		if err != nil {
			return driver.Layer{}, sderrors.Wrap(sderrors.ErrCodeSchema, err, "node %q", id)
		}
		idValue, err := castValue(id, idType)
		if err != nil {
			return driver.Layer{}, sderrors.Wrap(sderrors.ErrCodeSchema, err, "node identity %q", id)
		}
		props[spatial.PropNode] = idValue

		layer.Records = append(layer.Records, driver.Record{Geometry: geom, Properties: props})
	}
	return layer, nil
}

func buildEdgeLayer(g *spatial.Graph, schema Schema, idType FieldType) (driver.Layer, error) {
	layer := driver.Layer{Def: driver.LayerDef{
		Name:         LayerEdges,
		GeometryType: driver.GeometryLineString,
		CRS:          g.CRS(),
		Fields:       schema.fieldDefs(),
	}}

	for _, e := range g.Edges() {
		geom, err := g.Shape(e.From, e.To)
		if err != nil {
			return driver.Layer{}, err
		}
		attrs, _ := g.Edge(e.From, e.To)

		props, err := castProperties(attrs, schema, spatial.PropNode, spatial.PropANode, spatial.PropBNode)
		if err != nil {
			return driver.Layer{}, sderrors.Wrap(sderrors.ErrCodeSchema, err, "edge (%q, %q)", e.From, e.To)
		}
		aValue, err := castValue(e.From, idType)
		if err != nil {
			return driver.Layer{}, sderrors.Wrap(sderrors.ErrCodeSchema, err, "edge identity %q", e.From)
		}
		bValue, err := castValue(e.To, idType)
		if err != nil {
			return driver.Layer{}, sderrors.Wrap(sderrors.ErrCodeSchema, err, "edge identity %q", e.To)
		}
		props[spatial.PropANode] = aValue
		props[spatial.PropBNode] = bValue

		layer.Records = append(layer.Records, driver.Record{Geometry: geom, Properties: props})
	}
	return layer, nil
}

// castProperties casts the declared (non-identity) fields of one attribute
// bag to their declared types. Missing attributes become nils.
func castProperties(attrs spatial.Attrs, schema Schema, identityFields ...string) (map[string]any, error) {
	identity := make(map[string]bool, len(identityFields))
	for _, f := range identityFields {
		identity[f] = true
	}

	props := make(map[string]any, len(schema))
	for _, f := range schema {
		if identity[f.Name] {
			continue
		}
		v, err := castValue(attrs[f.Name], f.Type)
		if err != nil {
			return nil, err
		}
		props[f.Name] = v
	}
	return props, nil
}
