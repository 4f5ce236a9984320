package gis

import (
	"slices"

	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

// InferSchemas derives write schemas from the attribute values present in
// the graph, so datasets can be converted or rewritten without hand-written
// schemas. The coords assembly attribute and the identity fields are
// skipped; fields seen with conflicting value kinds fall back to str.
// Fields are returned in sorted name order.
func InferSchemas(g *spatial.Graph) (nodeSchema, edgeSchema Schema) {
	nodeTypes := map[string]FieldType{}
	for _, id := range g.Nodes() {
		attrs, _ := g.Node(id)
		mergeFieldTypes(nodeTypes, attrs)
	}

	edgeTypes := map[string]FieldType{}
	for _, e := range g.Edges() {
		attrs, _ := g.Edge(e.From, e.To)
		mergeFieldTypes(edgeTypes, attrs)
	}

	return schemaFromTypes(nodeTypes), schemaFromTypes(edgeTypes)
}

func mergeFieldTypes(types map[string]FieldType, attrs spatial.Attrs) {
	for k, v := range attrs {
		switch k {
		case spatial.AttrCoords, spatial.PropNode, spatial.PropANode, spatial.PropBNode:
			continue
		}
		t := valueFieldType(v)
		if t == "" {
			continue // nil value carries no type information
		}
		if existing, seen := types[k]; seen && existing != t {
			types[k] = FieldStr
			continue
		}
		types[k] = t
	}
}

func valueFieldType(v any) FieldType {
	switch v.(type) {
	case nil:
		return ""
	case bool:
		return FieldBool
	case int, int32, int64:
		return FieldInt
	case float32, float64:
		return FieldFloat
	default:
		return FieldStr
	}
}

func schemaFromTypes(types map[string]FieldType) Schema {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	slices.Sort(names)

	schema := make(Schema, 0, len(names))
	for _, name := range names {
		schema = append(schema, Field{Name: name, Type: types[name]})
	}
	return schema
}
