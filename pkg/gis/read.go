package gis

import (
	"context"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis/driver"
	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

// Method selects how loaded records are mapped to node identities.
type Method string

// Identity resolution modes.
const (
	// MethodByName uses the stored "node"/"anode"/"bnode" property values
	// verbatim as node identities.
	MethodByName Method = "byname"

	// MethodByLocation derives node identities from point coordinates
	// rounded to a fixed decimal precision.
	MethodByLocation Method = "bylocation"
)

// ReadOptions configures a dataset read. Use [ByName] or [ByLocation] to
// construct valid options.
type ReadOptions struct {
	// Driver selects the dataset driver by registry name.
	// Empty means infer from the path (see driver.Infer).
	Driver string

	// Method is the identity resolution mode.
	Method Method

	// Precision is the decimal precision for MethodByLocation.
	// It is required under that method and ignored otherwise.
	Precision *int
}

// ByName returns options resolving node identities by their stored names.
func ByName() ReadOptions {
	return ReadOptions{Method: MethodByName}
}

// ByLocation returns options resolving node identities by coordinates
// rounded to precision decimal places.
func ByLocation(precision int) ReadOptions {
	return ReadOptions{Method: MethodByLocation, Precision: &precision}
}

// WithDriver returns a copy of the options using the named driver.
func (o ReadOptions) WithDriver(name string) ReadOptions {
	o.Driver = name
	return o
}

func (o ReadOptions) validate() error {
	switch o.Method {
	case MethodByName:
		return nil
	case MethodByLocation:
		if o.Precision == nil {
			return sderrors.New(sderrors.ErrCodeConfig,
				"method %q requires a precision", MethodByLocation)
		}
		if *o.Precision < 0 {
			return sderrors.New(sderrors.ErrCodeConfig,
				"precision must not be negative, got %d", *o.Precision)
		}
		return nil
	default:
		return sderrors.New(sderrors.ErrCodeConfig,
			"method must be either %q or %q, got %q", MethodByName, MethodByLocation, o.Method)
	}
}

// Read reconstructs a graph from the paired node/edge vector layers at path.
//
// The node layer is loaded first and its CRS becomes the reference CRS; a
// differing edge-layer CRS fails the load before any edge is added. Node
// identity comes from the "node" property (byname) or the rounded point
// coordinates (bylocation). Edge line geometries are stripped of their first
// and last vertex to recover the intermediate path; the endpoints resolve to
// node identities the same way, and any endpoint that matches no loaded node
// fails the whole load with a dangling-endpoint error. No partial graph is
// ever returned.
func Read(ctx context.Context, path string, opts ReadOptions) (*spatial.Graph, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	d, err := resolveDriver(opts.Driver, path)
	if err != nil {
		return nil, err
	}
	ds, err := d.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	nodeLayer, err := ds.ReadLayer(ctx, LayerNodes)
	if err != nil {
		return nil, err
	}
	g := spatial.New(nodeLayer.Def.CRS)
	if err := loadNodes(g, nodeLayer, opts); err != nil {
		return nil, err
	}

	edgeLayer, err := ds.ReadLayer(ctx, LayerEdges)
	if err != nil {
		return nil, err
	}
	if edgeLayer.Def.CRS != nodeLayer.Def.CRS {
		return nil, sderrors.New(sderrors.ErrCodeCRSMismatch,
			"node and edge layers must share a CRS: %q vs %q", nodeLayer.Def.CRS, edgeLayer.Def.CRS)
	}
	if err := loadEdges(g, edgeLayer, opts); err != nil {
		return nil, err
	}
	return g, nil
}

func loadNodes(g *spatial.Graph, layer driver.Layer, opts ReadOptions) error {
	for i, rec := range layer.Records {
		pt, ok := rec.Geometry.(orb.Point)
		if !ok {
			return sderrors.New(sderrors.ErrCodeDriver,
				"record %d in layer %q: geometry is not a Point", i, LayerNodes)
		}

		var id string
		if opts.Method == MethodByName {
			raw, ok := rec.Properties[spatial.PropNode]
			if !ok || raw == nil {
				return sderrors.New(sderrors.ErrCodeDriver,
					"record %d in layer %q is missing the %q property", i, LayerNodes, spatial.PropNode)
			}
			id = identityString(raw)
		} else {
			id = spatial.LocationID(pt, *opts.Precision)
		}

		attrs := recordAttrs(rec.Properties, spatial.PropNode)
		attrs[spatial.AttrCoords] = pt

		if err := g.AddNode(id, attrs); err != nil {
			// Under bylocation a duplicate means two distinct points rounded
			// to the same tuple; that load is rejected rather than merged.
			return sderrors.Wrap(sderrors.ErrCodeDriver, err,
				"record %d in layer %q", i, LayerNodes)
		}
	}
	return nil
}

func loadEdges(g *spatial.Graph, layer driver.Layer, opts ReadOptions) error {
	for i, rec := range layer.Records {
		line, ok := rec.Geometry.(orb.LineString)
		if !ok {
			return sderrors.New(sderrors.ErrCodeDriver,
				"record %d in layer %q: geometry is not a LineString", i, LayerEdges)
		}
		if len(line) < 2 {
			return sderrors.New(sderrors.ErrCodeDriver,
				"record %d in layer %q: line must contain at least two vertices", i, LayerEdges)
		}

		var anode, bnode string
		if opts.Method == MethodByName {
			rawA, okA := rec.Properties[spatial.PropANode]
			rawB, okB := rec.Properties[spatial.PropBNode]
			if !okA || rawA == nil || !okB || rawB == nil {
				return sderrors.New(sderrors.ErrCodeDriver,
					"record %d in layer %q is missing the %q/%q properties",
					i, LayerEdges, spatial.PropANode, spatial.PropBNode)
			}
			anode = identityString(rawA)
			bnode = identityString(rawB)
		} else {
			anode = spatial.LocationID(line[0], *opts.Precision)
			bnode = spatial.LocationID(line[len(line)-1], *opts.Precision)
		}

		if err := checkEndpoints(g, anode, bnode, opts); err != nil {
			return err
		}

		intermediate := make([]orb.Point, len(line)-2)
		copy(intermediate, line[1:len(line)-1])

		attrs := recordAttrs(rec.Properties, spatial.PropANode, spatial.PropBNode)
		attrs[spatial.AttrCoords] = intermediate

		if err := g.AddEdge(anode, bnode, attrs); err != nil {
			return sderrors.Wrap(sderrors.ErrCodeDriver, err,
				"record %d in layer %q", i, LayerEdges)
		}
	}
	return nil
}

// checkEndpoints enforces the dangling-endpoint invariant: both resolved
// endpoints of an edge must already exist as loaded nodes.
func checkEndpoints(g *spatial.Graph, anode, bnode string, opts ReadOptions) error {
	var missing []string
	if _, ok := g.Node(anode); !ok {
		missing = append(missing, strconv.Quote(anode))
	}
	if _, ok := g.Node(bnode); !ok {
		missing = append(missing, strconv.Quote(bnode))
	}
	if len(missing) == 0 {
		return nil
	}

	detail := "method " + string(opts.Method)
	if opts.Method == MethodByLocation {
		detail += ", precision " + strconv.Itoa(*opts.Precision)
	}
	return sderrors.New(sderrors.ErrCodeDanglingEndpoint,
		"edge endpoint(s) %s do not match any loaded node (%s)",
		strings.Join(missing, ", "), detail)
}

// recordAttrs copies record properties into an attribute bag, dropping the
// identity fields.
func recordAttrs(props map[string]any, identityFields ...string) spatial.Attrs {
	identity := make(map[string]bool, len(identityFields))
	for _, f := range identityFields {
		identity[f] = true
	}

	attrs := make(spatial.Attrs, len(props))
	for k, v := range props {
		if identity[k] {
			continue
		}
		attrs[k] = v
	}
	return attrs
}

// identityString renders a stored identity property as a node ID string.
// Identity fields may be declared int or float, so numeric values render
// canonically rather than through fmt's default float formatting.
func identityString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case int64:
		return strconv.FormatInt(id, 10)
	case int:
		return strconv.Itoa(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(id)
	default:
		return castString(v)
	}
}
