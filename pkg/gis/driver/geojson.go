package driver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

func init() {
	Register(&geojsonDriver{})
}

// geojsonDriver stores a dataset as a directory with one FeatureCollection
// file per layer (<layer>.geojson). The CRS travels in the legacy top-level
// "crs" member; the field list is kept in a "schema" member so declared
// types survive the round trip.
type geojsonDriver struct{}

func (d *geojsonDriver) Name() string { return "geojson" }

func (d *geojsonDriver) Create(_ context.Context, path string) (Dataset, error) {
	if err := sderrors.ValidateDatasetPath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "create dataset %s", path)
	}
	return &geojsonDataset{dir: path}, nil
}

func (d *geojsonDriver) Open(_ context.Context, path string) (Dataset, error) {
	if err := sderrors.ValidateDatasetPath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "open dataset %s", path)
	}
	if !info.IsDir() {
		return nil, sderrors.New(sderrors.ErrCodeDriver, "%s is not a geojson dataset directory", path)
	}
	return &geojsonDataset{dir: path}, nil
}

type geojsonDataset struct {
	dir string
}

// layerFile is the on-disk form of one layer. The id, crs and schema members
// are foreign members per RFC 7946 and are ignored by plain GeoJSON readers.
type layerFile struct {
	Type     string             `json:"type"`
	ID       string             `json:"id,omitempty"`
	CRS      *crsMember         `json:"crs,omitempty"`
	GeomType string             `json:"geometry_type,omitempty"`
	Schema   []FieldDef         `json:"schema,omitempty"`
	Features []*geojson.Feature `json:"features"`
}

// crsMember is the legacy named-CRS object ({"type":"name",...}).
type crsMember struct {
	Type       string        `json:"type"`
	Properties crsProperties `json:"properties"`
}

type crsProperties struct {
	Name string `json:"name"`
}

func (ds *geojsonDataset) layerPath(name string) string {
	return filepath.Join(ds.dir, name+".geojson")
}

func (ds *geojsonDataset) WriteLayer(_ context.Context, layer Layer) error {
	if err := sderrors.ValidateLayerName(layer.Def.Name); err != nil {
		return err
	}

	out := layerFile{
		Type:     "FeatureCollection",
		ID:       uuid.NewString(),
		GeomType: layer.Def.GeometryType,
		Schema:   layer.Def.Fields,
		Features: make([]*geojson.Feature, 0, len(layer.Records)),
	}
	if layer.Def.CRS != "" {
		out.CRS = &crsMember{Type: "name", Properties: crsProperties{Name: layer.Def.CRS}}
	}

	for _, rec := range layer.Records {
		f := geojson.NewFeature(rec.Geometry)
		f.Properties = geojson.Properties(rec.Properties)
		out.Features = append(out.Features, f)
	}

	path := ds.layerPath(layer.Def.Name)
	f, err := os.Create(path)
	if err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "create layer file %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "encode layer %q", layer.Def.Name)
	}
	return nil
}

func (ds *geojsonDataset) ReadLayer(_ context.Context, name string) (Layer, error) {
	if err := sderrors.ValidateLayerName(name); err != nil {
		return Layer{}, err
	}

	path := ds.layerPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "read layer file %s", path)
	}

	var in layerFile
	if err := json.Unmarshal(data, &in); err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "decode layer %q", name)
	}

	layer := Layer{
		Def: LayerDef{
			Name:         name,
			GeometryType: in.GeomType,
			Fields:       in.Schema,
		},
		Records: make([]Record, 0, len(in.Features)),
	}
	if in.CRS != nil {
		layer.Def.CRS = in.CRS.Properties.Name
	}

	for _, f := range in.Features {
		layer.Records = append(layer.Records, Record{
			Geometry:   f.Geometry,
			Properties: map[string]any(f.Properties),
		})
	}
	return layer, nil
}

func (ds *geojsonDataset) Close() error { return nil }
