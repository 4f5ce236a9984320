// Package driver defines the vector dataset collaborator used by package gis
// and provides three implementations: a GeoJSON directory driver, a SQLite
// file driver and a MongoDB driver.
//
// A dataset is a named collection of vector layers. Each layer carries a
// geometry type, a CRS descriptor, an ordered field list and its records.
// Datasets are read and written in full; there is no streaming access.
//
// Drivers register themselves at init time and are looked up by name, or
// inferred from the dataset path:
//
//	d, err := driver.Lookup("sqlite")
//	d, err := driver.Lookup(driver.Infer("roads.sqlite"))
package driver

import (
	"context"
	"slices"
	"strings"

	"github.com/paulmach/orb"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

// Geometry type tags for layer definitions.
const (
	GeometryPoint      = "Point"
	GeometryLineString = "LineString"
)

// FieldDef declares one property field of a layer. The type tag is owned by
// package gis; drivers treat it as an opaque string and only map it onto
// their native storage types.
type FieldDef struct {
	Name string
	Type string
}

// LayerDef describes a vector layer: its name, geometry type, CRS and
// ordered field list.
type LayerDef struct {
	Name         string
	GeometryType string
	CRS          string
	Fields       []FieldDef
}

// Record is a single stored feature: a geometry plus a property map.
// Property values are nil, string, int64, float64 or bool.
type Record struct {
	Geometry   orb.Geometry
	Properties map[string]any
}

// Layer is a layer definition together with all of its records.
type Layer struct {
	Def     LayerDef
	Records []Record
}

// Dataset is a scoped handle on an open dataset. Close must be called on
// every exit path; layer operations are invalid after Close.
type Dataset interface {
	// WriteLayer writes a complete layer, replacing any layer with the
	// same name.
	WriteLayer(ctx context.Context, layer Layer) error

	// ReadLayer reads a complete layer by name.
	ReadLayer(ctx context.Context, name string) (Layer, error)

	// Close releases the underlying handle.
	Close() error
}

// Driver opens datasets at a path or connection string.
type Driver interface {
	// Name returns the registry name of the driver.
	Name() string

	// Create opens a dataset for writing, creating it if necessary.
	Create(ctx context.Context, path string) (Dataset, error)

	// Open opens an existing dataset for reading.
	Open(ctx context.Context, path string) (Dataset, error)
}

var registry = map[string]Driver{}

// Register adds a driver to the registry. Drivers in this package register
// themselves at init time; external drivers may register additional names.
// Registering a duplicate name panics, as that is a programming error.
func Register(d Driver) {
	if _, exists := registry[d.Name()]; exists {
		panic("driver: duplicate registration of " + d.Name())
	}
	registry[d.Name()] = d
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Driver, error) {
	d, ok := registry[name]
	if !ok {
		return nil, sderrors.New(sderrors.ErrCodeDriver,
			"unknown driver %q (registered: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names returns the sorted names of all registered drivers.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Infer guesses the driver name for a dataset path: mongodb URIs map to the
// mongo driver, .sqlite/.db files to the sqlite driver, everything else to
// the geojson directory driver.
func Infer(path string) string {
	if strings.HasPrefix(path, "mongodb://") || strings.HasPrefix(path, "mongodb+srv://") {
		return "mongo"
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".db") {
		return "sqlite"
	}
	return "geojson"
}
