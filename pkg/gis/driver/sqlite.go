package driver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	_ "modernc.org/sqlite"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

func init() {
	Register(&sqliteDriver{})
}

// sqliteDriver stores a dataset in a single SQLite file. A gis_layers table
// holds layer metadata (geometry type, CRS, field list, dataset id); each
// layer lives in its own layer_<name> table with typed columns and the
// geometry as a GeoJSON TEXT column.
type sqliteDriver struct{}

func (d *sqliteDriver) Name() string { return "sqlite" }

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS gis_layers (
	name          TEXT PRIMARY KEY,
	geometry_type TEXT NOT NULL,
	crs           TEXT NOT NULL,
	fields        TEXT NOT NULL,
	dataset_id    TEXT NOT NULL
);
`

func (d *sqliteDriver) Create(ctx context.Context, path string) (Dataset, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "initialize dataset %s", path)
	}
	return &sqliteDataset{db: db, path: path}, nil
}

func (d *sqliteDriver) Open(ctx context.Context, path string) (Dataset, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	// Probe the metadata table so a missing or foreign file fails here
	// rather than on the first layer read.
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gis_layers`).Scan(&n); err != nil {
		db.Close()
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "%s is not a spatialdigraph sqlite dataset", path)
	}
	return &sqliteDataset{db: db, path: path}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if err := sderrors.ValidateDatasetPath(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "open database %s", path)
	}
	return db, nil
}

type sqliteDataset struct {
	db   *sql.DB
	path string
}

func layerTable(name string) string {
	return `"layer_` + name + `"`
}

// columnType maps a gis field type tag onto a SQLite column type.
func columnType(tag string) string {
	switch tag {
	case "int", "bool":
		return "INTEGER"
	case "float":
		return "REAL"
	default:
		return "TEXT"
	}
}

func (ds *sqliteDataset) WriteLayer(ctx context.Context, layer Layer) error {
	if err := sderrors.ValidateLayerName(layer.Def.Name); err != nil {
		return err
	}
	for _, f := range layer.Def.Fields {
		if err := sderrors.ValidateFieldName(f.Name); err != nil {
			return err
		}
	}

	fieldsJSON, err := json.Marshal(layer.Def.Fields)
	if err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "encode field list for layer %q", layer.Def.Name)
	}

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "begin write of layer %q", layer.Def.Name)
	}
	defer tx.Rollback()

	table := layerTable(layer.Def.Name)
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "replace layer %q", layer.Def.Name)
	}

	cols := []string{`fid INTEGER PRIMARY KEY AUTOINCREMENT`, `geom TEXT NOT NULL`}
	for _, f := range layer.Def.Fields {
		cols = append(cols, fmt.Sprintf("%q %s", f.Name, columnType(f.Type)))
	}
	create := `CREATE TABLE ` + table + ` (` + strings.Join(cols, ", ") + `)`
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "create layer table %q", layer.Def.Name)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO gis_layers (name, geometry_type, crs, fields, dataset_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			geometry_type = excluded.geometry_type,
			crs           = excluded.crs,
			fields        = excluded.fields,
			dataset_id    = excluded.dataset_id`,
		layer.Def.Name, layer.Def.GeometryType, layer.Def.CRS, string(fieldsJSON), uuid.NewString(),
	); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "record layer %q metadata", layer.Def.Name)
	}

	insertCols := []string{"geom"}
	placeholders := []string{"?"}
	for _, f := range layer.Def.Fields {
		insertCols = append(insertCols, fmt.Sprintf("%q", f.Name))
		placeholders = append(placeholders, "?")
	}
	insert := `INSERT INTO ` + table + ` (` + strings.Join(insertCols, ", ") +
		`) VALUES (` + strings.Join(placeholders, ", ") + `)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "prepare insert for layer %q", layer.Def.Name)
	}
	defer stmt.Close()

	for i, rec := range layer.Records {
		geomJSON, err := json.Marshal(geojson.NewGeometry(rec.Geometry))
		if err != nil {
			return sderrors.Wrap(sderrors.ErrCodeDriver, err, "encode geometry of record %d in layer %q", i, layer.Def.Name)
		}
		args := make([]any, 0, len(layer.Def.Fields)+1)
		args = append(args, string(geomJSON))
		for _, f := range layer.Def.Fields {
			args = append(args, rec.Properties[f.Name])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return sderrors.Wrap(sderrors.ErrCodeDriver, err, "insert record %d into layer %q", i, layer.Def.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "commit layer %q", layer.Def.Name)
	}
	return nil
}

func (ds *sqliteDataset) ReadLayer(ctx context.Context, name string) (Layer, error) {
	if err := sderrors.ValidateLayerName(name); err != nil {
		return Layer{}, err
	}

	var def LayerDef
	var fieldsJSON string
	err := ds.db.QueryRowContext(ctx,
		`SELECT geometry_type, crs, fields FROM gis_layers WHERE name = ?`, name,
	).Scan(&def.GeometryType, &def.CRS, &fieldsJSON)
	if err == sql.ErrNoRows {
		return Layer{}, sderrors.New(sderrors.ErrCodeDriver, "layer %q not found in %s", name, ds.path)
	}
	if err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "read layer %q metadata", name)
	}
	def.Name = name
	if err := json.Unmarshal([]byte(fieldsJSON), &def.Fields); err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "decode field list of layer %q", name)
	}

	cols := []string{"geom"}
	for _, f := range def.Fields {
		cols = append(cols, fmt.Sprintf("%q", f.Name))
	}
	query := `SELECT ` + strings.Join(cols, ", ") + ` FROM ` + layerTable(name) + ` ORDER BY fid`
	rows, err := ds.db.QueryContext(ctx, query)
	if err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "read layer %q", name)
	}
	defer rows.Close()

	layer := Layer{Def: def}
	for rows.Next() {
		var geomJSON string
		values := make([]any, len(def.Fields))
		dest := make([]any, 0, len(def.Fields)+1)
		dest = append(dest, &geomJSON)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "scan record in layer %q", name)
		}

		geom, err := geojson.UnmarshalGeometry([]byte(geomJSON))
		if err != nil {
			return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "decode geometry in layer %q", name)
		}

		props := make(map[string]any, len(def.Fields))
		for i, f := range def.Fields {
			props[f.Name] = fromSQLiteValue(values[i], f.Type)
		}
		layer.Records = append(layer.Records, Record{Geometry: geom.Geometry(), Properties: props})
	}
	if err := rows.Err(); err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "read layer %q", name)
	}
	return layer, nil
}

// fromSQLiteValue converts a scanned column value back to the property
// representation for its declared field type. SQLite stores booleans as
// integers and may hand TEXT back as []byte.
func fromSQLiteValue(v any, tag string) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(t)
	case int64:
		if tag == "bool" {
			return t != 0
		}
		return t
	default:
		return v
	}
}

func (ds *sqliteDataset) Close() error {
	return ds.db.Close()
}
