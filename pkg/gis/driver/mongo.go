package driver

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

func init() {
	Register(&mongoDriver{})
}

// mongoDriver stores a dataset in a MongoDB database: one collection per
// layer, one document per feature with GeoJSON-shaped geometry, plus a
// "_meta" document per collection carrying the layer definition.
//
// The dataset path is a mongodb:// URI whose path names the database:
//
//	mongodb://localhost:27017/roadnetwork
type mongoDriver struct{}

func (d *mongoDriver) Name() string { return "mongo" }

func (d *mongoDriver) Create(ctx context.Context, path string) (Dataset, error) {
	return d.connect(ctx, path)
}

func (d *mongoDriver) Open(ctx context.Context, path string) (Dataset, error) {
	return d.connect(ctx, path)
}

func (d *mongoDriver) connect(ctx context.Context, path string) (Dataset, error) {
	if err := sderrors.ValidateDatasetPath(path); err != nil {
		return nil, err
	}

	u, err := url.Parse(path)
	if err != nil {
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "parse mongodb URI")
	}
	dbName := strings.Trim(u.Path, "/")
	if dbName == "" {
		return nil, sderrors.New(sderrors.ErrCodeDriver, "mongodb URI must name a database, e.g. mongodb://host:27017/mydataset")
	}

	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(path))
	if err != nil {
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "connect to %s", u.Host)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, sderrors.Wrap(sderrors.ErrCodeDriver, err, "ping %s", u.Host)
	}

	return &mongoDataset{client: client, db: client.Database(dbName)}, nil
}

type mongoDataset struct {
	client *mongo.Client
	db     *mongo.Database
}

const mongoMetaID = "_meta"

type mongoMeta struct {
	ID           string     `bson:"_id"`
	GeometryType string     `bson:"geometry_type"`
	CRS          string     `bson:"crs"`
	Fields       []FieldDef `bson:"fields"`
	DatasetID    string     `bson:"dataset_id"`
}

type mongoFeature struct {
	Geometry   bson.M         `bson:"geometry"`
	Properties map[string]any `bson:"properties"`
}

func (ds *mongoDataset) WriteLayer(ctx context.Context, layer Layer) error {
	if err := sderrors.ValidateLayerName(layer.Def.Name); err != nil {
		return err
	}

	coll := ds.db.Collection(layer.Def.Name)
	if err := coll.Drop(ctx); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "replace layer %q", layer.Def.Name)
	}

	meta := mongoMeta{
		ID:           mongoMetaID,
		GeometryType: layer.Def.GeometryType,
		CRS:          layer.Def.CRS,
		Fields:       layer.Def.Fields,
		DatasetID:    uuid.NewString(),
	}
	if _, err := coll.InsertOne(ctx, meta); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "write layer %q metadata", layer.Def.Name)
	}

	if len(layer.Records) == 0 {
		return nil
	}

	docs := make([]any, 0, len(layer.Records))
	for i, rec := range layer.Records {
		geom, err := geometryToBSON(rec.Geometry)
		if err != nil {
			return sderrors.Wrap(sderrors.ErrCodeDriver, err, "encode geometry of record %d in layer %q", i, layer.Def.Name)
		}
		docs = append(docs, mongoFeature{Geometry: geom, Properties: rec.Properties})
	}
	if _, err := ds.db.Collection(layer.Def.Name).InsertMany(ctx, docs); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeDriver, err, "write layer %q records", layer.Def.Name)
	}
	return nil
}

func (ds *mongoDataset) ReadLayer(ctx context.Context, name string) (Layer, error) {
	if err := sderrors.ValidateLayerName(name); err != nil {
		return Layer{}, err
	}

	coll := ds.db.Collection(name)

	var meta mongoMeta
	if err := coll.FindOne(ctx, bson.M{"_id": mongoMetaID}).Decode(&meta); err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "layer %q metadata not found", name)
	}

	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$ne": mongoMetaID}})
	if err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "read layer %q", name)
	}
	defer cur.Close(ctx)

	layer := Layer{Def: LayerDef{
		Name:         name,
		GeometryType: meta.GeometryType,
		CRS:          meta.CRS,
		Fields:       meta.Fields,
	}}

	for cur.Next(ctx) {
		var doc mongoFeature
		if err := cur.Decode(&doc); err != nil {
			return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "decode record in layer %q", name)
		}
		geom, err := geometryFromBSON(doc.Geometry)
		if err != nil {
			return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "decode geometry in layer %q", name)
		}
		layer.Records = append(layer.Records, Record{
			Geometry:   geom,
			Properties: normalizeBSONProperties(doc.Properties),
		})
	}
	if err := cur.Err(); err != nil {
		return Layer{}, sderrors.Wrap(sderrors.ErrCodeDriver, err, "read layer %q", name)
	}
	return layer, nil
}

func (ds *mongoDataset) Close() error {
	return ds.client.Disconnect(context.Background())
}

func geometryToBSON(g orb.Geometry) (bson.M, error) {
	switch geom := g.(type) {
	case orb.Point:
		return bson.M{"type": GeometryPoint, "coordinates": []float64{geom[0], geom[1]}}, nil
	case orb.LineString:
		coords := make([][]float64, len(geom))
		for i, p := range geom {
			coords[i] = []float64{p[0], p[1]}
		}
		return bson.M{"type": GeometryLineString, "coordinates": coords}, nil
	default:
		return nil, sderrors.New(sderrors.ErrCodeDriver, "unsupported geometry type %T", g)
	}
}

func geometryFromBSON(doc bson.M) (orb.Geometry, error) {
	geomType, _ := doc["type"].(string)
	switch geomType {
	case GeometryPoint:
		return pointFromBSON(doc["coordinates"])
	case GeometryLineString:
		arr, ok := doc["coordinates"].(primitive.A)
		if !ok {
			return nil, sderrors.New(sderrors.ErrCodeDriver, "malformed LineString coordinates")
		}
		ls := make(orb.LineString, 0, len(arr))
		for _, el := range arr {
			p, err := pointFromBSON(el)
			if err != nil {
				return nil, err
			}
			ls = append(ls, p)
		}
		return ls, nil
	default:
		return nil, sderrors.New(sderrors.ErrCodeDriver, "unsupported geometry type %q", geomType)
	}
}

func pointFromBSON(v any) (orb.Point, error) {
	arr, ok := v.(primitive.A)
	if !ok || len(arr) < 2 {
		return orb.Point{}, sderrors.New(sderrors.ErrCodeDriver, "malformed Point coordinates")
	}
	x, okX := asFloat(arr[0])
	y, okY := asFloat(arr[1])
	if !okX || !okY {
		return orb.Point{}, sderrors.New(sderrors.ErrCodeDriver, "malformed Point coordinates")
	}
	return orb.Point{x, y}, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// normalizeBSONProperties aligns BSON decoding artifacts with the property
// value contract: int32 widens to int64, primitive.A is left for callers
// that stored sequence-valued properties.
func normalizeBSONProperties(props map[string]any) map[string]any {
	for k, v := range props {
		if n, ok := v.(int32); ok {
			props[k] = int64(n)
		}
	}
	return props
}
