package gis

import (
	"fmt"
	"strconv"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis/driver"
)

// FieldType is a declared primitive type tag for a persisted property.
type FieldType string

// Supported field type tags.
const (
	FieldStr   FieldType = "str"
	FieldInt   FieldType = "int"
	FieldFloat FieldType = "float"
	FieldBool  FieldType = "bool"
)

var supportedTypes = map[FieldType]bool{
	FieldStr:   true,
	FieldInt:   true,
	FieldFloat: true,
	FieldBool:  true,
}

// Field declares one property of a layer schema: a name and its type tag.
type Field struct {
	Name string
	Type FieldType
}

// Schema is an ordered property schema for one layer. Order is preserved
// into the written dataset.
type Schema []Field

// Validate checks every declared type tag against the supported set and
// every field name against the cross-driver naming rules. It is called
// eagerly before any record is emitted, so an unsupported tag fails the
// whole write with nothing written.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if err := sderrors.ValidateFieldName(f.Name); err != nil {
			return err
		}
		if seen[f.Name] {
			return sderrors.New(sderrors.ErrCodeSchema, "duplicate field %q in schema", f.Name)
		}
		seen[f.Name] = true
		if !supportedTypes[f.Type] {
			return sderrors.New(sderrors.ErrCodeSchema,
				"unsupported field type %q for field %q (supported: str, int, float, bool)", f.Type, f.Name)
		}
	}
	return nil
}

// withIdentity forces the identity fields into the schema under idType,
// overriding any caller-supplied entry with the same name. Identity fields
// are appended at the end when not already declared, preserving caller order
// for the rest.
func (s Schema) withIdentity(idType FieldType, names ...string) Schema {
	forced := make(map[string]bool, len(names))
	for _, n := range names {
		forced[n] = true
	}

	out := make(Schema, 0, len(s)+len(names))
	for _, f := range s {
		if forced[f.Name] {
			continue
		}
		out = append(out, f)
	}
	for _, n := range names {
		out = append(out, Field{Name: n, Type: idType})
	}
	return out
}

// fieldDefs converts the schema to the driver-facing field list.
func (s Schema) fieldDefs() []driver.FieldDef {
	defs := make([]driver.FieldDef, len(s))
	for i, f := range s {
		defs[i] = driver.FieldDef{Name: f.Name, Type: string(f.Type)}
	}
	return defs
}

// castValue converts an attribute value to its declared field type.
// A nil value (missing attribute) stays nil rather than failing, matching
// the write contract. Unconvertible values fail with a schema error.
func castValue(v any, t FieldType) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case FieldStr:
		return castString(v), nil
	case FieldInt:
		return castInt(v)
	case FieldFloat:
		return castFloat(v)
	case FieldBool:
		return castBool(v)
	default:
		return nil, sderrors.New(sderrors.ErrCodeSchema, "unsupported field type %q", t)
	}
}

func castString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

func castInt(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return nil, sderrors.New(sderrors.ErrCodeSchema, "cannot cast %q to int", n)
		}
		return i, nil
	default:
		return nil, sderrors.New(sderrors.ErrCodeSchema, "cannot cast %T to int", v)
	}
}

func castFloat(v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil, sderrors.New(sderrors.ErrCodeSchema, "cannot cast %q to float", n)
		}
		return f, nil
	default:
		return nil, sderrors.New(sderrors.ErrCodeSchema, "cannot cast %T to float", v)
	}
}

func castBool(v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	case int:
		return b != 0, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, sderrors.New(sderrors.ErrCodeSchema, "cannot cast %q to bool", b)
		}
		return parsed, nil
	default:
		return nil, sderrors.New(sderrors.ErrCodeSchema, "cannot cast %T to bool", v)
	}
}
