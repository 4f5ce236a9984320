package gis

import (
	"testing"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
)

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name     string
		schema   Schema
		wantCode sderrors.Code
	}{
		{
			name:   "Valid",
			schema: Schema{{Name: "kind", Type: FieldStr}, {Name: "speed", Type: FieldFloat}},
		},
		{
			name:   "Empty",
			schema: Schema{},
		},
		{
			name:     "UnsupportedType",
			schema:   Schema{{Name: "when", Type: "datetime"}},
			wantCode: sderrors.ErrCodeSchema,
		},
		{
			name:     "DuplicateField",
			schema:   Schema{{Name: "kind", Type: FieldStr}, {Name: "kind", Type: FieldInt}},
			wantCode: sderrors.ErrCodeSchema,
		},
		{
			name:     "BadFieldName",
			schema:   Schema{{Name: "a.b", Type: FieldStr}},
			wantCode: sderrors.ErrCodeSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if !sderrors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSchemaWithIdentity(t *testing.T) {
	s := Schema{
		{Name: "kind", Type: FieldStr},
		{Name: "node", Type: FieldFloat}, // caller entry is overridden
	}
	got := s.withIdentity(FieldInt, "node")

	want := Schema{
		{Name: "kind", Type: FieldStr},
		{Name: "node", Type: FieldInt},
	}
	if len(got) != len(want) {
		t.Fatalf("schema = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCastValue(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		typ     FieldType
		want    any
		wantErr bool
	}{
		{name: "NilStaysNil", in: nil, typ: FieldInt, want: nil},
		{name: "StringToStr", in: "hi", typ: FieldStr, want: "hi"},
		{name: "IntToStr", in: 42, typ: FieldStr, want: "42"},
		{name: "FloatToStr", in: 1.5, typ: FieldStr, want: "1.5"},
		{name: "BoolToStr", in: true, typ: FieldStr, want: "true"},
		{name: "IntToInt", in: 7, typ: FieldInt, want: int64(7)},
		{name: "FloatToInt", in: 7.0, typ: FieldInt, want: int64(7)},
		{name: "StringToInt", in: "12", typ: FieldInt, want: int64(12)},
		{name: "BadStringToInt", in: "twelve", typ: FieldInt, wantErr: true},
		{name: "BoolToInt", in: true, typ: FieldInt, wantErr: true},
		{name: "IntToFloat", in: 3, typ: FieldFloat, want: 3.0},
		{name: "StringToFloat", in: "2.5", typ: FieldFloat, want: 2.5},
		{name: "BadStringToFloat", in: "x", typ: FieldFloat, wantErr: true},
		{name: "BoolToBool", in: false, typ: FieldBool, want: false},
		{name: "IntToBool", in: 1, typ: FieldBool, want: true},
		{name: "StringToBool", in: "true", typ: FieldBool, want: true},
		{name: "BadStringToBool", in: "maybe", typ: FieldBool, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := castValue(tt.in, tt.typ)
			if tt.wantErr {
				if !sderrors.Is(err, sderrors.ErrCodeSchema) {
					t.Fatalf("error = %v, want INVALID_SCHEMA", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("castValue: %v", err)
			}
			if got != tt.want {
				t.Errorf("castValue(%v, %s) = %v (%T), want %v (%T)", tt.in, tt.typ, got, got, tt.want, tt.want)
			}
		})
	}
}
