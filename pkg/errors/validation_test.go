package errors

import (
	"strings"
	"testing"
)

func TestValidateLayerName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "Simple", in: "nodes"},
		{name: "Underscore", in: "edge_layer_2"},
		{name: "Empty", in: "", wantErr: true},
		{name: "LeadingDigit", in: "2nodes", wantErr: true},
		{name: "Hyphen", in: "my-layer", wantErr: true},
		{name: "Space", in: "my layer", wantErr: true},
		{name: "TooLong", in: "a" + strings.Repeat("b", 64), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayerName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayerName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDatasetPath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "Directory", in: "data/network"},
		{name: "MongoURI", in: "mongodb://localhost:27017/network"},
		{name: "Empty", in: "", wantErr: true},
		{name: "NullByte", in: "data\x00network", wantErr: true},
		{name: "Newline", in: "data\nnetwork", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatasetPath(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDatasetPath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "Simple", in: "speed"},
		{name: "Empty", in: "", wantErr: true},
		{name: "Dotted", in: "a.b", wantErr: true},
		{name: "Quoted", in: `a"b`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}
