package cli

import (
	"os"
	"path/filepath"
	"testing"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
driver = "sqlite"
method = "bylocation"
precision = 3
addr = ":9090"
scale = 100.0
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Driver != "sqlite" {
		t.Errorf("Driver = %q, want sqlite", cfg.Driver)
	}
	if cfg.Method != string(gis.MethodByLocation) {
		t.Errorf("Method = %q, want bylocation", cfg.Method)
	}
	if cfg.Precision == nil || *cfg.Precision != 3 {
		t.Errorf("Precision = %v, want 3", cfg.Precision)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Scale != 100 {
		t.Errorf("Scale = %v, want 100", cfg.Scale)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `driver = "mongo"`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Driver != "mongo" {
		t.Errorf("Driver = %q, want mongo", cfg.Driver)
	}
	if cfg.Method != string(gis.MethodByName) {
		t.Errorf("Method = %q, want byname default", cfg.Method)
	}
	if cfg.Precision != nil {
		t.Errorf("Precision = %v, want nil", cfg.Precision)
	}
	if cfg.Addr != ":8080" || cfg.Scale != 1 {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !sderrors.Is(err, sderrors.ErrCodeConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `driver = [unclosed`)

	_, err := loadConfig(path)
	if !sderrors.Is(err, sderrors.ErrCodeConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}
