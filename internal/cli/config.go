package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis"
)

// Config holds CLI defaults loaded from the user's config file.
// Command-line flags override every field.
type Config struct {
	// Driver is the default dataset driver name ("" means infer from path).
	Driver string `toml:"driver"`

	// Method is the default identity resolution mode for reads.
	Method string `toml:"method"`

	// Precision is the default decimal precision for bylocation reads.
	Precision *int `toml:"precision"`

	// Addr is the default listen address for the serve command.
	Addr string `toml:"addr"`

	// Scale is the default coordinate scale for the render command.
	Scale float64 `toml:"scale"`
}

func defaultConfig() Config {
	return Config{
		Method: string(gis.MethodByName),
		Addr:   ":8080",
		Scale:  1,
	}
}

// defaultConfigPath returns ~/.config/spatialdigraph/config.toml (or the
// platform equivalent). Empty when the user config dir cannot be resolved.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "spatialdigraph", "config.toml")
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the built-in defaults; a malformed
// file is a configuration error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}

	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, sderrors.New(sderrors.ErrCodeConfig, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, sderrors.Wrap(sderrors.ErrCodeConfig, err, "parse config file %s", path)
	}
	return cfg, nil
}

// configKey is the context key for storing the loaded config.
const configKey ctxKey = 1

// withConfig returns a new context with the loaded config attached.
func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the config from ctx, falling back to defaults.
func configFromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(configKey).(Config); ok {
		return cfg
	}
	return defaultConfig()
}
