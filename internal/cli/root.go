package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/RSGInc/spatialdigraph/pkg/gis"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the spatialdigraph CLI and returns an error if any command
// fails.
//
// The function sets up the root command with all subcommands, loads the
// config file, configures logging based on the --verbose flag, and executes
// the command tree. The logger and config are attached to the context and
// accessible to all commands.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "spatialdigraph",
		Short:        "Work with directed graphs carrying explicit geometry",
		Long:         `spatialdigraph inspects, converts, reprojects, renders and serves directed graphs stored as paired node/edge vector layers.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("spatialdigraph %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/spatialdigraph/config.toml)")

	root.AddCommand(newInfoCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newReprojectCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}

// readFlags are the shared flags controlling how a dataset is loaded.
type readFlags struct {
	driver    string
	method    string
	precision int
}

func (f *readFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "driver", "", "dataset driver: geojson, sqlite, mongo (default: infer from path)")
	cmd.Flags().StringVar(&f.method, "method", "", "identity resolution: byname (default), bylocation")
	cmd.Flags().IntVar(&f.precision, "precision", -1, "decimal precision for bylocation identity")
}

// options merges the flags with config-file defaults into read options.
// Validation of the resulting method/precision pair belongs to gis.Read.
func (f *readFlags) options(cfg Config) gis.ReadOptions {
	opts := gis.ReadOptions{
		Driver: f.driver,
		Method: gis.Method(f.method),
	}
	if opts.Driver == "" {
		opts.Driver = cfg.Driver
	}
	if f.method == "" {
		opts.Method = gis.Method(cfg.Method)
	}
	if f.precision >= 0 {
		p := f.precision
		opts.Precision = &p
	} else if cfg.Precision != nil {
		opts.Precision = cfg.Precision
	}
	return opts
}
