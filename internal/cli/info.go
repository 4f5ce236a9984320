package cli

import (
	"github.com/spf13/cobra"

	"github.com/RSGInc/spatialdigraph/pkg/gis"
	"github.com/RSGInc/spatialdigraph/pkg/gis/driver"
)

// newInfoCmd creates the info command summarizing a dataset.
func newInfoCmd() *cobra.Command {
	var flags readFlags

	cmd := &cobra.Command{
		Use:   "info [dataset]",
		Short: "Summarize a dataset: driver, CRS, node and edge counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			opts := flags.options(cfg)
			logger.Debugf("reading dataset %s", args[0])

			p := newProgress(logger)
			g, err := gis.Read(ctx, args[0], opts)
			if err != nil {
				return err
			}
			p.done("Loaded dataset")

			drv := opts.Driver
			if drv == "" {
				drv = driver.Infer(args[0])
			}

			printTitle("Dataset %s", args[0])
			printKeyValue("driver", drv)
			printKeyValue("crs", g.CRS())
			printKeyValue("method", string(opts.Method))
			printStats(g.NumNodes(), g.NumEdges())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
