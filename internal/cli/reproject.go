package cli

import (
	"github.com/spf13/cobra"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis"
	"github.com/RSGInc/spatialdigraph/pkg/proj"
)

// newReprojectCmd creates the reproject command: load a dataset, rewrite
// every coordinate into the target CRS, and write the result.
func newReprojectCmd() *cobra.Command {
	var (
		flags     readFlags
		targetCRS string
		outDriver string
	)

	cmd := &cobra.Command{
		Use:   "reproject [source] [destination]",
		Short: "Rewrite every coordinate of a dataset into a target CRS",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetCRS == "" {
				return sderrors.New(sderrors.ErrCodeConfig, "--to is required, e.g. --to EPSG:3857")
			}

			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			g, err := gis.Read(ctx, args[0], flags.options(cfg))
			if err != nil {
				return err
			}

			logger.Debugf("reprojecting %s -> %s", g.CRS(), targetCRS)
			p := newProgress(logger)
			if err := proj.Reproject(g, targetCRS); err != nil {
				return err
			}
			p.done("Reprojected graph")

			nodeSchema, edgeSchema := gis.InferSchemas(g)
			err = gis.Write(ctx, g, args[1], gis.WriteOptions{
				Driver:     outDriver,
				NodeSchema: nodeSchema,
				EdgeSchema: edgeSchema,
			})
			if err != nil {
				return err
			}

			printSuccess("Wrote dataset in %s", g.CRS())
			printFile(args[1])
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&targetCRS, "to", "", "target CRS, e.g. EPSG:3857")
	cmd.Flags().StringVar(&outDriver, "out-driver", "", "destination driver (default: infer from path)")
	return cmd
}
