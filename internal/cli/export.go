package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/RSGInc/spatialdigraph/pkg/gis"
)

// newExportCmd creates the export command writing a dataset as one GeoJSON
// feature collection (node features followed by edge features).
func newExportCmd() *cobra.Command {
	var (
		flags  readFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [dataset]",
		Short: "Export a dataset as a GeoJSON feature collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			g, err := gis.Read(ctx, args[0], flags.options(cfg))
			if err != nil {
				return err
			}
			logger.Debugf("exporting %d nodes and %d edges", g.NumNodes(), g.NumEdges())

			fc, err := g.FeatureCollection()
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(fc); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Exported feature collection")
				printFile(output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
