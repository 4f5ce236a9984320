package cli

import (
	"github.com/spf13/cobra"

	"github.com/RSGInc/spatialdigraph/pkg/gis"
)

// newConvertCmd creates the convert command, which reads a dataset and
// rewrites it at a new path, optionally with a different driver. Write
// schemas are inferred from the loaded attribute values.
func newConvertCmd() *cobra.Command {
	var (
		flags     readFlags
		outDriver string
		idType    string
	)

	cmd := &cobra.Command{
		Use:   "convert [source] [destination]",
		Short: "Rewrite a dataset at a new path, optionally changing drivers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			g, err := gis.Read(ctx, args[0], flags.options(cfg))
			if err != nil {
				return err
			}

			nodeSchema, edgeSchema := gis.InferSchemas(g)
			logger.Debugf("inferred %d node fields, %d edge fields", len(nodeSchema), len(edgeSchema))

			p := newProgress(logger)
			err = gis.Write(ctx, g, args[1], gis.WriteOptions{
				Driver:     outDriver,
				NodeSchema: nodeSchema,
				EdgeSchema: edgeSchema,
				IDType:     gis.FieldType(idTypeOrDefault(idType)),
			})
			if err != nil {
				return err
			}
			p.done("Converted dataset")

			printSuccess("Wrote dataset")
			printFile(args[1])
			printStats(g.NumNodes(), g.NumEdges())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outDriver, "out-driver", "", "destination driver (default: infer from path)")
	cmd.Flags().StringVar(&idType, "id-type", "", "identity field type: str (default), int, float")
	return cmd
}

func idTypeOrDefault(s string) string {
	if s == "" {
		return string(gis.FieldStr)
	}
	return s
}
