package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis"
	"github.com/RSGInc/spatialdigraph/pkg/render"
)

// newRenderCmd creates the render command drawing a dataset as a node-link
// diagram with nodes pinned at their coordinates.
func newRenderCmd() *cobra.Command {
	var (
		flags  readFlags
		output string
		format string
		labels bool
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Draw a dataset as an SVG or PNG node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			if format != "svg" && format != "png" {
				return sderrors.New(sderrors.ErrCodeConfig, "format must be svg or png, got %q", format)
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], "/") + "." + format
			}
			if scale == 0 {
				scale = cfg.Scale
			}

			g, err := gis.Read(ctx, args[0], flags.options(cfg))
			if err != nil {
				return err
			}

			dot, err := render.ToDOT(g, render.Options{Scale: scale, Labels: labels})
			if err != nil {
				return err
			}

			p := newProgress(logger)
			var data []byte
			if format == "png" {
				data, err = render.PNG(ctx, dot)
			} else {
				data, err = render.SVG(ctx, dot)
			}
			if err != nil {
				return err
			}
			p.done("Rendered diagram")

			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			printSuccess("Rendered %s diagram", format)
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: dataset path + format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), png")
	cmd.Flags().BoolVar(&labels, "labels", false, "label nodes with their IDs")
	cmd.Flags().Float64Var(&scale, "scale", 0, "coordinate scale factor (default from config, 1)")
	return cmd
}
