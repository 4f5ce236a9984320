// Package render draws a spatial graph as a node-link diagram with every
// node pinned at its stored coordinates.
//
// The graph is converted to Graphviz DOT with neato layout and pinned
// positions, so the rendered picture preserves the geometry instead of
// letting Graphviz invent one. Edge paths with intermediate vertices are
// drawn through invisible waypoint nodes.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

// Options configures diagram rendering.
type Options struct {
	// Scale multiplies coordinates into DOT position units. Useful when the
	// graph's CRS units (e.g. degrees) would collapse the picture.
	Scale float64

	// Labels includes node IDs as labels. When false, nodes render as dots.
	Labels bool
}

// ToDOT converts a graph to Graphviz DOT with pinned node positions.
// The resulting string can be rendered with [SVG] or [PNG].
func ToDOT(g *spatial.Graph, opts Options) (string, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		pt, err := g.NodeCoords(id)
		if err != nil {
			return "", err
		}
		attrs := []string{
			fmt.Sprintf("pos=\"%f,%f!\"", pt[0]*scale, pt[1]*scale),
		}
		if opts.Labels {
			attrs = append(attrs, fmt.Sprintf("label=%q", id))
		} else {
			attrs = append(attrs, "label=\"\"", "width=0.1", "height=0.1")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	waypoint := 0
	for _, e := range g.Edges() {
		verts, err := g.EdgeVertices(e.From, e.To)
		if err != nil {
			return "", err
		}
		if len(verts) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}

		// Route the edge through its intermediate vertices using invisible
		// pinned waypoint nodes.
		prev := fmt.Sprintf("%q", e.From)
		for _, v := range verts {
			wp := fmt.Sprintf("__wp%d", waypoint)
			waypoint++
			fmt.Fprintf(&buf, "  %q [pos=\"%f,%f!\", shape=point, width=0.01, label=\"\"];\n",
				wp, v[0]*scale, v[1]*scale)
			fmt.Fprintf(&buf, "  %s -> %q [arrowhead=none];\n", prev, wp)
			prev = fmt.Sprintf("%q", wp)
		}
		fmt.Fprintf(&buf, "  %s -> %q;\n", prev, e.To)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
