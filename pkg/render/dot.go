package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/layout"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
)

// ToDOT converts a layered network to Graphviz DOT format for node-link
// visualization. Layers are ranked left to right; pruned neurons and
// synapses are rendered with dashed grey styling instead of being
// dropped, so the export shows the full declared topology.
//
// The resulting DOT string can be rendered with [RenderDOTSVG].
func ToDOT(layers []int, pruned prune.Result, colors []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, fixedsize=true, width=0.4];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for i, size := range layers {
		color := "#CCCCCC"
		if len(colors) > 0 {
			if i < len(colors) {
				color = colors[i]
			} else {
				color = colors[0]
			}
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		buf.WriteString("    style=invis;\n")
		for j := 0; j < size; j++ {
			id := neuronID(i, j)
			if pruned.NeuronPruned(i, j) {
				fmt.Fprintf(&buf, "    %q [label=\"\", style=\"filled,dashed\", fillcolor=lightgrey];\n", id)
			} else {
				fmt.Fprintf(&buf, "    %q [label=\"\", fillcolor=%q];\n", id, color)
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range layout.Edges(layers) {
		if pruned.EdgePruned(e) {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=lightgrey, arrowhead=none];\n",
				neuronID(e.FromLayer, e.FromIndex), neuronID(e.ToLayer, e.ToIndex))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none];\n",
				neuronID(e.FromLayer, e.FromIndex), neuronID(e.ToLayer, e.ToIndex))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func neuronID(layer, index int) string {
	return fmt.Sprintf("l%dn%d", layer, index)
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's point-based svg tag into a
// zero-origin pixel viewBox so downstream converters size it correctly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
