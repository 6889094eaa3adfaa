package scene

import (
	"fmt"
	"math"

	"github.com/turhancan97/paper-ready-architecture/pkg/layout"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
)

const (
	nodeStrokeWidth = 1.5
	nodeStrokeColor = "#000000"
	edgeColor       = "#000000"
	labelColor      = "#000000"
	labelFontSize   = 10.0
	labelOffset     = 60.0 // vertical gap between a layer's lowest neuron and its label
)

// Params are the visual knobs for an MLP scene. Colors holds one
// palette entry per layer; when it is too short the first entry is the
// fallback for out-of-range layers.
type Params struct {
	NodeDiameter float64
	EdgeWidth    float64
	EdgeOpacity  float64
	LayerSpacing float64
	NodeSpacing  float64
	Background   string
	Colors       []string
}

// Labels controls the optional per-layer captions.
type Labels struct {
	Show   bool
	Input  string
	Hidden string
	Output string
}

// BuildMLP combines layout, pruning, and visual parameters into a
// scene: surviving edges first, then surviving neurons colored by
// layer, then optional labels below each layer.
//
// Frame bounds are computed over the declared positions, not the
// surviving ones, so the frame stays stable when prune fractions
// change.
func BuildMLP(layers []int, params Params, labels Labels, pruned prune.Result) Scene {
	positions := layout.Positions(layers, params.LayerSpacing, params.NodeSpacing)
	radius := params.NodeDiameter / 2

	s := Scene{Background: params.Background}

	for _, e := range layout.Edges(layers) {
		if pruned.EdgePruned(e) {
			continue
		}
		from := positions[e.FromLayer][e.FromIndex]
		to := positions[e.ToLayer][e.ToIndex]
		s.Primitives = append(s.Primitives, Line{
			X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y,
			Width:   params.EdgeWidth,
			Color:   edgeColor,
			Opacity: params.EdgeOpacity,
			Z:       ZEdge,
		})
	}

	for i, layerPositions := range positions {
		fill := layerColor(params.Colors, i)
		for j, p := range layerPositions {
			if pruned.NeuronPruned(i, j) {
				continue
			}
			s.Primitives = append(s.Primitives, Circle{
				X: p.X, Y: p.Y, R: radius,
				Fill:        fill,
				Stroke:      nodeStrokeColor,
				StrokeWidth: nodeStrokeWidth,
				Opacity:     1,
				Z:           ZNode,
			})
		}
	}

	if labels.Show {
		for i := range positions {
			s.Primitives = append(s.Primitives, layerLabel(labels, layers, positions, pruned, i, params.LayerSpacing))
		}
	}

	s.MinX, s.MinY, s.MaxX, s.MaxY = frameBounds(positions, params.NodeDiameter)
	return s
}

// layerColor picks the palette entry for a layer, falling back to the
// first entry when the palette is shorter than the layer count.
func layerColor(colors []string, layer int) string {
	if layer < len(colors) {
		return colors[layer]
	}
	if len(colors) > 0 {
		return colors[0]
	}
	return nodeStrokeColor
}

// layerLabel builds the caption below layer i. The label anchors on
// the lowest surviving neuron; a fully pruned layer has nothing to
// anchor on, so the label falls back to a default margin below the
// y=0 baseline at the layer's nominal x.
func layerLabel(labels Labels, layers []int, positions [][]layout.Point, pruned prune.Result, i int, layerSpacing float64) Text {
	x := float64(i) * layerSpacing // nominal x for an empty declared layer
	if len(positions[i]) > 0 {
		x = positions[i][0].X
	}

	minY := math.Inf(1)
	for j, p := range positions[i] {
		if pruned.NeuronPruned(i, j) {
			continue
		}
		minY = math.Min(minY, p.Y)
	}
	if math.IsInf(minY, 1) {
		minY = 0
	}

	var text string
	switch {
	case i == 0:
		text = labels.Input
	case i == len(positions)-1:
		text = labels.Output
	default:
		text = fmt.Sprintf("%s %d", labels.Hidden, i)
	}
	text += fmt.Sprintf("\n(%d neurons)", layers[i])

	return Text{
		X: x, Y: minY - labelOffset,
		S:     text,
		Size:  labelFontSize,
		Color: labelColor,
		Z:     ZLabel,
	}
}

// frameBounds returns the frame extents over all declared positions
// with a node-diameter margin, doubled below to leave room for labels.
func frameBounds(positions [][]layout.Point, diameter float64) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, layerPositions := range positions {
		for _, p := range layerPositions {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX - diameter, minY - 2*diameter, maxX + diameter, maxY + diameter
}
