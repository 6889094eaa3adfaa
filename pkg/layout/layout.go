// Package layout maps a declared feed-forward topology to 2D geometry.
//
// A network is an ordered sequence of layer sizes. Layers become
// columns spaced horizontally; neurons within a layer are stacked
// vertically and centered around y=0, so every layer shares the same
// baseline and edges fan in and out symmetrically regardless of layer
// size. The edge set between adjacent layers is the complete bipartite
// product of their neuron indices — this is a declared-topology
// diagram, not a learned structure.
//
// Coordinates are in user units with y increasing upward; rendering
// sinks own the flip to screen space.
package layout

// Point is a neuron position in user units.
type Point struct {
	X, Y float64
}

// Edge identifies a connection between a neuron in one layer and a
// neuron in the next. ToLayer is always FromLayer+1.
type Edge struct {
	FromLayer, FromIndex int
	ToLayer, ToIndex     int
}

// Positions computes one coordinate per neuron, grouped by layer and
// preserving neuron order. Layer i sits at x = i*layerSpacing; within
// a layer of size n, neuron j sits at
// y = -((n-1)*nodeSpacing)/2 + j*nodeSpacing.
func Positions(layers []int, layerSpacing, nodeSpacing float64) [][]Point {
	positions := make([][]Point, len(layers))
	for i, size := range layers {
		x := float64(i) * layerSpacing
		yStart := -(float64(size-1) * nodeSpacing) / 2

		pts := make([]Point, size)
		for j := range size {
			pts[j] = Point{X: x, Y: yStart + float64(j)*nodeSpacing}
		}
		positions[i] = pts
	}
	return positions
}

// Edges returns the full bipartite edge set between every pair of
// adjacent layers, ordered by (layer, from index, to index).
func Edges(layers []int) []Edge {
	var total int
	for i := 0; i < len(layers)-1; i++ {
		total += layers[i] * layers[i+1]
	}

	edges := make([]Edge, 0, total)
	for i := 0; i < len(layers)-1; i++ {
		for a := range layers[i] {
			for b := range layers[i+1] {
				edges = append(edges, Edge{
					FromLayer: i, FromIndex: a,
					ToLayer: i + 1, ToIndex: b,
				})
			}
		}
	}
	return edges
}

// NeuronCount returns the total number of neurons in the topology.
func NeuronCount(layers []int) int {
	var n int
	for _, size := range layers {
		n += size
	}
	return n
}
