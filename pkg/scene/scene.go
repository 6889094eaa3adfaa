// Package scene turns layout geometry and visual parameters into an
// ordered list of draw primitives.
//
// A Scene is a value: each generation call returns a fresh one and no
// drawing surface is shared across calls. Rendering sinks (SVG, raster,
// PDF) consume the primitive list and own their surface lifecycles.
//
// Primitives carry their own position, size, color, opacity, and
// z-order. The z-order taxonomy is fixed: edges are drawn below
// neurons, neurons below labels.
package scene

import (
	"image"
	"slices"
)

// Z-order bands. Sinks draw primitives in ascending order.
const (
	ZEdge  = 1
	ZNode  = 2
	ZLabel = 3
)

// Primitive is a single draw instruction.
type Primitive interface {
	ZOrder() int
}

// Line is a straight stroke between two points.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          string
	Opacity        float64
	Z              int
}

func (l Line) ZOrder() int { return l.Z }

// Circle is a filled, outlined disc.
type Circle struct {
	X, Y, R     float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	Z           int
}

func (c Circle) ZOrder() int { return c.Z }

// Rect is a filled, outlined axis-aligned rectangle anchored at its
// lower-left corner.
type Rect struct {
	X, Y, W, H float64
	Fill       string
	Stroke     string
	Opacity    float64
	Z          int
}

func (r Rect) ZOrder() int { return r.Z }

// Polygon is a filled, outlined closed shape.
type Polygon struct {
	Xs, Ys  []float64
	Fill    string
	Stroke  string
	Opacity float64
	Z       int
}

func (p Polygon) ZOrder() int { return p.Z }

// Image places decorative artwork anchored at its lower-left corner.
// Src must be bundled locally; scenes never fetch remote assets.
type Image struct {
	X, Y, W, H float64
	Src        image.Image
	Z          int
}

func (i Image) ZOrder() int { return i.Z }

// Text is a label anchored horizontally at its center and vertically
// at its top edge. S may contain newlines; sinks render each line.
type Text struct {
	X, Y  float64
	S     string
	Size  float64
	Color string
	Z     int
}

func (t Text) ZOrder() int { return t.Z }

// Scene is an ordered list of primitives plus frame bounds in user
// units. Coordinates have y increasing upward; sinks flip to screen
// space.
type Scene struct {
	Primitives []Primitive

	// Frame bounds including margins.
	MinX, MinY, MaxX, MaxY float64

	// Background fill for the whole frame.
	Background string
}

// Width returns the horizontal span of the frame.
func (s Scene) Width() float64 { return s.MaxX - s.MinX }

// Height returns the vertical span of the frame.
func (s Scene) Height() float64 { return s.MaxY - s.MinY }

// Sorted returns the primitives in ascending z-order, preserving
// insertion order within a band.
func (s Scene) Sorted() []Primitive {
	out := slices.Clone(s.Primitives)
	slices.SortStableFunc(out, func(a, b Primitive) int {
		return a.ZOrder() - b.ZOrder()
	})
	return out
}

// Count returns the number of primitives in the given z band.
func (s Scene) Count(z int) int {
	var n int
	for _, p := range s.Primitives {
		if p.ZOrder() == z {
			n++
		}
	}
	return n
}
