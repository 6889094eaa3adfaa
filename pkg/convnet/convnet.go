// Package convnet builds scenes for convolutional architecture figures.
//
// Unlike the fully-connected diagrams, a convolutional figure is a
// left-to-right walk over heterogeneous blocks: an input image, 3D
// feature-map stacks for conv and pool layers, a flatten parallelogram,
// and circle columns for dense and output layers, all joined by
// connector lines.
package convnet

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/scene"
)

// Layout constants for the block walk.
const (
	blockSize     = 40  // feature map square size
	layerSpacing  = 120 // horizontal gap between blocks
	stackOffset   = 6   // perspective offset per stacked map
	stackDepthCap = 8   // at most this many maps drawn per stack
	poolDepth     = 4   // pooling stacks always draw four maps
	denseRadius   = 16
	denseUnitCap  = 8 // at most this many circles per dense column
	framePadding  = 20
	frameHalfH    = 200

	connectorColor = "#666666"
	connectorWidth = 2
	edgeColor      = "#000000"
	labelFontSize  = 10
	shapeFontSize  = 8
	blockOpacity   = 0.7
)

// Colors maps layer kinds to fill colors.
type Colors struct {
	Input   string
	Conv    string
	Pool    string
	Flatten string
	Dense   string
	Output  string
}

// DefaultColors returns the stock per-kind palette.
func DefaultColors() Colors {
	return Colors{
		Input:   "#4A90E2",
		Conv:    "#50C878",
		Pool:    "#FF6B6B",
		Flatten: "#FFD93D",
		Dense:   "#9B59B6",
		Output:  "#E74C3C",
	}
}

// ConvLayer describes one convolutional layer.
type ConvLayer struct {
	Filters    int    `json:"filters" yaml:"filters" toml:"filters"`
	KernelSize int    `json:"kernel_size" yaml:"kernel_size" toml:"kernel_size"`
	Padding    string `json:"padding" yaml:"padding" toml:"padding"`
}

// PoolLayer describes one pooling layer.
type PoolLayer struct {
	PoolSize int    `json:"pool_size" yaml:"pool_size" toml:"pool_size"`
	PoolType string `json:"pool_type" yaml:"pool_type" toml:"pool_type"`
}

// DenseLayer describes one fully-connected layer.
type DenseLayer struct {
	Units      int    `json:"units" yaml:"units" toml:"units"`
	Activation string `json:"activation" yaml:"activation" toml:"activation"`
}

// Spec declares a convolutional architecture to draw.
type Spec struct {
	InputShape  [3]int       `json:"input_shape" yaml:"input_shape" toml:"input_shape"`
	Conv        []ConvLayer  `json:"conv_layers" yaml:"conv_layers" toml:"conv_layers"`
	Pool        []PoolLayer  `json:"pool_layers" yaml:"pool_layers" toml:"pool_layers"`
	Flatten     bool         `json:"flatten" yaml:"flatten" toml:"flatten"`
	Dense       []DenseLayer `json:"dense_layers" yaml:"dense_layers" toml:"dense_layers"`
	OutputUnits int          `json:"output_units" yaml:"output_units" toml:"output_units"`

	// Sample is optional decorative artwork drawn inside the input
	// block. Nil degrades to a plain colored block.
	Sample image.Image `json:"-" yaml:"-" toml:"-"`
}

// Validate checks the architecture declaration.
func (s *Spec) Validate() error {
	for i, d := range s.InputShape {
		if d < 1 {
			return apperrors.New(apperrors.ErrCodeInvalidStructure,
				"input shape dimension %d is %d, must be at least 1", i, d)
		}
	}
	for i, c := range s.Conv {
		if c.Filters < 1 {
			return apperrors.New(apperrors.ErrCodeInvalidStructure,
				"conv layer %d has %d filters, must be at least 1", i+1, c.Filters)
		}
		if c.KernelSize < 1 {
			return apperrors.New(apperrors.ErrCodeInvalidStructure,
				"conv layer %d kernel size %d, must be at least 1", i+1, c.KernelSize)
		}
	}
	for i, p := range s.Pool {
		if p.PoolSize < 1 {
			return apperrors.New(apperrors.ErrCodeInvalidStructure,
				"pool layer %d pool size %d, must be at least 1", i+1, p.PoolSize)
		}
	}
	for i, d := range s.Dense {
		if d.Units < 1 {
			return apperrors.New(apperrors.ErrCodeInvalidStructure,
				"dense layer %d has %d units, must be at least 1", i+1, d.Units)
		}
	}
	if s.OutputUnits < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidStructure,
			"output layer has %d units, must be at least 1", s.OutputUnits)
	}
	return nil
}

// LoadSample reads a local grayscale sample image for the input block.
// A missing file is not an error; the figure degrades to a plain block.
func LoadSample(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "opening sample %s", path)
	}
	return imaging.Grayscale(img), nil
}

// BuildScene assembles the architecture walk into a scene. The spine
// sits on y=0; blocks grow symmetrically around it.
func BuildScene(spec Spec, colors Colors, background string) (scene.Scene, error) {
	if err := spec.Validate(); err != nil {
		return scene.Scene{}, err
	}

	b := builder{colors: colors}

	b.input(spec)
	for i, c := range spec.Conv {
		b.conv(i, c)
	}
	for i, p := range spec.Pool {
		b.pool(i, p)
	}
	if spec.Flatten {
		b.flatten()
	}
	for i, d := range spec.Dense {
		b.dense(i, d)
	}
	b.output(spec.OutputUnits)

	return scene.Scene{
		Primitives: b.prims,
		MinX:       -framePadding,
		MinY:       -frameHalfH,
		MaxX:       b.x + 2*denseRadius + framePadding,
		MaxY:       frameHalfH,
		Background: background,
	}, nil
}

// builder carries the horizontal cursor through the block walk.
type builder struct {
	colors Colors
	prims  []scene.Primitive
	x      float64 // left edge of the current block
	prevX  float64 // right edge of the previous block
}

func (b *builder) connect(toX float64) {
	b.prims = append(b.prims, scene.Line{
		X1: b.prevX, Y1: 0, X2: toX, Y2: 0,
		Color: connectorColor, Width: connectorWidth, Opacity: 1, Z: scene.ZEdge,
	})
}

func (b *builder) label(x, topY float64, s string) {
	b.prims = append(b.prims, scene.Text{
		X: x, Y: topY, S: s, Size: labelFontSize, Color: "#000000", Z: scene.ZLabel,
	})
}

func (b *builder) shape(x, topY float64, s string) {
	b.prims = append(b.prims, scene.Text{
		X: x, Y: topY, S: s, Size: shapeFontSize, Color: "#000000", Z: scene.ZLabel,
	})
}

// stack draws depth overlapping squares with a diagonal offset.
func (b *builder) stack(x float64, depth int, color string) {
	for i := 0; i < depth; i++ {
		off := float64(i) * stackOffset
		b.prims = append(b.prims, scene.Rect{
			X: x + off, Y: -blockSize/2 - off, W: blockSize, H: blockSize,
			Fill: color, Stroke: edgeColor, Opacity: blockOpacity, Z: scene.ZNode,
		})
	}
}

func (b *builder) input(spec Spec) {
	if spec.Sample != nil {
		b.prims = append(b.prims, scene.Image{
			X: b.x, Y: -blockSize / 2, W: blockSize, H: blockSize, Src: spec.Sample, Z: scene.ZNode,
		})
	} else {
		b.prims = append(b.prims, scene.Rect{
			X: b.x, Y: -blockSize / 2, W: blockSize, H: blockSize,
			Fill: b.colors.Input, Stroke: edgeColor, Opacity: blockOpacity, Z: scene.ZNode,
		})
	}
	cx := b.x + blockSize/2
	b.label(cx, -blockSize/2-30, "Input Layer")
	b.shape(cx, blockSize/2+10+shapeFontSize,
		fmt.Sprintf("(%d, %d, %d)", spec.InputShape[0], spec.InputShape[1], spec.InputShape[2]))

	b.prevX = b.x + blockSize
	b.x = b.prevX + layerSpacing
}

func (b *builder) conv(idx int, c ConvLayer) {
	depth := min(c.Filters, stackDepthCap)
	b.stack(b.x, depth, b.colors.Conv)
	b.connect(b.x)
	b.label(b.x+blockSize/2+12, -blockSize/2-50,
		fmt.Sprintf("Conv_%d\n(%dx%d kernel, %s)\n(%d filters)", idx+1, c.KernelSize, c.KernelSize, c.Padding, c.Filters))

	b.prevX = b.x + blockSize + float64(depth-1)*stackOffset
	b.x = b.prevX + layerSpacing
}

func (b *builder) pool(idx int, p PoolLayer) {
	b.stack(b.x, poolDepth, b.colors.Pool)
	b.connect(b.x)
	b.label(b.x+blockSize/2+12, -blockSize/2-30,
		fmt.Sprintf("Pool_%d\n(%dx%d, %s)\n(%d maps)", idx+1, p.PoolSize, p.PoolSize, p.PoolType, poolDepth))

	b.prevX = b.x + blockSize + float64(poolDepth-1)*stackOffset
	b.x = b.prevX + layerSpacing
}

func (b *builder) flatten() {
	const w, h = 40.0, 80.0
	y := -h / 2
	b.prims = append(b.prims, scene.Polygon{
		Xs:   []float64{b.x, b.x + w, b.x + w, b.x},
		Ys:   []float64{y, y + 20, y + h + 20, y + h},
		Fill: b.colors.Flatten, Stroke: edgeColor, Opacity: blockOpacity, Z: scene.ZNode,
	})
	b.connect(b.x)
	b.label(b.x+w/2, y+h+30+labelFontSize, "Flatten")

	b.prevX = b.x + w
	b.x = b.prevX + layerSpacing
}

func (b *builder) dense(idx int, d DenseLayer) {
	units := min(d.Units, denseUnitCap)
	spacing := float64(2*denseRadius + 6)
	startY := -float64(units) * spacing / 2

	for n := 0; n < units; n++ {
		b.prims = append(b.prims, scene.Circle{
			X: b.x + denseRadius, Y: startY + float64(n)*spacing + denseRadius, R: denseRadius,
			Fill: b.colors.Dense, Stroke: edgeColor, StrokeWidth: 1, Opacity: blockOpacity, Z: scene.ZNode,
		})
	}
	b.connect(b.x + denseRadius)
	b.label(b.x+denseRadius, startY+float64(units)*spacing+30,
		fmt.Sprintf("Dense_%d\n(%s)\n(%d units)", idx+1, d.Activation, d.Units))

	b.prevX = b.x + 2*denseRadius
	b.x = b.prevX + layerSpacing
}

func (b *builder) output(units int) {
	spacing := float64(2*denseRadius + 6)
	startY := -float64(units) * spacing / 2

	for i := 0; i < units; i++ {
		cy := startY + float64(i)*spacing + denseRadius
		b.prims = append(b.prims, scene.Circle{
			X: b.x + denseRadius, Y: cy, R: denseRadius,
			Fill: b.colors.Output, Stroke: edgeColor, StrokeWidth: 1.5, Opacity: 1, Z: scene.ZNode,
		})
		b.prims = append(b.prims, scene.Text{
			X: b.x + denseRadius, Y: cy + 6, S: fmt.Sprintf("%d", i),
			Size: 12, Color: "#FFFFFF", Z: scene.ZLabel,
		})
	}
	b.connect(b.x + denseRadius)
	b.label(b.x+denseRadius, startY-20, "Output Layer")
	b.shape(b.x+denseRadius, startY+float64(units)*spacing+10+shapeFontSize, fmt.Sprintf("(%d,)", units))
}
