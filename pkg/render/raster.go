package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"

	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/scene"
)

// RasterOptions controls raster painting. Width and Height are the
// nominal export dimensions in pixels at 100 DPI; the actual canvas is
// scaled by DPI/100, mirroring how figure sizes map to print
// resolution.
type RasterOptions struct {
	Width, Height int
	DPI           int
	Quality       int // JPEG quality, 1-100 (0 means default 92)
}

// fontCandidates are tried in order when labels need a typeface.
// Rendering degrades to label-free output when none resolves.
var fontCandidates = []string{
	"DejaVuSans.ttf",
	"Arial.ttf",
	"LiberationSans-Regular.ttf",
	"Helvetica.ttc",
}

// RenderPNG paints the scene and encodes it as PNG.
func RenderPNG(s scene.Scene, o RasterOptions) ([]byte, error) {
	img, err := paint(s, o)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img.Image(), imaging.PNG); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "encoding png")
	}
	return buf.Bytes(), nil
}

// RenderJPEG paints the scene and encodes it as JPEG.
func RenderJPEG(s scene.Scene, o RasterOptions) ([]byte, error) {
	img, err := paint(s, o)
	if err != nil {
		return nil, err
	}
	quality := o.Quality
	if quality == 0 {
		quality = 92
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img.Image(), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "encoding jpeg")
	}
	return buf.Bytes(), nil
}

// paint draws the scene's primitives onto a fresh canvas. Each call
// owns its drawing surface; nothing is shared across invocations.
func paint(s scene.Scene, o RasterOptions) (*gg.Context, error) {
	if o.Width < 1 || o.Height < 1 || o.DPI < 1 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"raster dimensions and dpi must be positive (got %dx%d @ %d)", o.Width, o.Height, o.DPI)
	}
	if s.Width() <= 0 || s.Height() <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeRenderFailed, "scene has an empty frame")
	}

	pxW := max(1, o.Width*o.DPI/100)
	pxH := max(1, o.Height*o.DPI/100)

	dc := gg.NewContext(pxW, pxH)
	bg := s.Background
	if bg == "" {
		bg = "#FFFFFF"
	}
	dc.SetHexColor(bg)
	dc.Clear()

	// Fit the scene into the canvas, centered, preserving aspect.
	scale := min(float64(pxW)/s.Width(), float64(pxH)/s.Height())
	offX := (float64(pxW) - s.Width()*scale) / 2
	offY := (float64(pxH) - s.Height()*scale) / 2

	px := func(x float64) float64 { return offX + (x-s.MinX)*scale }
	py := func(y float64) float64 { return offY + (s.MaxY-y)*scale }

	fontPath := findFont()

	for _, p := range s.Sorted() {
		switch v := p.(type) {
		case scene.Line:
			setColor(dc, v.Color, v.Opacity)
			dc.SetLineWidth(v.Width * scale)
			dc.DrawLine(px(v.X1), py(v.Y1), px(v.X2), py(v.Y2))
			dc.Stroke()
		case scene.Circle:
			dc.DrawCircle(px(v.X), py(v.Y), v.R*scale)
			setColor(dc, v.Fill, v.Opacity)
			dc.FillPreserve()
			setColor(dc, v.Stroke, 1)
			dc.SetLineWidth(v.StrokeWidth * scale)
			dc.Stroke()
		case scene.Rect:
			dc.DrawRectangle(px(v.X), py(v.Y+v.H), v.W*scale, v.H*scale)
			setColor(dc, v.Fill, v.Opacity)
			dc.FillPreserve()
			setColor(dc, v.Stroke, 1)
			dc.SetLineWidth(scale)
			dc.Stroke()
		case scene.Polygon:
			if len(v.Xs) == 0 {
				continue
			}
			dc.MoveTo(px(v.Xs[0]), py(v.Ys[0]))
			for i := 1; i < len(v.Xs); i++ {
				dc.LineTo(px(v.Xs[i]), py(v.Ys[i]))
			}
			dc.ClosePath()
			setColor(dc, v.Fill, v.Opacity)
			dc.FillPreserve()
			setColor(dc, v.Stroke, 1)
			dc.SetLineWidth(scale)
			dc.Stroke()
		case scene.Image:
			if v.Src == nil {
				continue
			}
			resized := imaging.Resize(v.Src, int(v.W*scale), int(v.H*scale), imaging.Lanczos)
			dc.DrawImage(resized, int(px(v.X)), int(py(v.Y+v.H)))
		case scene.Text:
			drawText(dc, v, px(v.X), py(v.Y), scale, fontPath)
		}
	}
	return dc, nil
}

// drawText paints a multi-line, center-anchored label. Missing fonts
// degrade to a skipped label rather than a failed export.
func drawText(dc *gg.Context, v scene.Text, x, y, scale float64, fontPath string) {
	if fontPath == "" {
		return
	}
	size := v.Size * scale
	if err := dc.LoadFontFace(fontPath, size); err != nil {
		return
	}
	setColor(dc, v.Color, 1)

	lineHeight := size * 1.3
	for i, line := range strings.Split(v.S, "\n") {
		dc.DrawStringAnchored(line, x, y+lineHeight*(float64(i)+0.5), 0.5, 0.5)
	}
}

// findFont locates the first available candidate typeface on the host.
func findFont() string {
	for _, name := range fontCandidates {
		if path, err := findfont.Find(name); err == nil {
			return path
		}
	}
	return ""
}

// setColor applies a hex color with an alpha multiplier. Unparseable
// colors fall back to opaque black.
func setColor(dc *gg.Context, hex string, opacity float64) {
	r, g, b, ok := parseHex(hex)
	if !ok {
		r, g, b = 0, 0, 0
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	dc.SetRGBA255(r, g, b, int(opacity*255))
}

func parseHex(s string) (r, g, b int, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), true
}
