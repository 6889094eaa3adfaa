package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image/png"
	"strings"

	"github.com/turhancan97/paper-ready-architecture/pkg/scene"
)

// RenderSVG serializes a scene as a standalone SVG document.
// Primitives are emitted in ascending z-order; scene coordinates have
// y increasing upward, so the vertical axis is flipped here.
func RenderSVG(s scene.Scene) []byte {
	w, h := s.Width(), s.Height()

	// Screen-space transform.
	sx := func(x float64) float64 { return x - s.MinX }
	sy := func(y float64) float64 { return s.MaxY - y }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)

	if s.Background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, s.Background)
	}

	for _, p := range s.Sorted() {
		switch v := p.(type) {
		case scene.Line:
			fmt.Fprintf(&buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"/>`+"\n",
				sx(v.X1), sy(v.Y1), sx(v.X2), sy(v.Y2), v.Color, v.Width, v.Opacity)
		case scene.Circle:
			fmt.Fprintf(&buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f" opacity="%.3f"/>`+"\n",
				sx(v.X), sy(v.Y), v.R, v.Fill, v.Stroke, v.StrokeWidth, v.Opacity)
		case scene.Rect:
			fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" fill-opacity="%.3f"/>`+"\n",
				sx(v.X), sy(v.Y+v.H), v.W, v.H, v.Fill, v.Stroke, v.Opacity)
		case scene.Polygon:
			writePolygon(&buf, v, sx, sy)
		case scene.Image:
			writeImage(&buf, v, sx, sy)
		case scene.Text:
			writeText(&buf, v, sx, sy)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writePolygon(buf *bytes.Buffer, v scene.Polygon, sx, sy func(float64) float64) {
	pts := make([]string, len(v.Xs))
	for i := range v.Xs {
		pts[i] = fmt.Sprintf("%.2f,%.2f", sx(v.Xs[i]), sy(v.Ys[i]))
	}
	fmt.Fprintf(buf, `  <polygon points="%s" fill="%s" stroke="%s" fill-opacity="%.3f"/>`+"\n",
		strings.Join(pts, " "), v.Fill, v.Stroke, v.Opacity)
}

// writeImage embeds the artwork as a base64 PNG data URI so the SVG
// stays self-contained.
func writeImage(buf *bytes.Buffer, v scene.Image, sx, sy func(float64) float64) {
	if v.Src == nil {
		return
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, v.Src); err != nil {
		return // decorative only, skip on failure
	}
	fmt.Fprintf(buf, `  <image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href="data:image/png;base64,%s"/>`+"\n",
		sx(v.X), sy(v.Y+v.H), v.W, v.H, base64.StdEncoding.EncodeToString(pngBuf.Bytes()))
}

// writeText emits a center-anchored, top-aligned label. Newlines in
// the source become stacked tspans.
func writeText(buf *bytes.Buffer, v scene.Text, sx, sy func(float64) float64) {
	x, y := sx(v.X), sy(v.Y)
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="hanging">`,
		x, y, v.Size, v.Color)
	for i, line := range strings.Split(v.S, "\n") {
		dy := "0"
		if i > 0 {
			dy = "1.2em"
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%s">%s</tspan>`, x, dy, escapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
