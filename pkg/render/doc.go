// Package render serializes scenes into publication-ready outputs.
//
// # Overview
//
// A scene is an ordered list of draw primitives; this package paints
// it without any re-layout. Sinks:
//
//   - SVG: hand-written vector output, the canonical format
//   - PNG/JPEG: raster output painted with fogleman/gg at a given DPI
//   - PDF: SVG converted via the external rsvg-convert tool
//   - DOT: node-link export of the raw topology, rendered with Graphviz
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using rsvg-convert (from librsvg):
//   - macOS:  brew install librsvg
//   - Linux:  apt install librsvg2-bin
//
// # Preview Channel
//
// [PreviewPNG] renders a downscaled raster and [PreviewBase64] wraps
// raster bytes for UIs that display images without touching disk.
package render
