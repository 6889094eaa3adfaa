// Package palette validates and allocates per-layer diagram colors.
//
// Every layer in a rendered network carries one color. User-supplied
// palettes may be empty, too short, too long, or contain malformed
// entries; this package repairs them instead of rejecting them, so
// color handling is total over all string inputs. Malformed entries
// are replaced from a fixed default palette, short palettes are
// extended, and long palettes are truncated.
package palette

import (
	"strconv"
	"sync"
)

// defaults is the built-in color cycle. Entries are distinct and the
// leading colors match the classic input/conv/pool/flatten/dense/output
// scheme used for convolutional diagrams.
var defaults = []string{
	"#4A90E2", // blue
	"#50C878", // green
	"#FF6B6B", // red
	"#FFD93D", // yellow
	"#9B59B6", // purple
	"#E74C3C", // dark red
	"#1ABC9C", // teal
	"#E67E22", // orange
	"#2C3E50", // slate
	"#84A1FB", // periwinkle
	"#FB84DC", // pink
	"#16A085", // sea green
}

// Valid reports whether s is a well-formed hex color: exactly seven
// characters, a leading '#', and six hexadecimal digits.
func Valid(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// Defaults returns a copy of the built-in color cycle.
func Defaults() []string {
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// Allocator repairs requested palettes and remembers the last result.
// It is the only component that keeps state across diagram
// generations; everything else is recomputed from scratch. Safe for
// concurrent use: the preview render goroutine and HTTP handlers share
// one allocator.
type Allocator struct {
	mu      sync.Mutex
	current []string
}

// New returns an Allocator with an empty stored palette.
func New() *Allocator {
	return &Allocator{}
}

// Ensure produces a palette of exactly totalLayers valid hex colors
// from the requested one and stores it as the allocator's current
// palette.
//
// Repair rules, applied in order:
//  1. Each invalid entry at index i is replaced by defaults[i % len(defaults)].
//  2. While the palette is shorter than totalLayers, append
//     defaults[len(palette) % len(defaults)].
//  3. If longer than totalLayers, truncate.
//
// Valid entries that survive truncation pass through verbatim. Ensure
// never fails; any string slice is acceptable input.
func (a *Allocator) Ensure(requested []string, totalLayers int) []string {
	if totalLayers < 0 {
		totalLayers = 0
	}

	out := make([]string, 0, totalLayers)
	for i, c := range requested {
		if !Valid(c) {
			c = defaults[i%len(defaults)]
		}
		out = append(out, c)
	}
	for len(out) < totalLayers {
		out = append(out, defaults[len(out)%len(defaults)])
	}
	out = out[:totalLayers]

	a.mu.Lock()
	a.current = make([]string, totalLayers)
	copy(a.current, out)
	a.mu.Unlock()
	return out
}

// Current returns a copy of the most recently ensured palette.
// It is nil before the first Ensure call.
func (a *Allocator) Current() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	out := make([]string, len(a.current))
	copy(out, a.current)
	return out
}
