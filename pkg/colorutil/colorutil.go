// Package colorutil provides shared color utilities for the plan editor.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Plan palette used by the canvas, the raster export and the SVG export.
var (
	White    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Ink      = MustHex("#0f172a") // wires, symbol outlines and glyphs
	Selected = MustHex("#e0f2fe") // selected symbol fill
	Grid     = MustHex("#e2e8f0")
	Dim      = MustHex("#0284c7") // committed measurement line
	DimText  = MustHex("#0369a1")
	DimDraft = MustHex("#7dd3fc")
	Surface  = MustHex("#e2e8f0") // area outside the plan on screen
)

// ParseHex parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustHex is ParseHex for package-level constants.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats a color as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
