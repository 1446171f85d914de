package chart

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	Teal      = hex("#18bc9c")
	Navy      = hex("#2c3e50")
	Blue      = hex("#3498db")
	Orange    = hex("#f39c12")
	Red       = hex("#e74c3c")
	GridGray  = hex("#e0e0e0")
	White     = hex("#ffffff")
	TextColor = Navy
)

// DefaultPalette colours pie slices by index.
var DefaultPalette = []color.Color{Teal, Navy, Blue, Orange}

// ParsePalette turns "#rrggbb" strings into colours, skipping invalid ones.
func ParsePalette(hexes []string) []color.Color {
	out := make([]color.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func paletteAt(p []color.Color, i int) color.Color {
	if len(p) == 0 {
		return Teal
	}
	return p[i%len(p)]
}

func hex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
