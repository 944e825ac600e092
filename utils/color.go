package utils

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HexToRGBA converts a hex color string (#rrggbb or #rgb) to an opaque color.RGBA.
// It falls back to red on malformed input.
func HexToRGBA(hex string) color.RGBA {
	if len(hex) > 0 && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{R: 0xff, A: 0xff}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
