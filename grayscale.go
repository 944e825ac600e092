package carvers

import (
	"image"

	"github.com/disintegration/imaging"
)

// luma returns the Rec. 601 luma of a pixel, rounded to the nearest integer.
func luma(px Pixel) uint8 {
	return uint8((299*uint32(px.R) + 587*uint32(px.G) + 114*uint32(px.B) + 500) / 1000)
}

// Grayscale converts the raster to grayscale mode and
// returns the pixel values as a one dimensional, row-major array.
func Grayscale(r *Raster) []uint8 {
	gray := make([]uint8, r.Width*r.Height)
	for y, row := range r.Pix {
		off := y * r.Width
		for x, px := range row {
			gray[off+x] = luma(px)
		}
	}
	return gray
}

// blurGray smooths a row-major grayscale plane with a gaussian of the given sigma.
func blurGray(gray []uint8, width, height int, sigma float64) []uint8 {
	if sigma <= 0 || width == 0 || height == 0 {
		return gray
	}
	src := &image.Gray{
		Pix:    gray,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
	blurred := imaging.Blur(src, sigma)

	out := make([]uint8, width*height)
	for i := range out {
		out[i] = blurred.Pix[i*4]
	}
	return out
}
