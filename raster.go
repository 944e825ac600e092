package carvers

import (
	"image"
	"image/color"
)

// Pixel is a single RGB sample with 8 bits per channel.
type Pixel struct {
	R, G, B uint8
}

// Raster is the mutable pixel grid the carver operates on.
// Pix is indexed as Pix[y][x]; every row holds exactly Width pixels.
// Seam removal shrinks Width, Height never changes.
type Raster struct {
	Width  int
	Height int
	Pix    [][]Pixel
}

// NewRaster allocates a black raster of the given size.
func NewRaster(width, height int) *Raster {
	r := &Raster{
		Width:  width,
		Height: height,
		Pix:    make([][]Pixel, height),
	}
	for y := range r.Pix {
		r.Pix[y] = make([]Pixel, width)
	}
	return r
}

// At returns the pixel at column x and row y.
func (r *Raster) At(x, y int) Pixel {
	return r.Pix[y][x]
}

// Set replaces the pixel at column x and row y.
func (r *Raster) Set(x, y int, px Pixel) {
	r.Pix[y][x] = px
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	dst := &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    make([][]Pixel, len(r.Pix)),
	}
	for y, row := range r.Pix {
		dst.Pix[y] = append([]Pixel(nil), row...)
	}
	return dst
}

// Equal reports whether both rasters have the same size and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height || len(r.Pix) != len(o.Pix) {
		return false
	}
	for y := range r.Pix {
		if len(r.Pix[y]) != len(o.Pix[y]) {
			return false
		}
		for x := range r.Pix[y] {
			if r.Pix[y][x] != o.Pix[y][x] {
				return false
			}
		}
	}
	return true
}

// Validate checks that the row count matches Height and every row is Width long.
func (r *Raster) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return invariant("negative raster size %dx%d", r.Width, r.Height)
	}
	if len(r.Pix) != r.Height {
		return invariant("raster has %d rows, expected %d", len(r.Pix), r.Height)
	}
	for y, row := range r.Pix {
		if len(row) != r.Width {
			return invariant("row %d has %d pixels, expected %d", y, len(row), r.Width)
		}
	}
	return nil
}

// FromImage converts any image type to a raster with its min-point at (0, 0).
// The alpha channel is dropped.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := NewRaster(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < r.Height; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := r.Pix[y]
			for x := range row {
				row[x] = Pixel{src.Pix[si], src.Pix[si+1], src.Pix[si+2]}
				si += 4
			}
		}
	case *image.YCbCr:
		for y := 0; y < r.Height; y++ {
			row := r.Pix[y]
			for x := range row {
				sx, sy := b.Min.X+x, b.Min.Y+y
				siy := src.YOffset(sx, sy)
				sic := src.COffset(sx, sy)
				cr, cg, cb := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				row[x] = Pixel{cr, cg, cb}
			}
		}
	default:
		for y := 0; y < r.Height; y++ {
			row := r.Pix[y]
			for x := range row {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				row[x] = Pixel{c.R, c.G, c.B}
			}
		}
	}
	return r
}

// ToImage converts the raster into an opaque *image.NRGBA.
func (r *Raster) ToImage() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y, row := range r.Pix {
		di := dst.PixOffset(0, y)
		for _, px := range row {
			dst.Pix[di+0] = px.R
			dst.Pix[di+1] = px.G
			dst.Pix[di+2] = px.B
			dst.Pix[di+3] = 0xff
			di += 4
		}
	}
	return dst
}
