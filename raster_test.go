package carvers

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noiseRaster returns a reproducible raster of random pixels.
func noiseRaster(width, height int, seed int64) *Raster {
	rnd := rand.New(rand.NewSource(seed))
	r := NewRaster(width, height)
	for y := range r.Pix {
		for x := range r.Pix[y] {
			r.Pix[y][x] = Pixel{uint8(rnd.Intn(256)), uint8(rnd.Intn(256)), uint8(rnd.Intn(256))}
		}
	}
	return r
}

// uniformRaster returns a raster filled with a single color.
func uniformRaster(width, height int, px Pixel) *Raster {
	r := NewRaster(width, height)
	for y := range r.Pix {
		for x := range r.Pix[y] {
			r.Pix[y][x] = px
		}
	}
	return r
}

func TestRaster_FromImage(t *testing.T) {
	rect := image.Rect(-1, -1, 15, 15)

	nrgba := image.NewNRGBA(rect)
	ycbcr := image.NewYCbCr(rect, image.YCbCrSubsampleRatio444)
	gray := image.NewGray(rect)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := color.NRGBA{uint8(x * 16), uint8(y * 16), uint8((x + y) * 8), 255}
			nrgba.SetNRGBA(x, y, c)

			yy, cb, cr := color.RGBToYCbCr(c.R, c.G, c.B)
			ycbcr.Y[ycbcr.YOffset(x, y)] = yy
			ycbcr.Cb[ycbcr.COffset(x, y)] = cb
			ycbcr.Cr[ycbcr.COffset(x, y)] = cr

			gray.SetGray(x, y, color.Gray{Y: uint8(x * 16)})
		}
	}

	testCases := []struct {
		name string
		img  image.Image
	}{
		{name: "NRGBA", img: nrgba},
		{name: "YCbCr-444", img: ycbcr},
		{name: "Gray", img: gray},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := FromImage(tc.img)
			require.NoError(t, r.Validate())
			assert.Equal(t, rect.Dx(), r.Width)
			assert.Equal(t, rect.Dy(), r.Height)

			for y := 0; y < r.Height; y++ {
				for x := 0; x < r.Width; x++ {
					want := color.NRGBAModel.Convert(tc.img.At(rect.Min.X+x, rect.Min.Y+y)).(color.NRGBA)
					got := r.At(x, y)
					// The 8-bit and 16-bit YCbCr conversions may differ by one.
					assert.InDelta(t, want.R, got.R, 1, "pixel (%d,%d)", x, y)
					assert.InDelta(t, want.G, got.G, 1, "pixel (%d,%d)", x, y)
					assert.InDelta(t, want.B, got.B, 1, "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestRaster_ToImageShouldBeOpaque(t *testing.T) {
	r := noiseRaster(7, 5, 3)
	img := r.ToImage()

	assert.Equal(t, image.Rect(0, 0, 7, 5), img.Bounds())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := img.NRGBAAt(x, y)
			assert.Equal(t, uint8(255), c.A)
			assert.Equal(t, r.At(x, y), Pixel{c.R, c.G, c.B})
		}
	}
	assert.True(t, r.Equal(FromImage(img)))
}

func TestRaster_CloneShouldNotShareStorage(t *testing.T) {
	r := noiseRaster(4, 4, 5)
	c := r.Clone()
	require.True(t, r.Equal(c))

	c.Set(1, 1, Pixel{1, 2, 3})
	c.Pix[2] = c.Pix[2][:3]
	assert.NotEqual(t, r.At(1, 1), c.At(1, 1))
	assert.Len(t, r.Pix[2], 4)
}

func TestRaster_Validate(t *testing.T) {
	r := NewRaster(3, 3)
	assert.NoError(t, r.Validate())

	r.Pix[1] = r.Pix[1][:2]
	assert.True(t, errors.Is(r.Validate(), ErrInvariant))

	r = NewRaster(3, 3)
	r.Height = 4
	assert.True(t, errors.Is(r.Validate(), ErrInvariant))
}
