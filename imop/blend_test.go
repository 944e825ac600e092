package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlend_Basic(t *testing.T) {
	assert := assert.New(t)

	op := NewBlend()
	assert.Equal(Normal, op.Get())
	assert.Error(op.Set("blend_mode_not_supported"))
	assert.Equal(Normal, op.Get())

	assert.NoError(op.Set(Darken))
	assert.Equal(Darken, op.Get())
	assert.NoError(op.Set(Lighten))
	assert.Equal(Lighten, op.Get())
}

func TestBlend_Modes(t *testing.T) {
	pinkFront := color.NRGBA{R: 214, G: 20, B: 65, A: 255}
	orangeBack := color.NRGBA{R: 250, G: 121, B: 17, A: 255}

	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)
	draw.Draw(source, rect, &image.Uniform{pinkFront}, image.Point{}, draw.Src)
	draw.Draw(backdrop, rect, &image.Uniform{orangeBack}, image.Point{}, draw.Src)

	testCases := []struct {
		mode     string
		expected []uint8
	}{
		{Normal, []uint8{214, 20, 65, 255}},
		{Darken, []uint8{214, 20, 17, 255}},
		{Lighten, []uint8{250, 121, 65, 255}},
		{Multiply, []uint8{210, 9, 4, 255}},
		{Difference, []uint8{36, 101, 48, 255}},
	}

	for _, tc := range testCases {
		t.Run(tc.mode, func(t *testing.T) {
			op := InitOp()
			blend := NewBlend()
			assert.NoError(t, blend.Set(tc.mode))

			bmp := NewBitmap(rect)
			op.Draw(bmp, source, backdrop, blend)
			assert.EqualValues(t, tc.expected, bmp.Img.Pix)
		})
	}
}

func TestBlend_TransparentBackdropKeepsSource(t *testing.T) {
	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	source.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	backdrop := image.NewNRGBA(rect)

	blend := NewBlend()
	assert.NoError(t, blend.Set(Multiply))

	bmp := NewBitmap(rect)
	InitOp().Draw(bmp, source, backdrop, blend)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, bmp.Img.NRGBAAt(0, 0))
}
