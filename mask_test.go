package carvers

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask_FromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 0})
	img.SetNRGBA(2, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(3, 1, color.NRGBA{200, 200, 200, 255})

	m := MaskFromImage(img, 4, 2)
	assert.Equal(t, [][]bool{
		{true, false, false, false},
		{false, false, false, true},
	}, m.Bits)
}

func TestMask_FromImageShouldFitTheRaster(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	m := MaskFromImage(img, 4, 3)
	assert.Equal(t, 4, m.Width)
	assert.Equal(t, 3, m.Height)
	for _, row := range m.Bits {
		assert.Equal(t, []bool{false, false, true, true}, row)
	}
}

func TestMask_ProtectShouldClipTheRectangle(t *testing.T) {
	m := NewMask(3, 3)
	m.Protect(image.Rect(1, -5, 10, 2))

	assert.Equal(t, [][]bool{
		{false, true, true},
		{false, true, true},
		{false, false, false},
	}, m.Bits)
}

func TestMask_ShouldRaiseTheEnergy(t *testing.T) {
	m := NewMask(2, 2)
	m.Bits[1][0] = true
	em := NewEnergyMap(2, 2, []float64{1, 2, 3, 4})

	m.apply(em)
	assert.Equal(t, 3.0+ProtectEnergy, em.At(0, 1))
	assert.Equal(t, 4.0, em.At(1, 1))
	assert.Equal(t, 1.0, em.At(0, 0))
}

func TestMask_ShouldShrinkWithTheSeam(t *testing.T) {
	m := NewMask(3, 2)
	m.Bits[0][2] = true
	m.Bits[1][1] = true
	c := m.Clone()

	m.removeSeam(Seam{{0, 0}, {0, 1}})
	assert.Equal(t, 2, m.Width)
	assert.Equal(t, [][]bool{{false, true}, {true, false}}, m.Bits)
	assert.Len(t, c.Bits[0], 3)
}

func TestMask_SeamMayCrossAShortProtectedRun(t *testing.T) {
	// Column 0 is free, every other pixel is expensive. Row 3 is protected
	// everywhere but its last column, which is too far to reach cheaply.
	const w, h, high = 7, 7, 400000
	em := NewEnergyMap(w, h, nil)
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			em.Set(x, y, high)
		}
	}
	for x := 0; x < w-1; x++ {
		m.Bits[3][x] = true
	}
	m.apply(em)

	dpt := NewDPTable(w, h)
	assert.NoError(t, dpt.ComputeSeams(em))
	seam, err := dpt.FindLowestEnergySeam()
	assert.NoError(t, err)

	assert.Equal(t, Point{X: 0, Y: 3}, seam[3])
	assert.Equal(t, float64(ProtectEnergy), dpt.Cost(seam))
}
