package carvers

import (
	"image"

	"github.com/disintegration/imaging"
)

// ProtectEnergy is added to the energy of protected pixels. It exceeds the
// largest value any energy model can produce for a single pixel, so protected
// pixels are strongly penalised, though a seam may still cross a short
// protected run when every alternative path is costlier.
const ProtectEnergy = 1 << 20

// Mask flags the pixels a seam should avoid. It shrinks together with the raster.
type Mask struct {
	Width  int
	Height int
	Bits   [][]bool
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	m := &Mask{Width: width, Height: height, Bits: make([][]bool, height)}
	for y := range m.Bits {
		m.Bits[y] = make([]bool, width)
	}
	return m
}

// MaskFromImage builds a mask of the given size from an image. The image is
// resized to fit when its size differs. Bright, opaque pixels are protected.
func MaskFromImage(img image.Image, width, height int) *Mask {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		img = imaging.Resize(img, width, height, imaging.NearestNeighbor)
	}
	src := imaging.Clone(img)

	m := NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := src.PixOffset(x, y)
			r, g, bl, a := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
			if a > 127 && r > 127 && g > 127 && bl > 127 {
				m.Bits[y][x] = true
			}
		}
	}
	return m
}

// Protect marks every pixel inside rect.
func (m *Mask) Protect(rect image.Rectangle) {
	rect = rect.Intersect(image.Rect(0, 0, m.Width, m.Height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			m.Bits[y][x] = true
		}
	}
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	dst := &Mask{Width: m.Width, Height: m.Height, Bits: make([][]bool, len(m.Bits))}
	for y, row := range m.Bits {
		dst.Bits[y] = append([]bool(nil), row...)
	}
	return dst
}

// apply raises the energy of every protected pixel.
func (m *Mask) apply(em *EnergyMap) {
	for y, row := range m.Bits {
		out := em.Row(y)
		for x, protected := range row {
			if protected {
				out[x] += ProtectEnergy
			}
		}
	}
}

// removeSeam keeps the mask aligned with a raster that just lost the seam.
func (m *Mask) removeSeam(seam Seam) {
	for _, p := range seam {
		m.Bits[p.Y] = removeAt(m.Bits[p.Y], p.X)
	}
	m.Width--
}
