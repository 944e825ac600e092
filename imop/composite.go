package imop

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/esimov/carvers/utils"
)

// Porter-Duff composition operations.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// factors returns the Porter-Duff fractions Fa and Fb of an operation,
// given the source alpha as and the backdrop alpha ab.
var factors = map[string]func(as, ab float64) (float64, float64){
	Clear:   func(as, ab float64) (float64, float64) { return 0, 0 },
	Copy:    func(as, ab float64) (float64, float64) { return 1, 0 },
	Dst:     func(as, ab float64) (float64, float64) { return 0, 1 },
	SrcOver: func(as, ab float64) (float64, float64) { return 1, 1 - as },
	DstOver: func(as, ab float64) (float64, float64) { return 1 - ab, 1 },
	SrcIn:   func(as, ab float64) (float64, float64) { return ab, 0 },
	DstIn:   func(as, ab float64) (float64, float64) { return 0, as },
	SrcOut:  func(as, ab float64) (float64, float64) { return 1 - ab, 0 },
	DstOut:  func(as, ab float64) (float64, float64) { return 0, 1 - as },
	SrcAtop: func(as, ab float64) (float64, float64) { return ab, 1 - as },
	DstAtop: func(as, ab float64) (float64, float64) { return 1 - ab, as },
	Xor:     func(as, ab float64) (float64, float64) { return 1 - ab, 1 - as },
}

// Bitmap is the destination of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
}

// InitOp returns a compositor set to source-over.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop string) error {
	if _, ok := factors[cop]; !ok {
		return fmt.Errorf("unsupported composite operation: %v", cop)
	}
	op.current = cop
	return nil
}

// Get returns the currently active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composites src over dst into the bitmap, optionally mixing the colors
// with a blend mode first. All three images must share the same bounds.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) {
	factor := factors[op.current]
	b := src.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := src.NRGBAAt(x, y)
			d := dst.NRGBAAt(x, y)

			as, ab := norm(s.A), norm(d.A)
			fa, fb := factor(as, ab)
			ao := fa*as + fb*ab

			channel := func(cs, cb uint8) uint8 {
				ns, nb := norm(cs), norm(cb)
				if blend != nil {
					ns = (1-ab)*ns + ab*blend.mix(ns, nb)
				}
				if ao == 0 {
					return 0
				}
				return denorm((fa*as*ns + fb*ab*nb) / ao)
			}

			bitmap.Img.SetNRGBA(x, y, color.NRGBA{
				R: channel(s.R, d.R),
				G: channel(s.G, d.G),
				B: channel(s.B, d.B),
				A: denorm(ao),
			})
		}
	}
}

func norm(v uint8) float64 {
	return float64(v) / 255
}

func denorm(v float64) uint8 {
	return uint8(math.Round(utils.Min(utils.Max(v, 0), 1) * 255))
}
