package carvers

import (
	"image"

	"github.com/pkg/errors"

	"github.com/esimov/carvers/imop"
	"github.com/esimov/carvers/utils"
)

// DefaultSeamColor is used by DebugOverlay when the processor has no SeamColor.
const DefaultSeamColor = "#ff0000"

// DebugOverlay paints the removed seams over the original image.
// The seams must be expressed in original image coordinates, as returned in
// Result.Seams when the processor runs in debug mode.
//
// The seam layer is combined with the original through the SeamComposite
// Porter-Duff operation (source-over when empty) after mixing the colors with
// the SeamBlend mode (none when empty).
func (p *Processor) DebugOverlay(original *Raster, seams []Seam) (*image.NRGBA, error) {
	op, blend, err := p.overlayOps()
	if err != nil {
		return nil, err
	}

	hex := p.SeamColor
	if hex == "" {
		hex = DefaultSeamColor
	}
	col := utils.HexToRGBA(hex)

	backdrop := original.ToImage()
	rect := backdrop.Bounds()
	layer := image.NewNRGBA(rect)
	for _, seam := range seams {
		for _, pt := range seam {
			if image.Pt(pt.X, pt.Y).In(rect) {
				layer.Set(pt.X, pt.Y, col)
			}
		}
	}

	bmp := imop.NewBitmap(rect)
	op.Draw(bmp, layer, backdrop, blend)
	return bmp.Img, nil
}

// overlayOps resolves the compositing operation and blend mode of the overlay.
func (p *Processor) overlayOps() (*imop.Composite, *imop.Blend, error) {
	op := imop.InitOp()
	if p.SeamComposite != "" {
		if err := op.Set(p.SeamComposite); err != nil {
			return nil, nil, errors.Wrap(ErrInvalidInput, err.Error())
		}
	}

	var blend *imop.Blend
	if p.SeamBlend != "" {
		blend = imop.NewBlend()
		if err := blend.Set(p.SeamBlend); err != nil {
			return nil, nil, errors.Wrap(ErrInvalidInput, err.Error())
		}
	}
	return op, blend, nil
}
