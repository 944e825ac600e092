package carvers

import (
	"io"

	"github.com/pkg/errors"
)

// SeamCarver is implemented by the types able to narrow a raster by a
// percentage of its width.
type SeamCarver interface {
	Reduce(*Raster, uint) (*Result, error)
}

var _ SeamCarver = (*Processor)(nil)

// Process decodes the source image, removes fraction percent of its width and
// encodes the result into w using the given format (see Encode).
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer, fraction uint, format string) (*Result, error) {
	if p.Debug {
		if _, _, err := p.overlayOps(); err != nil {
			return nil, err
		}
	}

	src, err := Decode(r)
	if err != nil {
		return nil, err
	}

	proc := p
	if p.Mask == nil && p.MaskPath != "" {
		mask, err := LoadMask(p.MaskPath, src.Width, src.Height)
		if err != nil {
			return nil, err
		}
		cp := *p
		cp.Mask = mask
		proc = &cp
	}

	res, err := proc.Reduce(src, fraction)
	if err != nil {
		return nil, err
	}

	if err := Encode(w, res.Raster.ToImage(), format); err != nil {
		return nil, errors.Wrap(err, "could not encode the resized image")
	}
	if proc.Debug {
		if res.Overlay, err = proc.DebugOverlay(src, res.Seams); err != nil {
			return nil, err
		}
	}
	return res, nil
}
