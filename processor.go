package carvers

import (
	"image"

	pigo "github.com/esimov/pigo/core"
	"github.com/rs/zerolog"
)

// Smallest raster the carver accepts. Reductions stop before the width drops below MinWidth.
const (
	MinWidth  = 3
	MinHeight = 2
)

// Processor options
type Processor struct {
	// Energy selects the energy model. The empty value selects Sobel.
	Energy     EnergyModel
	BlurRadius float64
	EdgeWrap   bool
	// Workers is the number of goroutines used by the energy estimation.
	Workers int

	// Mask flags the pixels seams should avoid. It must match the raster size.
	Mask *Mask
	// MaskPath names a mask image loaded by Process when Mask is nil.
	MaskPath     string
	FaceDetect   bool
	FaceDetector *pigo.Pigo
	FaceAngle    float64

	// Debug records every removed seam in original image coordinates.
	Debug     bool
	SeamColor string
	// SeamBlend and SeamComposite select the imop blend mode and Porter-Duff
	// operation used to draw the seams over the original image.
	SeamBlend     string
	SeamComposite string

	Logger *zerolog.Logger
}

// Result describes a finished reduction.
type Result struct {
	Raster *Raster
	// Requested is the number of seams derived from the fraction.
	Requested int
	// Removed is the number of seams actually removed. It is smaller than
	// Requested when the reduction was clipped to the minimum width.
	Removed int
	Clipped bool
	// Seams holds the removed seams in original image coordinates, only
	// when the processor runs in debug mode. Mapped back to the original
	// columns, a seam is not guaranteed to be 8-connected.
	Seams []Seam
	// Overlay shows the removed seams over the original image. It is only
	// rendered by Process in debug mode.
	Overlay *image.NRGBA
}

// Reduce removes floor(width * fraction / 100) vertical seams from the raster
// using the Sobel energy model. The input raster is left untouched.
func Reduce(r *Raster, fraction uint) (*Raster, error) {
	res, err := (&Processor{}).Reduce(r, fraction)
	if err != nil {
		return nil, err
	}
	return res.Raster, nil
}

// Iterations returns the number of seams a fraction (in percent) of width amounts to.
func Iterations(width int, fraction uint) int {
	return width * int(fraction) / 100
}

func (p *Processor) log() *zerolog.Logger {
	if p.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return p.Logger
}

func (p *Processor) energyOptions() EnergyOptions {
	return EnergyOptions{
		Workers:    p.Workers,
		BlurRadius: p.BlurRadius,
		EdgeWrap:   p.EdgeWrap,
	}
}

// Reduce is the reduction driver. It runs the energy, cumulative table,
// seam search and seam removal cycle once per seam, recomputing everything
// from the current raster on each cycle.
//
// The raster is copied first, so invalid input or a failing cycle never
// leaves a partially carved image behind.
func (p *Processor) Reduce(src *Raster, fraction uint) (*Result, error) {
	if fraction > 100 {
		return nil, invalidInput("reduction fraction %d is out of range [0,100]", fraction)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Width < MinWidth || src.Height < MinHeight {
		return nil, invalidInput("image of %dx%d is below the minimum carvable size of %dx%d",
			src.Width, src.Height, MinWidth, MinHeight)
	}
	if p.Mask != nil && (p.Mask.Width != src.Width || p.Mask.Height != src.Height) {
		return nil, invalidInput("mask of %dx%d does not match image of %dx%d",
			p.Mask.Width, p.Mask.Height, src.Width, src.Height)
	}
	if _, err := ParseEnergyModel(string(p.Energy)); err != nil {
		return nil, err
	}

	logger := p.log()
	img := src.Clone()
	res := &Result{
		Raster:    img,
		Requested: Iterations(src.Width, fraction),
	}

	iterations := res.Requested
	if limit := src.Width - MinWidth; iterations > limit {
		logger.Warn().
			Int("requested", iterations).
			Int("allowed", limit).
			Msg("reduction clipped to the minimum image width")
		iterations = limit
		res.Clipped = true
	}
	if iterations == 0 {
		return res, nil
	}

	mask := p.protectionMask(img)

	var index [][]int
	if p.Debug {
		index = columnIndex(img.Width, img.Height)
	}

	for res.Removed < iterations && img.Width > MinWidth {
		seam, cost, err := p.findSeam(img, mask)
		if err != nil {
			return nil, err
		}
		if _, err := RemoveSeam(img, seam); err != nil {
			return nil, err
		}
		if mask != nil {
			mask.removeSeam(seam)
		}
		if index != nil {
			res.Seams = append(res.Seams, originalSeam(index, seam))
		}
		res.Removed++

		logger.Debug().
			Int("seam", res.Removed).
			Int("width", img.Width).
			Float64("cost", cost).
			Msg("seam removed")
	}

	logger.Info().
		Int("removed", res.Removed).
		Int("width", img.Width).
		Int("height", img.Height).
		Bool("clipped", res.Clipped).
		Msg("reduction finished")

	return res, nil
}

// findSeam runs one energy, cumulative table and backtrace pass.
func (p *Processor) findSeam(img *Raster, mask *Mask) (Seam, float64, error) {
	em, err := Energy(p.Energy, img, p.energyOptions())
	if err != nil {
		return nil, 0, err
	}
	if mask != nil {
		mask.apply(em)
	}

	dpt := NewDPTable(img.Width, img.Height)
	if err := dpt.ComputeSeams(em); err != nil {
		return nil, 0, err
	}
	seam, err := dpt.FindLowestEnergySeam()
	if err != nil {
		return nil, 0, err
	}
	return seam, dpt.Cost(seam), nil
}

// protectionMask merges the user mask with the detected faces. It returns
// nil when nothing is protected.
func (p *Processor) protectionMask(img *Raster) *Mask {
	var mask *Mask
	if p.Mask != nil {
		mask = p.Mask.Clone()
	}
	if !p.FaceDetect || p.FaceDetector == nil {
		return mask
	}

	faces := detectFaces(p.FaceDetector, img, p.FaceAngle)
	p.log().Debug().Int("faces", len(faces)).Msg("face detection finished")
	if len(faces) == 0 {
		return mask
	}
	if mask == nil {
		mask = NewMask(img.Width, img.Height)
	}
	for _, rect := range faces {
		mask.Protect(rect)
	}
	return mask
}

// columnIndex maps every pixel of a fresh raster to its own column.
func columnIndex(width, height int) [][]int {
	index := make([][]int, height)
	for y := range index {
		index[y] = make([]int, width)
		for x := range index[y] {
			index[y][x] = x
		}
	}
	return index
}

// originalSeam translates a seam to original image columns and drops the
// seam from the index.
func originalSeam(index [][]int, seam Seam) Seam {
	orig := make(Seam, len(seam))
	for i, pt := range seam {
		orig[i] = Point{X: index[pt.Y][pt.X], Y: pt.Y}
		index[pt.Y] = removeAt(index[pt.Y], pt.X)
	}
	return orig
}
