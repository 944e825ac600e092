package carvers

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// EnergyModel selects the function used to estimate per-pixel importance.
// The models are not interchangeable: each one produces different seams.
type EnergyModel string

const (
	// Sobel runs the 3x3 Sobel operator over the luma plane.
	Sobel EnergyModel = "sobel"
	// DualGradient sums the squared RGB differences of opposite neighbours.
	DualGradient EnergyModel = "dual"
	// LabGradient sums the CIE-Lab distances of opposite neighbours.
	LabGradient EnergyModel = "lab"
)

// ParseEnergyModel maps a model name to an EnergyModel. The empty string selects Sobel.
func ParseEnergyModel(name string) (EnergyModel, error) {
	switch EnergyModel(name) {
	case "", Sobel:
		return Sobel, nil
	case DualGradient, LabGradient:
		return EnergyModel(name), nil
	}
	return "", invalidInput("unknown energy model %q", name)
}

// EnergyMap holds a non-negative importance value for every pixel of a raster.
// Values are absolute; no normalization across the image is performed.
type EnergyMap struct {
	Width  int
	Height int
	data   *mat.Dense
}

// NewEnergyMap creates a width x height energy map. When values is non-nil it
// must hold width*height row-major entries.
func NewEnergyMap(width, height int, values []float64) *EnergyMap {
	e := &EnergyMap{Width: width, Height: height}
	if width > 0 && height > 0 {
		e.data = mat.NewDense(height, width, values)
	}
	return e
}

// At returns the energy of the pixel at column x and row y.
func (e *EnergyMap) At(x, y int) float64 {
	return e.data.At(y, x)
}

// Set stores the energy of the pixel at column x and row y.
func (e *EnergyMap) Set(x, y int, v float64) {
	e.data.Set(y, x, v)
}

// Row returns row y as a slice sharing the map's storage.
func (e *EnergyMap) Row(y int) []float64 {
	return e.data.RawRowView(y)
}

func (e *EnergyMap) String() string {
	if e.data == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", mat.Formatted(e.data))
}

// EnergyOptions tunes the energy estimation.
type EnergyOptions struct {
	// Workers is the number of goroutines sharing the rows. Zero means runtime.NumCPU.
	Workers int
	// BlurRadius is the gaussian sigma applied to the luma plane before the
	// Sobel operator. Zero disables smoothing.
	BlurRadius float64
	// EdgeWrap makes the gradient models look up neighbours toroidally
	// instead of clamping them to the border.
	EdgeWrap bool
}

// Energy estimates the energy map of the raster with the selected model.
func Energy(model EnergyModel, r *Raster, opts EnergyOptions) (*EnergyMap, error) {
	switch model {
	case "", Sobel:
		return SobelEnergy(r, opts), nil
	case DualGradient:
		return DualGradientEnergy(r, opts), nil
	case LabGradient:
		return LabGradientEnergy(r, opts), nil
	}
	return nil, invalidInput("unknown energy model %q", model)
}

// parallelRows calls fn for every row in [0, height), spreading the rows
// over a fixed number of goroutines. It returns once all rows are done.
func parallelRows(height, workers int, fn func(y int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for y := start; y < height; y += workers {
				fn(y)
			}
		}(w)
	}
	wg.Wait()
}

// clamp limits v to [0, n).
func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// wrap maps v onto [0, n) treating the axis as a ring.
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// neighbour returns the index used for an out-of-range lookup under the edge policy.
func neighbour(v, n int, toroidal bool) int {
	if toroidal {
		return wrap(v, n)
	}
	return clamp(v, n)
}
