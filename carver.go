package carvers

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DPTable holds the cumulative minimum energy of every pixel, measured from the top row.
type DPTable struct {
	width  int
	height int
	table  *mat.Dense
}

// Point is a pixel coordinate of a seam.
type Point struct {
	X int
	Y int
}

// Seam is a top to bottom path holding exactly one point per row.
type Seam []Point

// NewDPTable allocates a cumulative energy table of the given size.
func NewDPTable(width, height int) *DPTable {
	dpt := &DPTable{width: width, height: height}
	if width > 0 && height > 0 {
		dpt.table = mat.NewDense(height, width, nil)
	}
	return dpt
}

// get returns the cumulative energy value.
func (dpt *DPTable) get(x, y int) float64 {
	return dpt.table.At(y, x)
}

// set stores the cumulative energy value.
func (dpt *DPTable) set(x, y int, px float64) {
	dpt.table.Set(y, x, px)
}

// At returns the cumulative energy at column x and row y.
func (dpt *DPTable) At(x, y int) float64 {
	return dpt.get(x, y)
}

// minParent returns the column among {x-1, x, x+1} of row y holding the
// lowest cumulative energy. Candidates are visited left to right and only a
// strictly smaller value replaces the current pick, so ties go to the
// smallest column.
func (dpt *DPTable) minParent(x, y int) int {
	best := x
	if x > 0 {
		best = x - 1
	}
	last := x + 1
	if last > dpt.width-1 {
		last = dpt.width - 1
	}
	min := dpt.get(best, y)
	for c := best + 1; c <= last; c++ {
		if v := dpt.get(c, y); v < min {
			min = v
			best = c
		}
	}
	return best
}

// ComputeSeams fills the table with the cumulative minimum energy:
//   - the first row is a copy of the first row of the energy map;
//   - every other entry (x, y) is the energy of the pixel plus the minimum of
//     the entries (x-1, y-1), (x, y-1) and (x+1, y-1), clipped to the image.
//
// Rows are processed top to bottom since each one depends on the row above.
func (dpt *DPTable) ComputeSeams(em *EnergyMap) error {
	if em.Width != dpt.width || em.Height != dpt.height {
		return invariant("energy map is %dx%d, table is %dx%d",
			em.Width, em.Height, dpt.width, dpt.height)
	}
	if dpt.table == nil {
		return nil
	}

	copy(dpt.table.RawRowView(0), em.Row(0))
	for y := 1; y < dpt.height; y++ {
		energy := em.Row(y)
		for x := 0; x < dpt.width; x++ {
			parent := dpt.minParent(x, y-1)
			dpt.set(x, y, energy[x]+dpt.get(parent, y-1))
		}
	}
	return nil
}

// FindLowestEnergySeam backtraces the table from the cheapest entry of the
// last row up to the first row. The returned seam is ordered top to bottom.
func (dpt *DPTable) FindLowestEnergySeam() (Seam, error) {
	if dpt.height < 2 || dpt.width < 1 {
		return nil, invalidInput("no vertical seam exists in a %dx%d table", dpt.width, dpt.height)
	}

	// floats.MinIdx picks the first index among equal minimums.
	px := floats.MinIdx(dpt.table.RawRowView(dpt.height - 1))

	seam := make(Seam, dpt.height)
	seam[dpt.height-1] = Point{X: px, Y: dpt.height - 1}
	for y := dpt.height - 2; y >= 0; y-- {
		px = dpt.minParent(px, y)
		seam[y] = Point{X: px, Y: y}
	}
	return seam, nil
}

// Cost returns the cumulative energy at the bottom of the seam.
func (dpt *DPTable) Cost(seam Seam) float64 {
	if len(seam) == 0 {
		return 0
	}
	end := seam[len(seam)-1]
	return dpt.get(end.X, end.Y)
}

// Validate checks that the seam spans every row of a width x height grid
// exactly once, top to bottom, with 8-connected steps.
func (s Seam) Validate(width, height int) error {
	if len(s) != height {
		return invariant("seam has %d points, image has %d rows", len(s), height)
	}
	for y, p := range s {
		if p.Y != y {
			return invariant("seam point %d is on row %d", y, p.Y)
		}
		if p.X < 0 || p.X >= width {
			return invariant("seam column %d out of range [0,%d) on row %d", p.X, width, y)
		}
		if y > 0 {
			if d := p.X - s[y-1].X; d < -1 || d > 1 {
				return invariant("seam is not connected between rows %d and %d", y-1, y)
			}
		}
	}
	return nil
}

// RemoveSeam deletes the seam pixel from every row of the raster. Each row
// loses the pixel at its own seam column, so the width shrinks by exactly one.
// The raster is modified in place and returned.
func RemoveSeam(r *Raster, seam Seam) (*Raster, error) {
	if err := seam.Validate(r.Width, r.Height); err != nil {
		return nil, err
	}
	for _, p := range seam {
		r.Pix[p.Y] = removeAt(r.Pix[p.Y], p.X)
	}
	r.Width--

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// removeAt removes element i, shifting the tail one position to the left.
func removeAt[T any](row []T, i int) []T {
	copy(row[i:], row[i+1:])
	return row[:len(row)-1]
}
