package carvers

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DualGradientEnergy computes, for every pixel, the sum of the squared R, G and B
// differences between its left and right neighbours plus the same sum for its
// upper and lower neighbours.
//
// Neighbours are clamped to the border unless opts.EdgeWrap is set, in which
// case the grid is treated as a torus (the left neighbour of column 0 is the
// last column).
func DualGradientEnergy(r *Raster, opts EnergyOptions) *EnergyMap {
	dx, dy := r.Width, r.Height
	em := NewEnergyMap(dx, dy, nil)
	if dx == 0 || dy == 0 {
		return em
	}

	parallelRows(dy, opts.Workers, func(y int) {
		out := em.Row(y)
		up := r.Pix[neighbour(y-1, dy, opts.EdgeWrap)]
		down := r.Pix[neighbour(y+1, dy, opts.EdgeWrap)]
		row := r.Pix[y]
		for x := 0; x < dx; x++ {
			left := row[neighbour(x-1, dx, opts.EdgeWrap)]
			right := row[neighbour(x+1, dx, opts.EdgeWrap)]
			out[x] = float64(squaredDiff(left, right) + squaredDiff(up[x], down[x]))
		}
	})
	return em
}

func squaredDiff(a, b Pixel) uint32 {
	dr := int32(a.R) - int32(b.R)
	dg := int32(a.G) - int32(b.G)
	db := int32(a.B) - int32(b.B)
	return uint32(dr*dr + dg*dg + db*db)
}

// LabGradientEnergy is the perceptual variant of DualGradientEnergy: the
// neighbour differences are CIE-Lab distances, scaled to the 0-255 range.
func LabGradientEnergy(r *Raster, opts EnergyOptions) *EnergyMap {
	dx, dy := r.Width, r.Height
	em := NewEnergyMap(dx, dy, nil)
	if dx == 0 || dy == 0 {
		return em
	}

	parallelRows(dy, opts.Workers, func(y int) {
		out := em.Row(y)
		up := r.Pix[neighbour(y-1, dy, opts.EdgeWrap)]
		down := r.Pix[neighbour(y+1, dy, opts.EdgeWrap)]
		row := r.Pix[y]
		for x := 0; x < dx; x++ {
			left := toColorful(row[neighbour(x-1, dx, opts.EdgeWrap)])
			right := toColorful(row[neighbour(x+1, dx, opts.EdgeWrap)])
			horiz := left.DistanceLab(right)
			vert := toColorful(up[x]).DistanceLab(toColorful(down[x]))
			out[x] = (horiz + vert) * 255
		}
	})
	return em
}

func toColorful(px Pixel) colorful.Color {
	return colorful.Color{
		R: float64(px.R) / 255,
		G: float64(px.G) / 255,
		B: float64(px.B) / 255,
	}
}
