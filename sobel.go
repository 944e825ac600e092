package carvers

import "github.com/esimov/carvers/utils"

type kernel [3][3]int32

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelEnergy computes the gradient magnitude |Gx| + |Gy| of the luma plane.
// See https://en.wikipedia.org/wiki/Sobel_operator
//
// Pixels outside the grid are replaced by the nearest border pixel
// (clamp-to-edge), so border pixels get a gradient of the same scale as
// interior ones. The result fits in 16 bits (max 2040).
func SobelEnergy(r *Raster, opts EnergyOptions) *EnergyMap {
	dx, dy := r.Width, r.Height
	em := NewEnergyMap(dx, dy, nil)
	if dx == 0 || dy == 0 {
		return em
	}
	gray := blurGray(Grayscale(r), dx, dy, opts.BlurRadius)

	parallelRows(dy, opts.Workers, func(y int) {
		out := em.Row(y)
		for x := 0; x < dx; x++ {
			var sumX, sumY int32
			for ky := 0; ky < 3; ky++ {
				off := clamp(y+ky-1, dy) * dx
				for kx := 0; kx < 3; kx++ {
					px := int32(gray[off+clamp(x+kx-1, dx)])
					sumX += px * kernelX[ky][kx]
					sumY += px * kernelY[ky][kx]
				}
			}
			out[x] = float64(utils.Abs(sumX) + utils.Abs(sumY))
		}
	})
	return em
}
