package carvers

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func energyFromRows(rows [][]float64) *EnergyMap {
	em := NewEnergyMap(len(rows[0]), len(rows), nil)
	for y, row := range rows {
		copy(em.Row(y), row)
	}
	return em
}

func TestCarver_ShouldFindTheCheapestSeam(t *testing.T) {
	assert := assert.New(t)

	em := energyFromRows([][]float64{
		{9, 9, 9, 9, 9},
		{9, 1, 9, 9, 9},
		{9, 9, 1, 9, 9},
	})
	dpt := NewDPTable(5, 3)
	require.NoError(t, dpt.ComputeSeams(em))

	assert.Equal([]float64{9, 9, 9, 9, 9}, []float64{dpt.At(0, 0), dpt.At(1, 0), dpt.At(2, 0), dpt.At(3, 0), dpt.At(4, 0)})
	assert.Equal(10.0, dpt.At(1, 1))
	assert.Equal(11.0, dpt.At(2, 2))

	seam, err := dpt.FindLowestEnergySeam()
	require.NoError(t, err)
	assert.Equal(Seam{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, seam)
	assert.Equal(11.0, dpt.Cost(seam))
}

func TestCarver_TiesShouldPreferTheSmallestColumn(t *testing.T) {
	testCases := []struct {
		name   string
		energy [][]float64
		want   Seam
	}{
		{
			name:   "uniform",
			energy: [][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
			want:   Seam{{0, 0}, {0, 1}, {0, 2}},
		},
		{
			name:   "two equal valleys",
			energy: [][]float64{{5, 0, 5, 0}, {5, 0, 5, 0}},
			want:   Seam{{1, 0}, {1, 1}},
		},
		{
			name:   "equal parents",
			energy: [][]float64{{3, 1, 1, 3}, {3, 3, 0, 3}},
			want:   Seam{{1, 0}, {2, 1}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			em := energyFromRows(tc.energy)
			dpt := NewDPTable(em.Width, em.Height)
			require.NoError(t, dpt.ComputeSeams(em))

			seam, err := dpt.FindLowestEnergySeam()
			require.NoError(t, err)
			assert.Equal(t, tc.want, seam)
		})
	}
}

func TestCarver_CumulativeTableShouldBeMonotonic(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	w, h := 17, 11

	em := NewEnergyMap(w, h, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			em.Set(x, y, float64(rnd.Intn(2041)))
		}
	}
	dpt := NewDPTable(w, h)
	require.NoError(t, dpt.ComputeSeams(em))

	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			parent := dpt.At(dpt.minParent(x, y-1), y-1)
			assert.GreaterOrEqual(t, dpt.At(x, y), parent)
			assert.Equal(t, em.At(x, y)+parent, dpt.At(x, y))
		}
	}
}

func TestCarver_MinimumShouldNotDropWhenEnergyIncreases(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	w, h := 9, 7

	lastRowMin := func(em *EnergyMap) float64 {
		dpt := NewDPTable(w, h)
		require.NoError(t, dpt.ComputeSeams(em))
		seam, err := dpt.FindLowestEnergySeam()
		require.NoError(t, err)
		return dpt.Cost(seam)
	}

	values := make([]float64, w*h)
	for i := range values {
		values[i] = float64(rnd.Intn(256))
	}
	base := lastRowMin(NewEnergyMap(w, h, values))

	for i := 0; i < 50; i++ {
		perturbed := append([]float64(nil), values...)
		perturbed[rnd.Intn(len(perturbed))] += float64(1 + rnd.Intn(500))
		assert.LessOrEqual(t, base, lastRowMin(NewEnergyMap(w, h, perturbed)))
	}
}

func TestCarver_SeamShouldBeConnected(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	r := NewRaster(23, 19)
	for y := range r.Pix {
		for x := range r.Pix[y] {
			r.Pix[y][x] = Pixel{uint8(rnd.Intn(256)), uint8(rnd.Intn(256)), uint8(rnd.Intn(256))}
		}
	}

	for _, model := range []EnergyModel{Sobel, DualGradient, LabGradient} {
		em, err := Energy(model, r, EnergyOptions{})
		require.NoError(t, err)

		dpt := NewDPTable(r.Width, r.Height)
		require.NoError(t, dpt.ComputeSeams(em))
		seam, err := dpt.FindLowestEnergySeam()
		require.NoError(t, err)
		assert.NoError(t, seam.Validate(r.Width, r.Height), "model %s", model)

		var sum float64
		for _, p := range seam {
			sum += em.At(p.X, p.Y)
		}
		assert.Equal(t, sum, dpt.Cost(seam))
	}
}

func TestCarver_SeamValidation(t *testing.T) {
	testCases := map[string]Seam{
		"too short":    {{0, 0}, {0, 1}},
		"wrong row":    {{0, 0}, {0, 2}, {0, 1}},
		"out of range": {{0, 0}, {1, 1}, {3, 2}},
		"negative":     {{-1, 0}, {0, 1}, {0, 2}},
		"disconnected": {{0, 0}, {2, 1}, {2, 2}},
	}
	for name, seam := range testCases {
		t.Run(name, func(t *testing.T) {
			err := seam.Validate(3, 3)
			assert.True(t, errors.Is(err, ErrInvariant), "got %v", err)
		})
	}
	assert.NoError(t, Seam{{0, 0}, {1, 1}, {2, 2}}.Validate(3, 3))
}

func TestCarver_RemoveSeamShouldShrinkEveryRow(t *testing.T) {
	assert := assert.New(t)

	r := NewRaster(4, 3)
	for y := range r.Pix {
		for x := range r.Pix[y] {
			r.Pix[y][x] = Pixel{uint8(x), uint8(y), 0}
		}
	}
	seam := Seam{{3, 0}, {2, 1}, {2, 2}}

	out, err := RemoveSeam(r, seam)
	require.NoError(t, err)
	assert.Equal(3, out.Width)
	assert.Equal(3, out.Height)
	assert.NoError(out.Validate())

	assert.Equal([]Pixel{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, out.Pix[0])
	assert.Equal([]Pixel{{0, 1, 0}, {1, 1, 0}, {3, 1, 0}}, out.Pix[1])
	assert.Equal([]Pixel{{0, 2, 0}, {1, 2, 0}, {3, 2, 0}}, out.Pix[2])
}

func TestCarver_RemoveSeamShouldRejectInvalidSeams(t *testing.T) {
	r := NewRaster(4, 3)
	before := r.Clone()

	_, err := RemoveSeam(r, Seam{{0, 0}, {2, 1}, {2, 2}})
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.True(t, before.Equal(r), "the raster should stay untouched")
}

func TestCarver_TableShouldRejectMismatchedEnergy(t *testing.T) {
	dpt := NewDPTable(4, 4)
	err := dpt.ComputeSeams(NewEnergyMap(3, 4, nil))
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestCarver_SingleRowHasNoSeam(t *testing.T) {
	dpt := NewDPTable(5, 1)
	require.NoError(t, dpt.ComputeSeams(NewEnergyMap(5, 1, nil)))

	_, err := dpt.FindLowestEnergySeam()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func BenchmarkCarver_Reduce(b *testing.B) {
	src := noiseRaster(160, 120, 1)
	p := &Processor{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Reduce(src, 10); err != nil {
			b.Fatal(err)
		}
	}
}
