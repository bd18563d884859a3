package fit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// toy catalog over 4 categories
var toy = mat.NewDense(2, 4, []float64{
	0.5, 0.5, 0, 0,
	0, 0, 0.5, 0.5,
})

func TestFitSingleSignature(t *testing.T) {
	res, err := Fit(toy, []float64{10, 10, 0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, Stable, res.Status)
	assert.Equal(t, []int{0}, res.Active)
	assert.InDelta(t, 20, res.Contributions[0], 1e-9)
	assert.Equal(t, 0.0, res.Contributions[1])
	assert.InDelta(t, 0, res.Residual, 1e-9)
	assert.InDelta(t, 0, res.Error, 1e-9)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, []int{2, 1}, res.ActiveHistory)
}

func TestFitNoPruning(t *testing.T) {
	res, err := Fit(toy, []float64{3, 3, 3, 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, Stable, res.Status)
	assert.Equal(t, []int{0, 1}, res.Active)
	assert.InDelta(t, 6, res.Contributions[0], 1e-9)
	assert.InDelta(t, 6, res.Contributions[1], 1e-9)
	assert.Equal(t, 1, res.Iterations)
}

func TestFitPrunesBelowMinContribution(t *testing.T) {
	// 2 of the 12 mutations look like the second signature
	res, err := Fit(toy, []float64{5, 5, 1, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Active)
	assert.Equal(t, 0.0, res.Contributions[1])
	assert.InDelta(t, res.Burden, floats.Sum(res.Contributions)+res.Residual, 1e-9)
	assert.True(t, res.Residual >= 0)
}

func TestFitNoSignatureFits(t *testing.T) {
	res, err := Fit(toy, []float64{3, 3, 3, 3}, 7)
	require.NoError(t, err)
	assert.Equal(t, NoSignatureFits, res.Status)
	assert.Empty(t, res.Active)
	assert.Equal(t, 12.0, res.Residual)
	assert.Equal(t, 0.0, floats.Sum(res.Contributions))
	assert.InDelta(t, 0.5, res.Error, 1e-12)

	res, err = Fit(toy, []float64{0, 0, 0, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, NoSignatureFits, res.Status)
	assert.Equal(t, 0.0, res.Residual)
}

func TestFitNegativeResidual(t *testing.T) {
	sigs := mat.NewDense(1, 2, []float64{0.9, 0.1})
	res, err := Fit(sigs, []float64{9, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, NegativeResidual, res.Status)
	assert.True(t, res.Residual < 0)
	assert.InDelta(t, res.Burden, floats.Sum(res.Contributions)+res.Residual, 1e-9)
}

func TestFitInvalidInput(t *testing.T) {
	_, err := Fit(toy, []float64{1, 2, 3}, 0)
	assert.Error(t, err)
	_, err = Fit(toy, []float64{1, 2, 3, -1}, 0)
	assert.Error(t, err)
}

func TestFitCollinear(t *testing.T) {
	// identical signatures share the weight, but the reconstruction is exact
	sigs := mat.NewDense(3, 4, []float64{
		0.5, 0.5, 0, 0,
		0.5, 0.5, 0, 0,
		0, 0, 0.5, 0.5,
	})
	res, err := Fit(sigs, []float64{10, 10, 0, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, Stable, res.Status)
	assert.InDelta(t, 20, res.Contributions[0]+res.Contributions[1], 1e-9)
	assert.InDelta(t, 0, res.Error, 1e-9)
}

func randomCatalog(rng *rand.Rand, r, k int) *mat.Dense {
	ans := mat.NewDense(r, k, nil)
	row := make([]float64, k)
	for i := 0; i < r; i++ {
		for j := range row {
			row[j] = rng.ExpFloat64()
			if rng.Intn(3) == 0 {
				row[j] = 0
			}
		}
		floats.Scale(1/floats.Sum(row), row)
		ans.SetRow(i, row)
	}
	return ans
}

func randomSample(rng *rand.Rand, sigs *mat.Dense, burden int) []float64 {
	r, k := sigs.Dims()
	weights := make([]float64, r)
	for i := range weights {
		if rng.Intn(2) == 0 {
			weights[i] = rng.Float64()
		}
	}
	weights[rng.Intn(r)] += 0.1
	floats.Scale(1/floats.Sum(weights), weights)
	profile := Reconstruct(sigs, weights)
	v := make([]float64, k)
	for n := 0; n < burden; n++ {
		u := rng.Float64()
		for j := range profile {
			u -= profile[j]
			if u <= 0 || j == k-1 {
				v[j]++
				break
			}
		}
	}
	return v
}

func TestFitProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		r := 2 + rng.Intn(12)
		sigs := randomCatalog(rng, r, 96)
		v := randomSample(rng, sigs, 10+rng.Intn(500))
		minContribution := float64(rng.Intn(30))

		res, err := Fit(sigs, v, minContribution)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.Iterations, r)
		for i := 1; i < len(res.ActiveHistory); i++ {
			assert.Less(t, res.ActiveHistory[i], res.ActiveHistory[i-1])
		}
		assert.InDelta(t, res.Burden, floats.Sum(res.Contributions)+res.Residual, 1e-6)

		active := make(map[int]bool)
		for _, i := range res.Active {
			active[i] = true
			assert.GreaterOrEqual(t, res.Contributions[i], minContribution)
		}
		for i := range res.Contributions {
			if !active[i] {
				assert.Equal(t, 0.0, res.Contributions[i])
			}
			assert.GreaterOrEqual(t, res.Contributions[i], 0.0)
		}
	}
}

func TestNNLS(t *testing.T) {
	a := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
	})
	// unconstrained solution is (2, -1); the constrained optimum sets x1 = 0
	x, err := NNLS(a, []float64{2, -1, 1}, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 0}, x, 1e-12)

	x, err = NNLS(a, []float64{1, 2, 3}, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, x, 1e-12)

	x, err = NNLS(a, []float64{1, 2, 3}, []int{1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 2.5}, x, 1e-12)

	_, err = NNLS(a, []float64{1, 2}, nil)
	assert.Error(t, err)
	_, err = NNLS(a, []float64{1, 2, 3}, []int{2})
	assert.Error(t, err)
}
