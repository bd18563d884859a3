// Package fit attributes a sample's mutation spectrum to reference signatures.
//
// The observed counts are normalised to a profile and fit as a non-negative
// combination of signatures. Signatures contributing fewer than a minimum
// number of mutations are removed and the remaining signatures refit until no
// further signature is removed.
package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ResidualTolerance is the negative residual, relative to the burden, still
// considered zero.
const ResidualTolerance = 1e-6

// Status is the terminal state of a fit.
type Status int

const (
	// Stable means the last refit removed no signature.
	Stable Status = iota
	// NoSignatureFits means every signature was removed; the whole burden is residual.
	NoSignatureFits
	// NegativeResidual means the attributed counts exceed the burden beyond tolerance.
	NegativeResidual
)

func (s Status) String() string {
	switch s {
	case Stable:
		return "Stable"
	case NoSignatureFits:
		return "NoSignatureFits"
	case NegativeResidual:
		return "NegativeResidual"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the attribution of one sample.
type Result struct {
	Burden        float64   // total observed mutations
	Weights       []float64 // fraction of the profile explained by each signature
	Contributions []float64 // Weights scaled to mutation counts
	Active        []int     // signatures retained in the final fit, ascending
	Residual      float64   // Burden minus the sum of Contributions
	Error         float64   // euclidean distance between observed and reconstructed profiles
	Iterations    int       // number of NNLS solves
	ActiveHistory []int     // size of the active set at each solve
	Status        Status
}

// Fit attributes the counts v to the rows of sigs (signatures x categories, each
// row summing to 1). Signatures with fewer than minContribution attributed
// mutations are pruned and the fit repeated over the remaining signatures.
func Fit(sigs mat.Matrix, v []float64, minContribution float64) (Result, error) {
	r, k := sigs.Dims()
	if len(v) != k {
		return Result{}, fmt.Errorf("fit: sample has %d categories, signatures have %d", len(v), k)
	}
	for i := range v {
		if v[i] < 0 || math.IsNaN(v[i]) {
			return Result{}, fmt.Errorf("fit: invalid count %g in category %d", v[i], i)
		}
	}

	res := Result{
		Burden:        floats.Sum(v),
		Weights:       make([]float64, r),
		Contributions: make([]float64, r),
	}
	if res.Burden == 0 {
		res.Status = NoSignatureFits
		return res, nil
	}

	profile := make([]float64, k)
	floats.ScaleTo(profile, 1/res.Burden, v)

	a := sigs.T()
	active := make([]int, r)
	for i := range active {
		active[i] = i
	}

	var w []float64
	var err error
	for len(active) > 0 {
		res.Iterations++
		res.ActiveHistory = append(res.ActiveHistory, len(active))
		w, err = NNLS(a, profile, active)
		if err != nil {
			return res, err
		}

		kept := make([]int, 0, len(active))
		for _, i := range active {
			if w[i] > 0 && w[i]*res.Burden >= minContribution {
				kept = append(kept, i)
			}
		}
		if len(kept) == len(active) {
			break
		}
		active = kept
	}

	if len(active) == 0 {
		res.Status = NoSignatureFits
		res.Residual = res.Burden
		res.Error = floats.Norm(profile, 2)
		return res, nil
	}

	res.Active = active
	for _, i := range active {
		res.Weights[i] = w[i]
		res.Contributions[i] = w[i] * res.Burden
	}
	res.Residual = res.Burden - floats.Sum(res.Contributions)
	res.Error = floats.Distance(profile, Reconstruct(sigs, res.Weights), 2)
	if res.Residual < -ResidualTolerance*res.Burden {
		res.Status = NegativeResidual
	}
	return res, nil
}

// Reconstruct returns the profile sum_i weights[i] * sigs[i].
func Reconstruct(sigs mat.Matrix, weights []float64) []float64 {
	r, k := sigs.Dims()
	var ans mat.VecDense
	ans.MulVec(sigs.T(), mat.NewVecDense(r, append([]float64(nil), weights...)))
	return mat.Col(make([]float64, k), 0, &ans)
}
