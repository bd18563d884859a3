package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotConverged = errors.New("nnls: iteration limit reached")
	ErrFactorize    = errors.New("nnls: svd factorization failed")
)

// rcond is the relative singular value cutoff for the unconstrained subproblems.
const rcond = 1e-12

// NNLS solves
//
//	minimize ||A x - b||_2  subject to  x >= 0
//
// with the Lawson-Hanson active set method. Only the columns listed in allowed
// may take non-zero values; a nil allowed permits every column. The
// unconstrained subproblems are solved with the minimum-norm SVD solution, so
// collinear columns do not fail but the split of weight between them is not unique.
func NNLS(a mat.Matrix, b []float64, allowed []int) ([]float64, error) {
	m, n := a.Dims()
	if len(b) != m {
		return nil, fmt.Errorf("nnls: b has length %d, expected %d", len(b), m)
	}

	candidate := make([]bool, n)
	if allowed == nil {
		for j := range candidate {
			candidate[j] = true
		}
	}
	for _, j := range allowed {
		if j < 0 || j >= n {
			return nil, fmt.Errorf("nnls: column %d out of range [0,%d)", j, n)
		}
		candidate[j] = true
	}

	bv := mat.NewVecDense(m, append([]float64(nil), b...))
	tol := 10 * math.Max(float64(m), float64(n)) * mat.Norm(a, 1) * eps
	x := make([]float64, n)
	passive := make([]bool, n)
	blocked := make([]bool, n) // columns that were dropped right after entering
	w := gradient(a, bv, x)

	var t, j int
	var best, alpha float64
	maxIter := 5 * n
	for iter := 0; ; iter++ {
		t, best = -1, tol
		for j = range w {
			if candidate[j] && !passive[j] && !blocked[j] && w[j] > best {
				t, best = j, w[j]
			}
		}
		if t == -1 {
			break
		}
		if iter >= maxIter {
			return x, ErrNotConverged
		}
		passive[t] = true

		for {
			z, err := leastSquares(a, bv, passive)
			if err != nil {
				return x, err
			}

			feasible := true
			for j = range z {
				if passive[j] && z[j] <= tol {
					feasible = false
					break
				}
			}
			if feasible {
				copy(x, z)
				break
			}

			// step from x toward z until the first passive coefficient hits zero
			alpha = 1
			for j = range z {
				if passive[j] && z[j] <= tol {
					if d := x[j] - z[j]; d > 0 {
						alpha = math.Min(alpha, x[j]/d)
					} else {
						alpha = 0
					}
				}
			}
			for j = range x {
				x[j] += alpha * (z[j] - x[j])
				if passive[j] && x[j] <= tol {
					passive[j] = false
				}
				if !passive[j] {
					x[j] = 0
				}
			}
			if !anyTrue(passive) {
				break
			}
			iter++
			if iter >= maxIter {
				return x, ErrNotConverged
			}
		}
		if passive[t] {
			for j = range blocked {
				blocked[j] = false
			}
		} else {
			blocked[t] = true
		}
		w = gradient(a, bv, x)
	}
	return x, nil
}

// eps is the machine epsilon for float64.
var eps = math.Nextafter(1, 2) - 1

// gradient returns A^T (b - A x).
func gradient(a mat.Matrix, b *mat.VecDense, x []float64) []float64 {
	_, n := a.Dims()
	var ax, r, g mat.VecDense
	ax.MulVec(a, mat.NewVecDense(n, append([]float64(nil), x...)))
	r.SubVec(b, &ax)
	g.MulVec(a.T(), &r)
	ans := make([]float64, n)
	for j := range ans {
		ans[j] = g.AtVec(j)
	}
	return ans
}

// leastSquares returns the minimum-norm unconstrained solution over the passive
// columns of a, with zeros elsewhere.
func leastSquares(a mat.Matrix, b *mat.VecDense, passive []bool) ([]float64, error) {
	m, n := a.Dims()
	var cols []int
	for j := range passive {
		if passive[j] {
			cols = append(cols, j)
		}
	}
	ans := make([]float64, n)
	if len(cols) == 0 {
		return ans, nil
	}

	sub := mat.NewDense(m, len(cols), nil)
	for k, j := range cols {
		sub.SetCol(k, mat.Col(nil, j, a))
	}
	var svd mat.SVD
	if !svd.Factorize(sub, mat.SVDThin) {
		return nil, ErrFactorize
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return ans, nil
	}
	var z mat.VecDense
	svd.SolveVecTo(&z, b, rank)
	for k, j := range cols {
		ans[j] = z.AtVec(k)
	}
	return ans, nil
}

func anyTrue(b []bool) bool {
	for i := range b {
		if b[i] {
			return true
		}
	}
	return false
}
