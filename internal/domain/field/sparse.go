package field

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
)

// sparseSystem is the reduced symmetric positive-semi-definite system over
// the non-Dirichlet unknowns. Each grid node couples to at most its four
// grid neighbors, so rows use a flat fixed-width layout instead of per-row
// maps; Dirichlet contributions are absorbed into the right-hand side during
// assembly.
type sparseSystem struct {
	n    int
	diag []float64
	cols [][4]int32 // -1-padded off-diagonal column indices
	vals [][4]float64
	rhs  []float64
}

func newSparseSystem(n int) *sparseSystem {
	m := &sparseSystem{
		n:    n,
		diag: make([]float64, n),
		cols: make([][4]int32, n),
		vals: make([][4]float64, n),
		rhs:  make([]float64, n),
	}
	for i := range m.cols {
		m.cols[i] = [4]int32{-1, -1, -1, -1}
	}
	return m
}

// addEdge accumulates the conductance g of one grid edge on row r: the
// neighbor sum lands on the diagonal, a free neighbor contributes an
// off-diagonal -g, a Dirichlet neighbor moves g·potential to the RHS.
func (m *sparseSystem) addEdge(r int, neighbor int32, g, dirichletV float64, neighborFree bool) {
	m.diag[r] += g
	if neighborFree {
		for k := 0; k < 4; k++ {
			if m.cols[r][k] == -1 {
				m.cols[r][k] = neighbor
				m.vals[r][k] = -g
				return
			}
		}
		return
	}
	m.rhs[r] += g * dirichletV
}

// mulVec computes dst = A·x.
func (m *sparseSystem) mulVec(dst, x []float64) {
	for r := 0; r < m.n; r++ {
		sum := m.diag[r] * x[r]
		cols := &m.cols[r]
		vals := &m.vals[r]
		for k := 0; k < 4; k++ {
			c := cols[k]
			if c < 0 {
				break
			}
			sum += vals[k] * x[c]
		}
		dst[r] = sum
	}
}

// conjugateGradient solves A·x = rhs from the zero vector, judging
// convergence by the residual 2-norm. On hitting the iteration cap it
// returns the best available iterate with converged=false; the caller
// decides whether that is acceptable. ctx is polled between iterations so
// an external deadline can abort a runaway solve.
func conjugateGradient(ctx context.Context, m *sparseSystem, maxIters int, tol float64) (x []float64, iters int, converged bool, err error) {
	n := m.n
	x = make([]float64, n)
	r := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)

	copy(r, m.rhs)
	copy(p, r)
	rs := floats.Dot(r, r)
	tolSq := tol * tol

	if rs <= tolSq {
		return x, 0, true, nil
	}

	for iters = 0; iters < maxIters; iters++ {
		if iters%64 == 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return x, iters, false, ctxErr
			}
		}

		m.mulVec(ap, p)
		pap := floats.Dot(p, ap)
		if pap <= 0 || math.IsNaN(pap) {
			// Lost positive-definiteness to roundoff; keep the iterate.
			return x, iters, false, nil
		}
		alpha := rs / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		rsNew := floats.Dot(r, r)
		if rsNew <= tolSq {
			return x, iters + 1, true, nil
		}
		floats.AddScaledTo(p, r, rsNew/rs, p)
		rs = rsNew
	}
	return x, maxIters, false, nil
}
