// Package linalg implements dense complex linear solves used by the
// Davidenko field evaluation. Systems are small (the number of variables of
// the polynomial system), so plain LU with partial pivoting is sufficient.
package linalg

import (
	"math/cmplx"

	"github.com/san-kum/polypath/internal/cpath"
)

// Matrix is a dense row-major complex matrix.
type Matrix [][]complex128

func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]complex128, n)
	}
	return m
}

func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i := range m {
		c[i] = make([]complex128, len(m[i]))
		copy(c[i], m[i])
	}
	return c
}

// MulVec computes m*x into a fresh vector.
func (m Matrix) MulVec(x cpath.Vector) cpath.Vector {
	y := make(cpath.Vector, len(m))
	for i := range m {
		var sum complex128
		for j, a := range m[i] {
			sum += a * x[j]
		}
		y[i] = sum
	}
	return y
}

// Solve solves a*x = b by LU decomposition with partial pivoting. The
// inputs are not modified. Returns cpath.ErrSingular when a pivot vanishes.
func Solve(a Matrix, b cpath.Vector) (cpath.Vector, error) {
	n := len(a)
	if len(b) != n {
		return nil, cpath.ErrDimensionMismatch
	}
	lu := a.Clone()
	x := b.Clone()

	for col := 0; col < n; col++ {
		// Pivot on the largest remaining magnitude in this column.
		pivot := col
		best := cmplx.Abs(lu[col][col])
		for row := col + 1; row < n; row++ {
			if mag := cmplx.Abs(lu[row][col]); mag > best {
				best = mag
				pivot = row
			}
		}
		if best == 0 {
			return nil, cpath.ErrSingular
		}
		if pivot != col {
			lu[col], lu[pivot] = lu[pivot], lu[col]
			x[col], x[pivot] = x[pivot], x[col]
		}

		inv := 1 / lu[col][col]
		for row := col + 1; row < n; row++ {
			factor := lu[row][col] * inv
			if factor == 0 {
				continue
			}
			lu[row][col] = factor
			for k := col + 1; k < n; k++ {
				lu[row][k] -= factor * lu[col][k]
			}
			x[row] -= factor * x[col]
		}
	}

	// Back substitution.
	for row := n - 1; row >= 0; row-- {
		sum := x[row]
		for k := row + 1; k < n; k++ {
			sum -= lu[row][k] * x[k]
		}
		x[row] = sum / lu[row][row]
	}

	return x, nil
}

// SolveRegularized solves (a + mu*I)*x = b. A positive mu keeps the solve
// bounded when a is singular or nearly so; mu = 0 degenerates to Solve.
func SolveRegularized(a Matrix, b cpath.Vector, mu float64) (cpath.Vector, error) {
	if mu == 0 {
		return Solve(a, b)
	}
	shifted := a.Clone()
	for i := range shifted {
		shifted[i][i] += complex(mu, 0)
	}
	return Solve(shifted, b)
}
