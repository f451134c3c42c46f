package homotopy

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/linalg"
	"github.com/san-kum/polypath/internal/poly"
)

// Homotopy is the shared definition of one continuation problem:
//
//	H(z, t) = (1-t)*gamma*G(z) + t*F(z)
//
// where F is the target system and G the total-degree start system
// g_i = z_i^{d_i} - 1. It is immutable after construction, so any number
// of concurrently tracked paths may read it.
type Homotopy struct {
	target poly.System
	start  poly.System
	gamma  complex128

	n         int
	degrees   []int
	pathCount int

	// Symbolic first and second partials, evaluated on demand.
	jacTarget  [][]poly.Polynomial
	jacStart   [][]poly.Polynomial
	hessTarget [][][]poly.Polynomial
	hessStart  [][][]poly.Polynomial

	// unitRoots[i][k] is the k-th d_i-th root of unity.
	unitRoots [][]complex128
}

// RandomGamma draws a unit-modulus twist constant. Any angle away from the
// real axis avoids the measure-zero set of degenerate path crossings.
func RandomGamma(seed int64) complex128 {
	rng := rand.New(rand.NewSource(seed))
	theta := rng.Float64()*math.Pi*1.6 + 0.2
	return cmplx.Exp(complex(0, theta))
}

// NewTotalDegree builds the total-degree homotopy for the given target
// system. gamma must be nonzero; every equation must have degree >= 1.
func NewTotalDegree(target poly.System, gamma complex128) (*Homotopy, error) {
	if gamma == 0 {
		return nil, fmt.Errorf("homotopy: gamma must be nonzero")
	}
	n := target.Size()
	degrees := target.Degrees()

	pathCount := 1
	startPolys := make([]poly.Polynomial, n)
	unitRoots := make([][]complex128, n)
	for i, d := range degrees {
		if d < 1 {
			return nil, fmt.Errorf("homotopy: equation %d has degree %d, need >= 1", i, d)
		}
		pathCount *= d

		// g_i = z_i^d - 1
		startPolys[i] = poly.New(n,
			poly.Term{Coeff: 1, Powers: monomial(n, i, d)},
			poly.Term{Coeff: -1, Powers: nil},
		)

		unitRoots[i] = make([]complex128, d)
		for k := 0; k < d; k++ {
			angle := 2 * math.Pi * float64(k) / float64(d)
			unitRoots[i][k] = cmplx.Exp(complex(0, angle))
		}
	}
	start := poly.MustSystem(startPolys...)

	h := &Homotopy{
		target:    target,
		start:     start,
		gamma:     gamma,
		n:         n,
		degrees:   degrees,
		pathCount: pathCount,
		unitRoots: unitRoots,
	}
	h.jacTarget, h.hessTarget = differentiate(target)
	h.jacStart, h.hessStart = differentiate(start)
	return h, nil
}

func monomial(vars, variable, degree int) []int {
	powers := make([]int, vars)
	powers[variable] = degree
	return powers
}

func differentiate(s poly.System) (jac [][]poly.Polynomial, hess [][][]poly.Polynomial) {
	n := s.Size()
	jac = s.Jacobian()
	hess = make([][][]poly.Polynomial, n)
	for i := 0; i < n; i++ {
		hess[i] = make([][]poly.Polynomial, n)
		for j := 0; j < n; j++ {
			hess[i][j] = make([]poly.Polynomial, n)
			for k := 0; k < n; k++ {
				hess[i][j][k] = jac[i][j].Partial(k)
			}
		}
	}
	return jac, hess
}

// Size returns the dimension of the system.
func (h *Homotopy) Size() int { return h.n }

// PathCount returns the Bezout number of the start system, one path per
// start root.
func (h *Homotopy) PathCount() int { return h.pathCount }

// Degrees returns the total degree of each target equation.
func (h *Homotopy) Degrees() []int {
	degs := make([]int, h.n)
	copy(degs, h.degrees)
	return degs
}

// Gamma returns the twist constant.
func (h *Homotopy) Gamma() complex128 { return h.gamma }

// Target returns the target system F.
func (h *Homotopy) Target() poly.System { return h.target }

// StartRoot returns component i of start root number path. Roots are
// enumerated mixed-radix over the per-variable root-of-unity indices.
func (h *Homotopy) StartRoot(path, i int) complex128 {
	if path < 0 || path >= h.pathCount {
		panic(fmt.Sprintf("homotopy: path index %d out of range [0,%d)", path, h.pathCount))
	}
	if i < 0 || i >= h.n {
		panic(fmt.Sprintf("homotopy: component index %d out of range [0,%d)", i, h.n))
	}
	idx := path
	for j := 0; j < i; j++ {
		idx /= h.degrees[j]
	}
	return h.unitRoots[i][idx%h.degrees[i]]
}

// Eval evaluates H(z, t).
func (h *Homotopy) Eval(z cpath.Vector, t float64) cpath.Vector {
	f := h.target.Eval(z)
	g := h.start.Eval(z)
	st := complex(1-t, 0) * h.gamma
	tt := complex(t, 0)
	out := make(cpath.Vector, h.n)
	for i := range out {
		out[i] = st*g[i] + tt*f[i]
	}
	return out
}

// Residual returns ||H(z, t)||.
func (h *Homotopy) Residual(z cpath.Vector, t float64) float64 {
	return h.Eval(z, t).Norm()
}

// JacobianAt evaluates Hz = dH/dz at (z, t).
func (h *Homotopy) JacobianAt(z cpath.Vector, t float64) linalg.Matrix {
	st := complex(1-t, 0) * h.gamma
	tt := complex(t, 0)
	m := linalg.NewMatrix(h.n)
	for i := 0; i < h.n; i++ {
		for j := 0; j < h.n; j++ {
			m[i][j] = st*h.jacStart[i][j].Eval(z) + tt*h.jacTarget[i][j].Eval(z)
		}
	}
	return m
}

// TDerivAt evaluates Ht = dH/dt = F(z) - gamma*G(z). Independent of t.
func (h *Homotopy) TDerivAt(z cpath.Vector) cpath.Vector {
	f := h.target.Eval(z)
	g := h.start.Eval(z)
	out := make(cpath.Vector, h.n)
	for i := range out {
		out[i] = f[i] - h.gamma*g[i]
	}
	return out
}

// JacobianActionAt evaluates the directional derivative of Hz at (z, t) in
// state direction x: the matrix with entries
//
//	sum_k d2H_i/(dz_j dz_k) * x_k
func (h *Homotopy) JacobianActionAt(z cpath.Vector, t float64, x cpath.Vector) linalg.Matrix {
	st := complex(1-t, 0) * h.gamma
	tt := complex(t, 0)
	m := linalg.NewMatrix(h.n)
	for i := 0; i < h.n; i++ {
		for j := 0; j < h.n; j++ {
			var sum complex128
			for k := 0; k < h.n; k++ {
				if x[k] == 0 {
					continue
				}
				sum += (st*h.hessStart[i][j][k].Eval(z) + tt*h.hessTarget[i][j][k].Eval(z)) * x[k]
			}
			m[i][j] = sum
		}
	}
	return m
}

// TDerivJacobianAt evaluates d(Ht)/dz = F'(z) - gamma*G'(z).
func (h *Homotopy) TDerivJacobianAt(z cpath.Vector) linalg.Matrix {
	m := linalg.NewMatrix(h.n)
	for i := 0; i < h.n; i++ {
		for j := 0; j < h.n; j++ {
			m[i][j] = h.jacTarget[i][j].Eval(z) - h.gamma*h.jacStart[i][j].Eval(z)
		}
	}
	return m
}
