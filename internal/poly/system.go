package poly

import (
	"fmt"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/linalg"
)

// System is a square polynomial system: n polynomials in n variables.
type System struct {
	polys []Polynomial
}

// NewSystem validates that the system is square and that every polynomial
// agrees on the variable count.
func NewSystem(polys ...Polynomial) (System, error) {
	n := len(polys)
	if n == 0 {
		return System{}, fmt.Errorf("poly: empty system")
	}
	for i, p := range polys {
		if p.Vars != n {
			return System{}, fmt.Errorf("poly: polynomial %d has %d variables, system has %d equations", i, p.Vars, n)
		}
	}
	return System{polys: polys}, nil
}

// MustSystem is NewSystem for statically known systems.
func MustSystem(polys ...Polynomial) System {
	s, err := NewSystem(polys...)
	if err != nil {
		panic(err)
	}
	return s
}

// Size returns the number of equations (= number of variables).
func (s System) Size() int { return len(s.polys) }

// Poly returns the i-th polynomial.
func (s System) Poly(i int) Polynomial { return s.polys[i] }

// Degrees returns the total degree of each equation.
func (s System) Degrees() []int {
	degs := make([]int, len(s.polys))
	for i, p := range s.polys {
		degs[i] = p.Degree()
	}
	return degs
}

// Eval evaluates every equation at z.
func (s System) Eval(z cpath.Vector) cpath.Vector {
	out := make(cpath.Vector, len(s.polys))
	for i, p := range s.polys {
		out[i] = p.Eval(z)
	}
	return out
}

// Jacobian returns the symbolic Jacobian, row i holding the gradient of
// equation i.
func (s System) Jacobian() [][]Polynomial {
	n := len(s.polys)
	jac := make([][]Polynomial, n)
	for i, p := range s.polys {
		jac[i] = make([]Polynomial, n)
		for j := 0; j < n; j++ {
			jac[i][j] = p.Partial(j)
		}
	}
	return jac
}

// JacobianAt evaluates the Jacobian matrix at z.
func (s System) JacobianAt(z cpath.Vector) linalg.Matrix {
	n := len(s.polys)
	m := linalg.NewMatrix(n)
	for i, p := range s.polys {
		for j := 0; j < n; j++ {
			m[i][j] = p.Partial(j).Eval(z)
		}
	}
	return m
}
