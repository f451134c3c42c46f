package poly

import (
	"fmt"
	"strings"

	"github.com/san-kum/polypath/internal/cpath"
)

// Term is a single monomial c * z0^p0 * z1^p1 * ... * z{n-1}^p{n-1}.
type Term struct {
	Coeff  complex128
	Powers []int
}

// Polynomial is a sum of terms over a fixed number of variables.
type Polynomial struct {
	Vars  int
	Terms []Term
}

// New builds a polynomial over vars variables from the given terms.
// Terms with fewer exponents than vars are zero-padded.
func New(vars int, terms ...Term) Polynomial {
	p := Polynomial{Vars: vars, Terms: make([]Term, 0, len(terms))}
	for _, t := range terms {
		powers := make([]int, vars)
		copy(powers, t.Powers)
		p.Terms = append(p.Terms, Term{Coeff: t.Coeff, Powers: powers})
	}
	return p
}

// Univariate builds c0 + c1*z + c2*z^2 + ... in the single variable index
// of an n-variable system.
func Univariate(vars, variable int, coeffs ...complex128) Polynomial {
	terms := make([]Term, 0, len(coeffs))
	for deg, c := range coeffs {
		if c == 0 {
			continue
		}
		powers := make([]int, vars)
		powers[variable] = deg
		terms = append(terms, Term{Coeff: c, Powers: powers})
	}
	return Polynomial{Vars: vars, Terms: terms}
}

// Eval evaluates the polynomial at z. len(z) must equal Vars.
func (p Polynomial) Eval(z cpath.Vector) complex128 {
	var sum complex128
	for _, t := range p.Terms {
		val := t.Coeff
		for j, pw := range t.Powers {
			for k := 0; k < pw; k++ {
				val *= z[j]
			}
		}
		sum += val
	}
	return sum
}

// Partial returns the symbolic partial derivative with respect to variable j.
func (p Polynomial) Partial(j int) Polynomial {
	d := Polynomial{Vars: p.Vars}
	for _, t := range p.Terms {
		if t.Powers[j] == 0 {
			continue
		}
		powers := make([]int, p.Vars)
		copy(powers, t.Powers)
		powers[j]--
		d.Terms = append(d.Terms, Term{
			Coeff:  t.Coeff * complex(float64(t.Powers[j]), 0),
			Powers: powers,
		})
	}
	return d
}

// Degree returns the total degree, 0 for the zero polynomial.
func (p Polynomial) Degree() int {
	deg := 0
	for _, t := range p.Terms {
		total := 0
		for _, pw := range t.Powers {
			total += pw
		}
		if total > deg {
			deg = total
		}
	}
	return deg
}

// IsZero reports whether the polynomial has no nonzero terms.
func (p Polynomial) IsZero() bool {
	for _, t := range p.Terms {
		if t.Coeff != 0 {
			return false
		}
	}
	return true
}

func (p Polynomial) String() string {
	if len(p.Terms) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(p.Terms))
	for _, t := range p.Terms {
		var b strings.Builder
		fmt.Fprintf(&b, "(%v)", t.Coeff)
		for j, pw := range t.Powers {
			switch {
			case pw == 1:
				fmt.Fprintf(&b, "*z%d", j)
			case pw > 1:
				fmt.Fprintf(&b, "*z%d^%d", j, pw)
			}
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " + ")
}
