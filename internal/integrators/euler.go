package integrators

import "github.com/san-kum/polypath/internal/cpath"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(ode cpath.ComplexODE, z cpath.Vector, t, dt float64) cpath.Vector {
	f := ode.Field(z, t)
	result := make(cpath.Vector, len(z))
	for i := range z {
		result[i] = z[i] + complex(dt, 0)*f[i]
	}
	return result
}
