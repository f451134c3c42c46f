package integrators

import "github.com/san-kum/polypath/internal/cpath"

type RK4 struct {
	scratch cpath.Vector
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.scratch = make(cpath.Vector, n)
	}
}

func (r *RK4) Step(ode cpath.ComplexODE, z cpath.Vector, t, dt float64) cpath.Vector {
	n := len(z)
	r.ensureScratch(n)
	h := complex(dt, 0)

	k1 := ode.Field(z, t)

	z.AXPY(r.scratch, h*0.5, k1)
	k2 := ode.Field(r.scratch, t+dt*0.5)

	z.AXPY(r.scratch, h*0.5, k2)
	k3 := ode.Field(r.scratch, t+dt*0.5)

	z.AXPY(r.scratch, h, k3)
	k4 := ode.Field(r.scratch, t+dt)

	result := make(cpath.Vector, n)
	h6 := h / 6
	for i := 0; i < n; i++ {
		result[i] = z[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
