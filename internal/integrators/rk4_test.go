package integrators

import (
	"math/cmplx"
	"testing"

	"github.com/san-kum/polypath/internal/cpath"
)

// rotator is dz/dt = i*z with z(0) = 1, so z(t) = e^{it}.
type rotator struct{}

func (rotator) Size() int                     { return 1 }
func (rotator) InitialValue(i int) complex128 { return 1 }

func (rotator) MassProduct(x cpath.Vector, t float64) cpath.Vector { return x.Clone() }

func (rotator) Field(z cpath.Vector, t float64) cpath.Vector {
	return cpath.Vector{complex(0, 1) * z[0]}
}

func (rotator) JacobianProduct(x, z cpath.Vector, t float64) cpath.Vector {
	return cpath.Vector{complex(0, 1) * x[0]}
}

func (rotator) Update(z cpath.Vector, t float64, final bool) bool { return true }

func TestRK4Accuracy(t *testing.T) {
	ode := rotator{}
	integ := NewRK4()

	z := cpath.Vector{1}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		z = integ.Step(ode, z, float64(i)*dt, dt)
	}

	want := cmplx.Exp(complex(0, 1))
	if cmplx.Abs(z[0]-want) > 1e-8 {
		t.Errorf("z(1) = %v, want %v", z[0], want)
	}

	// Rotation preserves magnitude.
	if d := cmplx.Abs(z[0]) - 1; d > 1e-8 || d < -1e-8 {
		t.Errorf("magnitude drifted by %v", d)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	ode := rotator{}
	integ := NewEuler()

	z := cpath.Vector{1}
	dt := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		z = integ.Step(ode, z, float64(i)*dt, dt)
	}

	want := cmplx.Exp(complex(0, 1))
	if cmplx.Abs(z[0]-want) > 1e-2 {
		t.Errorf("z(1) = %v, want %v (euler tolerance)", z[0], want)
	}
}
