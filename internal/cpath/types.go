package cpath

import (
	"fmt"
	"math"
	"math/cmplx"
)

type Vector []complex128

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, z := range v {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, z := range v {
		sum += real(z)*real(z) + imag(z)*imag(z)
	}
	return math.Sqrt(sum)
}

func (v Vector) Add(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] + other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] - other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Scale(factor complex128) Vector {
	result := make(Vector, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// AXPY stores v + alpha*x into dst, which must have the same length as v.
func (v Vector) AXPY(dst Vector, alpha complex128, x Vector) {
	for i := range v {
		dst[i] = v[i] + alpha*x[i]
	}
}

// ComplexODE is the capability an integrator drives: one instance per
// continuation path, asked for initial values, field evaluations and
// operator products at successive parameter values.
type ComplexODE interface {
	// Size returns the fixed dimension of the complex system.
	Size() int

	// InitialValue returns the i-th coordinate of the path's starting
	// point at t = 0.
	InitialValue(i int) complex128

	// Field evaluates the right-hand side dz/dt = f(z, t).
	Field(z Vector, t float64) Vector

	// MassProduct computes y = M(t)*x for the implicit formulation
	// M(t)*dz/dt = f(z, t). Identity when the system is explicit.
	MassProduct(x Vector, t float64) Vector

	// JacobianProduct computes y = J(z,t)*x, the directional derivative
	// of Field at (z, t) in direction x.
	JacobianProduct(x, z Vector, t float64) Vector

	// Update is called after every accepted step with the new state,
	// the parameter value and whether t reached the end of the
	// continuation interval. Returning false stops the integration.
	Update(z Vector, t float64, final bool) bool
}

type Integrator interface {
	Step(ode ComplexODE, z Vector, t, dt float64) Vector
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(ode ComplexODE, z Vector, t, dt, tol float64) (Vector, float64, error)
}

type Metric interface {
	Name() string
	Observe(z Vector, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(z Vector, t float64)
}

type Config struct {
	Dt            float64
	TEnd          float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		TEnd:          1.0,
		Tolerance:     1e-8,
		MaxDt:         0.05,
		MinDt:         1e-12,
		Adaptive:      true,
		ValidateState: true,
	}
}

type StepError struct {
	T       float64
	Step    int
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %s", e.Step, e.T, e.Message)
}
