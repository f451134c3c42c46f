package integrators

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/polypath/internal/cpath"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// DOPRI is an adaptive Dormand-Prince 5(4) stepper over complex vectors.
// Stage vectors come from a pool to avoid six allocations per step.
type DOPRI struct {
	safety   float64
	minScale float64
	maxScale float64
	pool     *cpath.VectorPool
}

func NewDOPRI() *DOPRI {
	return &DOPRI{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *DOPRI) stage(n int) cpath.Vector {
	if r.pool == nil || r.pool.Size() != n {
		r.pool = cpath.NewVectorPool(n)
	}
	return r.pool.Get()
}

func (r *DOPRI) Step(ode cpath.ComplexODE, z cpath.Vector, t, dt float64) cpath.Vector {
	newZ, _, _ := r.StepAdaptive(ode, z, t, dt, 1e-8)
	return newZ
}

func (r *DOPRI) StepAdaptive(ode cpath.ComplexODE, z cpath.Vector, t, dt, tol float64) (cpath.Vector, float64, error) {
	n := len(z)
	h := complex(dt, 0)

	k1 := ode.Field(z, t)

	zs := r.stage(n)
	defer r.pool.Put(zs)

	for i := 0; i < n; i++ {
		zs[i] = z[i] + h*complex(b21, 0)*k1[i]
	}
	k2 := ode.Field(zs, t+a2*dt)

	for i := 0; i < n; i++ {
		zs[i] = z[i] + h*(complex(b31, 0)*k1[i]+complex(b32, 0)*k2[i])
	}
	k3 := ode.Field(zs, t+a3*dt)

	for i := 0; i < n; i++ {
		zs[i] = z[i] + h*(complex(b41, 0)*k1[i]+complex(b42, 0)*k2[i]+complex(b43, 0)*k3[i])
	}
	k4 := ode.Field(zs, t+a4*dt)

	for i := 0; i < n; i++ {
		zs[i] = z[i] + h*(complex(b51, 0)*k1[i]+complex(b52, 0)*k2[i]+complex(b53, 0)*k3[i]+complex(b54, 0)*k4[i])
	}
	k5 := ode.Field(zs, t+a5*dt)

	for i := 0; i < n; i++ {
		zs[i] = z[i] + h*(complex(b61, 0)*k1[i]+complex(b62, 0)*k2[i]+complex(b63, 0)*k3[i]+complex(b64, 0)*k4[i]+complex(b65, 0)*k5[i])
	}
	k6 := ode.Field(zs, t+dt)

	zNew := make(cpath.Vector, n)
	for i := 0; i < n; i++ {
		zNew[i] = z[i] + h*(complex(c1, 0)*k1[i]+complex(c3, 0)*k3[i]+complex(c4, 0)*k4[i]+complex(c5, 0)*k5[i]+complex(c6, 0)*k6[i])
	}

	k7 := ode.Field(zNew, t+dt)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (complex(dc1, 0)*k1[i] + complex(dc3, 0)*k3[i] + complex(dc4, 0)*k4[i] + complex(dc5, 0)*k5[i] + complex(dc6, 0)*k6[i] + complex(dc7, 0)*k7[i])
		scale := cmplx.Abs(z[i]) + cmplx.Abs(h*k1[i]) + 1e-10
		errMax = math.Max(errMax, cmplx.Abs(errEst)/scale)
	}

	errRatio := errMax / tol

	var dtNew float64
	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		dtNew = dt * scale
	} else {
		if errRatio > 0 {
			scale := math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
			dtNew = dt * scale
		} else {
			dtNew = dt * r.maxScale
		}
	}

	return zNew, dtNew, nil
}
