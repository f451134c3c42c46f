package metrics

import (
	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/homotopy"
)

// Residual tracks the worst homotopy residual ||H(z, t)|| seen along a
// path. A well-tracked path keeps it near zero.
type Residual struct {
	name string
	h    *homotopy.Homotopy
	max  float64
}

func NewResidual(h *homotopy.Homotopy) *Residual {
	return &Residual{name: "residual", h: h}
}

func (r *Residual) Name() string { return r.name }

func (r *Residual) Observe(z cpath.Vector, t float64) {
	if res := r.h.Residual(z, t); res > r.max {
		r.max = res
	}
}

func (r *Residual) Value() float64 {
	return r.max
}

func (r *Residual) Reset() {
	r.max = 0
}
