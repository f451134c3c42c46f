package metrics

import "github.com/san-kum/polypath/internal/cpath"

// Arclength accumulates the length of the tracked path in C^n. Long paths
// relative to the parameter interval hint at ill-conditioned tracking.
type Arclength struct {
	name    string
	prev    cpath.Vector
	total   float64
	samples int
}

func NewArclength() *Arclength {
	return &Arclength{name: "arclength"}
}

func (a *Arclength) Name() string { return a.name }

func (a *Arclength) Observe(z cpath.Vector, t float64) {
	if a.samples > 0 {
		a.total += z.Sub(a.prev).Norm()
	}
	a.prev = z.Clone()
	a.samples++
}

func (a *Arclength) Value() float64 {
	return a.total
}

func (a *Arclength) Reset() {
	a.prev = nil
	a.total = 0
	a.samples = 0
}
