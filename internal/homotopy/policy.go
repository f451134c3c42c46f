package homotopy

import "github.com/san-kum/polypath/internal/cpath"

// Policy decides when a path enters the endgame phase and when integration
// should stop. Implementations must be safe to call once per accepted step.
type Policy interface {
	// Classify returns the phase the path should be in after accepting a
	// step at (z, t). Returning PhaseOde after the path already entered
	// the endgame has no effect: the transition is one-way.
	Classify(z cpath.Vector, t float64) Phase

	// ShouldStop reports whether the integrator should abandon the path.
	ShouldStop(z cpath.Vector, t float64) bool
}

// neverPolicy is the default: integrate to completion under ode semantics.
type neverPolicy struct{}

func (neverPolicy) Classify(cpath.Vector, float64) Phase  { return PhaseOde }
func (neverPolicy) ShouldStop(cpath.Vector, float64) bool { return false }

// NeverPolicy returns the default policy: no endgame, no stop requests.
func NeverPolicy() Policy { return neverPolicy{} }

// BoundaryPolicy enters the endgame once t reaches Threshold and stops
// paths whose norm exceeds Blowup (diverging toward a root at infinity).
type BoundaryPolicy struct {
	Threshold float64
	Blowup    float64
}

// NewBoundaryPolicy builds the standard distance-to-boundary policy.
// Non-positive arguments select the defaults 0.99 and 1e8.
func NewBoundaryPolicy(threshold, blowup float64) *BoundaryPolicy {
	if threshold <= 0 {
		threshold = 0.99
	}
	if blowup <= 0 {
		blowup = 1e8
	}
	return &BoundaryPolicy{Threshold: threshold, Blowup: blowup}
}

func (p *BoundaryPolicy) Classify(z cpath.Vector, t float64) Phase {
	if t >= p.Threshold {
		return PhaseEndgame
	}
	return PhaseOde
}

func (p *BoundaryPolicy) ShouldStop(z cpath.Vector, t float64) bool {
	return z.Norm() > p.Blowup
}
