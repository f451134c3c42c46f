package metrics

import (
	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/homotopy"
)

// PhaseSteps counts accepted steps spent in the endgame phase.
type PhaseSteps struct {
	name    string
	ode     *homotopy.PathODE
	endgame int
}

func NewPhaseSteps(ode *homotopy.PathODE) *PhaseSteps {
	return &PhaseSteps{name: "endgame_steps", ode: ode}
}

func (p *PhaseSteps) Name() string { return p.name }

func (p *PhaseSteps) Observe(z cpath.Vector, t float64) {
	if p.ode.Phase() == homotopy.PhaseEndgame {
		p.endgame++
	}
}

func (p *PhaseSteps) Value() float64 {
	return float64(p.endgame)
}

func (p *PhaseSteps) Reset() {
	p.endgame = 0
}
