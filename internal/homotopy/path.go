package homotopy

import (
	"errors"
	"fmt"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/linalg"
)

// Phase is the tracking phase of a single path: plain ODE continuation, or
// the endgame played near t = 1 where the Jacobian may turn singular.
type Phase int

const (
	PhaseOde Phase = iota
	PhaseEndgame
)

func (p Phase) String() string {
	switch p {
	case PhaseOde:
		return "ode"
	case PhaseEndgame:
		return "endgame"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// EndgameConfig controls the regularized field evaluation in the endgame
// phase. The solve shifts Hz by mu(t) = Damping*(1-t) + Floor, which keeps
// the field bounded as Hz approaches singularity at t -> 1.
type EndgameConfig struct {
	Damping float64
	Floor   float64
}

func DefaultEndgameConfig() EndgameConfig {
	return EndgameConfig{Damping: 1e-6, Floor: 1e-9}
}

// PathODE is the complex ODE for one continuation path. It implements
// cpath.ComplexODE: the Davidenko field
//
//	dz/dt = -Hz(z,t)^{-1} * Ht(z,t)
//
// with an explicit (identity) mass operator, exact Jacobian-vector
// products, and a phase machine that switches one-way from ode to endgame
// when the injected Policy says so.
//
// A PathODE holds a non-owning reference to the shared Homotopy and never
// mutates it; its only mutable state is the phase.
type PathODE struct {
	h       *Homotopy
	n       int
	path    int
	phase   Phase
	policy  Policy
	endgame EndgameConfig
}

// NewPathODE builds the ODE for start root number path. A nil policy means
// the path never enters the endgame and never requests a stop.
func NewPathODE(h *Homotopy, path int, policy Policy) *PathODE {
	if path < 0 || path >= h.PathCount() {
		panic(fmt.Sprintf("homotopy: path index %d out of range [0,%d)", path, h.PathCount()))
	}
	if policy == nil {
		policy = neverPolicy{}
	}
	return &PathODE{
		h:       h,
		n:       h.Size(),
		path:    path,
		phase:   PhaseOde,
		policy:  policy,
		endgame: DefaultEndgameConfig(),
	}
}

// SetEndgameConfig overrides the endgame regularization parameters. Must be
// called before integration starts.
func (o *PathODE) SetEndgameConfig(cfg EndgameConfig) { o.endgame = cfg }

// Size returns the dimension of the system.
func (o *PathODE) Size() int { return o.n }

// PathIndex returns which start root this path originates from.
func (o *PathODE) PathIndex() int { return o.path }

// Homotopy returns the shared problem definition.
func (o *PathODE) Homotopy() *Homotopy { return o.h }

// Phase returns the current tracking phase. PhaseOde until the policy
// first classifies a step into the endgame; PhaseEndgame from then on.
func (o *PathODE) Phase() Phase { return o.phase }

// InitialValue returns the i-th coordinate of the start root at t = 0.
func (o *PathODE) InitialValue(i int) complex128 {
	if i < 0 || i >= o.n {
		panic(fmt.Sprintf("homotopy: component index %d out of range [0,%d)", i, o.n))
	}
	return o.h.StartRoot(o.path, i)
}

// InitialVector returns the full start root.
func (o *PathODE) InitialVector() cpath.Vector {
	z := make(cpath.Vector, o.n)
	for i := range z {
		z[i] = o.h.StartRoot(o.path, i)
	}
	return z
}

func (o *PathODE) mu(t float64) float64 {
	if o.phase != PhaseEndgame {
		return 0
	}
	return o.endgame.Damping*(1-t) + o.endgame.Floor
}

func (o *PathODE) solve(a linalg.Matrix, b cpath.Vector, t float64) cpath.Vector {
	y, err := linalg.SolveRegularized(a, b, o.mu(t))
	if errors.Is(err, cpath.ErrSingular) {
		// Exact zero pivot outside the endgame: fall back to the
		// regularized solve so the integrator sees a finite field and
		// its error control rejects the step instead of crashing.
		floor := o.endgame.Floor
		if floor == 0 {
			floor = DefaultEndgameConfig().Floor
		}
		y, err = linalg.SolveRegularized(a, b, floor)
	}
	if err != nil {
		panic(fmt.Sprintf("homotopy: unsolvable linear system at t=%g: %v", t, err))
	}
	return y
}

// Field evaluates the Davidenko vector field at (z, t). In the endgame
// phase the linear solve is shifted by mu(t), keeping the result bounded
// near a singular Jacobian.
func (o *PathODE) Field(z cpath.Vector, t float64) cpath.Vector {
	a := o.h.JacobianAt(z, t)
	b := o.h.TDerivAt(z)
	return o.solve(a, b, t).Scale(-1)
}

// MassProduct computes y = M(t)*x. The Davidenko formulation is explicit,
// so M is the identity.
func (o *PathODE) MassProduct(x cpath.Vector, t float64) cpath.Vector {
	return x.Clone()
}

// JacobianProduct computes y = J(z,t)*x where J is the state Jacobian of
// Field. With A = Hz, b = Ht and f = -A^{-1}b,
//
//	J*x = -A^{-1} * (DA[x]*f + DB[x])
//
// which is exactly linear in x and consistent with Field.
func (o *PathODE) JacobianProduct(x, z cpath.Vector, t float64) cpath.Vector {
	a := o.h.JacobianAt(z, t)
	f := o.solve(a, o.h.TDerivAt(z), t).Scale(-1)

	rhs := o.h.JacobianActionAt(z, t, x).MulVec(f)
	db := o.h.TDerivJacobianAt(z).MulVec(x)
	for i := range rhs {
		rhs[i] += db[i]
	}
	return o.solve(a, rhs, t).Scale(-1)
}

// Update is the step-acceptance hook. It consults the policy to decide the
// one-way ode -> endgame transition and returns false when the policy asks
// the integrator to stop.
func (o *PathODE) Update(z cpath.Vector, t float64, final bool) bool {
	if o.phase == PhaseOde && o.policy.Classify(z, t) == PhaseEndgame {
		o.phase = PhaseEndgame
	}
	return !o.policy.ShouldStop(z, t)
}
