package tracker

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/homotopy"
)

// Status classifies how a tracked path ended.
type Status int

const (
	// StatusConverged: the path reached t = 1 and polished to a root.
	StatusConverged Status = iota
	// StatusStopped: the path's policy requested a stop (typically a
	// path diverging toward infinity).
	StatusStopped
	// StatusStalled: the path reached t = 1 but the residual stayed
	// above the root tolerance.
	StatusStalled
	// StatusFailed: integration failed (invalid state, vanishing step,
	// cancellation).
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusStopped:
		return "stopped"
	case StatusStalled:
		return "stalled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

type Config struct {
	Step        cpath.Config
	RootTol     float64
	NewtonIters int
	// EndgameThreshold and Blowup parameterize the default boundary
	// policy built by Ensemble.
	EndgameThreshold float64
	Blowup           float64
	RecordTrace      bool
}

func DefaultConfig() Config {
	return Config{
		Step:             cpath.DefaultConfig(),
		RootTol:          1e-8,
		NewtonIters:      20,
		EndgameThreshold: 0.99,
		Blowup:           1e8,
	}
}

// PathResult is the outcome of tracking one continuation path.
type PathResult struct {
	Path         int
	Root         cpath.Vector
	Residual     float64
	Status       Status
	StepsTaken   int
	EndgameSteps int
	FinalT       float64
	Times        []float64
	Trace        []cpath.Vector
	Metrics      map[string]float64
	Err          error
}

// Polisher refines an approximate terminal point into a root.
// *homotopy.Homotopy satisfies it via Newton iteration.
type Polisher interface {
	RefineRoot(z cpath.Vector, maxIters int, tol float64) (cpath.Vector, float64)
}

// Tracker drives one ComplexODE from t = 0 to t = TEnd, honoring the
// continue-flag of the ODE's step-acceptance hook after every step.
type Tracker struct {
	ode        cpath.ComplexODE
	integrator cpath.Integrator
	polisher   Polisher
	metrics    []cpath.Metric
	observers  []cpath.Observer
}

func New(ode cpath.ComplexODE, integrator cpath.Integrator) *Tracker {
	return &Tracker{
		ode:        ode,
		integrator: integrator,
		metrics:    make([]cpath.Metric, 0),
		observers:  make([]cpath.Observer, 0),
	}
}

func (tr *Tracker) AddMetric(m cpath.Metric)     { tr.metrics = append(tr.metrics, m) }
func (tr *Tracker) AddObserver(o cpath.Observer) { tr.observers = append(tr.observers, o) }
func (tr *Tracker) SetPolisher(p Polisher)       { tr.polisher = p }

func (tr *Tracker) validateConfig(cfg Config) error {
	if cfg.Step.Dt <= 0 {
		return fmt.Errorf("tracker: dt must be positive, got %f", cfg.Step.Dt)
	}
	if cfg.Step.TEnd <= 0 {
		return fmt.Errorf("tracker: t-end must be positive, got %f", cfg.Step.TEnd)
	}
	if cfg.Step.Adaptive && cfg.Step.Tolerance <= 0 {
		return fmt.Errorf("tracker: tolerance must be positive for adaptive stepping")
	}
	return nil
}

// Run integrates the path and returns its result. The returned error
// repeats result.Err for failed paths; a stopped or stalled path is a
// valid outcome, not an error.
func (tr *Tracker) Run(ctx context.Context, cfg Config) (*PathResult, error) {
	if err := tr.validateConfig(cfg); err != nil {
		return nil, err
	}

	var z cpath.Vector
	if iv, ok := tr.ode.(interface{ InitialVector() cpath.Vector }); ok {
		z = iv.InitialVector()
	} else {
		z = make(cpath.Vector, tr.ode.Size())
		for i := range z {
			z[i] = tr.ode.InitialValue(i)
		}
	}

	result := &PathResult{
		Residual: math.NaN(),
		Metrics:  make(map[string]float64),
	}
	if p, ok := tr.ode.(interface{ PathIndex() int }); ok {
		result.Path = p.PathIndex()
	}

	for _, m := range tr.metrics {
		m.Reset()
	}

	t := 0.0
	dt := cfg.Step.Dt
	tEnd := cfg.Step.TEnd

	if cfg.RecordTrace {
		result.Times = append(result.Times, t)
		result.Trace = append(result.Trace, z.Clone())
	}

	fail := func(err error) (*PathResult, error) {
		perr := &cpath.PathError{Path: result.Path, T: t, Wrapped: err}
		result.Status = StatusFailed
		result.Err = perr
		result.Root = z
		result.FinalT = t
		tr.finishMetrics(result)
		return result, perr
	}

	for t < tEnd-1e-14 {
		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		default:
		}

		if cfg.Step.MaxDt > 0 && dt > cfg.Step.MaxDt {
			dt = cfg.Step.MaxDt
		}
		if t+dt > tEnd {
			dt = tEnd - t
		}

		var newZ cpath.Vector
		taken := dt
		if adaptive, ok := tr.integrator.(cpath.AdaptiveIntegrator); ok && cfg.Step.Adaptive {
			var next float64
			var stepErr error
			newZ, next, stepErr = adaptive.StepAdaptive(tr.ode, z, t, dt, cfg.Step.Tolerance)
			if stepErr != nil {
				return fail(cpath.StepError{T: t, Step: result.StepsTaken, Message: stepErr.Error()})
			}
			dt = next
			if dt < cfg.Step.MinDt {
				return fail(cpath.ErrStepTooSmall)
			}
		} else {
			newZ = tr.integrator.Step(tr.ode, z, t, dt)
		}

		if cfg.Step.ValidateState && !newZ.IsValid() {
			return fail(cpath.ErrInvalidState)
		}

		z = newZ
		t += taken
		result.StepsTaken++

		if p, ok := tr.ode.(interface{ Phase() homotopy.Phase }); ok && p.Phase() == homotopy.PhaseEndgame {
			result.EndgameSteps++
		}

		for _, m := range tr.metrics {
			m.Observe(z, t)
		}
		for _, obs := range tr.observers {
			obs.OnStep(z, t)
		}

		if cfg.RecordTrace {
			result.Times = append(result.Times, t)
			result.Trace = append(result.Trace, z.Clone())
		}

		final := t >= tEnd-1e-14
		if !tr.ode.Update(z, t, final) {
			result.Status = StatusStopped
			if cfg.Blowup > 0 && z.Norm() > cfg.Blowup {
				// Record why the policy abandoned the path.
				result.Err = cpath.ErrDiverged
			}
			result.Root = z
			result.FinalT = t
			tr.finishMetrics(result)
			return result, nil
		}
	}

	result.FinalT = t
	root := z
	residual := math.NaN()
	if tr.polisher != nil {
		root, residual = tr.polisher.RefineRoot(z, cfg.NewtonIters, cfg.RootTol)
	}
	result.Root = root
	result.Residual = residual

	switch {
	case tr.polisher == nil:
		result.Status = StatusConverged
	case residual <= cfg.RootTol:
		result.Status = StatusConverged
	default:
		result.Status = StatusStalled
	}

	tr.finishMetrics(result)
	return result, nil
}

func (tr *Tracker) finishMetrics(result *PathResult) {
	for _, m := range tr.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
