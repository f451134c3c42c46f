package tracker

import (
	"context"
	"log/slog"
	"math"
	"math/cmplx"
	"runtime"
	"sync"
	"time"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/homotopy"
	"github.com/san-kum/polypath/internal/integrators"
	"github.com/san-kum/polypath/internal/metrics"
)

// Event reports ensemble progress. Result is nil when the path just
// started and non-nil when it finished.
type Event struct {
	Path   int
	Result *PathResult
}

// Summary aggregates all path results of one solve.
type Summary struct {
	Results   []*PathResult
	Roots     []cpath.Vector
	Converged int
	Stopped   int
	Stalled   int
	Failed    int
	Elapsed   time.Duration
}

// Ensemble tracks every path of a homotopy concurrently. Each worker owns
// its PathODE and integrator; the shared Homotopy is only read.
type Ensemble struct {
	h       *homotopy.Homotopy
	cfg     Config
	workers int
	logger  *slog.Logger

	newIntegrator func() cpath.Integrator
	newPolicy     func() homotopy.Policy
	sink          func(Event)
}

func NewEnsemble(h *homotopy.Homotopy, cfg Config) *Ensemble {
	e := &Ensemble{
		h:       h,
		cfg:     cfg,
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	e.newIntegrator = func() cpath.Integrator { return integrators.NewDOPRI() }
	e.newPolicy = func() homotopy.Policy {
		return homotopy.NewBoundaryPolicy(cfg.EndgameThreshold, cfg.Blowup)
	}
	return e
}

func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

func (e *Ensemble) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// SetEventSink registers a progress callback. It is called from worker
// goroutines and must be safe for concurrent use.
func (e *Ensemble) SetEventSink(sink func(Event)) { e.sink = sink }

func (e *Ensemble) SetIntegratorFactory(f func() cpath.Integrator) {
	if f != nil {
		e.newIntegrator = f
	}
}

func (e *Ensemble) SetPolicyFactory(f func() homotopy.Policy) {
	if f != nil {
		e.newPolicy = f
	}
}

func (e *Ensemble) emit(ev Event) {
	if e.sink != nil {
		e.sink(ev)
	}
}

// Run tracks all paths and aggregates the results. A canceled context
// returns the partial summary together with ctx.Err().
func (e *Ensemble) Run(ctx context.Context) (*Summary, error) {
	total := e.h.PathCount()
	results := make([]*PathResult, total)
	start := time.Now()

	parallelFor(total, e.workers, func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			e.emit(Event{Path: idx})
			results[idx] = e.runPath(ctx, idx)
			e.emit(Event{Path: idx, Result: results[idx]})
		}
	})

	summary := &Summary{Results: results, Elapsed: time.Since(start)}
	for _, r := range results {
		switch r.Status {
		case StatusConverged:
			summary.Converged++
			summary.Roots = appendRoot(summary.Roots, r.Root, rootClusterTol(e.cfg.RootTol))
		case StatusStopped:
			summary.Stopped++
		case StatusStalled:
			summary.Stalled++
		case StatusFailed:
			summary.Failed++
		}
	}

	e.logger.Info("ensemble finished",
		"paths", total,
		"converged", summary.Converged,
		"distinct_roots", len(summary.Roots),
		"stopped", summary.Stopped,
		"stalled", summary.Stalled,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (e *Ensemble) runPath(ctx context.Context, idx int) *PathResult {
	ode := homotopy.NewPathODE(e.h, idx, e.newPolicy())
	tr := New(ode, e.newIntegrator())
	tr.SetPolisher(e.h)
	tr.AddMetric(metrics.NewResidual(e.h))
	tr.AddMetric(metrics.NewArclength())
	tr.AddMetric(metrics.NewPhaseSteps(ode))

	result, err := tr.Run(ctx, e.cfg)
	if err != nil {
		if result == nil {
			result = &PathResult{Path: idx, Status: StatusFailed, Err: err}
		}
		e.logger.Debug("path failed", "path", idx, "err", err)
		return result
	}

	e.logger.Debug("path finished",
		"path", idx,
		"status", result.Status.String(),
		"steps", result.StepsTaken,
		"endgame_steps", result.EndgameSteps,
		"residual", result.Residual)
	return result
}

// rootClusterTol is the componentwise distance below which two converged
// arrivals count as the same root. Newton polishing is only linear at a
// multiple root, so a double root clears the residual tolerance while the
// arrivals are still ~sqrt(RootTol) apart; the cluster tolerance must
// cover that spread.
func rootClusterTol(rootTol float64) float64 {
	tol := math.Max(100*rootTol, math.Sqrt(rootTol))
	if tol < 1e-8 {
		tol = 1e-8
	}
	return tol
}

// appendRoot adds root to the list unless a previously found root matches
// it componentwise within tol.
func appendRoot(roots []cpath.Vector, root cpath.Vector, tol float64) []cpath.Vector {
	for _, r := range roots {
		same := true
		for i := range r {
			if cmplx.Abs(r[i]-root[i]) > tol {
				same = false
				break
			}
		}
		if same {
			return roots
		}
	}
	return append(roots, root.Clone())
}

// parallelFor splits [0, n) into contiguous chunks, one per worker.
func parallelFor(n, workers int, fn func(lo, hi int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}

		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}

	wg.Wait()
}
