package tracker

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/cmplx"
	"sync"
	"testing"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/homotopy"
	"github.com/san-kum/polypath/internal/poly"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsembleFindsBothQuadraticRoots(t *testing.T) {
	h := quadraticHomotopy(t)
	ens := NewEnsemble(h, DefaultConfig())
	ens.SetLogger(quietLogger())

	summary, err := ens.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if summary.Converged != 2 {
		t.Fatalf("expected 2 converged paths, got %d", summary.Converged)
	}
	if len(summary.Roots) != 2 {
		t.Fatalf("expected 2 distinct roots, got %d", len(summary.Roots))
	}

	for _, want := range []complex128{2, -2} {
		found := false
		for _, root := range summary.Roots {
			if cmplx.Abs(root[0]-want) < 1e-6 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root %v not found in %v", want, summary.Roots)
		}
	}
}

func TestEnsembleCircleLineIntersection(t *testing.T) {
	circle := poly.New(2,
		poly.Term{Coeff: 1, Powers: []int{2, 0}},
		poly.Term{Coeff: 1, Powers: []int{0, 2}},
		poly.Term{Coeff: -4},
	)
	line := poly.New(2,
		poly.Term{Coeff: 1, Powers: []int{1, 0}},
		poly.Term{Coeff: -1, Powers: []int{0, 1}},
	)
	h, err := homotopy.NewTotalDegree(poly.MustSystem(circle, line), homotopy.RandomGamma(17))
	if err != nil {
		t.Fatalf("NewTotalDegree: %v", err)
	}

	ens := NewEnsemble(h, DefaultConfig())
	ens.SetLogger(quietLogger())

	summary, err := ens.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(summary.Roots) != 2 {
		t.Fatalf("expected 2 distinct roots, got %d", len(summary.Roots))
	}

	// Roots are (s, s) with s = +-sqrt(2).
	s := math.Sqrt2
	for _, root := range summary.Roots {
		if cmplx.Abs(root[0]-root[1]) > 1e-6 {
			t.Errorf("root %v not on the line x = y", root)
		}
		if d := math.Abs(cmplx.Abs(root[0]) - s); d > 1e-6 {
			t.Errorf("root %v not on the circle (off by %v)", root, d)
		}
	}
}

func TestEnsembleDeduplicatesMultipleRoot(t *testing.T) {
	// (z-1)^2: both paths land on the same double root.
	sys := poly.MustSystem(poly.Univariate(1, 0, 1, -2, 1))
	h, err := homotopy.NewTotalDegree(sys, homotopy.RandomGamma(29))
	if err != nil {
		t.Fatalf("NewTotalDegree: %v", err)
	}

	cfg := DefaultConfig()
	cfg.RootTol = 1e-6
	cfg.NewtonIters = 60
	cfg.EndgameThreshold = 0.9

	ens := NewEnsemble(h, cfg)
	ens.SetLogger(quietLogger())

	summary, err := ens.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if summary.Converged != 2 {
		t.Fatalf("expected both paths to converge, got %d", summary.Converged)
	}
	if len(summary.Roots) != 1 {
		t.Errorf("expected the double root to deduplicate, got %d roots", len(summary.Roots))
	}
	if cmplx.Abs(summary.Roots[0][0]-1) > 1e-3 {
		t.Errorf("root %v, want 1", summary.Roots[0][0])
	}
}

func TestEnsembleEventSink(t *testing.T) {
	h := quadraticHomotopy(t)
	ens := NewEnsemble(h, DefaultConfig())
	ens.SetLogger(quietLogger())

	var mu sync.Mutex
	started, finished := 0, 0
	ens.SetEventSink(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Result == nil {
			started++
		} else {
			finished++
		}
	})

	if _, err := ens.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if started != 2 || finished != 2 {
		t.Errorf("expected 2 started and 2 finished events, got %d/%d", started, finished)
	}
}

func TestEnsembleCanceledContext(t *testing.T) {
	h := quadraticHomotopy(t)
	ens := NewEnsemble(h, DefaultConfig())
	ens.SetLogger(quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := ens.Run(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if summary == nil {
		t.Fatal("expected partial summary alongside the error")
	}
}

func TestRootClusterMergesDoubleRootArrivals(t *testing.T) {
	// A double root polishes only linearly, so its two arrivals clear
	// RootTol while still sitting several 1e-4 apart. The cluster
	// tolerance must merge them without gluing genuinely distinct roots.
	tol := rootClusterTol(1e-6)

	roots := appendRoot(nil, cpath.Vector{1}, tol)
	roots = appendRoot(roots, cpath.Vector{complex(0.99954, 0.00031)}, tol)
	if len(roots) != 1 {
		t.Fatalf("double-root arrivals not merged: %d roots", len(roots))
	}

	roots = appendRoot(roots, cpath.Vector{-1}, tol)
	if len(roots) != 2 {
		t.Fatalf("distinct root merged away: %d roots", len(roots))
	}
}

func TestParallelForCoversRange(t *testing.T) {
	seen := make([]bool, 100)
	var mu sync.Mutex

	parallelFor(100, 7, func(lo, hi int) {
		mu.Lock()
		defer mu.Unlock()
		for i := lo; i < hi; i++ {
			if seen[i] {
				t.Errorf("index %d visited twice", i)
			}
			seen[i] = true
		}
	})

	for i, ok := range seen {
		if !ok {
			t.Errorf("index %d never visited", i)
		}
	}
}
