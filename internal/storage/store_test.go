package storage

import (
	"math/cmplx"
	"testing"
	"time"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/tracker"
)

func sampleSummary() *tracker.Summary {
	return &tracker.Summary{
		Results: []*tracker.PathResult{
			{
				Path:       0,
				Root:       cpath.Vector{complex(2, 0)},
				Residual:   1e-12,
				Status:     tracker.StatusConverged,
				StepsTaken: 40,
			},
			{
				Path:         1,
				Root:         cpath.Vector{complex(-2, 1e-14)},
				Residual:     3e-11,
				Status:       tracker.StatusConverged,
				StepsTaken:   44,
				EndgameSteps: 5,
			},
		},
		Roots:     []cpath.Vector{{2}, {-2}},
		Converged: 2,
		Elapsed:   120 * time.Millisecond,
	}
}

func TestSaveAndList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save("quadratic", "dopri", 42, 1, sampleSummary())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	run := runs[0]
	if run.Problem != "quadratic" || run.Paths != 2 || run.Converged != 2 || run.DistinctRoots != 2 {
		t.Errorf("unexpected metadata: %+v", run)
	}
}

func TestLoadRoots(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save("quadratic", "dopri", 42, 1, sampleSummary())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	roots, statuses, err := store.LoadRoots(runID)
	if err != nil {
		t.Fatalf("load roots failed: %v", err)
	}
	if len(roots) != 2 || len(statuses) != 2 {
		t.Fatalf("expected 2 rows, got %d/%d", len(roots), len(statuses))
	}

	if statuses[0] != "converged" {
		t.Errorf("unexpected status %q", statuses[0])
	}
	if cmplx.Abs(roots[0][0]-2) > 1e-9 {
		t.Errorf("root 0 roundtrip mismatch: %v", roots[0][0])
	}
	if cmplx.Abs(roots[1][0]+2) > 1e-9 {
		t.Errorf("root 1 roundtrip mismatch: %v", roots[1][0])
	}
}

func TestLoadMetadata(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save("circle-line", "rk4", 7, 2, sampleSummary())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Integrator != "rk4" || meta.GammaSeed != 7 || meta.Dimension != 2 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
