package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/homotopy"
	"github.com/san-kum/polypath/internal/poly"
)

func testHomotopy(t *testing.T) *homotopy.Homotopy {
	t.Helper()
	sys := poly.MustSystem(poly.Univariate(1, 0, -4, 0, 1))
	h, err := homotopy.NewTotalDegree(sys, homotopy.RandomGamma(3))
	if err != nil {
		t.Fatalf("NewTotalDegree: %v", err)
	}
	return h
}

func TestArclengthStraightLine(t *testing.T) {
	m := NewArclength()

	// Walk from 0 to 3 in unit steps: total length 3.
	for i := 0; i <= 3; i++ {
		m.Observe(cpath.Vector{complex(float64(i), 0)}, float64(i)/3)
	}

	if math.Abs(m.Value()-3) > 1e-13 {
		t.Errorf("expected arclength 3, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestArclengthComplexSteps(t *testing.T) {
	m := NewArclength()
	m.Observe(cpath.Vector{0}, 0)
	m.Observe(cpath.Vector{complex(3, 4)}, 1)

	if math.Abs(m.Value()-5) > 1e-13 {
		t.Errorf("expected arclength 5, got %v", m.Value())
	}
}

func TestResidualTracksWorstCase(t *testing.T) {
	h := testHomotopy(t)
	m := NewResidual(h)

	// A start root has zero residual at t = 0.
	z0 := cpath.Vector{h.StartRoot(0, 0)}
	m.Observe(z0, 0)
	small := m.Value()
	if small > 1e-12 {
		t.Errorf("start root residual %v, want ~0", small)
	}

	// A point far off the path pushes the maximum up.
	m.Observe(cpath.Vector{100}, 0.5)
	if m.Value() <= 1 {
		t.Errorf("expected large worst-case residual, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPhaseStepsCountsEndgameOnly(t *testing.T) {
	h := testHomotopy(t)
	ode := homotopy.NewPathODE(h, 0, homotopy.NewBoundaryPolicy(0.9, 1e8))
	m := NewPhaseSteps(ode)

	z := cpath.Vector{1}

	m.Observe(z, 0.5)
	if m.Value() != 0 {
		t.Errorf("counted steps before endgame: %v", m.Value())
	}

	ode.Update(z, 0.95, false)
	m.Observe(z, 0.95)
	m.Observe(z, 0.97)
	if m.Value() != 2 {
		t.Errorf("expected 2 endgame steps, got %v", m.Value())
	}
}
