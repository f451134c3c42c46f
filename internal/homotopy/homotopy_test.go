package homotopy

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/poly"
)

func TestNewTotalDegreeRejectsBadInput(t *testing.T) {
	sys := poly.MustSystem(poly.Univariate(1, 0, -4, 0, 1))

	_, err := NewTotalDegree(sys, 0)
	assert.Error(t, err, "zero gamma must be rejected")

	constant := poly.MustSystem(poly.Univariate(1, 0, 5))
	_, err = NewTotalDegree(constant, RandomGamma(1))
	assert.Error(t, err, "degree-0 equation must be rejected")
}

func TestStartRootsSolveStartSystem(t *testing.T) {
	sys := poly.MustSystem(
		poly.Univariate(2, 0, -1, 0, 0, 1), // z0^3 - 1
		poly.Univariate(2, 1, -1, 0, 1),    // z1^2 - 1
	)
	h, err := NewTotalDegree(sys, RandomGamma(11))
	require.NoError(t, err)

	assert.Equal(t, 6, h.PathCount())
	assert.Equal(t, []int{3, 2}, h.Degrees())

	for path := 0; path < h.PathCount(); path++ {
		z := make(cpath.Vector, h.Size())
		for i := range z {
			z[i] = h.StartRoot(path, i)
		}
		// H(z0, 0) = gamma*G(z0) must vanish at every start root.
		assert.InDelta(t, 0, h.Residual(z, 0), 1e-12, "path %d", path)
	}
}

func TestStartRootsAreDistinct(t *testing.T) {
	sys := poly.MustSystem(
		poly.Univariate(2, 0, -1, 0, 0, 1),
		poly.Univariate(2, 1, -1, 0, 1),
	)
	h, err := NewTotalDegree(sys, RandomGamma(11))
	require.NoError(t, err)

	seen := make(map[[2]complex128]bool)
	for path := 0; path < h.PathCount(); path++ {
		key := [2]complex128{h.StartRoot(path, 0), h.StartRoot(path, 1)}
		assert.False(t, seen[key], "duplicate start root for path %d", path)
		seen[key] = true
	}
}

func TestEvalEndpoints(t *testing.T) {
	target := poly.MustSystem(poly.Univariate(1, 0, -4, 0, 1))
	gamma := RandomGamma(5)
	h, err := NewTotalDegree(target, gamma)
	require.NoError(t, err)

	z := cpath.Vector{complex(1.7, 0.3)}
	zz := z[0] * z[0]

	// t = 0: H = gamma * (z^2 - 1)
	atZero := h.Eval(z, 0)
	assert.InDelta(t, 0, cmplx.Abs(atZero[0]-gamma*(zz-1)), 1e-13)

	// t = 1: H = z^2 - 4
	atOne := h.Eval(z, 1)
	assert.InDelta(t, 0, cmplx.Abs(atOne[0]-(zz-4)), 1e-13)
}

func TestJacobianAtMatchesDerivative(t *testing.T) {
	target := poly.MustSystem(poly.Univariate(1, 0, -4, 0, 1))
	gamma := RandomGamma(5)
	h, err := NewTotalDegree(target, gamma)
	require.NoError(t, err)

	z := cpath.Vector{complex(0.8, -1.1)}
	tm := 0.42

	// Hz = 2z((1-t)gamma + t) for this homotopy.
	want := 2 * z[0] * (complex(1-tm, 0)*gamma + complex(tm, 0))
	got := h.JacobianAt(z, tm)[0][0]
	assert.InDelta(t, 0, cmplx.Abs(got-want), 1e-13)
}

func TestTDerivAt(t *testing.T) {
	target := poly.MustSystem(poly.Univariate(1, 0, -4, 0, 1))
	gamma := RandomGamma(5)
	h, err := NewTotalDegree(target, gamma)
	require.NoError(t, err)

	z := cpath.Vector{complex(2.5, 0.1)}
	zz := z[0] * z[0]
	want := (zz - 4) - gamma*(zz-1)
	got := h.TDerivAt(z)[0]
	assert.InDelta(t, 0, cmplx.Abs(got-want), 1e-13)
}

func TestRefineRootConverges(t *testing.T) {
	target := poly.MustSystem(poly.Univariate(1, 0, -4, 0, 1))
	h, err := NewTotalDegree(target, RandomGamma(5))
	require.NoError(t, err)

	root, res := h.RefineRoot(cpath.Vector{complex(2.1, 0.05)}, 20, 1e-12)
	assert.Less(t, res, 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(root[0]-2), 1e-10)
}

func TestRefineRootDoubleRoot(t *testing.T) {
	// (z-1)^2: Newton still contracts, linearly, toward z = 1.
	target := poly.MustSystem(poly.Univariate(1, 0, 1, -2, 1))
	h, err := NewTotalDegree(target, RandomGamma(5))
	require.NoError(t, err)

	root, res := h.RefineRoot(cpath.Vector{complex(1.05, 0)}, 40, 1e-10)
	assert.Less(t, res, 1e-6)
	assert.InDelta(t, 0, cmplx.Abs(root[0]-1), 1e-3)
}

func TestGammaIsUnitModulus(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		g := RandomGamma(seed)
		assert.InDelta(t, 1, cmplx.Abs(g), 1e-12)
		assert.NotEqual(t, complex(1, 0), g)
	}
}
