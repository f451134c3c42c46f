package homotopy

import (
	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/linalg"
)

// RefineRoot polishes an approximate root of the target system with plain
// Newton iteration, stopping on convergence, iteration budget, or the first
// non-improving step. Returns the refined point and its target residual.
func (h *Homotopy) RefineRoot(z cpath.Vector, maxIters int, tol float64) (cpath.Vector, float64) {
	cur := z.Clone()
	res := h.target.Eval(cur).Norm()

	for iter := 0; iter < maxIters && res > tol; iter++ {
		jac := h.target.JacobianAt(cur)
		delta, err := linalg.Solve(jac, h.target.Eval(cur))
		if err != nil {
			// Multiple root: the Jacobian is singular at the solution.
			// A small shift still contracts toward it, just slower.
			delta, err = linalg.SolveRegularized(jac, h.target.Eval(cur), 1e-10)
			if err != nil {
				break
			}
		}

		next := cur.Sub(delta)
		nres := h.target.Eval(next).Norm()
		if nres >= res {
			break
		}
		cur, res = next, nres
	}

	return cur, res
}
