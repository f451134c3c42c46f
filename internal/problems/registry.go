package problems

import (
	"fmt"
	"sort"

	"github.com/san-kum/polypath/internal/poly"
)

// Registry maps names to built-in target systems.
type Registry struct {
	systems map[string]entry
}

type entry struct {
	build func() poly.System
	desc  string
}

func NewRegistry() *Registry {
	r := &Registry{systems: make(map[string]entry)}

	r.register("quadratic", "z^2 - 4 = 0 (roots +2 and -2)", func() poly.System {
		return poly.MustSystem(poly.Univariate(1, 0, -4, 0, 1))
	})

	r.register("cubic", "z^3 - 1 = 0 (cube roots of unity)", func() poly.System {
		return poly.MustSystem(poly.Univariate(1, 0, -1, 0, 0, 1))
	})

	r.register("multiple-root", "(z - 1)^2 = 0 (double root, singular at t=1)", func() poly.System {
		return poly.MustSystem(poly.Univariate(1, 0, 1, -2, 1))
	})

	r.register("circle-line", "x^2 + y^2 = 4, x = y", func() poly.System {
		circle := poly.New(2,
			poly.Term{Coeff: 1, Powers: []int{2, 0}},
			poly.Term{Coeff: 1, Powers: []int{0, 2}},
			poly.Term{Coeff: -4},
		)
		line := poly.New(2,
			poly.Term{Coeff: 1, Powers: []int{1, 0}},
			poly.Term{Coeff: -1, Powers: []int{0, 1}},
		)
		return poly.MustSystem(circle, line)
	})

	r.register("conics", "x^2 + y^2 = 1, y = x^2", func() poly.System {
		circle := poly.New(2,
			poly.Term{Coeff: 1, Powers: []int{2, 0}},
			poly.Term{Coeff: 1, Powers: []int{0, 2}},
			poly.Term{Coeff: -1},
		)
		parabola := poly.New(2,
			poly.Term{Coeff: 1, Powers: []int{2, 0}},
			poly.Term{Coeff: -1, Powers: []int{0, 1}},
		)
		return poly.MustSystem(circle, parabola)
	})

	r.register("cyclic-3", "cyclic 3-roots system", func() poly.System {
		e1 := poly.New(3,
			poly.Term{Coeff: 1, Powers: []int{1, 0, 0}},
			poly.Term{Coeff: 1, Powers: []int{0, 1, 0}},
			poly.Term{Coeff: 1, Powers: []int{0, 0, 1}},
		)
		e2 := poly.New(3,
			poly.Term{Coeff: 1, Powers: []int{1, 1, 0}},
			poly.Term{Coeff: 1, Powers: []int{0, 1, 1}},
			poly.Term{Coeff: 1, Powers: []int{1, 0, 1}},
		)
		e3 := poly.New(3,
			poly.Term{Coeff: 1, Powers: []int{1, 1, 1}},
			poly.Term{Coeff: -1},
		)
		return poly.MustSystem(e1, e2, e3)
	})

	return r
}

func (r *Registry) register(name, desc string, build func() poly.System) {
	r.systems[name] = entry{build: build, desc: desc}
}

// Get builds the named system.
func (r *Registry) Get(name string) (poly.System, error) {
	e, ok := r.systems[name]
	if !ok {
		return poly.System{}, fmt.Errorf("unknown problem: %s", name)
	}
	return e.build(), nil
}

// Describe returns the one-line description of a named system.
func (r *Registry) Describe(name string) string {
	return r.systems[name].desc
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
