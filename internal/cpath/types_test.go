package cpath

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestVectorNorm(t *testing.T) {
	v := Vector{complex(3, 4), 0}
	if math.Abs(v.Norm()-5) > 1e-13 {
		t.Errorf("expected norm 5, got %f", v.Norm())
	}

	empty := Vector{}
	if empty.Norm() != 0 {
		t.Errorf("expected zero norm for empty vector, got %f", empty.Norm())
	}
}

func TestVectorIsValid(t *testing.T) {
	if !(Vector{1, complex(0, 2)}).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if (Vector{cmplx.Inf()}).IsValid() {
		t.Error("Inf vector reported valid")
	}
	if (Vector{cmplx.NaN()}).IsValid() {
		t.Error("NaN vector reported valid")
	}
}

func TestVectorCloneIsIndependent(t *testing.T) {
	v := Vector{1, 2}
	c := v.Clone()
	c[0] = 99
	if v[0] != 1 {
		t.Error("clone shares backing array")
	}
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector{1, complex(0, 1)}
	b := Vector{complex(2, -1), 3}

	sum := a.Add(b)
	if sum[0] != complex(3, -1) || sum[1] != complex(3, 1) {
		t.Errorf("unexpected sum: %v", sum)
	}

	diff := a.Sub(b)
	if diff[0] != complex(-1, 1) || diff[1] != complex(-3, 1) {
		t.Errorf("unexpected difference: %v", diff)
	}

	scaled := a.Scale(complex(0, 2))
	if scaled[0] != complex(0, 2) || scaled[1] != complex(-2, 0) {
		t.Errorf("unexpected scale: %v", scaled)
	}
}

func TestAXPY(t *testing.T) {
	v := Vector{1, 2}
	x := Vector{3, 4}
	dst := make(Vector, 2)

	v.AXPY(dst, 2, x)
	if dst[0] != 7 || dst[1] != 10 {
		t.Errorf("unexpected AXPY result: %v", dst)
	}
}

func TestVectorPool(t *testing.T) {
	p := NewVectorPool(3)

	v := p.Get()
	if len(v) != 3 {
		t.Fatalf("expected length 3, got %d", len(v))
	}
	v[0] = complex(1, 1)
	p.Put(v)

	// A recycled vector comes back zeroed.
	w := p.Get()
	for i, z := range w {
		if z != 0 {
			t.Errorf("recycled vector not zeroed at %d: %v", i, z)
		}
	}

	// Wrong-size vectors are dropped, not recycled.
	p.Put(make(Vector, 5))
}

func TestVectorPoolGetAndCopy(t *testing.T) {
	p := NewVectorPool(2)
	src := Vector{complex(1, 2), complex(3, 4)}

	dst := p.GetAndCopy(src)
	if dst[0] != src[0] || dst[1] != src[1] {
		t.Errorf("copy mismatch: %v", dst)
	}
	dst[0] = 0
	if src[0] != complex(1, 2) {
		t.Error("GetAndCopy shares backing array")
	}
}
