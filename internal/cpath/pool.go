package cpath

import "sync"

// VectorPool recycles scratch vectors of a fixed size.
type VectorPool struct {
	pool sync.Pool
	size int
}

func NewVectorPool(size int) *VectorPool {
	return &VectorPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make(Vector, size)
			},
		},
	}
}

func (p *VectorPool) Size() int { return p.size }

func (p *VectorPool) Get() Vector {
	return p.pool.Get().(Vector)
}

func (p *VectorPool) Put(v Vector) {
	if len(v) == p.size {
		for i := range v {
			v[i] = 0
		}
		p.pool.Put(v)
	}
}

func (p *VectorPool) GetAndCopy(src Vector) Vector {
	dst := p.Get()
	copy(dst, src)
	return dst
}
