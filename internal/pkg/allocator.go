package pkg

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/swiss"
)

// Allocator recycles the group arrays swiss maps drop when they grow.
// Index maps only ever grow, so a freed array is handed to the next
// map that grows into the same size.
type Allocator[K comparable, V any] struct {
	pool          *sync.Pool
	allocs, reuse atomic.Uint64
}

func NewAllocator[K comparable, V any]() *Allocator[K, V] {
	return &Allocator[K, V]{
		pool: &sync.Pool{
			New: func() interface{} { return new([]swiss.Group[K, V]) },
		},
	}
}

func (p *Allocator[K, V]) Alloc(want int) []swiss.Group[K, V] {
	buf := p.pool.Get().(*[]swiss.Group[K, V])

	if cap(*buf) < want {
		*buf = make([]swiss.Group[K, V], want)
		p.allocs.Add(1)

	} else {
		*buf = (*buf)[:want]
		clear(*buf)
		p.reuse.Add(1)
	}

	return *buf
}

func (p *Allocator[K, V]) Free(b []swiss.Group[K, V]) {
	p.pool.Put(&b)
}

// Allocs returns how many group arrays were freshly allocated.
func (p *Allocator[K, V]) Allocs() uint64 {
	return p.allocs.Load()
}

// Reuses returns how many group arrays were served from freed ones.
func (p *Allocator[K, V]) Reuses() uint64 {
	return p.reuse.Load()
}
