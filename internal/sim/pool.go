package sim

import (
	"sync"

	"github.com/san-kum/verlet/internal/dynamo"
)

// BodyPool recycles render snapshots so a driver drawing every frame does
// not allocate a fresh []Body each time.
type BodyPool struct {
	pool sync.Pool
}

func NewBodyPool(capacity int) *BodyPool {
	return &BodyPool{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]dynamo.Body, 0, capacity)
				return &s
			},
		},
	}
}

func (p *BodyPool) Get() *[]dynamo.Body {
	return p.pool.Get().(*[]dynamo.Body)
}

func (p *BodyPool) Put(s *[]dynamo.Body) {
	*s = (*s)[:0]
	p.pool.Put(s)
}

// Snapshot fills a pooled buffer with the world's current bodies.
// The caller returns it with Put once drawn.
func (p *BodyPool) Snapshot(w *World, radius float64) *[]dynamo.Body {
	s := p.Get()
	*s = w.Bodies(*s, radius)
	return s
}
