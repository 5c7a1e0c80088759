// Package pool provides typed object pools and a scratch buffer pool used
// when assembling payload frames.
//
//	buf := pool.GetScratch()
//	defer pool.PutScratch(buf)
//	*buf = append(*buf, header...)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a type-safe wrapper around sync.Pool that counts allocations and
// checkouts. It is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated atomic.Int64
		inUse     atomic.Int64
		gets      atomic.Int64
	}
}

// New creates a pool. reset, when non-nil, runs on every object passed
// to Put.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		p.stats.allocated.Add(1)
		return newFn()
	}
	return p
}

// Get takes an object from the pool, allocating one if it is empty.
func (p *Pool[T]) Get() T {
	p.stats.inUse.Add(1)
	p.stats.gets.Add(1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.stats.inUse.Add(-1)
	p.pool.Put(obj)
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Allocated int64
	InUse     int64
	Gets      int64
}

// Reused is the number of Get calls served without a new allocation.
func (s Stats) Reused() int64 {
	if s.Gets < s.Allocated {
		return 0
	}
	return s.Gets - s.Allocated
}

// Stats returns the current counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Allocated: p.stats.allocated.Load(),
		InUse:     p.stats.inUse.Load(),
		Gets:      p.stats.gets.Load(),
	}
}

const (
	scratchSize = 4096
	// Larger buffers are dropped on Put so one huge frame does not pin
	// memory for the life of the process.
	maxScratchSize = 16 << 20
)

var scratch = New(
	func() *[]byte {
		b := make([]byte, 0, scratchSize)
		return &b
	},
	func(b *[]byte) { *b = (*b)[:0] },
)

// GetScratch returns an empty byte buffer for append-style encoding.
func GetScratch() *[]byte {
	return scratch.Get()
}

// PutScratch returns a buffer obtained from GetScratch. The caller must not
// use *b afterwards.
func PutScratch(b *[]byte) {
	if b == nil {
		return
	}
	if cap(*b) > maxScratchSize {
		scratch.stats.inUse.Add(-1)
		return
	}
	scratch.Put(b)
}

// ScratchStats reports the counters of the scratch buffer pool.
func ScratchStats() Stats {
	return scratch.Stats()
}
