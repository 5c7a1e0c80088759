package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ n int }

func TestPoolResetsOnPut(t *testing.T) {
	p := New(func() *counter { return &counter{} }, func(c *counter) { c.n = 0 })

	c := p.Get()
	c.n = 7
	assert.Equal(t, int64(1), p.Stats().InUse)
	p.Put(c)

	s := p.Stats()
	assert.Equal(t, int64(0), s.InUse)
	assert.Equal(t, int64(1), s.Gets)
	assert.Equal(t, int64(1), s.Allocated)
	assert.Equal(t, 0, c.n)
}

func TestPoolConcurrentUse(t *testing.T) {
	p := New(func() *counter { return &counter{} }, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := p.Get()
				c.n++
				p.Put(c)
			}
		}()
	}
	wg.Wait()

	s := p.Stats()
	assert.Equal(t, int64(800), s.Gets)
	assert.Equal(t, int64(0), s.InUse)
	assert.LessOrEqual(t, s.Allocated, s.Gets)
	assert.Equal(t, s.Gets-s.Allocated, s.Reused())
}

func TestScratchBuffer(t *testing.T) {
	before := ScratchStats()

	b := GetScratch()
	require.NotNil(t, b)
	assert.Empty(t, *b)
	*b = append(*b, "TBUF"...)
	PutScratch(b)
	assert.Empty(t, *b, "buffer is truncated on put")

	big := GetScratch()
	*big = make([]byte, 0, maxScratchSize+1)
	PutScratch(big)
	PutScratch(nil)

	after := ScratchStats()
	assert.Equal(t, before.InUse, after.InUse)
	assert.Equal(t, before.Gets+2, after.Gets)
}
