// Package buffers pools byte storage by power-of-two size class so that
// short-lived strbuf.Buffers can recycle their storage.
package buffers

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"strbuf-go/pkg/strbuf"
)

const (
	// MinClassSize is the smallest pooled slice and matches strbuf.MinAlloc.
	MinClassSize = strbuf.MinAlloc

	// MaxClassSize is the largest pooled slice. Bigger requests are served
	// by the heap and dropped on Free.
	MaxClassSize = 1 << 20
)

var numClasses = bits.Len(uint(MaxClassSize / MinClassSize))

// Pool is a strbuf.Allocator backed by one sync.Pool per size class. It is
// safe for concurrent use.
type Pool struct {
	classes []sync.Pool

	hits   atomic.Int64
	misses atomic.Int64
	frees  atomic.Int64
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{classes: make([]sync.Pool, numClasses)}
}

// classOf returns the index of the smallest class holding n bytes, or -1 if n
// is larger than MaxClassSize.
func classOf(n int) int {
	if n <= MinClassSize {
		return 0
	}
	if n > MaxClassSize {
		return -1
	}
	return bits.Len(uint(n-1)) - bits.Len(uint(MinClassSize-1))
}

// Alloc returns a slice of n bytes. Its contents are unspecified. Requests
// above MaxClassSize go to strbuf.HeapAllocator and share its size ceiling.
func (p *Pool) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, strbuf.ErrOOM
	}
	c := classOf(n)
	if c < 0 {
		p.misses.Add(1)
		return strbuf.HeapAllocator.Alloc(n)
	}
	if v := p.classes[c].Get(); v != nil {
		p.hits.Add(1)
		return (*(v.(*[]byte)))[:n], nil
	}
	p.misses.Add(1)
	return make([]byte, n, MinClassSize<<c), nil
}

// Free returns b to its size class. Slices whose capacity is not a class size
// are dropped.
func (p *Pool) Free(b []byte) {
	size := cap(b)
	if size < MinClassSize || size > MaxClassSize || size&(size-1) != 0 {
		return
	}
	b = b[:size]
	p.frees.Add(1)
	p.classes[classOf(size)].Put(&b)
}

// Stats is a snapshot of the pool counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Frees  int64 `json:"frees"`
}

func (p *Pool) Stats() Stats {
	return Stats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
		Frees:  p.frees.Load(),
	}
}

// Default is shared by buffers that do not bring their own allocator.
var Default = NewPool()

// NewBuffer returns an empty strbuf.Buffer drawing storage from Default.
func NewBuffer() *strbuf.Buffer {
	return strbuf.New(strbuf.WithAllocator(Default))
}
