package strbuf

import (
	"math"
	"runtime"
)

// MaxAlloc is the largest single allocation HeapAllocator attempts. Larger
// requests fail with ErrOOM instead of reaching make.
const MaxAlloc = math.MaxInt32

// Allocator provides the byte storage a Buffer grows into. Alloc must return a
// slice of exactly n bytes or an error; Free hands storage back once the buffer
// no longer references it. Reallocation is composed by the Buffer from Alloc,
// copy and Free so the old storage stays valid until the copy is done.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

type heapAllocator struct{}

// HeapAllocator allocates from the Go heap. It is the default for a zero Buffer.
var HeapAllocator Allocator = heapAllocator{}

func (heapAllocator) Alloc(n int) (p []byte, err error) {
	if n < 0 || n > MaxAlloc {
		return nil, ErrOOM
	}
	// make panics rather than failing when the platform cannot address n bytes.
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}
			p, err = nil, ErrOOM
		}
	}()
	return make([]byte, n), nil
}

func (heapAllocator) Free([]byte) {}

// Limit refuses any single allocation larger than Max bytes and forwards the
// rest to Next (HeapAllocator when nil).
type Limit struct {
	Max  int
	Next Allocator
}

func (l *Limit) next() Allocator {
	if l.Next == nil {
		return HeapAllocator
	}
	return l.Next
}

// Alloc fails with ErrOOM when n exceeds Max.
func (l *Limit) Alloc(n int) ([]byte, error) {
	if n > l.Max {
		return nil, ErrOOM
	}
	return l.next().Alloc(n)
}

// Free forwards b to Next.
func (l *Limit) Free(b []byte) {
	l.next().Free(b)
}
