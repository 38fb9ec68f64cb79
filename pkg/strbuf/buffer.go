// Package strbuf provides a growable byte buffer with an exposed capacity
// policy and a sticky out-of-memory state, in the manner of the C strbuf/git_buf
// helpers. A Buffer is owned by a single goroutine and is not synchronized.
package strbuf

import (
	"math"

	"strbuf-go/pkg/log"
)

// MinAlloc is the smallest capacity a Buffer allocates.
const MinAlloc = 8

// Buffer is a growable byte sequence. The zero value is an empty buffer ready
// to use with the heap allocator.
//
// Storage always keeps one byte past the content for a NUL terminator, so
// Cap() > Len() once anything has been allocated.
type Buffer struct {
	ptr    []byte // len(ptr) is the capacity
	size   int
	failed bool
	alloc  Allocator
}

// Option configures a Buffer created with New.
type Option func(*Buffer)

// WithAllocator makes the buffer draw its storage from a.
func WithAllocator(a Allocator) Option {
	return func(b *Buffer) {
		b.alloc = a
	}
}

// New returns an empty buffer with no storage allocated.
func New(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewString returns a buffer holding s. The error is ErrOOM if the initial
// allocation failed, in which case the buffer is empty and failed.
func NewString(s string, opts ...Option) (*Buffer, error) {
	b := New(opts...)
	return b, b.PutString(s)
}

func (b *Buffer) allocator() Allocator {
	if b.alloc == nil {
		return HeapAllocator
	}
	return b.alloc
}

// Len returns the number of content bytes.
func (b *Buffer) Len() int { return b.size }

// Cap returns the allocated storage size, terminator slot included.
func (b *Buffer) Cap() int { return len(b.ptr) }

// OOM reports whether an allocation failed since the last Clear or Dispose.
func (b *Buffer) OOM() bool { return b.failed }

// Bytes returns the content. The slice aliases the buffer storage and is only
// valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	if b.ptr == nil {
		return []byte{}
	}
	return b.ptr[:b.size:b.size]
}

// String returns a copy of the content.
func (b *Buffer) String() string {
	return string(b.ptr[:b.size])
}

// Terminated returns the content followed by its NUL terminator.
func (b *Buffer) Terminated() []byte {
	if b.ptr == nil {
		return []byte{0}
	}
	return b.ptr[: b.size+1 : b.size+1]
}

// GrowBy makes sure at least additional more bytes can be appended without
// reallocating. Nothing happens when the current slack already covers the
// request.
func (b *Buffer) GrowBy(additional int) error {
	if b.failed {
		return ErrOOM
	}
	old, err := b.ensure(additional)
	if err != nil {
		return err
	}
	b.release(old)
	return nil
}

// Grow makes sure the buffer can hold target content bytes in total.
func (b *Buffer) Grow(target int) error {
	if b.failed {
		return ErrOOM
	}
	if target <= b.size {
		if target < 0 {
			return b.fail(target)
		}
		return b.GrowBy(0)
	}
	return b.GrowBy(target - b.size)
}

// capacityFor returns the storage size used to hold n content bytes: the next
// power of two fitting n plus the terminator, never below MinAlloc.
func capacityFor(n int) (int, bool) {
	if n < 0 || n == math.MaxInt {
		return 0, false
	}
	need := n + 1
	c := MinAlloc
	for c < need {
		if c > math.MaxInt/2 {
			return 0, false
		}
		c <<= 1
	}
	return c, true
}

// ensure reserves room for additional bytes past the current content. When new
// storage is installed the previous one is returned so that callers still
// reading from it can release it once they are done.
func (b *Buffer) ensure(additional int) ([]byte, error) {
	if additional < 0 || b.size > math.MaxInt-additional {
		return nil, b.fail(additional)
	}
	need := b.size + additional
	if b.ptr != nil && need < len(b.ptr) {
		return nil, nil
	}
	p, err := b.scratch(need)
	if err != nil {
		return nil, err
	}
	copy(p, b.ptr[:b.size])
	p[b.size] = 0
	old := b.ptr
	b.ptr = p
	return old, nil
}

// scratch allocates storage able to hold n content bytes without touching the
// buffer content.
func (b *Buffer) scratch(n int) ([]byte, error) {
	c, ok := capacityFor(n)
	if !ok {
		return nil, b.fail(n)
	}
	p, err := b.allocator().Alloc(c)
	if err != nil || len(p) < c {
		return nil, b.fail(n)
	}
	return p, nil
}

// install swaps in storage p holding size content bytes.
func (b *Buffer) install(p []byte, size int) {
	old := b.ptr
	b.ptr = p
	b.size = size
	b.ptr[size] = 0
	b.release(old)
}

func (b *Buffer) release(old []byte) {
	if old != nil {
		b.allocator().Free(old)
	}
}

func (b *Buffer) fail(requested int) error {
	b.failed = true
	log.Debug().
		Int("size", b.size).
		Int("capacity", len(b.ptr)).
		Int("requested", requested).
		Msg("strbuf: allocation failed")
	return ErrOOM
}
