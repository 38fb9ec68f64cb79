package strbuf

import (
	"fmt"
	"strings"
)

// Put appends data.
func (b *Buffer) Put(data []byte) error {
	if b.failed {
		return ErrOOM
	}
	old, err := b.ensure(len(data))
	if err != nil {
		return err
	}
	// data may alias the storage that ensure just replaced.
	copy(b.ptr[b.size:], data)
	b.release(old)
	b.size += len(data)
	b.ptr[b.size] = 0
	return nil
}

// PutString appends s.
func (b *Buffer) PutString(s string) error {
	if b.failed {
		return ErrOOM
	}
	old, err := b.ensure(len(s))
	if err != nil {
		return err
	}
	b.release(old)
	b.size += copy(b.ptr[b.size:], s)
	b.ptr[b.size] = 0
	return nil
}

// PutByte appends a single byte.
func (b *Buffer) PutByte(c byte) error {
	return b.PutByteN(c, 1)
}

// PutByteN appends n copies of c.
func (b *Buffer) PutByteN(c byte, n int) error {
	if b.failed {
		return ErrOOM
	}
	old, err := b.ensure(n)
	if err != nil {
		return err
	}
	b.release(old)
	tail := b.ptr[b.size : b.size+n]
	for i := range tail {
		tail[i] = c
	}
	b.size += n
	b.ptr[b.size] = 0
	return nil
}

// Printf appends the output of fmt.Sprintf(format, args...).
func (b *Buffer) Printf(format string, args ...any) error {
	if b.failed {
		return ErrOOM
	}
	return b.Put(fmt.Appendf(nil, format, args...))
}

// Write implements io.Writer. It fails with ErrOOM once the buffer is failed.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Put(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (b *Buffer) WriteString(s string) (int, error) {
	if err := b.PutString(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	return b.PutByte(c)
}

// Set replaces the content with data. On failure the previous content is kept.
func (b *Buffer) Set(data []byte) error {
	if b.failed {
		return ErrOOM
	}
	if b.ptr != nil && len(data) < len(b.ptr) {
		b.size = copy(b.ptr, data)
		b.ptr[b.size] = 0
		return nil
	}
	p, err := b.scratch(len(data))
	if err != nil {
		return err
	}
	copy(p, data)
	b.install(p, len(data))
	return nil
}

// SetString replaces the content with s.
func (b *Buffer) SetString(s string) error {
	if b.failed {
		return ErrOOM
	}
	if b.ptr != nil && len(s) < len(b.ptr) {
		b.size = copy(b.ptr, s)
		b.ptr[b.size] = 0
		return nil
	}
	p, err := b.scratch(len(s))
	if err != nil {
		return err
	}
	copy(p, s)
	b.install(p, len(s))
	return nil
}

// Clear empties the buffer and resets the failed state. The storage is kept.
func (b *Buffer) Clear() {
	b.size = 0
	b.failed = false
	if b.ptr != nil {
		b.ptr[0] = 0
	}
}

// Dispose releases the storage and returns the buffer to its initial empty
// state. The allocator option is kept.
func (b *Buffer) Dispose() {
	b.release(b.ptr)
	b.ptr = nil
	b.size = 0
	b.failed = false
}

// Detach hands the content over to the caller and leaves the buffer empty.
// It returns nil for a failed or never allocated buffer.
func (b *Buffer) Detach() []byte {
	if b.failed || b.ptr == nil {
		return nil
	}
	data := b.ptr[:b.size]
	b.ptr = nil
	b.size = 0
	return data
}

// Truncate shortens the content to n bytes. Larger n is a no-op.
func (b *Buffer) Truncate(n int) error {
	if b.failed {
		return ErrOOM
	}
	if n < 0 {
		n = 0
	}
	if n < b.size {
		b.size = n
		b.ptr[n] = 0
	}
	return nil
}

// RTrim drops trailing ASCII whitespace.
func (b *Buffer) RTrim() error {
	if b.failed {
		return ErrOOM
	}
	for b.size > 0 && isSpace(b.ptr[b.size-1]) {
		b.size--
	}
	if b.ptr != nil {
		b.ptr[b.size] = 0
	}
	return nil
}

// Consume drops the first n bytes, shifting the rest to the front.
func (b *Buffer) Consume(n int) error {
	if b.failed {
		return ErrOOM
	}
	if n <= 0 {
		return nil
	}
	if n > b.size {
		n = b.size
	}
	b.size = copy(b.ptr, b.ptr[n:b.size])
	if b.ptr != nil {
		b.ptr[b.size] = 0
	}
	return nil
}

// Join sets the content to a and c separated by sep. When a is non-empty all
// leading separators of c are dropped and exactly one sep joins them, even if
// c ends up empty. An empty a leaves c as is.
func (b *Buffer) Join(sep byte, a, c string) error {
	if b.failed {
		return ErrOOM
	}
	needSep := false
	if a != "" {
		c = strings.TrimLeft(c, string(sep))
		needSep = a[len(a)-1] != sep
	}
	n := len(a) + len(c)
	if needSep {
		n++
	}
	p, err := b.scratch(n)
	if err != nil {
		return err
	}
	w := copy(p, a)
	if needSep {
		p[w] = sep
		w++
	}
	copy(p[w:], c)
	b.install(p, n)
	return nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
