package transform

import (
	"strbuf-go/pkg/strbuf"
)

// Text steps run strbuf operations on a scratch buffer. They have no inverse.

type replaceStep struct {
	pairs []strbuf.Pair
	alloc strbuf.Allocator
}

// NewReplace substitutes pairs the way strbuf.Buffer.Replace does.
func NewReplace(pairs []strbuf.Pair, alloc strbuf.Allocator) Transform {
	return &replaceStep{pairs: pairs, alloc: alloc}
}

func (r *replaceStep) Apply(data []byte) ([]byte, error) {
	return runOn(data, r.alloc, func(b *strbuf.Buffer) error { return b.Replace(r.pairs) })
}

func (r *replaceStep) Reverse([]byte) ([]byte, error) { return nil, ErrIrreversible }

type quoteStep struct {
	alloc strbuf.Allocator
}

// NewShellQuote wraps its input as a single POSIX shell word.
func NewShellQuote(alloc strbuf.Allocator) Transform {
	return &quoteStep{alloc: alloc}
}

func (q *quoteStep) Apply(data []byte) ([]byte, error) {
	return runOn(data, q.alloc, (*strbuf.Buffer).ShellQuote)
}

func (q *quoteStep) Reverse([]byte) ([]byte, error) { return nil, ErrIrreversible }

func runOn(data []byte, alloc strbuf.Allocator, op func(*strbuf.Buffer) error) ([]byte, error) {
	var opts []strbuf.Option
	if alloc != nil {
		opts = append(opts, strbuf.WithAllocator(alloc))
	}
	b := strbuf.New(opts...)
	if err := b.Put(data); err != nil {
		return nil, err
	}
	if err := op(b); err != nil {
		b.Dispose()
		return nil, err
	}
	out := b.String()
	b.Dispose()
	return []byte(out), nil
}
