// Package transform runs byte-level transforms over strbuf contents. A
// Pipeline applies its steps in order on the way out and in reverse order on
// the way back.
package transform

import (
	"errors"
	"fmt"

	"strbuf-go/pkg/strbuf"
)

var (
	// ErrIrreversible is returned by Reverse on steps that only work one way.
	ErrIrreversible = errors.New("transform: step cannot be reversed")
	// ErrEmptyPipeline is returned by NewPipeline when no step is given.
	ErrEmptyPipeline = errors.New("transform: pipeline requires at least one step; use NewNoOp() for an empty pipeline")
	// ErrUnknown is returned by ByName for an unregistered name.
	ErrUnknown = errors.New("transform: unknown transform")
)

// Transform is one reversible step over a byte slice. Reverse undoes Apply.
type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

type noOp struct{}

func NewNoOp() Transform                         { return noOp{} }
func (noOp) Apply(data []byte) ([]byte, error)   { return data, nil }
func (noOp) Reverse(data []byte) ([]byte, error) { return data, nil }

// Pipeline is an ordered list of transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline(steps ...Transform) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyPipeline
	}
	s := make([]Transform, len(steps))
	copy(s, steps)
	return &Pipeline{steps: s}, nil
}

// Apply runs the steps in order.
func (p *Pipeline) Apply(data []byte) ([]byte, error) {
	var err error
	for i, t := range p.steps {
		data, err = t.Apply(data)
		if err != nil {
			return nil, fmt.Errorf("apply: step %d (%T): %w", i, t, err)
		}
	}
	return data, nil
}

// Reverse runs the steps backwards.
func (p *Pipeline) Reverse(data []byte) ([]byte, error) {
	var err error
	for i := len(p.steps) - 1; i >= 0; i-- {
		t := p.steps[i]
		data, err = t.Reverse(data)
		if err != nil {
			return nil, fmt.Errorf("reverse: step %d (%T): %w", i, t, err)
		}
	}
	return data, nil
}

// ApplyTo replaces the content of b with the pipeline output. b is left
// untouched if any step fails.
func (p *Pipeline) ApplyTo(b *strbuf.Buffer) error {
	out, err := p.Apply(b.Bytes())
	if err != nil {
		return err
	}
	return b.Set(out)
}

// ReverseTo is ApplyTo in the opposite direction.
func (p *Pipeline) ReverseTo(b *strbuf.Buffer) error {
	out, err := p.Reverse(b.Bytes())
	if err != nil {
		return err
	}
	return b.Set(out)
}

// ByName returns the compression transform registered under name: "none",
// "zstd" or "gzip".
func ByName(name string) (Transform, error) {
	switch name {
	case "", "none":
		return NewNoOp(), nil
	case "zstd":
		return NewZstd(ZstdFastest)
	case "gzip":
		return NewGzip(GzipDefault), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}
