package transform

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

const GzipDefault = gzip.DefaultCompression

type gzipTransform struct {
	level int
}

func NewGzip(level int) Transform { return &gzipTransform{level: level} }

func (g *gzipTransform) Apply(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, g.level)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if _, err := gz.Write(data); err != nil {
		_ = gz.Close()
		return nil, fmt.Errorf("gzip: compress: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("gzip: close writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *gzipTransform) Reverse(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: open reader: %w", err)
	}
	defer gz.Close()
	out, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("gzip: decompress: %w", err)
	}
	return out, nil
}
