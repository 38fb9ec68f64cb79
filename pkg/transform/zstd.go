package transform

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const ZstdFastest = zstd.SpeedFastest

type zstdTransform struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd compresses with Zstandard at the given level.
func NewZstd(level zstd.EncoderLevel) (Transform, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd: init encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: init decoder: %w", err)
	}
	return &zstdTransform{encoder: enc, decoder: dec}, nil
}

func (z *zstdTransform) Apply(data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, nil), nil
}

func (z *zstdTransform) Reverse(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: decompress: %w", err)
	}
	return out, nil
}
