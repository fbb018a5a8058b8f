// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package spellcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compression identifies the compressor of a pipeline row. Unlike the
// version tag it never appears on the wire — the registry maps tags
// to it.
type compression uint8

const (
	compressionGzip compression = iota + 1
	compressionZlib
	compressionLZ4
	compressionZstd
)

// MaxDecodedSize is the ceiling on a spell's decompressed size. A
// legitimate spell serializes to a few kilobytes; the margin covers
// pathological but honest trees while keeping a zip bomb from
// allocating past 16 MiB.
const MaxDecodedSize = 16 << 20

// zstdEncoder and zstdDecoder are shared across calls — both are safe
// for concurrent use, and building a zstd coder is far more expensive
// than using one. The encoder runs at the best-ratio level: spells
// are tiny and archival size is the whole point. The decoder's memory
// ceiling enforces MaxDecodedSize inside DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
	)
	if err != nil {
		panic("spellcodec: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(MaxDecodedSize),
	)
	if err != nil {
		panic("spellcodec: zstd decoder initialization failed: " + err.Error())
	}
}

// compress wraps data in the self-contained stream format of the
// given compressor. Deterministic for identical input and compressor.
func compress(data []byte, comp compression) ([]byte, error) {
	switch comp {
	case compressionGzip:
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("gzip writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("gzip compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gzip compress: %w", err)
		}
		return buf.Bytes(), nil

	case compressionZlib:
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("zlib writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		return buf.Bytes(), nil

	case compressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if err := w.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
			return nil, fmt.Errorf("lz4 writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buf.Bytes(), nil

	case compressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	default:
		return nil, fmt.Errorf("unregistered compression %d", comp)
	}
}

// decompress unwraps a stream produced by compress at any supported
// level. Output size is capped at MaxDecodedSize, enforced while
// decoding.
func decompress(data []byte, comp compression) ([]byte, error) {
	switch comp {
	case compressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, classifyStream(err)
		}
		return readCapped(r)

	case compressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, classifyStream(err)
		}
		return readCapped(r)

	case compressionLZ4:
		return readCapped(lz4.NewReader(bytes.NewReader(data)))

	case compressionZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrResourceLimit, err)
			}
			return nil, classifyStream(err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unregistered compression %d", comp)
	}
}

// readCapped drains a decompressor, failing with ErrResourceLimit the
// moment output crosses MaxDecodedSize (the limit+1 read detects the
// overflow without buffering past it).
func readCapped(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, MaxDecodedSize+1))
	if err != nil {
		return nil, classifyStream(err)
	}
	if len(out) > MaxDecodedSize {
		return nil, fmt.Errorf("%w: decompressed size exceeds %d bytes", ErrResourceLimit, MaxDecodedSize)
	}
	return out, nil
}

// classifyStream sorts a decompressor error into the codec's two
// stream failure kinds: the stream ran out early (ErrTruncated) or
// its contents are wrong (ErrCorruptStream — bad magic, bad frame,
// failed checksum).
func classifyStream(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return fmt.Errorf("%w: %v", ErrCorruptStream, err)
}
