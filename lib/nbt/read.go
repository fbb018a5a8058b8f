// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MaxDepth is the container nesting ceiling the decoder enforces. A
// hostile input can nest one container per input byte, so without a
// ceiling the decoder's recursion depth would track input size.
const MaxDepth = 512

// Unmarshal decodes a serialized tree. The flavor must match the one
// the data was produced with — it is part of the format contract, not
// detectable from the bytes. Every declared length is validated
// against the remaining input before any allocation, so decoding
// never allocates more than a small multiple of len(data).
func Unmarshal(data []byte, flavor Flavor) (Value, error) {
	c := &cursor{data: data}

	rootTag, err := c.tagByte()
	if err != nil {
		return nil, err
	}
	if flavor == FlavorNamed {
		if _, err := c.str(); err != nil {
			return nil, fmt.Errorf("root name: %w", err)
		}
	}

	root, err := c.payload(rootTag, 0)
	if err != nil {
		return nil, err
	}
	if c.off != len(data) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(data)-c.off)
	}
	return root, nil
}

// cursor walks a byte slice with explicit bounds checks. Fixed-width
// reads past the end report ErrTruncatedInput; declared lengths that
// do not fit the remainder report ErrOutOfBounds.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) remaining() int { return len(c.data) - c.off }

func (c *cursor) u8() (byte, error) {
	if c.remaining() < 1 {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncatedInput, c.off)
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncatedInput, c.off)
	}
	v := binary.BigEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncatedInput, c.off)
	}
	v := binary.BigEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

func (c *cursor) u64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncatedInput, c.off)
	}
	v := binary.BigEndian.Uint64(c.data[c.off:])
	c.off += 8
	return v, nil
}

// take consumes n bytes, which the caller has already bounds-checked
// through count. The returned slice aliases the input.
func (c *cursor) take(n int) []byte {
	b := c.data[c.off : c.off+n]
	c.off += n
	return b
}

// count reads an int32 element count and validates that `count *
// elemSize` bytes remain. This is the pre-allocation guard: a
// maliciously large declared count fails here, before any
// allocation sized by it.
func (c *cursor) count(elemSize int) (int, error) {
	at := c.off
	raw, err := c.u32()
	if err != nil {
		return 0, err
	}
	n := int32(raw)
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d at offset %d", ErrOutOfBounds, n, at)
	}
	if int64(n)*int64(elemSize) > int64(c.remaining()) {
		return 0, fmt.Errorf("%w: count %d (%d-byte elements) at offset %d exceeds %d remaining bytes",
			ErrOutOfBounds, n, elemSize, at, c.remaining())
	}
	return int(n), nil
}

// tagByte reads a tag that must introduce a value (End rejected).
func (c *cursor) tagByte() (Tag, error) {
	b, err := c.u8()
	if err != nil {
		return 0, err
	}
	t := Tag(b)
	if !t.isValue() {
		return 0, fmt.Errorf("%w: %d at offset %d", ErrUnknownTag, b, c.off-1)
	}
	return t, nil
}

// str reads a uint16-length-prefixed string. The bytes are taken
// as-is: the encoder guarantees UTF-8, but archived data from foreign
// encoders is accepted verbatim rather than rejected.
func (c *cursor) str() (string, error) {
	at := c.off
	n, err := c.u16()
	if err != nil {
		return "", err
	}
	if int(n) > c.remaining() {
		return "", fmt.Errorf("%w: string length %d at offset %d exceeds %d remaining bytes",
			ErrOutOfBounds, n, at, c.remaining())
	}
	return string(c.take(int(n))), nil
}

func (c *cursor) payload(t Tag, depth int) (Value, error) {
	switch t {
	case TagByte:
		b, err := c.u8()
		if err != nil {
			return nil, err
		}
		return Byte(b), nil

	case TagShort:
		v, err := c.u16()
		if err != nil {
			return nil, err
		}
		return Short(v), nil

	case TagInt:
		v, err := c.u32()
		if err != nil {
			return nil, err
		}
		return Int(v), nil

	case TagLong:
		v, err := c.u64()
		if err != nil {
			return nil, err
		}
		return Long(v), nil

	case TagFloat:
		v, err := c.u32()
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(v)), nil

	case TagDouble:
		v, err := c.u64()
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(v)), nil

	case TagString:
		s, err := c.str()
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case TagByteArray:
		n, err := c.count(1)
		if err != nil {
			return nil, err
		}
		out := make(ByteArray, n)
		copy(out, c.take(n))
		return out, nil

	case TagIntArray:
		n, err := c.count(4)
		if err != nil {
			return nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			v, err := c.u32()
			if err != nil {
				return nil, err
			}
			out[i] = int32(v)
		}
		return out, nil

	case TagLongArray:
		n, err := c.count(8)
		if err != nil {
			return nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			v, err := c.u64()
			if err != nil {
				return nil, err
			}
			out[i] = int64(v)
		}
		return out, nil

	case TagList:
		return c.list(depth)

	case TagCompound:
		return c.compound(depth)

	default:
		// Unreachable: callers validate the tag before dispatching.
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, byte(t))
	}
}

func (c *cursor) list(depth int) (Value, error) {
	if depth >= MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrResourceLimit, MaxDepth)
	}

	at := c.off
	elemByte, err := c.u8()
	if err != nil {
		return nil, err
	}
	elem := Tag(elemByte)

	// Every element occupies at least one byte, so the count doubles
	// as the pre-allocation bound.
	n, err := c.count(1)
	if err != nil {
		return nil, err
	}

	if !elem.isValue() {
		if elem == TagEnd && n == 0 {
			return NewList(TagEnd), nil
		}
		return nil, fmt.Errorf("%w: list element tag %d at offset %d", ErrUnknownTag, elemByte, at)
	}

	l := NewList(elem)
	l.items = make([]Value, 0, n)
	for i := 0; i < n; i++ {
		item, err := c.payload(elem, depth+1)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		l.append(item)
	}
	return l, nil
}

func (c *cursor) compound(depth int) (Value, error) {
	if depth >= MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrResourceLimit, MaxDepth)
	}

	out := NewCompound()
	for {
		b, err := c.u8()
		if err != nil {
			return nil, err
		}
		t := Tag(b)
		if t == TagEnd {
			return out, nil
		}
		if !t.isValue() {
			return nil, fmt.Errorf("%w: %d at offset %d", ErrUnknownTag, b, c.off-1)
		}

		name, err := c.str()
		if err != nil {
			return nil, err
		}
		if _, exists := out.Get(name); exists {
			return nil, fmt.Errorf("%w: duplicate compound name %q", ErrInvalidTree, name)
		}

		entry, err := c.payload(t, depth+1)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		out.Set(name, entry)
	}
}
