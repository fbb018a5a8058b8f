// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package nbt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Flavor selects the root layout of a serialized tree.
type Flavor int

const (
	// FlavorNamed writes an empty name between the root tag byte and
	// the root payload — the classic file layout, where every tag
	// including the root is named.
	FlavorNamed Flavor = iota

	// FlavorUnnamed writes the root payload directly after the root
	// tag byte — the network layout.
	FlavorUnnamed
)

// String returns the flavor's name.
func (f Flavor) String() string {
	switch f {
	case FlavorNamed:
		return "named"
	case FlavorUnnamed:
		return "unnamed"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// maxStringBytes is the largest UTF-8 byte length a String or entry
// name can serialize to (uint16 length prefix).
const maxStringBytes = math.MaxUint16

// Marshal serializes a tree to its binary form. It fails only when
// the tree violates the model's invariants (wrapping ErrInvalidTree);
// any tree built through this package's constructors without
// oversized strings or arrays serializes cleanly.
func Marshal(v Value, flavor Flavor) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil root value", ErrInvalidTree)
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(v.Tag()))
	if flavor == FlavorNamed {
		// The root's name. Spells never name their root, so the wire
		// always carries a zero-length name here.
		buf.Write([]byte{0, 0})
	}
	if err := writePayload(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePayload(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Byte:
		buf.WriteByte(byte(val))

	case Short:
		writeUint(buf, uint64(uint16(val)), 2)

	case Int:
		writeUint(buf, uint64(uint32(val)), 4)

	case Long:
		writeUint(buf, uint64(val), 8)

	case Float:
		writeUint(buf, uint64(math.Float32bits(float32(val))), 4)

	case Double:
		writeUint(buf, math.Float64bits(float64(val)), 8)

	case String:
		return writeString(buf, string(val))

	case ByteArray:
		if err := writeCount(buf, len(val)); err != nil {
			return err
		}
		buf.Write(val)

	case IntArray:
		if err := writeCount(buf, len(val)); err != nil {
			return err
		}
		for _, elem := range val {
			writeUint(buf, uint64(uint32(elem)), 4)
		}

	case LongArray:
		if err := writeCount(buf, len(val)); err != nil {
			return err
		}
		for _, elem := range val {
			writeUint(buf, uint64(elem), 8)
		}

	case *List:
		if val.elem == TagEnd && len(val.items) > 0 {
			return fmt.Errorf("%w: non-empty list with End element tag", ErrInvalidTree)
		}
		buf.WriteByte(byte(val.elem))
		if err := writeCount(buf, len(val.items)); err != nil {
			return err
		}
		for _, item := range val.items {
			if item.Tag() != val.elem {
				return fmt.Errorf("%w: %s element in %s list", ErrInvalidTree, item.Tag(), val.elem)
			}
			if err := writePayload(buf, item); err != nil {
				return err
			}
		}

	case *Compound:
		for i, name := range val.names {
			entry := val.values[i]
			buf.WriteByte(byte(entry.Tag()))
			if err := writeString(buf, name); err != nil {
				return err
			}
			if err := writePayload(buf, entry); err != nil {
				return err
			}
		}
		buf.WriteByte(byte(TagEnd))
	}
	return nil
}

// writeUint appends the low `width` bytes of u in big-endian order.
func writeUint(buf *bytes.Buffer, u uint64, width int) {
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], u)
	buf.Write(scratch[8-width:])
}

// writeCount appends an array or list element count as int32.
func writeCount(buf *bytes.Buffer, n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("%w: %d elements exceed int32 count", ErrInvalidTree, n)
	}
	writeUint(buf, uint64(uint32(n)), 4)
	return nil
}

// writeString appends a uint16-length-prefixed UTF-8 string. Strings
// and entry names share this layout.
func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > maxStringBytes {
		return fmt.Errorf("%w: string of %d bytes exceeds %d", ErrInvalidTree, len(s), maxStringBytes)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidTree)
	}
	writeUint(buf, uint64(uint16(len(s))), 2)
	buf.WriteString(s)
	return nil
}
