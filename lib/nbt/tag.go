// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package nbt

import "fmt"

// Tag identifies an NBT value variant. Tags appear on the wire (one
// byte per value, plus the element tag of every list), so these
// values are protocol constants — changing them breaks every archived
// spell.
type Tag byte

const (
	// TagEnd terminates a compound's entry sequence. It never tags a
	// value of its own; the only other place it may appear is as the
	// element tag of an empty list.
	TagEnd Tag = 0

	TagByte      Tag = 1
	TagShort     Tag = 2
	TagInt       Tag = 3
	TagLong      Tag = 4
	TagFloat     Tag = 5
	TagDouble    Tag = 6
	TagByteArray Tag = 7
	TagString    Tag = 8
	TagList      Tag = 9
	TagCompound  Tag = 10
	TagIntArray  Tag = 11
	TagLongArray Tag = 12
)

// String returns the conventional name of the tag.
func (t Tag) String() string {
	switch t {
	case TagEnd:
		return "End"
	case TagByte:
		return "Byte"
	case TagShort:
		return "Short"
	case TagInt:
		return "Int"
	case TagLong:
		return "Long"
	case TagFloat:
		return "Float"
	case TagDouble:
		return "Double"
	case TagByteArray:
		return "ByteArray"
	case TagString:
		return "String"
	case TagList:
		return "List"
	case TagCompound:
		return "Compound"
	case TagIntArray:
		return "IntArray"
	case TagLongArray:
		return "LongArray"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// isValue reports whether t tags a value (End does not).
func (t Tag) isValue() bool {
	return t >= TagByte && t <= TagLongArray
}
