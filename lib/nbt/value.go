// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package nbt

import (
	"fmt"
	"math"
	"slices"
)

// Value is an NBT tree node: one of the scalar types, an array type,
// a *List, or a *Compound. The interface is sealed — only this
// package's types satisfy it, so a switch over the concrete types is
// exhaustive.
type Value interface {
	// Tag returns the variant discriminator written to the wire for
	// this value.
	Tag() Tag

	sealed()
}

// Scalar and array leaf types. The integer types are distinct Go
// types rather than a single width-annotated struct so that the
// declared width is part of the value's type identity: an Int holding
// 7 and a Long holding 7 are different values and serialize
// differently.
type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	String    string
	ByteArray []byte
	IntArray  []int32
	LongArray []int64
)

func (Byte) Tag() Tag      { return TagByte }
func (Short) Tag() Tag     { return TagShort }
func (Int) Tag() Tag       { return TagInt }
func (Long) Tag() Tag      { return TagLong }
func (Float) Tag() Tag     { return TagFloat }
func (Double) Tag() Tag    { return TagDouble }
func (String) Tag() Tag    { return TagString }
func (ByteArray) Tag() Tag { return TagByteArray }
func (IntArray) Tag() Tag  { return TagIntArray }
func (LongArray) Tag() Tag { return TagLongArray }

func (Byte) sealed()      {}
func (Short) sealed()     {}
func (Int) sealed()       {}
func (Long) sealed()      {}
func (Float) sealed()     {}
func (Double) sealed()    {}
func (String) sealed()    {}
func (ByteArray) sealed() {}
func (IntArray) sealed()  {}
func (LongArray) sealed() {}

// List is an ordered homogeneous container. The element tag is fixed
// when the list is created; Append rejects values of any other tag.
// An empty list may be declared with element tag End, matching the
// wire convention for lists that were never given a type.
type List struct {
	elem  Tag
	items []Value
}

// NewList creates an empty list whose elements must carry the given
// tag.
func NewList(elem Tag) *List {
	return &List{elem: elem}
}

// ListOf creates a list from the given values, taking the element tag
// from the first. All values must share that tag.
func ListOf(items ...Value) (*List, error) {
	if len(items) == 0 {
		return NewList(TagEnd), nil
	}
	l := NewList(items[0].Tag())
	if err := l.Append(items...); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *List) Tag() Tag { return TagList }
func (l *List) sealed()  {}

// ElementTag returns the tag every element of the list carries.
func (l *List) ElementTag() Tag { return l.elem }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// At returns the element at index i. It panics if i is out of range,
// like a slice index.
func (l *List) At(i int) Value { return l.items[i] }

// Append adds values to the end of the list. Every value must carry
// the list's element tag; on mismatch nothing is appended and the
// error wraps ErrInvalidTree.
func (l *List) Append(items ...Value) error {
	for _, item := range items {
		if item == nil {
			return fmt.Errorf("%w: nil list element", ErrInvalidTree)
		}
		if item.Tag() != l.elem {
			return fmt.Errorf("%w: %s element in %s list", ErrInvalidTree, item.Tag(), l.elem)
		}
	}
	l.items = append(l.items, items...)
	return nil
}

// append is Append for elements already validated by the decoder.
func (l *List) append(item Value) {
	l.items = append(l.items, item)
}

// Compound is an ordered name → value mapping with unique names.
// Insertion order is preserved and is the order entries serialize in;
// Equal ignores it.
type Compound struct {
	names  []string
	values []Value
	index  map[string]int
}

// NewCompound creates an empty compound.
func NewCompound() *Compound {
	return &Compound{index: make(map[string]int)}
}

func (c *Compound) Tag() Tag { return TagCompound }
func (c *Compound) sealed()  {}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.names) }

// Set stores value under name. An existing entry keeps its position;
// a new entry is appended. Set panics on a nil value — a compound
// entry always holds a value, and passing nil is a programming error
// on the caller's side, not decodable input.
func (c *Compound) Set(name string, value Value) {
	if value == nil {
		panic("nbt: Compound.Set with nil value")
	}
	if i, ok := c.index[name]; ok {
		c.values[i] = value
		return
	}
	c.index[name] = len(c.names)
	c.names = append(c.names, name)
	c.values = append(c.values, value)
}

// Get returns the value stored under name, if any.
func (c *Compound) Get(name string) (Value, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.values[i], true
}

// Delete removes the entry stored under name, if any. Later entries
// shift down, preserving their relative order.
func (c *Compound) Delete(name string) {
	i, ok := c.index[name]
	if !ok {
		return
	}
	c.names = slices.Delete(c.names, i, i+1)
	c.values = slices.Delete(c.values, i, i+1)
	delete(c.index, name)
	for j := i; j < len(c.names); j++ {
		c.index[c.names[j]] = j
	}
}

// Keys returns the entry names in insertion order. The slice is a
// copy.
func (c *Compound) Keys() []string {
	return slices.Clone(c.names)
}

// Equal reports whether two trees are structurally equal: same tags,
// same values, same list order, same compound entries. Compound entry
// order is ignored, and two empty lists are equal regardless of their
// declared element tags — with no elements, the tag is a wire detail,
// not structure. Float comparison is bitwise, so NaN values compare
// equal to themselves and round trips preserve equality.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Tag() != b.Tag() {
		return false
	}
	switch av := a.(type) {
	case Byte:
		return av == b.(Byte)
	case Short:
		return av == b.(Short)
	case Int:
		return av == b.(Int)
	case Long:
		return av == b.(Long)
	case Float:
		return math.Float32bits(float32(av)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Double)))
	case String:
		return av == b.(String)
	case ByteArray:
		return slices.Equal(av, b.(ByteArray))
	case IntArray:
		return slices.Equal(av, b.(IntArray))
	case LongArray:
		return slices.Equal(av, b.(LongArray))
	case *List:
		bv := b.(*List)
		if len(av.items) != len(bv.items) {
			return false
		}
		if len(av.items) > 0 && av.elem != bv.elem {
			return false
		}
		for i := range av.items {
			if !Equal(av.items[i], bv.items[i]) {
				return false
			}
		}
		return true
	case *Compound:
		bv := b.(*Compound)
		if len(av.names) != len(bv.names) {
			return false
		}
		for i, name := range av.names {
			other, ok := bv.Get(name)
			if !ok || !Equal(av.values[i], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// DeepCopy returns a copy of v sharing no mutable state with the
// original.
func DeepCopy(v Value) Value {
	switch val := v.(type) {
	case ByteArray:
		return ByteArray(slices.Clone(val))
	case IntArray:
		return IntArray(slices.Clone(val))
	case LongArray:
		return LongArray(slices.Clone(val))
	case *List:
		out := NewList(val.elem)
		out.items = make([]Value, len(val.items))
		for i, item := range val.items {
			out.items[i] = DeepCopy(item)
		}
		return out
	case *Compound:
		out := NewCompound()
		for i, name := range val.names {
			out.Set(name, DeepCopy(val.values[i]))
		}
		return out
	default:
		// Scalars and String are immutable value types.
		return v
	}
}
