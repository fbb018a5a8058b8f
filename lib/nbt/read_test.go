// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package nbt

import (
	"errors"
	"testing"
)

func TestUnmarshalRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		flavor Flavor
		want   error
	}{
		{
			name: "empty input",
			data: nil, flavor: FlavorUnnamed,
			want: ErrTruncatedInput,
		},
		{
			name: "End tag as root",
			data: []byte{0x00}, flavor: FlavorUnnamed,
			want: ErrUnknownTag,
		},
		{
			name: "tag byte out of range",
			data: []byte{0x0d}, flavor: FlavorUnnamed,
			want: ErrUnknownTag,
		},
		{
			name: "truncated scalar",
			data: []byte{0x03, 0x00, 0x00}, flavor: FlavorUnnamed,
			want: ErrTruncatedInput,
		},
		{
			name: "truncated root name",
			data: []byte{0x0a, 0x00}, flavor: FlavorNamed,
			want: ErrTruncatedInput,
		},
		{
			name: "string length past end",
			data: []byte{0x08, 0x00, 0x05, 'a', 'b'}, flavor: FlavorUnnamed,
			want: ErrOutOfBounds,
		},
		{
			name: "negative byte array count",
			data: []byte{0x07, 0xff, 0xff, 0xff, 0xff}, flavor: FlavorUnnamed,
			want: ErrOutOfBounds,
		},
		{
			name: "int array count past end",
			data: []byte{0x0b, 0x7f, 0xff, 0xff, 0xff, 0x01}, flavor: FlavorUnnamed,
			want: ErrOutOfBounds,
		},
		{
			name: "list count past end",
			data: []byte{0x09, 0x03, 0x00, 0x00, 0x01, 0x00}, flavor: FlavorUnnamed,
			want: ErrOutOfBounds,
		},
		{
			name: "non-empty list with End element tag",
			data: []byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x01, 0xff}, flavor: FlavorUnnamed,
			want: ErrUnknownTag,
		},
		{
			name: "unknown tag inside compound",
			data: []byte{0x0a, 0x0d, 0x00, 0x01, 'a'}, flavor: FlavorUnnamed,
			want: ErrUnknownTag,
		},
		{
			name: "compound missing End",
			data: []byte{0x0a, 0x01, 0x00, 0x01, 'a', 0x05}, flavor: FlavorUnnamed,
			want: ErrTruncatedInput,
		},
		{
			name: "duplicate compound name",
			data: []byte{
				0x0a,
				0x01, 0x00, 0x01, 'a', 0x01,
				0x01, 0x00, 0x01, 'a', 0x02,
				0x00,
			},
			flavor: FlavorUnnamed,
			want:   ErrInvalidTree,
		},
		{
			name: "trailing data",
			data: []byte{0x03, 0x00, 0x00, 0x00, 0x07, 0xee}, flavor: FlavorUnnamed,
			want: ErrTrailingData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Unmarshal(tt.data, tt.flavor)
			if err == nil {
				t.Fatalf("Unmarshal succeeded with %#v", v)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Unmarshal error = %v, want %v", err, tt.want)
			}
			if v != nil {
				t.Error("Unmarshal returned a partial tree alongside an error")
			}
		})
	}
}

func TestUnmarshalDepthCeiling(t *testing.T) {
	// Nest one list per level, well past MaxDepth. The encoder
	// trusts its caller, so Marshal produces the bytes; Unmarshal
	// must refuse them before recursing to the bottom.
	var node Value = NewList(TagEnd)
	for i := 0; i < MaxDepth+10; i++ {
		wrap := NewList(TagList)
		if err := wrap.Append(node); err != nil {
			t.Fatalf("level %d: %v", i, err)
		}
		node = wrap
	}

	data, err := Marshal(node, FlavorUnnamed)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	_, err = Unmarshal(data, FlavorUnnamed)
	if !errors.Is(err, ErrResourceLimit) {
		t.Errorf("Unmarshal of %d-deep nesting = %v, want ErrResourceLimit", MaxDepth+10, err)
	}
}

func TestUnmarshalDepthCeilingCompounds(t *testing.T) {
	leaf := NewCompound()
	var node Value = leaf
	for i := 0; i < MaxDepth+10; i++ {
		wrap := NewCompound()
		wrap.Set("d", node)
		node = wrap
	}

	data, err := Marshal(node, FlavorUnnamed)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if _, err := Unmarshal(data, FlavorUnnamed); !errors.Is(err, ErrResourceLimit) {
		t.Errorf("Unmarshal = %v, want ErrResourceLimit", err)
	}
}

// The decoder must accept a named root whose name is non-empty even
// though the encoder never writes one: archived spells from foreign
// encoders carry root names.
func TestUnmarshalForeignRootName(t *testing.T) {
	data := []byte{
		0x0a,                                 // Compound
		0x00, 0x05, 's', 'p', 'e', 'l', 'l', // root name "spell"
		0x03, 0x00, 0x05, 'p', 'o', 'w', 'e', 'r', 0x00, 0x00, 0x00, 0x07,
		0x00,
	}

	v, err := Unmarshal(data, FlavorNamed)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := NewCompound()
	want.Set("power", Int(7))
	if !Equal(v, want) {
		t.Errorf("Unmarshal = %#v, want {power:7}", v)
	}
}
