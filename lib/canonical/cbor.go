// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Same logical tree always
// produces identical bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder for canonical bytes. Map targets
// decode as map[string]any — node payloads never use non-string
// keys.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("canonical: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("canonical: CBOR decoder initialization failed: " + err.Error())
	}
}

// ErrMalformed indicates bytes that are not a canonical spell form:
// not CBOR, or CBOR whose shape is not the node encoding Marshal
// produces.
var ErrMalformed = errors.New("canonical: malformed canonical form")

// Marshal encodes a tree to its canonical bytes. Each node becomes a
// CBOR array carrying the node's native tag, so the width of every
// integer and float survives — an Int 7 and a Long 7 stay distinct:
//
//	scalar:   [tag, value]
//	list:     [tag, elementTag, [node...]]   (elementTag End when empty)
//	compound: [tag, {name: node, ...}]       (keys sorted by the encoder)
func Marshal(v nbt.Value) ([]byte, error) {
	node, err := encodeNode(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(node)
}

// Unmarshal decodes canonical bytes back to a tree. Compound entries
// come back in sorted-name order (their canonical order — insertion
// order is exactly what the canonical form erases).
func Unmarshal(data []byte) (nbt.Value, error) {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return decodeNode(raw)
}

func encodeNode(v nbt.Value) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("canonical: nil value")
	}
	tag := uint8(v.Tag())

	switch val := v.(type) {
	case nbt.Byte:
		return []any{tag, int64(val)}, nil
	case nbt.Short:
		return []any{tag, int64(val)}, nil
	case nbt.Int:
		return []any{tag, int64(val)}, nil
	case nbt.Long:
		return []any{tag, int64(val)}, nil
	case nbt.Float:
		return []any{tag, float64(val)}, nil
	case nbt.Double:
		return []any{tag, float64(val)}, nil
	case nbt.String:
		return []any{tag, string(val)}, nil
	case nbt.ByteArray:
		return []any{tag, []byte(val)}, nil
	case nbt.IntArray:
		elems := make([]int64, len(val))
		for i, e := range val {
			elems[i] = int64(e)
		}
		return []any{tag, elems}, nil
	case nbt.LongArray:
		return []any{tag, []int64(val)}, nil
	case *nbt.List:
		items := make([]any, val.Len())
		for i := range items {
			item, err := encodeNode(val.At(i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		elem := val.ElementTag()
		if val.Len() == 0 {
			// An empty list's declared element tag is not structural
			// (nbt.Equal ignores it); normalize so structurally equal
			// trees share canonical bytes and fingerprints.
			elem = nbt.TagEnd
		}
		return []any{tag, uint8(elem), items}, nil
	case *nbt.Compound:
		entries := make(map[string]any, val.Len())
		for _, name := range val.Keys() {
			child, _ := val.Get(name)
			node, err := encodeNode(child)
			if err != nil {
				return nil, err
			}
			entries[name] = node
		}
		return []any{tag, entries}, nil
	default:
		return nil, fmt.Errorf("canonical: unhandled value type %T", v)
	}
}

func decodeNode(raw any) (nbt.Value, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) < 2 {
		return nil, fmt.Errorf("%w: node is not a tagged array", ErrMalformed)
	}
	tagN, ok := asInt(arr[0])
	if !ok {
		return nil, fmt.Errorf("%w: node tag is not an integer", ErrMalformed)
	}
	tag := nbt.Tag(tagN)

	// Every node shape except a list is [tag, payload].
	if tag != nbt.TagList && len(arr) != 2 {
		return nil, fmt.Errorf("%w: %d-element %s node", ErrMalformed, len(arr), tag)
	}

	switch tag {
	case nbt.TagByte:
		return decodeInt(arr[1], math.MinInt8, math.MaxInt8, func(n int64) nbt.Value { return nbt.Byte(n) })
	case nbt.TagShort:
		return decodeInt(arr[1], math.MinInt16, math.MaxInt16, func(n int64) nbt.Value { return nbt.Short(n) })
	case nbt.TagInt:
		return decodeInt(arr[1], math.MinInt32, math.MaxInt32, func(n int64) nbt.Value { return nbt.Int(n) })
	case nbt.TagLong:
		return decodeInt(arr[1], math.MinInt64, math.MaxInt64, func(n int64) nbt.Value { return nbt.Long(n) })

	case nbt.TagFloat:
		f, ok := arr[1].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: Float payload is %T", ErrMalformed, arr[1])
		}
		return nbt.Float(f), nil

	case nbt.TagDouble:
		f, ok := arr[1].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: Double payload is %T", ErrMalformed, arr[1])
		}
		return nbt.Double(f), nil

	case nbt.TagString:
		s, ok := arr[1].(string)
		if !ok {
			return nil, fmt.Errorf("%w: String payload is %T", ErrMalformed, arr[1])
		}
		return nbt.String(s), nil

	case nbt.TagByteArray:
		b, ok := arr[1].([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: ByteArray payload is %T", ErrMalformed, arr[1])
		}
		return nbt.ByteArray(b), nil

	case nbt.TagIntArray:
		elems, err := decodeIntSlice(arr[1], math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		out := make(nbt.IntArray, len(elems))
		for i, n := range elems {
			out[i] = int32(n)
		}
		return out, nil

	case nbt.TagLongArray:
		elems, err := decodeIntSlice(arr[1], math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, err
		}
		return nbt.LongArray(elems), nil

	case nbt.TagList:
		if len(arr) != 3 {
			return nil, fmt.Errorf("%w: %d-element List node", ErrMalformed, len(arr))
		}
		elemN, ok := asInt(arr[1])
		if !ok || elemN < 0 || elemN > int64(nbt.TagLongArray) {
			return nil, fmt.Errorf("%w: invalid list element tag", ErrMalformed)
		}
		items, ok := arr[2].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: List payload is %T", ErrMalformed, arr[2])
		}
		list := nbt.NewList(nbt.Tag(elemN))
		for i, rawItem := range items {
			item, err := decodeNode(rawItem)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			if err := list.Append(item); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
		return list, nil

	case nbt.TagCompound:
		entries, ok := arr[1].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: Compound payload is %T", ErrMalformed, arr[1])
		}
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		out := nbt.NewCompound()
		for _, name := range names {
			child, err := decodeNode(entries[name])
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", name, err)
			}
			out.Set(name, child)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: tag %d", ErrMalformed, tagN)
	}
}

// asInt normalizes the CBOR decoder's two integer representations
// (uint64 for non-negative, int64 for negative).
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func decodeInt(payload any, min, max int64, build func(int64) nbt.Value) (nbt.Value, error) {
	n, ok := asInt(payload)
	if !ok {
		return nil, fmt.Errorf("%w: integer payload is %T", ErrMalformed, payload)
	}
	if n < min || n > max {
		return nil, fmt.Errorf("%w: %d outside [%d, %d]", ErrMalformed, n, min, max)
	}
	return build(n), nil
}

func decodeIntSlice(payload any, min, max int64) ([]int64, error) {
	items, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: array payload is %T", ErrMalformed, payload)
	}
	out := make([]int64, len(items))
	for i, item := range items {
		n, ok := asInt(item)
		if !ok {
			return nil, fmt.Errorf("%w: array element %d is %T", ErrMalformed, i, item)
		}
		if n < min || n > max {
			return nil, fmt.Errorf("%w: array element %d outside [%d, %d]", ErrMalformed, i, min, max)
		}
		out[i] = n
	}
	return out, nil
}
