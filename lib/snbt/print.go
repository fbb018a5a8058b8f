// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package snbt

import (
	"strconv"
	"strings"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

// Print renders a tree in stringified form. The output always parses
// back to a structurally equal tree.
func Print(v nbt.Value) string {
	var b strings.Builder
	printValue(&b, v)
	return b.String()
}

func printValue(b *strings.Builder, v nbt.Value) {
	switch val := v.(type) {
	case nbt.Byte:
		b.WriteString(strconv.FormatInt(int64(val), 10))
		b.WriteByte('b')
	case nbt.Short:
		b.WriteString(strconv.FormatInt(int64(val), 10))
		b.WriteByte('s')
	case nbt.Int:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case nbt.Long:
		b.WriteString(strconv.FormatInt(int64(val), 10))
		b.WriteByte('l')
	case nbt.Float:
		b.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 32))
		b.WriteByte('f')
	case nbt.Double:
		b.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
		b.WriteByte('d')
	case nbt.String:
		printString(b, string(val))
	case nbt.ByteArray:
		b.WriteString("[B;")
		for i, e := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			// Elements are signed on the wire even though the slice
			// holds raw bytes.
			b.WriteString(strconv.FormatInt(int64(int8(e)), 10))
			b.WriteByte('b')
		}
		b.WriteByte(']')
	case nbt.IntArray:
		b.WriteString("[I;")
		for i, e := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(e), 10))
		}
		b.WriteByte(']')
	case nbt.LongArray:
		b.WriteString("[L;")
		for i, e := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(e, 10))
			b.WriteByte('l')
		}
		b.WriteByte(']')
	case *nbt.List:
		b.WriteByte('[')
		for i := 0; i < val.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			printValue(b, val.At(i))
		}
		b.WriteByte(']')
	case *nbt.Compound:
		b.WriteByte('{')
		for i, name := range val.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			printString(b, name)
			b.WriteByte(':')
			entry, _ := val.Get(name)
			printValue(b, entry)
		}
		b.WriteByte('}')
	}
}

// printString writes s bare when it reads back as the same string,
// quoted otherwise. A bare word must use the unquoted charset AND not
// classify as a number or boolean — "1.5" or "true" written bare
// would come back as a different type.
func printString(b *strings.Builder, s string) {
	if isBareWord(s) {
		b.WriteString(s)
		return
	}
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
}

func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBareChar(s[i]) {
			return false
		}
	}
	if _, ok := classifyBare(s); ok {
		// Parses as a number or boolean, so it must be quoted to
		// stay a string.
		return false
	}
	return true
}
