// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

// Package snbt converts spell trees to and from the stringified text
// form, the human-readable notation spell tooling trades in:
//
//	{name:"Flame Burst",power:7,costs:[1b,2b],grid:[I;0,1,4]}
//
// Print is deterministic for a given tree (compound entries appear in
// insertion order) and Parse(Print(v)) is structurally equal to v for
// every well-formed tree.
//
// Parse is tolerant the way hand-written spell text demands: both :
// and = assign entries, both " and ' quote strings, commas may trail,
// whitespace is free. It is strict where data could be lost: mixed
// list element types, duplicate compound names, and out-of-range
// typed numbers are errors, not coercions. Errors report the byte
// offset of the problem and wrap ErrSyntax.
//
// Numeric literals carry width suffixes (7b, 7s, 7l, 1.5f, 1.5d); an
// unsuffixed integer is an Int and an unsuffixed decimal a Double.
// true and false read as Byte 1 and 0. Typed arrays use the [B;…],
// [I;…], [L;…] prefixes.
package snbt
