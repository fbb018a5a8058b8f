// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

// Package nbt implements the Named Binary Tag tree model and its
// canonical binary serialization. NBT is the self-describing tagged
// binary format spells are expressed in: every value carries a tag
// byte identifying its variant, so decoding needs no external schema.
//
// # Data Model
//
// Scalars: Byte, Short, Int, Long (two's-complement, fixed width),
// Float, Double, String (UTF-8, at most 65535 bytes). Bulk leaves:
// ByteArray, IntArray, LongArray. Containers: List (ordered,
// homogeneous — the element tag is fixed at construction) and
// Compound (ordered name → value mapping with unique names).
//
// Values form a tree by construction: containers own their children
// exclusively and there is no sharing or cycle support.
//
// # Binary Layout
//
// All multi-byte quantities are big-endian. Each value is written as
// a tag byte followed by its payload:
//
//   - scalars: the fixed-width two's-complement or IEEE 754 bytes
//   - String: uint16 byte length, then the UTF-8 bytes
//   - ByteArray/IntArray/LongArray: int32 element count, then elements
//   - List: element tag byte, int32 count, then element payloads
//     (elements carry no individual tag bytes)
//   - Compound: a sequence of (tag byte, uint16 name length, name,
//     payload) entries terminated by a single End tag byte
//
// Two root layouts ("flavors") exist. FlavorNamed writes an empty
// name between the root tag byte and the root payload, matching the
// classic file layout; FlavorUnnamed omits the name, matching the
// network layout. The flavor is chosen by the caller (in practice by
// the spellcodec version registry) — it is never detected from the
// data.
//
// # Decoding Untrusted Input
//
// Unmarshal is the only place untrusted bytes enter the tree model,
// so it validates every declared length and count against the
// remaining input before allocating, and enforces a nesting depth
// ceiling. Failures are reported through sentinel errors
// (ErrTruncatedInput, ErrUnknownTag, ErrOutOfBounds,
// ErrResourceLimit, ErrTrailingData) matchable with errors.Is; no
// partial tree is ever returned alongside an error.
package nbt
