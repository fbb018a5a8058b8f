// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

// Package canonical gives every spell tree a single canonical byte
// form and a content fingerprint derived from it.
//
// Archives store, diff, and deduplicate spells. The codec's binary
// form cannot serve as an identity: compound entries serialize in
// insertion order, and the same tree re-encoded under a different
// codec version yields different bytes. The canonical form removes
// both sources of variation.
//
// Marshal encodes a tree as CBOR under Core Deterministic Encoding
// (RFC 8949 §4.2): every node becomes a small array carrying its
// native tag alongside its payload, so integer and float widths
// survive the trip; compounds become CBOR maps, which deterministic
// encoding sorts by key. Same logical tree — regardless of entry
// order or codec version of origin — always produces identical bytes.
// Unmarshal is the exact inverse.
//
// Fingerprint is the 32-byte BLAKE3 keyed hash of the canonical
// bytes. The key is a fixed spell-domain constant, so fingerprints
// can never collide with hashes computed in any other domain.
package canonical
