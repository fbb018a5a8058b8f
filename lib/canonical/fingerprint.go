// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

// Digest is a 32-byte BLAKE3 spell fingerprint.
type Digest [32]byte

// spellDomainKey is the 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures spell fingerprints can never collide with hashes
// of the same bytes computed elsewhere. The value is the ASCII domain
// name zero-padded to 32 bytes — readable in hex dumps, and BLAKE3
// keyed mode treats the key as opaque, so readability costs nothing.
// Fixed forever: changing it invalidates every archived fingerprint.
var spellDomainKey = [32]byte{
	'g', 'r', 'i', 'm', 'o', 'i', 'r', 'e', '.', 's', 'p', 'e', 'l', 'l', 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint computes the spell-domain BLAKE3 keyed hash of the
// tree's canonical bytes. Two trees have equal fingerprints exactly
// when they are structurally equal — compound entry order and the
// codec version a spell was archived under do not affect it.
func Fingerprint(v nbt.Value) (Digest, error) {
	data, err := Marshal(v)
	if err != nil {
		return Digest{}, err
	}

	hasher, err := blake3.NewKeyed(spellDomainKey[:])
	if err != nil {
		panic("canonical: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// String returns the hex encoding of the digest, the canonical form
// for archive indexes and log output.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a hex-encoded fingerprint. The input must be
// exactly 64 hex characters.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("fingerprint is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
