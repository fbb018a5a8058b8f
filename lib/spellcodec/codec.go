// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package spellcodec

import (
	"fmt"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

// Encode converts a spell tree to its archive string: serialize,
// compress, prepend the current version tag, base64-encode. The tree
// is treated as opaque — any well-formed nbt.Value is accepted, with
// a compound root being spell convention, not a codec rule.
//
// Encode fails only when the tree itself is invalid (nbt.ErrInvalidTree:
// mistagged list elements, oversized strings, non-UTF-8 names). That
// is a caller contract violation, not a runtime condition.
func Encode(tree nbt.Value) (string, error) {
	return encodeAt(tree, CurrentVersion)
}

// encodeAt runs the pipeline registered for the given version. Only
// CurrentVersion is reachable through the public API; tests use the
// historical rows to manufacture fixtures for the decode paths.
func encodeAt(tree nbt.Value, version Version) (string, error) {
	p, err := lookup(byte(version))
	if err != nil {
		return "", err
	}

	payload, err := nbt.Marshal(tree, p.flavor)
	if err != nil {
		return "", err
	}

	compressed, err := compress(payload, p.compression)
	if err != nil {
		return "", fmt.Errorf("compressing spell: %w", err)
	}

	raw := make([]byte, 0, 1+len(compressed))
	raw = append(raw, byte(version))
	raw = append(raw, compressed...)
	return toText(raw), nil
}

// Decode converts an archive string back to its spell tree,
// dispatching on the version tag to the pipeline that produced it.
// Errors carry the failing stage's sentinel (see the package
// documentation) and are terminal — no partial tree is returned.
func Decode(text string) (nbt.Value, error) {
	raw, err := fromText(text)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no version tag", ErrTruncated)
	}

	p, err := lookup(raw[0])
	if err != nil {
		return nil, err
	}

	payload, err := decompress(raw[1:], p.compression)
	if err != nil {
		return nil, fmt.Errorf("spell version %s: %w", Version(raw[0]), err)
	}

	tree, err := nbt.Unmarshal(payload, p.flavor)
	if err != nil {
		return nil, fmt.Errorf("deserializing spell version %s: %w", Version(raw[0]), err)
	}
	return tree, nil
}
