// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package spellcodec

import (
	"errors"
	"fmt"
)

// Decode failure sentinels, one per pipeline stage. Decode wraps
// these with stage context; match with errors.Is. Deserialization
// failures surface the lib/nbt sentinels instead.
var (
	// ErrInvalidCharacter indicates a character outside the base64
	// alphabet in the encoded text.
	ErrInvalidCharacter = errors.New("spellcodec: invalid character in encoded text")

	// ErrInvalidLength indicates encoded text whose length is
	// impossible under the padding rule in use.
	ErrInvalidLength = errors.New("spellcodec: invalid encoded text length")

	// ErrCorruptStream indicates a compressed stream with a malformed
	// frame header or a failed checksum.
	ErrCorruptStream = errors.New("spellcodec: corrupt compressed stream")

	// ErrTruncated indicates a compressed stream that ended before
	// the decompressor signaled completion.
	ErrTruncated = errors.New("spellcodec: truncated compressed stream")

	// ErrResourceLimit indicates input whose decompressed size would
	// exceed MaxDecodedSize. Enforced while decoding, never after —
	// hostile inputs cannot force an unbounded allocation.
	ErrResourceLimit = errors.New("spellcodec: resource limit exceeded")
)

// UnsupportedVersionError indicates a version tag with no registered
// pipeline. The decoder never guesses: an unknown tag means data from
// a future (or corrupt) format, and silently applying another
// pipeline could produce a plausible but wrong tree.
type UnsupportedVersionError struct {
	// Tag is the unrecognized version byte.
	Tag byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("spellcodec: unsupported version tag %d", e.Tag)
}
