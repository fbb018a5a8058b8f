// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

// Package spellcodec converts spell trees to and from compact,
// archive-safe text strings.
//
// The pipeline is fixed: serialize the tree (lib/nbt), compress the
// bytes, prepend a one-byte version tag, and encode the whole thing —
// tag included — as URL-safe base64. Decoding runs the inverse,
// dispatching on the version tag to the exact (compression,
// serializer flavor) pair that produced the data.
//
// # Version History
//
// Encoded strings live forever in archives, chat logs, and URLs, so
// every tag ever emitted stays decodable. The registry:
//
//	tag 1: gzip, named-root serialization (decode only)
//	tag 2: zlib, named-root serialization (decode only)
//	tag 3: LZ4 frame, unnamed-root serialization (decode only)
//	tag 4: zstd, unnamed-root serialization (current)
//
// Encode always emits the current tag. A registered pair is frozen:
// format changes add a new tag, they never repurpose an old one.
// Compression level is deliberately NOT part of a pair — every
// supported decompressor accepts streams produced at any level, so
// the encoder's level can change without a new tag.
//
// # Errors
//
// Decode failures are categorized by the stage that detected them:
// ErrInvalidCharacter and ErrInvalidLength (text decoding),
// UnsupportedVersionError (dispatch), ErrCorruptStream and
// ErrTruncated (decompression), the lib/nbt sentinels
// (deserialization), and ErrResourceLimit (a declared size that would
// exceed the decode ceiling). All are terminal: no retry, no partial
// tree, no silent fallback. Resource-limit failures are reported
// distinctly because they are the hostile-input signal.
//
// The package holds no mutable state between calls; Encode and Decode
// are safe for unlimited concurrent use.
package spellcodec
