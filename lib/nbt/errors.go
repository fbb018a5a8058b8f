// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package nbt

import "errors"

// Unmarshal failure sentinels. Unmarshal wraps these with positional
// context; match with errors.Is.
var (
	// ErrTruncatedInput indicates the input ended in the middle of a
	// fixed-width read (a tag byte, scalar, or length prefix).
	ErrTruncatedInput = errors.New("nbt: truncated input")

	// ErrUnknownTag indicates a tag byte outside the defined range,
	// or an End tag where a value tag is required.
	ErrUnknownTag = errors.New("nbt: unknown tag")

	// ErrOutOfBounds indicates a declared length or count that is
	// negative or would read past the end of the input.
	ErrOutOfBounds = errors.New("nbt: length out of bounds")

	// ErrResourceLimit indicates the input nests containers deeper
	// than MaxDepth. Reported before descending, so decoding a
	// hostile input allocates no more than the input's own size.
	ErrResourceLimit = errors.New("nbt: resource limit exceeded")

	// ErrTrailingData indicates well-formed input followed by extra
	// bytes. A serialized tree occupies its buffer exactly; trailing
	// bytes mean the buffer does not correspond to any single tree.
	ErrTrailingData = errors.New("nbt: trailing data after root value")
)

// ErrInvalidTree indicates a tree that violates the model's own
// invariants: a list element whose tag differs from the list's, a
// string or name longer than 65535 bytes, invalid UTF-8 in a string
// or name, or a compound entry sequence with duplicate names. On the
// Marshal path this is a caller contract violation; on the Unmarshal
// path it marks input that encodes no valid tree.
var ErrInvalidTree = errors.New("nbt: invalid tree")
