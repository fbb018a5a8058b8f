// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package spellcodec

import (
	"fmt"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

// Version identifies a pipeline variant. The tag is the first byte of
// every decoded spell string, so these values are protocol constants —
// a tag, once issued, is never reassigned.
type Version byte

const (
	// VersionGzip is the original format: gzip-wrapped named-root
	// serialization.
	VersionGzip Version = 1

	// VersionZlib replaced the gzip wrapper with the lighter zlib
	// framing (same deflate stream, 13 fewer header bytes).
	VersionZlib Version = 2

	// VersionLZ4 moved to LZ4 frames and dropped the root name from
	// the serialization.
	VersionLZ4 Version = 3

	// VersionZstd is the current format: zstd compression,
	// unnamed-root serialization.
	VersionZstd Version = 4

	// CurrentVersion is the tag Encode emits.
	CurrentVersion = VersionZstd
)

// String returns the version's name.
func (v Version) String() string {
	switch v {
	case VersionGzip:
		return "v1-gzip"
	case VersionZlib:
		return "v2-zlib"
	case VersionLZ4:
		return "v3-lz4"
	case VersionZstd:
		return "v4-zstd"
	default:
		return fmt.Sprintf("unknown(%d)", byte(v))
	}
}

// pipeline is the (compression, serializer flavor) pair registered
// for a version tag.
type pipeline struct {
	compression compression
	flavor      nbt.Flavor
}

// pipelines is the frozen version registry — the single place
// version-compatibility logic lives. Entries are append-only: adding
// a format means adding a tag and its pair here, never editing a
// published row. The golden tests in codec_test.go pin each row's
// byte-level behavior.
var pipelines = map[Version]pipeline{
	VersionGzip: {compressionGzip, nbt.FlavorNamed},
	VersionZlib: {compressionZlib, nbt.FlavorNamed},
	VersionLZ4:  {compressionLZ4, nbt.FlavorUnnamed},
	VersionZstd: {compressionZstd, nbt.FlavorUnnamed},
}

// lookup resolves a wire tag to its registered pipeline.
func lookup(tag byte) (pipeline, error) {
	p, ok := pipelines[Version(tag)]
	if !ok {
		return pipeline{}, &UnsupportedVersionError{Tag: tag}
	}
	return p, nil
}
