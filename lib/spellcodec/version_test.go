// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package spellcodec

import (
	"errors"
	"testing"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

func TestVersionString(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{VersionGzip, "v1-gzip"},
		{VersionZlib, "v2-zlib"},
		{VersionLZ4, "v3-lz4"},
		{VersionZstd, "v4-zstd"},
		{Version(0), "unknown(0)"},
		{Version(200), "unknown(200)"},
	}
	for _, tt := range tests {
		if got := tt.version.String(); got != tt.want {
			t.Errorf("Version(%d).String() = %q, want %q", byte(tt.version), got, tt.want)
		}
	}
}

// The registry rows are protocol constants. This test is a tripwire
// against accidental edits: a changed row would silently break every
// archived string carrying that tag.
func TestRegistryRowsAreFrozen(t *testing.T) {
	want := map[Version]pipeline{
		VersionGzip: {compressionGzip, nbt.FlavorNamed},
		VersionZlib: {compressionZlib, nbt.FlavorNamed},
		VersionLZ4:  {compressionLZ4, nbt.FlavorUnnamed},
		VersionZstd: {compressionZstd, nbt.FlavorUnnamed},
	}
	if len(pipelines) != len(want) {
		t.Fatalf("registry has %d rows, want %d", len(pipelines), len(want))
	}
	for version, row := range want {
		got, ok := pipelines[version]
		if !ok {
			t.Errorf("registry is missing tag %d", byte(version))
			continue
		}
		if got != row {
			t.Errorf("registry row for %s = %+v, want %+v", version, got, row)
		}
	}
}

func TestCurrentVersionIsRegistered(t *testing.T) {
	if _, ok := pipelines[CurrentVersion]; !ok {
		t.Fatal("CurrentVersion has no registry row")
	}
	for version := range pipelines {
		if version > CurrentVersion {
			t.Errorf("registry holds tag %d above CurrentVersion %d", byte(version), byte(CurrentVersion))
		}
	}
}

func TestLookupKnownTags(t *testing.T) {
	for version, want := range pipelines {
		got, err := lookup(byte(version))
		if err != nil {
			t.Errorf("lookup(%d) failed: %v", byte(version), err)
			continue
		}
		if got != want {
			t.Errorf("lookup(%d) = %+v, want %+v", byte(version), got, want)
		}
	}
}

func TestLookupUnknownTag(t *testing.T) {
	for _, tag := range []byte{0, byte(CurrentVersion) + 1, 0xff} {
		_, err := lookup(tag)
		var unsupported *UnsupportedVersionError
		if !errors.As(err, &unsupported) {
			t.Errorf("lookup(%d) = %v, want UnsupportedVersionError", tag, err)
			continue
		}
		if unsupported.Tag != tag {
			t.Errorf("UnsupportedVersionError.Tag = %d, want %d", unsupported.Tag, tag)
		}
	}
}
