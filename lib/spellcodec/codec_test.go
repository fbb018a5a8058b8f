// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package spellcodec

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

// spellTree builds a representative spell for round-trip tests.
func spellTree(t *testing.T) *nbt.Compound {
	t.Helper()

	glyphs := nbt.NewList(nbt.TagCompound)
	for _, key := range []string{"connector", "constant_number", "vector_construct"} {
		g := nbt.NewCompound()
		g.Set("key", nbt.String(key))
		g.Set("x", nbt.Byte(3))
		g.Set("y", nbt.Byte(7))
		if err := glyphs.Append(g); err != nil {
			t.Fatalf("building glyph list: %v", err)
		}
	}

	root := nbt.NewCompound()
	root.Set("spellName", nbt.String("Flame Burst"))
	root.Set("spellList", glyphs)
	root.Set("validSpell", nbt.Byte(1))
	return root
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tree := spellTree(t)

	text, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !nbt.Equal(tree, got) {
		t.Error("round trip is not structurally equal")
	}
}

func TestEncodeEmitsCurrentVersion(t *testing.T) {
	text, err := Encode(nbt.NewCompound())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	raw, err := fromText(text)
	if err != nil {
		t.Fatalf("fromText failed on Encode output: %v", err)
	}
	if len(raw) == 0 || raw[0] != byte(CurrentVersion) {
		t.Errorf("version tag = %d, want %d", raw[0], byte(CurrentVersion))
	}
}

func TestRoundTripSimpleCompound(t *testing.T) {
	tree := nbt.NewCompound()
	tree.Set("power", nbt.Int(7))

	text, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	c, ok := got.(*nbt.Compound)
	if !ok {
		t.Fatalf("Decode returned %T, want *nbt.Compound", got)
	}
	v, ok := c.Get("power")
	if !ok || !nbt.Equal(v, nbt.Int(7)) {
		t.Errorf(`decoded tree = %v, want {"power": 7}`, c)
	}
}

func TestRoundTripEmptyContainers(t *testing.T) {
	for _, tree := range []nbt.Value{nbt.NewCompound(), nbt.NewList(nbt.TagEnd)} {
		text, err := Encode(tree)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := Decode(text)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !nbt.Equal(tree, got) {
			t.Errorf("empty container round trip: got %#v, want %#v", got, tree)
		}
	}
}

func TestDecodeDeterministic(t *testing.T) {
	text, err := Encode(spellTree(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	first, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Decode(text)
		if err != nil {
			t.Fatalf("Decode failed on repeat %d: %v", i, err)
		}
		if !nbt.Equal(first, again) {
			t.Fatal("Decode is not deterministic")
		}
	}
}

func TestDecodeAllHistoricalVersions(t *testing.T) {
	tree := spellTree(t)

	for version := range pipelines {
		t.Run(version.String(), func(t *testing.T) {
			text, err := encodeAt(tree, version)
			if err != nil {
				t.Fatalf("encodeAt(%s) failed: %v", version, err)
			}
			got, err := Decode(text)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !nbt.Equal(tree, got) {
				t.Error("historical round trip is not structurally equal")
			}
		})
	}
}

// Golden strings produced by independent compressor implementations
// encoding {"power": Int 7}. They pin the decode-only registry rows:
// these exact strings exist in archives and must decode forever. The
// tag-3 string carries an uncompressed LZ4 block, which a foreign
// encoder may legally emit for tiny payloads.
func TestDecodeGoldenArchiveStrings(t *testing.T) {
	want := nbt.NewCompound()
	want.Set("power", nbt.Int(7))

	tests := []struct {
		version Version
		text    string
	}{
		{VersionGzip, "AR-LCAAAAAAAAgPjYmBgZmAtyC9PLWJgYGBnAADeO7bXEAAAAA"},
		{VersionZlib, "Anja42JgYGZgLcgvTy1iYGBgZwAAEooCRw"},
		{VersionLZ4, "AwQiTRhgQIIOAACACgMABXBvd2VyAAAABwAAAAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			got, err := Decode(tt.text)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !nbt.Equal(want, got) {
				t.Errorf("golden string decoded to %#v, want {power:7}", got)
			}
		})
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	// One past the highest registered tag, wrapping a valid zstd
	// stream so only the tag is at fault.
	compressed, err := compress([]byte{0x0a, 0x00}, compressionZstd)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	raw := append([]byte{byte(CurrentVersion) + 1}, compressed...)

	_, err = Decode(toText(raw))
	var unsupported *UnsupportedVersionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Decode error = %v, want UnsupportedVersionError", err)
	}
	if unsupported.Tag != byte(CurrentVersion)+1 {
		t.Errorf("UnsupportedVersionError.Tag = %d, want %d", unsupported.Tag, byte(CurrentVersion)+1)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := Decode(""); !errors.Is(err, ErrTruncated) {
		t.Errorf("Decode(\"\") = %v, want ErrTruncated", err)
	}
}

func TestDecodeTruncatedByOneCharacter(t *testing.T) {
	text, err := Encode(spellTree(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	_, err = Decode(text[:len(text)-1])
	if err == nil {
		t.Fatal("Decode of a truncated string should fail")
	}
	if !errors.Is(err, ErrInvalidLength) && !errors.Is(err, ErrTruncated) && !errors.Is(err, ErrCorruptStream) {
		t.Errorf("Decode error = %v, want ErrInvalidLength, ErrTruncated, or ErrCorruptStream", err)
	}
}

// Chopping the tail off at EVERY length must fail, not just at the
// last character — a prefix of a valid encoded string never decodes
// to a tree.
func TestDecodeAnyPrefixFails(t *testing.T) {
	text, err := Encode(spellTree(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for n := 0; n < len(text); n++ {
		if _, err := Decode(text[:n]); err == nil {
			t.Fatalf("Decode succeeded on a %d-character prefix of a %d-character string", n, len(text))
		}
	}
}

func TestDecodeInvalidCharacterAppended(t *testing.T) {
	text, err := Encode(spellTree(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	_, err = Decode(text + "!")
	if !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("Decode error = %v, want ErrInvalidCharacter", err)
	}
}

func TestDecodeCorruptPayload(t *testing.T) {
	// A version tag followed by bytes that are not a zstd frame.
	raw := []byte{byte(VersionZstd), 'n', 'o', 't', 'z', 's', 't', 'd'}
	_, err := Decode(toText(raw))
	if !errors.Is(err, ErrCorruptStream) {
		t.Errorf("Decode error = %v, want ErrCorruptStream", err)
	}
}

func TestDecodePropagatesDeserializerErrors(t *testing.T) {
	// Valid envelope and compression around garbage serialization:
	// an unknown tag byte as the root.
	compressed, err := compress([]byte{0x0d}, compressionZstd)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	raw := append([]byte{byte(VersionZstd)}, compressed...)

	_, err = Decode(toText(raw))
	if !errors.Is(err, nbt.ErrUnknownTag) {
		t.Errorf("Decode error = %v, want nbt.ErrUnknownTag", err)
	}
}

func TestEncodeInvalidTree(t *testing.T) {
	tree := nbt.NewCompound()
	tree.Set("name", nbt.String(strings.Repeat("x", 70000)))

	_, err := Encode(tree)
	if !errors.Is(err, nbt.ErrInvalidTree) {
		t.Errorf("Encode error = %v, want nbt.ErrInvalidTree", err)
	}
}

func TestEncodedStringIsURLSafe(t *testing.T) {
	text, err := Encode(spellTree(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.ContainsAny(text, "+/=") {
		t.Errorf("encoded string contains non-URL-safe characters: %q", text)
	}
	if _, err := base64.RawURLEncoding.DecodeString(text); err != nil {
		t.Errorf("encoded string is not unpadded URL-safe base64: %v", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	tree := spellTree(t)
	text, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				encoded, err := Encode(tree)
				if err != nil {
					done <- err
					return
				}
				decoded, err := Decode(encoded)
				if err != nil {
					done <- err
					return
				}
				if !nbt.Equal(tree, decoded) {
					done <- errors.New("concurrent round trip mismatch")
					return
				}
				if _, err := Decode(text); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
