// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package spellcodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// The text alphabet is URL-safe base64 (RFC 4648 §5): spell strings
// travel in URLs and chat messages, where + and / are hazardous.
// Encoding emits no padding; decoding also accepts fully padded input
// so hand-archived strings survive.

// toText encodes raw bytes as unpadded URL-safe base64. Total over
// any input, including empty.
func toText(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

// fromText decodes URL-safe base64, padded or unpadded. Characters
// outside the alphabet fail with ErrInvalidCharacter; lengths
// impossible under the applicable padding rule fail with
// ErrInvalidLength. Nonzero bits after the last encoded byte of a
// final group are tolerated, as RFC 4648 permits of non-validating
// decoders (the stdlib decoder checks them only in Strict mode).
func fromText(text string) ([]byte, error) {
	enc := base64.RawURLEncoding
	if strings.HasSuffix(text, "=") {
		// Padded input must be a whole number of 4-character groups.
		if len(text)%4 != 0 {
			return nil, fmt.Errorf("%w: %d characters with padding", ErrInvalidLength, len(text))
		}
		enc = base64.URLEncoding
	} else if len(text)%4 == 1 {
		// No unpadded encoding produces length ≡ 1 (mod 4).
		return nil, fmt.Errorf("%w: %d characters", ErrInvalidLength, len(text))
	}

	raw, err := enc.DecodeString(text)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) && int64(corrupt) < int64(len(text)) && !inAlphabet(text[corrupt]) {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, text[corrupt], int64(corrupt))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidLength, err)
	}
	return raw, nil
}

// inAlphabet reports whether c is a URL-safe base64 data character.
// Padding is deliberately excluded: a '=' anywhere the decoder
// chokes on is a character problem, not a length problem.
func inAlphabet(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}
