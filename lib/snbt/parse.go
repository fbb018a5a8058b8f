// Copyright 2026 The Grimoire Authors
// SPDX-License-Identifier: Apache-2.0

package snbt

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/grimoire-foundation/grimoire/lib/nbt"
)

// ErrSyntax indicates text that does not parse as stringified form.
// Parse errors wrap it and name the byte offset of the problem.
var ErrSyntax = errors.New("snbt: syntax error")

// maxDepth mirrors the binary decoder's nesting ceiling — text input
// is just as untrusted as binary input.
const maxDepth = nbt.MaxDepth

// Parse reads one value from text. The whole input must be consumed;
// surrounding whitespace is allowed.
func Parse(text string) (nbt.Value, error) {
	p := &parser{src: text}
	p.skipSpace()
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.off != len(p.src) {
		return nil, p.errorf("trailing characters")
	}
	return v, nil
}

type parser struct {
	src string
	off int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.off, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.off < len(p.src) {
		switch p.src[p.off] {
		case ' ', '\t', '\n', '\r':
			p.off++
		default:
			return
		}
	}
}

// peek returns the next byte without consuming it, or 0 at the end.
func (p *parser) peek() byte {
	if p.off >= len(p.src) {
		return 0
	}
	return p.src[p.off]
}

func (p *parser) value(depth int) (nbt.Value, error) {
	if depth >= maxDepth {
		return nil, p.errorf("nesting deeper than %d", maxDepth)
	}

	switch c := p.peek(); c {
	case '{':
		return p.compound(depth)
	case '[':
		return p.listOrArray(depth)
	case '"', '\'':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return nbt.String(s), nil
	case 0:
		return nil, p.errorf("unexpected end of input")
	default:
		token := p.bareToken()
		if token == "" {
			return nil, p.errorf("unexpected character %q", c)
		}
		if v, ok := classifyBare(token); ok {
			return v, nil
		}
		return nbt.String(token), nil
	}
}

func (p *parser) compound(depth int) (nbt.Value, error) {
	p.off++ // '{'
	out := nbt.NewCompound()

	p.skipSpace()
	if p.peek() == '}' {
		p.off++
		return out, nil
	}

	for {
		p.skipSpace()
		name, err := p.name()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		// Both : and = assign — hand-written spell text uses either.
		if c := p.peek(); c != ':' && c != '=' {
			return nil, p.errorf("expected ':' after name %q", name)
		}
		p.off++

		p.skipSpace()
		entry, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		if _, exists := out.Get(name); exists {
			return nil, p.errorf("duplicate name %q", name)
		}
		out.Set(name, entry)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.off++
			p.skipSpace()
			if p.peek() == '}' { // trailing comma
				p.off++
				return out, nil
			}
		case '}':
			p.off++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

// name reads a compound entry name: a quoted string or a bare word.
// Names never classify as numbers — {7:x} names the entry "7".
func (p *parser) name() (string, error) {
	if c := p.peek(); c == '"' || c == '\'' {
		return p.quoted()
	}
	token := p.bareToken()
	if token == "" {
		return "", p.errorf("expected entry name")
	}
	return token, nil
}

func (p *parser) listOrArray(depth int) (nbt.Value, error) {
	p.off++ // '['

	// Typed array prefixes: [B; [I; [L;
	if p.off+1 < len(p.src) && p.src[p.off+1] == ';' {
		switch p.src[p.off] {
		case 'B':
			p.off += 2
			return p.typedArray(nbt.TagByteArray)
		case 'I':
			p.off += 2
			return p.typedArray(nbt.TagIntArray)
		case 'L':
			p.off += 2
			return p.typedArray(nbt.TagLongArray)
		}
	}

	list := (*nbt.List)(nil)
	p.skipSpace()
	if p.peek() == ']' {
		p.off++
		return nbt.NewList(nbt.TagEnd), nil
	}

	for {
		p.skipSpace()
		at := p.off
		item, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = nbt.NewList(item.Tag())
		}
		if err := list.Append(item); err != nil {
			p.off = at
			return nil, p.errorf("%s element in %s list", item.Tag(), list.ElementTag())
		}

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.off++
			p.skipSpace()
			if p.peek() == ']' { // trailing comma
				p.off++
				return list, nil
			}
		case ']':
			p.off++
			return list, nil
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}

// typedArray reads the elements of a [B; [I; or [L; array. Elements
// are integer literals; a width suffix is tolerated as long as the
// value fits the array's element type.
func (p *parser) typedArray(kind nbt.Tag) (nbt.Value, error) {
	var bytes []byte
	var ints []int32
	var longs []int64

	p.skipSpace()
	for p.peek() != ']' {
		p.skipSpace()
		at := p.off
		token := p.bareToken()
		n, err := arrayElement(token, kind)
		if err != nil {
			p.off = at
			return nil, p.errorf("%v", err)
		}
		switch kind {
		case nbt.TagByteArray:
			bytes = append(bytes, byte(n))
		case nbt.TagIntArray:
			ints = append(ints, int32(n))
		case nbt.TagLongArray:
			longs = append(longs, n)
		}

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.off++
			p.skipSpace()
		case ']':
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
	p.off++ // ']'

	switch kind {
	case nbt.TagByteArray:
		return nbt.ByteArray(bytes), nil
	case nbt.TagIntArray:
		return nbt.IntArray(ints), nil
	default:
		return nbt.LongArray(longs), nil
	}
}

func arrayElement(token string, kind nbt.Tag) (int64, error) {
	if token == "" {
		return 0, fmt.Errorf("expected integer array element")
	}
	v, ok := classifyBare(token)
	if !ok {
		return 0, fmt.Errorf("array element %q is not a number", token)
	}

	var n int64
	switch num := v.(type) {
	case nbt.Byte:
		n = int64(num)
	case nbt.Short:
		n = int64(num)
	case nbt.Int:
		n = int64(num)
	case nbt.Long:
		n = int64(num)
	default:
		return 0, fmt.Errorf("array element %q is not an integer", token)
	}

	var min, max int64
	switch kind {
	case nbt.TagByteArray:
		min, max = -128, 127
	case nbt.TagIntArray:
		min, max = -2147483648, 2147483647
	default:
		min, max = -1<<63, 1<<63-1
	}
	if n < min || n > max {
		return 0, fmt.Errorf("array element %d outside [%d, %d]", n, min, max)
	}
	return n, nil
}

// quoted reads a string delimited by " or ', with \ escapes. The
// content must be valid UTF-8 — the tree model rejects anything else
// at serialization time, and reporting it here keeps the byte offset.
func (p *parser) quoted() (string, error) {
	start := p.off
	quote := p.src[p.off]
	p.off++

	var out []byte
	for p.off < len(p.src) {
		c := p.src[p.off]
		p.off++
		switch c {
		case quote:
			if !utf8.Valid(out) {
				p.off = start
				return "", p.errorf("string is not valid UTF-8")
			}
			return string(out), nil
		case '\\':
			if p.off >= len(p.src) {
				return "", p.errorf("unterminated string")
			}
			e := p.src[p.off]
			p.off++
			switch e {
			case '\\', '"', '\'':
				out = append(out, e)
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				p.off -= 2
				return "", p.errorf("invalid escape %q", string([]byte{'\\', e}))
			}
		default:
			out = append(out, c)
		}
	}
	return "", p.errorf("unterminated string")
}

// bareToken consumes a run of unquoted word characters.
func (p *parser) bareToken() string {
	start := p.off
	for p.off < len(p.src) && isBareChar(p.src[p.off]) {
		p.off++
	}
	return p.src[start:p.off]
}

func isBareChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.' || c == '+':
		return true
	default:
		return false
	}
}

// classifyBare types a bare token: boolean, suffixed numeric, plain
// integer (Int), or decimal (Double). Returns false for tokens that
// stay strings.
func classifyBare(token string) (nbt.Value, bool) {
	switch token {
	case "true":
		return nbt.Byte(1), true
	case "false":
		return nbt.Byte(0), true
	case "":
		return nil, false
	}

	body := token[:len(token)-1]
	switch token[len(token)-1] {
	case 'b', 'B':
		if n, err := strconv.ParseInt(body, 10, 8); err == nil {
			return nbt.Byte(n), true
		}
	case 's', 'S':
		if n, err := strconv.ParseInt(body, 10, 16); err == nil {
			return nbt.Short(n), true
		}
	case 'l', 'L':
		if n, err := strconv.ParseInt(body, 10, 64); err == nil {
			return nbt.Long(n), true
		}
	case 'f', 'F':
		if f, err := strconv.ParseFloat(body, 32); err == nil {
			return nbt.Float(f), true
		}
	case 'd', 'D':
		if f, err := strconv.ParseFloat(body, 64); err == nil {
			return nbt.Double(f), true
		}
	}

	if n, err := strconv.ParseInt(token, 10, 32); err == nil {
		return nbt.Int(n), true
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return nbt.Double(f), true
	}
	return nil, false
}
