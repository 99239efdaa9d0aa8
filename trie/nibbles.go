// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trie

import (
	"strings"
)

// Nibble is a 4-bit value in the range 0-F. It is a single letter of a path
// used to navigate in a Merkle-Patricia trie.
type Nibble byte

// Rune converts a Nibble in a hexa-decimal rune (0-9a-f).
func (n Nibble) Rune() rune {
	if n < 10 {
		return rune('0' + n)
	} else if n < 16 {
		return rune('a' + n - 10)
	} else {
		return '?'
	}
}

// String converts a Nibble in a hexa-decimal string (0-9a-f).
func (n Nibble) String() string {
	return string(n.Rune())
}

// Nibbles is an immutable sequence of nibbles identifying a position in a
// trie. The empty sequence refers to the root. Each nibble occupies one byte
// of the underlying string, which makes the lexicographical string order the
// nibble order and allows Nibbles to be used as map keys.
type Nibbles string

// NewNibbles creates a path from the given nibbles. It panics if any of the
// values is not a valid nibble.
func NewNibbles(nibbles ...Nibble) Nibbles {
	var builder strings.Builder
	builder.Grow(len(nibbles))
	for _, n := range nibbles {
		if n > 0xF {
			panic("invalid nibble value")
		}
		builder.WriteByte(byte(n))
	}
	return Nibbles(builder.String())
}

// NibblesFromBytes unpacks the given bytes into a path, two nibbles per byte,
// high nibble first.
func NibblesFromBytes(data []byte) Nibbles {
	res := make([]byte, 2*len(data))
	for i, b := range data {
		res[2*i] = b >> 4
		res[2*i+1] = b & 0xF
	}
	return Nibbles(res)
}

// NibblesFromUnpacked interprets one nibble per byte, as produced by Bytes.
func NibblesFromUnpacked(data []byte) (Nibbles, bool) {
	for _, b := range data {
		if b > 0xF {
			return "", false
		}
	}
	return Nibbles(data), true
}

func (n Nibbles) Len() int {
	return len(n)
}

func (n Nibbles) IsEmpty() bool {
	return len(n) == 0
}

func (n Nibbles) At(i int) Nibble {
	return Nibble(n[i])
}

// Compare orders paths lexicographically; a proper prefix sorts first.
func (n Nibbles) Compare(other Nibbles) int {
	return strings.Compare(string(n), string(other))
}

func (n Nibbles) HasPrefix(prefix Nibbles) bool {
	return strings.HasPrefix(string(n), string(prefix))
}

// Append returns a new path extended by the given nibbles.
func (n Nibbles) Append(nibbles ...Nibble) Nibbles {
	return n + NewNibbles(nibbles...)
}

// Bytes returns the unpacked form, one nibble per byte. This is the form
// used for ordered keys in durable tables.
func (n Nibbles) Bytes() []byte {
	return []byte(n)
}

// Pack packs the path into bytes, two nibbles per byte. An odd trailing
// nibble is stored in the high half of the last byte.
func (n Nibbles) Pack() []byte {
	res := make([]byte, (len(n)+1)/2)
	for i := 0; i < len(n); i++ {
		if i%2 == 0 {
			res[i/2] = n[i] << 4
		} else {
			res[i/2] |= n[i]
		}
	}
	return res
}

func (n Nibbles) String() string {
	var builder strings.Builder
	builder.Grow(len(n))
	for i := 0; i < len(n); i++ {
		builder.WriteRune(Nibble(n[i]).Rune())
	}
	return builder.String()
}

// successor returns the smallest path strictly greater than n.
func (n Nibbles) successor() Nibbles {
	return n + "\x00"
}
