// Package seq converts between textual base sequences and the 2-bit packed
// integer representation used by the ibu record fields.
//
// Each base maps to a 2-bit code (A=0, C=1, G=2, T=3), packed right-aligned
// into a uint64: the last base of the sequence occupies the two lowest bits.
// Up to 32 bases fit one field.
package seq

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLen is the longest sequence that fits a packed uint64.
const MaxLen = 32

// ErrInvalidBase indicates a symbol outside ACGT (case-insensitive).
var ErrInvalidBase = errors.New("invalid base symbol")

// ErrTooLong indicates a sequence longer than MaxLen bases.
var ErrTooLong = errors.New("sequence too long")

const bases = "ACGT"

// Pack encodes a base string into its 2-bit packed representation.
func Pack(s string) (uint64, error) {
	if len(s) > MaxLen {
		return 0, fmt.Errorf("%w: %d bases (max %d)", ErrTooLong, len(s), MaxLen)
	}
	var packed uint64
	for i := 0; i < len(s); i++ {
		var code uint64
		switch s[i] {
		case 'A', 'a':
			code = 0
		case 'C', 'c':
			code = 1
		case 'G', 'g':
			code = 2
		case 'T', 't':
			code = 3
		default:
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidBase, s[i], i)
		}
		packed = packed<<2 | code
	}
	return packed, nil
}

// Unpack decodes n bases from a packed value into upper-case text. Bits
// beyond 2*n are ignored.
func Unpack(packed uint64, n int) string {
	if n <= 0 {
		return ""
	}
	if n > MaxLen {
		n = MaxLen
	}
	var b strings.Builder
	b.Grow(n)
	for i := n - 1; i >= 0; i-- {
		b.WriteByte(bases[packed>>(2*i)&0x3])
	}
	return b.String()
}
