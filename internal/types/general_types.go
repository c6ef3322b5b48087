package types

import (
	"fmt"
	"time"
)

// Dialect identifies which on-disk variant of the HFS family a structure belongs to.
type Dialect uint8

const (
	// DialectHFS is the classic Hierarchical File System (MacRoman names, 16-bit block numbers).
	DialectHFS Dialect = iota

	// DialectHFSPlus is HFS Plus. Catalog keys always use case-folding comparison.
	DialectHFSPlus

	// DialectHFSX is the HFS Plus variant whose catalog compare type is selectable.
	DialectHFSX
)

// String returns the conventional name of the dialect
func (d Dialect) String() string {
	switch d {
	case DialectHFS:
		return "HFS"
	case DialectHFSPlus:
		return "HFS+"
	case DialectHFSX:
		return "HFSX"
	default:
		return fmt.Sprintf("Dialect(%d)", uint8(d))
	}
}

// IsHFSPlusFamily reports whether the dialect uses the HFS+ record layouts.
func (d Dialect) IsHFSPlusFamily() bool {
	return d == DialectHFSPlus || d == DialectHFSX
}

// MacEpochOffset is the number of seconds between 1904-01-01 and 1970-01-01.
const MacEpochOffset = 2082844800

// MacTimeToTime converts an HFS timestamp (seconds since 1904-01-01) to a time.Time.
// Classic HFS stores local time, HFS+ stores UTC; both are returned as UTC.
func MacTimeToTime(t uint32) time.Time {
	return time.Unix(int64(t)-MacEpochOffset, 0).UTC()
}

// FourCC is a four character code such as a Finder file type or DS_Store struct type.
type FourCC uint32

// NewFourCC builds a FourCC from its four ASCII characters.
func NewFourCC(s string) FourCC {
	var v uint32
	for i := 0; i < 4 && i < len(s); i++ {
		v = v<<8 | uint32(s[i])
	}
	return FourCC(v)
}

// String returns the four characters of the code
func (f FourCC) String() string {
	b := []byte{byte(f >> 24), byte(f >> 16), byte(f >> 8), byte(f)}
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			b[i] = '.'
		}
	}
	return string(b)
}
