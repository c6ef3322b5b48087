package catalog

import (
	"cmp"
	"slices"
)

// FoldCase returns the case-folded value of a UTF-16 code unit, or 0 for ignorable units.
// NUL folds to 0xFFFF so that it sorts after every other character.
func FoldCase(u uint16) uint16 {
	if page := lowerCaseTable[u>>8]; page != 0 {
		return lowerCaseTable[int(page)+int(u&0xFF)]
	}
	return u
}

// FastUnicodeCompare orders two HFS+ names the way case-insensitive volumes sort their
// catalog: each code unit is folded through the lower case table, ignorable units are
// skipped, and the folded sequences are compared unit by unit.
func FastUnicodeCompare(a, b []uint16) int {
	i, j := 0, 0
	for {
		var c1, c2 uint16
		for c1 == 0 && i < len(a) {
			c1 = FoldCase(a[i])
			i++
		}
		for c2 == 0 && j < len(b) {
			c2 = FoldCase(b[j])
			j++
		}
		if c1 != c2 {
			return cmp.Compare(c1, c2)
		}
		if c1 == 0 {
			return 0
		}
	}
}

// BinaryUnicodeCompare orders two names by their unsigned code unit values, as
// HFSX volumes with binary comparison do
func BinaryUnicodeCompare(a, b []uint16) int {
	return slices.Compare(a, b)
}
