package catalog

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/deploymenttheory/go-hfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func plusKey(t *testing.T, compareType types.KeyCompareType, parentID types.CatalogNodeID, name string) *Key {
	t.Helper()
	s, err := EncodeHFSPlusString(name)
	require.NoError(t, err)
	k, err := NewHFSPlusKey(types.DialectHFSX, compareType, parentID, s)
	require.NoError(t, err)
	return k
}

func TestKeyCompareCaseSensitivity(t *testing.T) {
	tests := []struct {
		name        string
		compareType types.KeyCompareType
		wantEqual   bool
	}{
		{name: "case folding", compareType: types.KeyCompareCaseFolding, wantEqual: true},
		{name: "binary", compareType: types.KeyCompareBinary, wantEqual: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upper := plusKey(t, tt.compareType, 5, "FILE.TXT")
			lower := plusKey(t, tt.compareType, 5, "file.txt")
			if tt.wantEqual {
				assert.Zero(t, upper.Compare(lower))
				assert.Zero(t, lower.Compare(upper))
			} else {
				assert.NotZero(t, upper.Compare(lower))
				assert.Equal(t, -upper.Compare(lower), lower.Compare(upper))
			}
		})
	}
}

func TestKeyCompareStrictWeakOrder(t *testing.T) {
	names := []string{"", "a", "A", "ab", "Ab", "b", "Æther", "æther", "Zebra", "zebra", "Ω", "ω", "\u00e9", "e\u0301", "10", "9"}
	parents := []types.CatalogNodeID{2, 16}

	for _, ct := range []types.KeyCompareType{types.KeyCompareCaseFolding, types.KeyCompareBinary} {
		var keys []*Key
		for _, p := range parents {
			for _, n := range names {
				keys = append(keys, plusKey(t, ct, p, n))
			}
		}

		for _, a := range keys {
			for _, b := range keys {
				ab, ba := a.Compare(b), b.Compare(a)
				assert.Equal(t, sign(ab), -sign(ba), "%s: antisymmetry %s vs %s", ct, a, b)
				for _, c := range keys {
					if a.Compare(b) < 0 && b.Compare(c) < 0 {
						assert.Negative(t, a.Compare(c), "%s: transitivity %s < %s < %s", ct, a, b, c)
					}
				}
			}
		}
	}
}

func TestKeyCompareParentFirst(t *testing.T) {
	a := plusKey(t, types.KeyCompareCaseFolding, 2, "zzz")
	b := plusKey(t, types.KeyCompareCaseFolding, 16, "aaa")
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
}

func TestHFSKeyCompareBytes(t *testing.T) {
	upper, err := NewHFSKey(2, []byte("README"))
	require.NoError(t, err)
	lower, err := NewHFSKey(2, []byte("readme"))
	require.NoError(t, err)

	assert.Equal(t, types.KeyCompareBytes, upper.CompareType())
	assert.Negative(t, upper.Compare(lower))
	assert.Positive(t, lower.Compare(upper))

	_, err = NewHFSKey(2, make([]byte, 32))
	assert.Error(t, err)
}

func TestKeyCompareNonCatalogKey(t *testing.T) {
	k := plusKey(t, types.KeyCompareCaseFolding, 2, "a")
	raw := btrees.NewRawKey(k.Bytes())
	assert.Zero(t, k.Compare(raw))
}

func TestDecodeKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		data    []byte
	}{
		{name: "HFS+", dialect: types.DialectHFSPlus, data: testutil.HFSPlusCatalogKey(16, "Library")},
		{name: "HFS", dialect: types.DialectHFS, data: testutil.HFSCatalogKey(16, []byte("System Folder"))},
		{name: "empty name", dialect: types.DialectHFSPlus, data: testutil.HFSPlusCatalogKey(99, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := DecodeKey(tt.data, 0, tt.dialect, DefaultCompareType(tt.dialect))
			require.NoError(t, err)
			assert.Equal(t, tt.data, k.Bytes())
			assert.Equal(t, len(tt.data), k.OccupiedSize())
		})
	}
}

func TestDecodeKeyErrors(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		data    []byte
	}{
		{name: "HFS+ key length past data", dialect: types.DialectHFSPlus, data: []byte{0x00, 0x40, 0, 0, 0, 2, 0, 0}},
		{name: "HFS+ name length past key", dialect: types.DialectHFSPlus, data: []byte{0x00, 0x06, 0, 0, 0, 2, 0, 9}},
		{name: "HFS key length too small", dialect: types.DialectHFS, data: []byte{0x03, 0, 0, 0, 0, 2, 0}},
		{name: "HFS name length past key", dialect: types.DialectHFS, data: []byte{0x06, 0, 0, 0, 0, 2, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeKey(tt.data, 0, tt.dialect, DefaultCompareType(tt.dialect))
			assert.ErrorIs(t, err, types.ErrRecordOutOfBounds)
		})
	}
}

func TestFastUnicodeCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "ASCII case", a: "Hello", b: "hELLO", want: 0},
		{name: "Latin-1 without decomposition folds", a: "Æ", b: "æ", want: 0},
		{name: "precomposed letters do not fold", a: "É", b: "é", want: -1},
		{name: "Greek", a: "Ω", b: "ω", want: 0},
		{name: "Cyrillic", a: "Ж", b: "ж", want: 0},
		{name: "fullwidth", a: "\uff21", b: "\uff41", want: 0},
		{name: "ignorable characters are skipped", a: "a\u200db", b: "ab", want: 0},
		{name: "byte order mark is skipped", a: "\ufeffx", b: "x", want: 0},
		{name: "prefix sorts first", a: "abc", b: "abcd", want: -1},
		{name: "NUL sorts last", a: "a\x00", b: "ab", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := utf16.Encode([]rune(tt.a)), utf16.Encode([]rune(tt.b))
			assert.Equal(t, tt.want, sign(FastUnicodeCompare(a, b)))
			assert.Equal(t, -tt.want, sign(FastUnicodeCompare(b, a)))
		})
	}
}

func TestFoldCase(t *testing.T) {
	tests := []struct {
		name string
		in   uint16
		want uint16
	}{
		{name: "page 00 ASCII", in: 'Q', want: 'q'},
		{name: "page 00 thorn", in: 0x00DE, want: 0x00FE},
		{name: "page 00 NUL", in: 0x0000, want: 0xFFFF},
		{name: "page 01 stroke", in: 0x0141, want: 0x0142},
		{name: "page 01 African D", in: 0x0189, want: 0x0256},
		{name: "page 01 DZ digraph titlecase", in: 0x01C5, want: 0x01C6},
		{name: "page 03 Greek", in: 0x0393, want: 0x03B3},
		{name: "page 03 Coptic", in: 0x03E2, want: 0x03E3},
		{name: "page 04 Serbian", in: 0x0402, want: 0x0452},
		{name: "page 04 Cyrillic", in: 0x0416, want: 0x0436},
		{name: "page 04 extended", in: 0x0492, want: 0x0493},
		{name: "page 05 Armenian", in: 0x0531, want: 0x0561},
		{name: "page 10 Georgian", in: 0x10A0, want: 0x10D0},
		{name: "page 20 ignorable", in: 0x200D, want: 0},
		{name: "page 21 Roman numeral", in: 0x2160, want: 0x2170},
		{name: "page FE byte order mark", in: 0xFEFF, want: 0},
		{name: "page FF fullwidth", in: 0xFF3A, want: 0xFF5A},

		{name: "decomposable Latin-1 stays", in: 0x00C9, want: 0x00C9},
		{name: "decomposable Latin Extended-A stays", in: 0x0100, want: 0x0100},
		{name: "short I stays", in: 0x0419, want: 0x0419},
		{name: "Ot with titlo stays", in: 0x0476, want: 0x0476},
		{name: "Hwair stays", in: 0x01F6, want: 0x01F6},
		{name: "yr stays", in: 0x01A6, want: 0x01A6},
		{name: "page 02 has no mappings", in: 0x023B, want: 0x023B},
		{name: "long-legged N stays", in: 0x0220, want: 0x0220},
		{name: "Heta stays", in: 0x0370, want: 0x0370},
		{name: "palochka stays", in: 0x04C0, want: 0x04C0},
		{name: "Komi De stays", in: 0x0500, want: 0x0500},
		{name: "circled capital stays", in: 0x24B6, want: 0x24B6},
		{name: "unmapped CJK", in: 0x65E5, want: 0x65E5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldCase(tt.in))
		})
	}
}

func TestFastUnicodeCompareKeepsUnfoldedPairsDistinct(t *testing.T) {
	pairs := [][2]uint16{
		{0x023B, 0x023C},
		{0x01F6, 0x0195},
		{0x0220, 0x019E},
		{0x04C0, 0x04CF},
		{0x0500, 0x0501},
		{0x0370, 0x0371},
		{0x24B6, 0x24D0},
	}
	for _, p := range pairs {
		got := FastUnicodeCompare([]uint16{p[0]}, []uint16{p[1]})
		assert.NotZero(t, got, "U+%04X vs U+%04X", p[0], p[1])
	}
}

func TestLowerCaseTableLayout(t *testing.T) {
	require.Len(t, lowerCaseTable, 11*256)
	for high := 0; high < 256; high++ {
		page := lowerCaseTable[high]
		assert.Zero(t, page%256, "high byte 0x%02X", high)
		assert.LessOrEqual(t, int(page), 10*256, "high byte 0x%02X", high)
	}
}

func TestBinaryUnicodeCompare(t *testing.T) {
	assert.Zero(t, BinaryUnicodeCompare([]uint16{'a', 'b'}, []uint16{'a', 'b'}))
	assert.Negative(t, BinaryUnicodeCompare([]uint16{'A'}, []uint16{'a'}))
	assert.Positive(t, BinaryUnicodeCompare([]uint16{0xFFFF}, []uint16{0x0041, 0x0041}))
	assert.Negative(t, BinaryUnicodeCompare([]uint16{'a'}, []uint16{'a', 0}))
}

func TestStringDecoder(t *testing.T) {
	hfs := NewHFSString([]byte{'R', 0x8A, 'v', 'e'})
	s, err := hfs.Decode(DefaultStringDecoder)
	require.NoError(t, err)
	assert.Equal(t, "Räve", s)
	assert.Equal(t, 4, hfs.Len())

	latin1, err := NewStringDecoder(charmap.ISO8859_1).Decode(hfs)
	require.NoError(t, err)
	assert.Equal(t, "R\u008ave", latin1)

	plus, err := EncodeHFSPlusString("日本語.txt")
	require.NoError(t, err)
	assert.Equal(t, 7, plus.Len())
	assert.Equal(t, "日本語.txt", plus.String())

	roman, err := EncodeHFSString("Café", charmap.Macintosh)
	require.NoError(t, err)
	assert.Equal(t, []byte{'C', 'a', 'f', 0x8E}, roman.Bytes())
}

func TestStringDecoderEncode(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		in      string
		want    []byte
	}{
		{name: "HFS MacRoman", dialect: types.DialectHFS, in: "Café", want: []byte{'C', 'a', 'f', 0x8E}},
		{name: "HFS+ decomposes", dialect: types.DialectHFSPlus, in: "\u00e9", want: testutil.UTF16BE("e\u0301")},
		{name: "HFSX ascii", dialect: types.DialectHFSX, in: "a.txt", want: testutil.UTF16BE("a.txt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DefaultStringDecoder.Encode(tt.in, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Bytes())
			assert.Equal(t, tt.dialect != types.DialectHFS, s.IsHFSPlus())
		})
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
