package catalog

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// CatalogString is a node name in its on-disk encoding: MacRoman bytes for HFS,
// UTF-16BE code units for HFS+ and HFSX. It is never decoded implicitly.
type CatalogString struct {
	dialect types.Dialect
	raw     []byte
}

// NewHFSString wraps the MacRoman bytes of an HFS name
func NewHFSString(raw []byte) CatalogString {
	return CatalogString{dialect: types.DialectHFS, raw: bytes.Clone(raw)}
}

// NewHFSPlusString wraps the UTF-16BE bytes of an HFS+ name
func NewHFSPlusString(raw []byte) CatalogString {
	return CatalogString{dialect: types.DialectHFSPlus, raw: bytes.Clone(raw)}
}

// NewHFSPlusStringFromUnits encodes UTF-16 code units as an HFS+ name
func NewHFSPlusStringFromUnits(units []uint16) CatalogString {
	raw := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(raw[2*i:], u)
	}
	return CatalogString{dialect: types.DialectHFSPlus, raw: raw}
}

// EncodeHFSPlusString encodes a Go string as an HFS+ name
func EncodeHFSPlusString(s string) (CatalogString, error) {
	raw, err := utf16BE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return CatalogString{}, fmt.Errorf("failed to encode %q as UTF-16: %w", s, err)
	}
	return CatalogString{dialect: types.DialectHFSPlus, raw: raw}, nil
}

// EncodeHFSString encodes a Go string as an HFS name using charset
func EncodeHFSString(s string, charset encoding.Encoding) (CatalogString, error) {
	raw, err := charset.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return CatalogString{}, fmt.Errorf("failed to encode %q: %w", s, err)
	}
	return CatalogString{dialect: types.DialectHFS, raw: raw}, nil
}

// IsHFSPlus reports whether the name holds UTF-16 code units
func (s CatalogString) IsHFSPlus() bool {
	return s.dialect != types.DialectHFS
}

// Bytes returns the encoded name
func (s CatalogString) Bytes() []byte {
	return bytes.Clone(s.raw)
}

// Len returns the length of the name in encoding units (bytes for HFS, code units for HFS+)
func (s CatalogString) Len() int {
	if s.IsHFSPlus() {
		return len(s.raw) / 2
	}
	return len(s.raw)
}

// Units returns the UTF-16 code units of an HFS+ name, or the bytes of an HFS name widened
func (s CatalogString) Units() []uint16 {
	if !s.IsHFSPlus() {
		units := make([]uint16, len(s.raw))
		for i, c := range s.raw {
			units[i] = uint16(c)
		}
		return units
	}
	units := make([]uint16, len(s.raw)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(s.raw[2*i:])
	}
	return units
}

// Decode converts the name to a Go string with dec
func (s CatalogString) Decode(dec *StringDecoder) (string, error) {
	return dec.Decode(s)
}

// String decodes the name with DefaultStringDecoder
func (s CatalogString) String() string {
	str, err := DefaultStringDecoder.Decode(s)
	if err != nil {
		return fmt.Sprintf("%x", s.raw)
	}
	return str
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// StringDecoder turns on-disk names into Go strings. HFS names are decoded with a
// configurable single-byte charset; HFS+ names are always UTF-16BE.
type StringDecoder struct {
	hfsCharset encoding.Encoding
}

// DefaultStringDecoder decodes HFS names as MacRoman.
var DefaultStringDecoder = NewStringDecoder(charmap.Macintosh)

// NewStringDecoder creates a decoder using hfsCharset for classic HFS names
func NewStringDecoder(hfsCharset encoding.Encoding) *StringDecoder {
	return &StringDecoder{hfsCharset: hfsCharset}
}

// Decode converts s to a Go string
func (d *StringDecoder) Decode(s CatalogString) (string, error) {
	dec := utf16BE.NewDecoder()
	if !s.IsHFSPlus() {
		dec = d.hfsCharset.NewDecoder()
	}
	out, err := dec.Bytes(s.raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s name: %w", s.dialect, err)
	}
	return string(out), nil
}

// Encode converts a Go string to a name of dialect. HFS+ names are stored decomposed, so s is
// normalized to NFD first.
func (d *StringDecoder) Encode(s string, dialect types.Dialect) (CatalogString, error) {
	if dialect == types.DialectHFS {
		return EncodeHFSString(s, d.hfsCharset)
	}
	return EncodeHFSPlusString(norm.NFD.String(s))
}
