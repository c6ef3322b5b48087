package dsstore

import (
	"bytes"
	"fmt"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Timestamp is a dutc value: 1/65536 second intervals since 1904-01-01 UTC
type Timestamp uint64

// Time converts the timestamp to a time.Time
func (ts Timestamp) Time() time.Time {
	secs := int64(ts>>16) - types.MacEpochOffset
	frac := int64(ts&0xFFFF) * int64(time.Second) >> 16
	return time.Unix(secs, frac).UTC()
}

// Record is one (filename, struct ID) entry of the DSDB tree.
// Value holds uint32 (long), int16 (shor), bool, []byte (blob), types.FourCC (type),
// string (ustr), uint64 (comp) or Timestamp (dutc).
type Record struct {
	// Offset of the record in the file
	Offset int

	Filename   string
	StructID   types.FourCC
	StructType types.FourCC
	Value      any

	// shor values are padded to four bytes
	ShortPadding uint16
}

func decodeUTF16(b []byte) (string, error) {
	out, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeRecord decodes the record at r.pos. Unknown struct types abort the decode since the
// record length cannot be known.
func decodeRecord(r *reader) (Record, error) {
	rec := Record{Offset: r.pos}

	nameLen, err := r.u32()
	if err != nil {
		return rec, err
	}
	nameBytes, err := r.bytes(2 * int(nameLen))
	if err != nil {
		return rec, err
	}
	if rec.Filename, err = decodeUTF16(nameBytes); err != nil {
		return rec, fmt.Errorf("failed to decode filename: %w", err)
	}

	id, err := r.u32()
	if err != nil {
		return rec, err
	}
	rec.StructID = types.FourCC(id)
	typ, err := r.u32()
	if err != nil {
		return rec, err
	}
	rec.StructType = types.FourCC(typ)

	switch rec.StructType {
	case types.DSStoreTypeLong:
		rec.Value, err = r.u32()
	case types.DSStoreTypeShor:
		if rec.ShortPadding, err = r.u16(); err == nil {
			var v uint16
			v, err = r.u16()
			rec.Value = int16(v)
		}
	case types.DSStoreTypeBool:
		var v uint8
		v, err = r.u8()
		rec.Value = v != 0
	case types.DSStoreTypeBlob:
		var n uint32
		if n, err = r.u32(); err == nil {
			var b []byte
			b, err = r.bytes(int(n))
			rec.Value = bytes.Clone(b)
		}
	case types.DSStoreTypeType:
		var v uint32
		v, err = r.u32()
		rec.Value = types.FourCC(v)
	case types.DSStoreTypeUstr:
		var n uint32
		if n, err = r.u32(); err == nil {
			var b []byte
			if b, err = r.bytes(2 * int(n)); err == nil {
				rec.Value, err = decodeUTF16(b)
			}
		}
	case types.DSStoreTypeComp:
		rec.Value, err = r.u64()
	case types.DSStoreTypeDutc:
		var v uint64
		v, err = r.u64()
		rec.Value = Timestamp(v)
	default:
		return rec, types.NewDecodeError("DS_Store record", rec.Offset, types.ErrUnknownStructType,
			"%q (0x%08x) for %q/%s", rec.StructType.String(), uint32(rec.StructType), rec.Filename, rec.StructID)
	}
	if err != nil {
		return rec, fmt.Errorf("failed to decode %s value of %q: %w", rec.StructType, rec.Filename, err)
	}
	return rec, nil
}
