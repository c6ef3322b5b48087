package datastreams

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// DecmpfsHeaderReader reads the header of a com.apple.decmpfs attribute
type DecmpfsHeaderReader struct {
	header  types.DecmpfsHeaderT
	payload []byte
}

// NewDecmpfsHeaderReader parses the little-endian decmpfs header at the start of data.
// A header with the wrong magic is rejected before the other fields are read.
func NewDecmpfsHeaderReader(data []byte) (*DecmpfsHeaderReader, error) {
	if len(data) < types.DecmpfsHeaderSize {
		return nil, types.NewDecodeError("decmpfs header", 0, types.ErrInsufficientData,
			"%d bytes, need %d", len(data), types.DecmpfsHeaderSize)
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != types.DecmpfsMagic {
		return nil, types.NewDecodeError("decmpfs header", 0, types.ErrInvalidMagic,
			"0x%08x, expected 0x%08x", magic, types.DecmpfsMagic)
	}

	return &DecmpfsHeaderReader{
		header: types.DecmpfsHeaderT{
			CompressionMagic: magic,
			CompressionType:  binary.LittleEndian.Uint32(data[4:8]),
			UncompressedSize: binary.LittleEndian.Uint64(data[8:16]),
		},
		payload: data[types.DecmpfsHeaderSize:],
	}, nil
}

// Magic returns the header magic
func (r *DecmpfsHeaderReader) Magic() uint32 {
	return r.header.CompressionMagic
}

// CompressionType returns the compression scheme
func (r *DecmpfsHeaderReader) CompressionType() types.DecmpfsCompressionType {
	return types.DecmpfsCompressionType(r.header.CompressionType)
}

// UncompressedSize returns the size of the file after decompression
func (r *DecmpfsHeaderReader) UncompressedSize() uint64 {
	return r.header.UncompressedSize
}

// InlinePayload returns the attribute bytes following the header
func (r *DecmpfsHeaderReader) InlinePayload() []byte {
	return r.payload
}

// IsKnownCompressionType reports whether the compression type is one of the defined schemes
func (r *DecmpfsHeaderReader) IsKnownCompressionType() bool {
	_, ok := compressionTypeNames[r.CompressionType()]
	return ok
}

// StoresDataInResourceFork reports whether the compressed data lives in the resource fork
func (r *DecmpfsHeaderReader) StoresDataInResourceFork() bool {
	switch r.CompressionType() {
	case types.DecmpfsZlibResource,
		types.DecmpfsLzvnResource,
		types.DecmpfsRawResource,
		types.DecmpfsLzfseResource,
		types.DecmpfsLzbitmapResource:
		return true
	default:
		return false
	}
}

var compressionTypeNames = map[types.DecmpfsCompressionType]string{
	types.DecmpfsUncompressedInline: "uncompressed (inline)",
	types.DecmpfsZlibInline:         "zlib (inline)",
	types.DecmpfsZlibResource:       "zlib (resource fork)",
	types.DecmpfsSparse:             "sparse",
	types.DecmpfsLzvnInline:         "LZVN (inline)",
	types.DecmpfsLzvnResource:       "LZVN (resource fork)",
	types.DecmpfsRawInline:          "raw (inline)",
	types.DecmpfsRawResource:        "raw (resource fork)",
	types.DecmpfsLzfseInline:        "LZFSE (inline)",
	types.DecmpfsLzfseResource:      "LZFSE (resource fork)",
	types.DecmpfsLzbitmapInline:     "LZBITMAP (inline)",
	types.DecmpfsLzbitmapResource:   "LZBITMAP (resource fork)",
}

// CompressionTypeName returns a human-readable name for the compression type
func (r *DecmpfsHeaderReader) CompressionTypeName() string {
	if name, ok := compressionTypeNames[r.CompressionType()]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%d)", r.header.CompressionType)
}
