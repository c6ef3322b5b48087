package types

// decmpfs (com.apple.decmpfs extended attribute)
// Transparently compressed files carry a decmpfs header in an extended attribute. All of its
// fields are little-endian, unlike the rest of HFS+.

// DecmpfsHeaderT is the header of a com.apple.decmpfs attribute.
type DecmpfsHeaderT struct {
	// The magic number.
	// The value of this field is always 0x636d7066 ("cmpf" read little-endian, stored as "fpmc").
	CompressionMagic uint32

	// The compression type.
	// For possible values, see Compression Types.
	CompressionType uint32

	// The size of the file after decompression.
	UncompressedSize uint64
}

// DecmpfsHeaderSize is the size of DecmpfsHeaderT.
const DecmpfsHeaderSize = 16

// DecmpfsMagic is the expected CompressionMagic value.
const DecmpfsMagic uint32 = 0x636d7066

// Compression Types

// DecmpfsCompressionType is a decmpfs compression scheme.
type DecmpfsCompressionType uint32

const (
	// DecmpfsUncompressedInline keeps the data uncompressed in the attribute.
	DecmpfsUncompressedInline DecmpfsCompressionType = 1

	// DecmpfsZlibInline keeps zlib compressed data in the attribute.
	DecmpfsZlibInline DecmpfsCompressionType = 3

	// DecmpfsZlibResource keeps zlib compressed chunks in the resource fork.
	DecmpfsZlibResource DecmpfsCompressionType = 4

	// DecmpfsSparse marks a file that is all zeroes.
	DecmpfsSparse DecmpfsCompressionType = 5

	// DecmpfsLzvnInline keeps LZVN compressed data in the attribute.
	DecmpfsLzvnInline DecmpfsCompressionType = 7

	// DecmpfsLzvnResource keeps LZVN compressed chunks in the resource fork.
	DecmpfsLzvnResource DecmpfsCompressionType = 8

	// DecmpfsRawInline keeps uncompressed data in the attribute after a marker byte.
	DecmpfsRawInline DecmpfsCompressionType = 9

	// DecmpfsRawResource keeps uncompressed chunks in the resource fork.
	DecmpfsRawResource DecmpfsCompressionType = 10

	// DecmpfsLzfseInline keeps LZFSE compressed data in the attribute.
	DecmpfsLzfseInline DecmpfsCompressionType = 11

	// DecmpfsLzfseResource keeps LZFSE compressed chunks in the resource fork.
	DecmpfsLzfseResource DecmpfsCompressionType = 12

	// DecmpfsLzbitmapInline keeps LZBITMAP compressed data in the attribute.
	DecmpfsLzbitmapInline DecmpfsCompressionType = 13

	// DecmpfsLzbitmapResource keeps LZBITMAP compressed chunks in the resource fork.
	DecmpfsLzbitmapResource DecmpfsCompressionType = 14
)
