package testutil

import (
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// ImageBuilder lays out a synthetic HFS+ volume one allocation block at a time.
// Blocks covering the boot blocks and volume header are reserved, as is the last block,
// which holds the alternate volume header.
type ImageBuilder struct {
	blockSize   uint32
	totalBlocks uint32
	image       []byte
	next        uint32
	forks       map[types.SystemFile][]byte
}

// NewImageBuilder creates an empty volume of totalBlocks blocks of blockSize bytes
func NewImageBuilder(blockSize, totalBlocks uint32) *ImageBuilder {
	reserved := (types.VolumeHeaderOffset + types.HFSPlusVolumeHeaderSize + blockSize - 1) / blockSize
	return &ImageBuilder{
		blockSize:   blockSize,
		totalBlocks: totalBlocks,
		image:       make([]byte, int(blockSize)*int(totalBlocks)),
		next:        reserved,
		forks:       make(map[types.SystemFile][]byte),
	}
}

// BlockSize returns the allocation block size
func (b *ImageBuilder) BlockSize() uint32 { return b.blockSize }

// NextBlock returns the first unallocated block
func (b *ImageBuilder) NextBlock() uint32 { return b.next }

func (b *ImageBuilder) blocksFor(n int) uint32 {
	if n == 0 {
		return 1
	}
	return uint32((n + int(b.blockSize) - 1) / int(b.blockSize))
}

// WriteBlocks copies data into the image starting at block start
func (b *ImageBuilder) WriteBlocks(start uint32, data []byte) {
	copy(b.image[int(start)*int(b.blockSize):], data)
}

// Allocate stores data in the next free contiguous blocks
func (b *ImageBuilder) Allocate(data []byte) types.ExtentDescriptor {
	e := types.ExtentDescriptor{StartBlock: b.next, BlockCount: b.blocksFor(len(data))}
	b.WriteBlocks(e.StartBlock, data)
	b.next += e.BlockCount
	return e
}

// AllocateFragmented stores data one block per extent, leaving a free block after each one
func (b *ImageBuilder) AllocateFragmented(data []byte) []types.ExtentDescriptor {
	var exts []types.ExtentDescriptor
	bs := int(b.blockSize)
	for off := 0; off < len(data) || off == 0; off += bs {
		end := off + bs
		if end > len(data) {
			end = len(data)
		}
		exts = append(exts, b.Allocate(data[off:end]))
		b.next++
	}
	return exts
}

// SetSystemFile records the fork of a special file. Only the first eight extents fit in the
// volume header; the rest must be placed in the extents overflow file.
func (b *ImageBuilder) SetSystemFile(file types.SystemFile, logicalSize uint64, extents []types.ExtentDescriptor) {
	b.forks[file] = HFSPlusForkData(logicalSize, b.blockSize, extents)
}

// SystemFile stores the nodes of a special file contiguously and records its fork
func (b *ImageBuilder) SystemFile(file types.SystemFile, nodes ...[]byte) types.ExtentDescriptor {
	data := Concat(nodes...)
	e := b.Allocate(data)
	b.SetSystemFile(file, uint64(len(data)), []types.ExtentDescriptor{e})
	return e
}

// Build writes the volume header and its alternate copy and returns the image.
// Zero geometry fields in o are filled in from the builder.
func (b *ImageBuilder) Build(o VolumeHeaderOptions) []byte {
	if o.BlockSize == 0 {
		o.BlockSize = b.blockSize
	}
	if o.TotalBlocks == 0 {
		o.TotalBlocks = b.totalBlocks
	}
	if o.FreeBlocks == 0 && b.next+1 < b.totalBlocks {
		o.FreeBlocks = b.totalBlocks - b.next - 1
	}
	forks := map[types.SystemFile]*[]byte{
		types.SystemFileAllocation: &o.AllocationFile,
		types.SystemFileExtents:    &o.ExtentsFile,
		types.SystemFileCatalog:    &o.CatalogFile,
		types.SystemFileAttributes: &o.AttributesFile,
		types.SystemFileStartup:    &o.StartupFile,
	}
	for file, fork := range b.forks {
		if *forks[file] == nil {
			*forks[file] = fork
		}
	}

	header := HFSPlusVolumeHeader(o)
	image := append([]byte(nil), b.image...)
	copy(image[types.VolumeHeaderOffset:], header)
	copy(image[len(image)-types.VolumeHeaderOffset:], header)
	return image
}
