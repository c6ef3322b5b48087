package services

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/volumes"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

const defaultMaxCacheSize = 16 * 1024 * 1024

// VolumeReader provides low-level access to the bytes of an HFS, HFS+ or HFSX volume
type VolumeReader struct {
	source           interfaces.ByteSource
	header           *volumes.VolumeHeader
	volumeSize       int64
	mu               sync.RWMutex
	blockCache       map[uint32][]byte
	maxCacheSize     int
	currentCacheSize int
}

// NewVolumeReader decodes the volume header of source
func NewVolumeReader(source interfaces.ByteSource) (*VolumeReader, error) {
	if source == nil {
		return nil, fmt.Errorf("volume source cannot be nil")
	}

	volumeSize := source.Size()
	if volumeSize < types.VolumeHeaderOffset+types.HFSPlusVolumeHeaderSize {
		return nil, fmt.Errorf("volume of %d bytes cannot hold a volume header: %w", volumeSize, types.ErrInsufficientData)
	}

	// Both header layouts fit in the sector at byte 1024
	headerData := make([]byte, types.HFSPlusVolumeHeaderSize)
	if _, err := source.ReadAt(headerData, types.VolumeHeaderOffset); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read volume header: %w", err)
	}

	header, err := volumes.DecodeAnyVolumeHeader(headerData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode volume header: %w", err)
	}

	blockSize := header.BlockSize()
	if blockSize == 0 || blockSize%types.SectorSize != 0 {
		return nil, fmt.Errorf("block size %d: %w", blockSize, types.ErrInvalidBlockSize)
	}

	return &VolumeReader{
		source:       source,
		header:       header,
		volumeSize:   volumeSize,
		blockCache:   make(map[uint32][]byte),
		maxCacheSize: defaultMaxCacheSize,
	}, nil
}

// Header returns the decoded volume header
func (vr *VolumeReader) Header() *volumes.VolumeHeader {
	return vr.header
}

// Dialect returns the on-disk variant of the volume
func (vr *VolumeReader) Dialect() types.Dialect {
	return vr.header.Dialect()
}

// BlockSize returns the allocation block size
func (vr *VolumeReader) BlockSize() uint32 {
	return vr.header.BlockSize()
}

// Size returns the number of bytes available from the source
func (vr *VolumeReader) Size() int64 {
	return vr.volumeSize
}

// ReadAt reads from the volume. Reads past the end of the source return io.EOF.
func (vr *VolumeReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= vr.volumeSize {
		return 0, io.EOF
	}
	want := len(p)
	if remaining := vr.volumeSize - off; int64(want) > remaining {
		want = int(remaining)
	}
	n, err := vr.source.ReadAt(p[:want], off)
	if err != nil && !(errors.Is(err, io.EOF) && n == want) {
		return n, err
	}
	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadBlock reads allocation block n
func (vr *VolumeReader) ReadBlock(n uint32) ([]byte, error) {
	vr.mu.RLock()
	if cached, ok := vr.blockCache[n]; ok {
		vr.mu.RUnlock()
		return append([]byte{}, cached...), nil
	}
	vr.mu.RUnlock()

	if n >= vr.header.TotalBlocks() {
		return nil, fmt.Errorf("block %d is beyond the volume's %d blocks: %w", n, vr.header.TotalBlocks(), types.ErrRecordOutOfBounds)
	}

	blockData := make([]byte, vr.header.BlockSize())
	read, err := vr.ReadAt(blockData, vr.header.BlockOffset(n))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read block %d: %w", n, err)
	}
	if read < len(blockData) {
		return nil, fmt.Errorf("incomplete block %d: got %d bytes, expected %d: %w", n, read, len(blockData), types.ErrInsufficientData)
	}

	vr.mu.Lock()
	vr.cacheBlock(n, blockData)
	vr.mu.Unlock()

	return append([]byte{}, blockData...), nil
}

// cacheBlock must be called with mu locked
func (vr *VolumeReader) cacheBlock(n uint32, data []byte) {
	if vr.currentCacheSize+len(data) > vr.maxCacheSize {
		vr.blockCache = make(map[uint32][]byte)
		vr.currentCacheSize = 0
	}
	vr.blockCache[n] = append([]byte{}, data...)
	vr.currentCacheSize += len(data)
}

// ClearCache removes all cached blocks
func (vr *VolumeReader) ClearCache() {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	vr.blockCache = make(map[uint32][]byte)
	vr.currentCacheSize = 0
}

// IsCached checks if a block is in cache
func (vr *VolumeReader) IsCached(n uint32) bool {
	vr.mu.RLock()
	defer vr.mu.RUnlock()

	_, ok := vr.blockCache[n]
	return ok
}
