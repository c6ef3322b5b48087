package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-hfs/internal/parsers/extents"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// ForkReader reads the logical bytes of a fork through its allocation block extents
type ForkReader struct {
	volume  *VolumeReader
	extents []types.ExtentDescriptor
	size    int64
}

// NewForkReader creates a reader over extents, which must be in logical order
func NewForkReader(volume *VolumeReader, exts []types.ExtentDescriptor, logicalSize uint64) *ForkReader {
	return &ForkReader{
		volume:  volume,
		extents: append([]types.ExtentDescriptor(nil), exts...),
		size:    int64(logicalSize),
	}
}

// Size returns the logical size of the fork
func (fr *ForkReader) Size() int64 {
	return fr.size
}

// Extents returns the extents backing the fork
func (fr *ForkReader) Extents() []types.ExtentDescriptor {
	return append([]types.ExtentDescriptor(nil), fr.extents...)
}

// AllocatedSize returns the number of bytes covered by the extents
func (fr *ForkReader) AllocatedSize() int64 {
	return int64(extents.BlockCount(fr.extents)) * int64(fr.volume.BlockSize())
}

// ReadAt reads from the fork. Reads past the logical size return io.EOF.
func (fr *ForkReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= fr.size {
		return 0, io.EOF
	}

	want := p
	if remaining := fr.size - off; int64(len(want)) > remaining {
		want = want[:remaining]
	}

	blockSize := int64(fr.volume.BlockSize())
	header := fr.volume.Header()
	n := 0
	extentStart := int64(0)
	for _, e := range fr.extents {
		if n == len(want) {
			break
		}
		extentLength := int64(e.BlockCount) * blockSize
		extentEnd := extentStart + extentLength
		pos := off + int64(n)
		if pos >= extentEnd {
			extentStart = extentEnd
			continue
		}

		within := pos - extentStart
		chunk := want[n:]
		if int64(len(chunk)) > extentLength-within {
			chunk = chunk[:extentLength-within]
		}
		read, err := fr.volume.ReadAt(chunk, header.BlockOffset(e.StartBlock)+within)
		n += read
		switch {
		case err == nil, read == len(chunk):
		case errors.Is(err, io.EOF):
			return n, fmt.Errorf("extent at block %d runs past the end of the volume: %w", e.StartBlock, types.ErrInsufficientData)
		default:
			return n, fmt.Errorf("failed to read extent at block %d: %w", e.StartBlock, err)
		}
		extentStart = extentEnd
	}

	if n < len(want) {
		return n, fmt.Errorf("fork offset %d is not covered by its extents: %w", off+int64(n), types.ErrInsufficientData)
	}
	if len(want) < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadAll reads the whole fork
func (fr *ForkReader) ReadAll() ([]byte, error) {
	data := make([]byte, fr.size)
	if _, err := fr.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return data, nil
}
