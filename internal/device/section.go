package device

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Section is a window of a byte source, such as a partition or an embedded volume
type Section struct {
	src    interfaces.ByteSource
	offset int64
	size   int64
}

// NewSection returns the size bytes of src starting at offset
func NewSection(src interfaces.ByteSource, offset, size int64) (*Section, error) {
	if offset < 0 || size < 0 || offset+size > src.Size() {
		return nil, fmt.Errorf("section [%d, %d) outside source of %d bytes: %w",
			offset, offset+size, src.Size(), types.ErrInsufficientData)
	}
	return &Section{src: src, offset: offset, size: size}, nil
}

// ReadAt reads within the section. Reads past its end are truncated and return io.EOF.
func (s *Section) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= s.size {
		return 0, io.EOF
	}
	want := p
	if remaining := s.size - off; int64(len(p)) > remaining {
		want = p[:remaining]
	}
	n, err := s.src.ReadAt(want, s.offset+off)
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

// Size returns the section length
func (s *Section) Size() int64 { return s.size }

// Offset returns where the section starts in its source
func (s *Section) Offset() int64 { return s.offset }
