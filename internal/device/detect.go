package device

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/parsers/volumes"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// VolumeLocation is where an HFS-family volume sits in a byte source
type VolumeLocation struct {
	Dialect types.Dialect `json:"dialect" yaml:"dialect"`
	Offset  int64         `json:"offset" yaml:"offset"`
	Length  int64         `json:"length" yaml:"length"`
	Wrapped bool          `json:"wrapped" yaml:"wrapped"`
}

// ReadSignature returns the volume signature at byte 1024 of src
func ReadSignature(src interfaces.ByteSource) (uint16, error) {
	var b [2]byte
	if _, err := src.ReadAt(b[:], types.VolumeHeaderOffset); err != nil {
		return 0, fmt.Errorf("failed to read volume signature: %w", err)
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// DetectVolume identifies the volume at the start of src. An HFS wrapper whose MDB embeds
// an HFS+ volume resolves to the embedded volume.
func DetectVolume(src interfaces.ByteSource) (VolumeLocation, error) {
	sig, err := ReadSignature(src)
	if err != nil {
		return VolumeLocation{}, err
	}
	dialect, err := volumes.DetectDialect(sig)
	if err != nil {
		return VolumeLocation{}, err
	}
	loc := VolumeLocation{Dialect: dialect, Length: src.Size()}
	if dialect != types.DialectHFS {
		return loc, nil
	}

	buf := make([]byte, types.MasterDirectoryBlockSize)
	if _, err := src.ReadAt(buf, types.VolumeHeaderOffset); err != nil {
		return VolumeLocation{}, fmt.Errorf("failed to read master directory block: %w", err)
	}
	header, err := volumes.DecodeVolumeHeader(buf, types.DialectHFS)
	if err != nil {
		return VolumeLocation{}, err
	}
	offset, length, ok := header.EmbeddedVolume()
	if !ok {
		return loc, nil
	}
	if offset+length > src.Size() {
		return VolumeLocation{}, fmt.Errorf("embedded volume [%d, %d) beyond wrapper of %d bytes: %w",
			offset, offset+length, src.Size(), types.ErrInsufficientData)
	}

	embedded, err := NewSection(src, offset, length)
	if err != nil {
		return VolumeLocation{}, err
	}
	sig, err = ReadSignature(embedded)
	if err != nil {
		return VolumeLocation{}, err
	}
	dialect, err = volumes.DetectDialect(sig)
	if err != nil {
		return VolumeLocation{}, fmt.Errorf("embedded volume: %w", err)
	}
	if dialect == types.DialectHFS {
		return VolumeLocation{}, fmt.Errorf("embedded volume is classic HFS: %w", types.ErrInvalidSignature)
	}
	return VolumeLocation{Dialect: dialect, Offset: offset, Length: length, Wrapped: true}, nil
}
