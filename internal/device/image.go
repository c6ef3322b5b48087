package device

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lima-vm/go-qcow2reader"
	"github.com/lima-vm/go-qcow2reader/image/qcow2"
	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/pkg/dmg"
)

// FormatUDIF is the format name reported for .dmg images
const FormatUDIF = "udif"

type virtualDisk interface {
	io.ReaderAt
	Size() int64
}

// Image is a disk image file. UDIF images are decoded by pkg/dmg; everything else is read
// through go-qcow2reader, so raw images and qcow2 (and the other formats the reader
// detects) are handled alike.
type Image struct {
	path   string
	file   *os.File
	disk   virtualDisk
	format string
}

// OpenImage opens path read-only and detects its image format
func OpenImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	udif, err := dmg.Open(f, info.Size())
	switch {
	case err == nil:
		logrus.Debugf("Opened %q (%s, %d block tables, %d bytes)", path, FormatUDIF, len(udif.BlockTables()), udif.Size())
		return &Image{path: path, file: f, disk: udif, format: FormatUDIF}, nil
	case !errors.Is(err, dmg.ErrNotUDIF):
		f.Close()
		return nil, fmt.Errorf("failed to decode UDIF image %q: %w", path, err)
	}

	img, err := qcow2reader.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to detect the format of %q: %w", path, err)
	}
	if q, ok := img.(*qcow2.Qcow2); ok && q.BackingFile != "" {
		logrus.WithField("backing_file", q.BackingFile).Warnf("image %q has a backing file", path)
	}
	if err := img.Readable(); err != nil {
		f.Close()
		return nil, fmt.Errorf("image %q is not readable: %w", path, err)
	}
	logrus.Debugf("Opened %q (%s, %d bytes)", path, img.Type(), img.Size())
	return &Image{path: path, file: f, disk: img, format: string(img.Type())}, nil
}

// ReadAt reads from the virtual disk, not the container file
func (i *Image) ReadAt(p []byte, off int64) (int, error) {
	return i.disk.ReadAt(p, off)
}

// Size returns the virtual disk size
func (i *Image) Size() int64 { return i.disk.Size() }

// Format returns the detected image format, such as "raw", "qcow2" or "udif"
func (i *Image) Format() string { return i.format }

// Path returns the path the image was opened from
func (i *Image) Path() string { return i.path }

// Close releases the image and its file
func (i *Image) Close() error {
	if c, ok := i.disk.(io.Closer); ok {
		if err := c.Close(); err != nil {
			i.file.Close()
			return err
		}
	}
	return i.file.Close()
}
