// File: internal/interfaces/block_device.go
package interfaces

import (
	"io"
)

// ByteSource is the random-access byte source a volume is decoded from.
// It either returns exactly the requested bytes or an error.
type ByteSource interface {
	io.ReaderAt

	// Size returns the total size of the source in bytes
	Size() int64
}

// ByteSourceCloser is a ByteSource that owns an underlying file
type ByteSourceCloser interface {
	ByteSource
	io.Closer
}
