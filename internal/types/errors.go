package types

import (
	"errors"
	"fmt"
)

// Structural decode failures. They indicate corruption or a dialect mismatch and are never
// replaced by default values.
var (
	ErrInvalidNodeKind   = errors.New("invalid node kind")
	ErrInvalidRecordType = errors.New("invalid record type")
	ErrRecordOutOfBounds = errors.New("record out of node bounds")
	ErrHeaderRecordCount = errors.New("unexpected header node record count")
	ErrUnknownStructType = errors.New("unknown struct type")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrInvalidMagic      = errors.New("invalid magic")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrInvalidBlockSize  = errors.New("invalid allocation block size")
)

// ErrNotFound reports a lookup that matched no record.
var ErrNotFound = errors.New("not found")

// ErrUnsupported reports a valid structure this package does not handle, such as an HFS volume
// given to an HFS+ only operation.
var ErrUnsupported = errors.New("unsupported")

// DecodeError describes where a structural decode failed.
type DecodeError struct {
	Structure string
	Offset    int
	Reason    string
	Err       error
}

// NewDecodeError creates a DecodeError wrapping one of the sentinel errors
func NewDecodeError(structure string, offset int, err error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Structure: structure,
		Offset:    offset,
		Reason:    fmt.Sprintf(format, args...),
		Err:       err,
	}
}

func (e *DecodeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s at offset %d: %v", e.Structure, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %v: %s", e.Structure, e.Offset, e.Err, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
