package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// ImageTarget selects an image and, optionally, one partition within it
type ImageTarget struct {
	Path      string
	Partition int
}

// Validate ensures the image target is valid
func (it *ImageTarget) Validate() error {
	if it.Path == "" {
		return errors.New("image path is required")
	}
	if it.Partition < device.AutoPartition {
		return fmt.Errorf("invalid partition index %d", it.Partition)
	}
	return nil
}

// String returns a string representation of the image target
func (it *ImageTarget) String() string {
	if it.Partition == device.AutoPartition {
		return it.Path
	}
	return fmt.Sprintf("%s (partition %d)", it.Path, it.Partition)
}

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeDevice        = "DEVICE_ERROR"
	ErrCodeCorruptedData = "CORRUPTED_DATA"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnsupported   = "UNSUPPORTED"
	ErrCodeCancelled     = "CANCELLED"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError classifies err by its cause. Errors that already carry a code are returned as is.
func WrapError(message string, err error) *CommonError {
	var ce *CommonError
	if errors.As(err, &ce) {
		return ce
	}
	return NewError(ErrorCode(err), message, err)
}

// ErrorCode maps decoder and device errors to an error code. A CommonError keeps its own code.
func ErrorCode(err error) string {
	var ce *CommonError
	if errors.As(err, &ce) {
		return ce.Code
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeCancelled
	case errors.Is(err, types.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, types.ErrUnsupported):
		return ErrCodeUnsupported
	case errors.Is(err, types.ErrInvalidNodeKind),
		errors.Is(err, types.ErrInvalidRecordType),
		errors.Is(err, types.ErrRecordOutOfBounds),
		errors.Is(err, types.ErrHeaderRecordCount),
		errors.Is(err, types.ErrUnknownStructType),
		errors.Is(err, types.ErrInvalidSignature),
		errors.Is(err, types.ErrInvalidMagic),
		errors.Is(err, types.ErrInsufficientData),
		errors.Is(err, types.ErrInvalidBlockSize):
		return ErrCodeCorruptedData
	default:
		return ErrCodeDevice
	}
}
