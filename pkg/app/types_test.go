package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestImageTarget(t *testing.T) {
	tests := []struct {
		name     string
		target   ImageTarget
		wantErr  bool
		wantText string
	}{
		{"auto partition", ImageTarget{Path: "disk.img", Partition: device.AutoPartition}, false, "disk.img"},
		{"explicit partition", ImageTarget{Path: "disk.img", Partition: 2}, false, "disk.img (partition 2)"},
		{"missing path", ImageTarget{Partition: device.AutoPartition}, true, ""},
		{"negative partition", ImageTarget{Path: "disk.img", Partition: -2}, true, "disk.img (partition -2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantText, tt.target.String())
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cancelled", fmt.Errorf("walk: %w", context.Canceled), ErrCodeCancelled},
		{"deadline", context.DeadlineExceeded, ErrCodeCancelled},
		{"not found", fmt.Errorf("lookup: %w", types.ErrNotFound), ErrCodeNotFound},
		{"unsupported", fmt.Errorf("lzfse: %w", types.ErrUnsupported), ErrCodeUnsupported},
		{"bad node", fmt.Errorf("node 4: %w", types.ErrInvalidNodeKind), ErrCodeCorruptedData},
		{"bad signature", types.ErrInvalidSignature, ErrCodeCorruptedData},
		{"short read", types.ErrInsufficientData, ErrCodeCorruptedData},
		{"common error", NewError(ErrCodeInvalidInput, "bad", types.ErrNotFound), ErrCodeInvalidInput},
		{"io", errors.New("permission denied"), ErrCodeDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestWrapError(t *testing.T) {
	cause := fmt.Errorf("catalog record: %w", types.ErrNotFound)
	wrapped := WrapError("cannot find /x", cause)

	assert.Equal(t, ErrCodeNotFound, wrapped.Code)
	assert.Equal(t, "cannot find /x: catalog record: not found", wrapped.Error())
	assert.ErrorIs(t, wrapped, types.ErrNotFound)

	existing := NewError(ErrCodeInvalidInput, "bad path", nil)
	assert.Same(t, existing, WrapError("ignored", existing))
	assert.Equal(t, "bad path", existing.Error())
}
