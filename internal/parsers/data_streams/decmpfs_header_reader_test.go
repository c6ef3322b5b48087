package datastreams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestNewDecmpfsHeaderReader(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantType     types.DecmpfsCompressionType
		wantSize     uint64
		wantResource bool
		wantName     string
		wantErrIs    error
	}{
		{
			name:     "zlib inline",
			data:     testutil.Concat(testutil.DecmpfsHeader(types.DecmpfsMagic, 3, 4096), []byte{0x78, 0x9c}),
			wantType: types.DecmpfsZlibInline,
			wantSize: 4096,
			wantName: "zlib (inline)",
		},
		{
			name:         "lzfse resource fork",
			data:         testutil.DecmpfsHeader(types.DecmpfsMagic, 12, 1<<20),
			wantType:     types.DecmpfsLzfseResource,
			wantSize:     1 << 20,
			wantResource: true,
			wantName:     "LZFSE (resource fork)",
		},
		{
			name:     "unknown type still parses",
			data:     testutil.DecmpfsHeader(types.DecmpfsMagic, 99, 1),
			wantType: 99,
			wantSize: 1,
			wantName: "unknown (99)",
		},
		{
			name:      "big-endian magic is rejected",
			data:      []byte{0x63, 0x6d, 0x70, 0x66, 3, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
			wantErrIs: types.ErrInvalidMagic,
		},
		{
			name:      "zero magic",
			data:      testutil.DecmpfsHeader(0, 3, 10),
			wantErrIs: types.ErrInvalidMagic,
		},
		{
			name:      "short",
			data:      []byte("fpmc"),
			wantErrIs: types.ErrInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewDecmpfsHeaderReader(tt.data)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, types.DecmpfsMagic, r.Magic())
			assert.Equal(t, tt.wantType, r.CompressionType())
			assert.Equal(t, tt.wantSize, r.UncompressedSize())
			assert.Equal(t, tt.wantResource, r.StoresDataInResourceFork())
			assert.Equal(t, tt.wantName, r.CompressionTypeName())
			assert.Equal(t, tt.data[types.DecmpfsHeaderSize:], r.InlinePayload())
		})
	}
}

func TestDecmpfsMagicOnDisk(t *testing.T) {
	// stored as "fpmc"
	r, err := NewDecmpfsHeaderReader(testutil.Concat([]byte("fpmc"), make([]byte, 12)))
	require.NoError(t, err)
	assert.False(t, r.IsKnownCompressionType())
}
