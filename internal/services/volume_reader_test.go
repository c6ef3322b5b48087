package services

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestVolumeReaderReadBlock(t *testing.T) {
	f := buildFixture(t)
	vr, err := NewVolumeReader(f.source())
	require.NoError(t, err)

	assert.Equal(t, types.DialectHFSPlus, vr.Dialect())
	assert.Equal(t, int64(len(f.image)), vr.Size())

	n := f.bigExtents[0].StartBlock
	assert.False(t, vr.IsCached(n))
	block, err := vr.ReadBlock(n)
	require.NoError(t, err)
	assert.Equal(t, f.bigData[:fixtureBlockSize], block)
	assert.True(t, vr.IsCached(n))

	// callers get copies of cached blocks
	block[0] ^= 0xFF
	again, err := vr.ReadBlock(n)
	require.NoError(t, err)
	assert.Equal(t, f.bigData[:fixtureBlockSize], again)

	vr.ClearCache()
	assert.False(t, vr.IsCached(n))

	_, err = vr.ReadBlock(fixtureTotalBlocks)
	assert.ErrorIs(t, err, types.ErrRecordOutOfBounds)
}

func TestVolumeReaderReadAt(t *testing.T) {
	f := buildFixture(t)
	vr, err := NewVolumeReader(f.source())
	require.NoError(t, err)

	size := int64(len(f.image))
	buf := make([]byte, 64)

	n, err := vr.ReadAt(buf, size-32)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 32, n)
	assert.Equal(t, f.image[size-32:], buf[:32])

	n, err = vr.ReadAt(buf, size)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)

	_, err = vr.ReadAt(buf, -1)
	assert.Error(t, err)
}

func TestNewVolumeReaderErrors(t *testing.T) {
	_, err := NewVolumeReader(nil)
	assert.Error(t, err)

	_, err = NewVolumeReader(bytes.NewReader(make([]byte, 100)))
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}
