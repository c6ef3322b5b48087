package services

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

func TestForkReaderReadAt(t *testing.T) {
	f, v, _ := openFixture(t)
	fr := NewForkReader(v.Reader(), f.bigExtents, fixtureBigSize)

	assert.Equal(t, int64(fixtureBigSize), fr.Size())
	assert.Equal(t, int64(9*fixtureBlockSize), fr.AllocatedSize())
	assert.Equal(t, f.bigExtents, fr.Extents())

	tests := []struct {
		name    string
		off     int64
		length  int
		wantN   int
		wantErr error
	}{
		{name: "within first extent", off: 10, length: 100, wantN: 100},
		{name: "across extents", off: fixtureBlockSize - 50, length: 100, wantN: 100},
		{name: "across several extents", off: 100, length: 4 * fixtureBlockSize, wantN: 4 * fixtureBlockSize},
		{name: "up to the end", off: fixtureBigSize - 10, length: 10, wantN: 10},
		{name: "past the end", off: fixtureBigSize - 10, length: 30, wantN: 10, wantErr: io.EOF},
		{name: "at the end", off: fixtureBigSize, length: 1, wantN: 0, wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.length)
			n, err := fr.ReadAt(buf, tt.off)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantN, n)
			assert.Equal(t, f.bigData[tt.off:tt.off+int64(n)], buf[:n])
		})
	}

	_, err := fr.ReadAt(make([]byte, 1), -1)
	assert.Error(t, err)
}

func TestForkReaderReadAll(t *testing.T) {
	f, v, _ := openFixture(t)

	data, err := NewForkReader(v.Reader(), f.bigExtents, fixtureBigSize).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, f.bigData, data)
}

func TestForkReaderUncovered(t *testing.T) {
	f, v, _ := openFixture(t)

	// the logical size claims more than the first eight extents hold
	fr := NewForkReader(v.Reader(), f.bigExtents[:8], fixtureBigSize)
	_, err := fr.ReadAll()
	assert.ErrorIs(t, err, types.ErrInsufficientData)

	beyond := NewForkReader(v.Reader(), []types.ExtentDescriptor{{StartBlock: fixtureTotalBlocks + 4, BlockCount: 1}}, 10)
	_, err = beyond.ReadAll()
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}
