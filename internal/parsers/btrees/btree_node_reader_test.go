package btrees

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

// createTestDescriptorData creates a 14-byte node descriptor
func createTestDescriptorData(fLink, bLink uint32, kind byte, height uint8, numRecords uint16) []byte {
	data := make([]byte, types.NodeDescriptorSize)
	binary.BigEndian.PutUint32(data[0:4], fLink)
	binary.BigEndian.PutUint32(data[4:8], bLink)
	data[8] = kind
	data[9] = height
	binary.BigEndian.PutUint16(data[10:12], numRecords)
	return data
}

func TestNewNodeDescriptorReader(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		offset     int
		wantKind   types.NodeKind
		wantErr    bool
		wantErrIs  error
		wantFLink  uint32
		wantBLink  uint32
		wantHeight uint8
		wantCount  uint16
	}{
		{
			name:       "leaf node",
			data:       createTestDescriptorData(7, 5, 0xFF, 1, 3),
			wantKind:   types.NodeKindLeaf,
			wantFLink:  7,
			wantBLink:  5,
			wantHeight: 1,
			wantCount:  3,
		},
		{
			name:       "index node",
			data:       createTestDescriptorData(0, 0, 0x00, 2, 12),
			wantKind:   types.NodeKindIndex,
			wantHeight: 2,
			wantCount:  12,
		},
		{
			name:      "header node",
			data:      createTestDescriptorData(9, 0, 0x01, 0, 3),
			wantKind:  types.NodeKindHeader,
			wantFLink: 9,
			wantCount: 3,
		},
		{
			name:      "map node",
			data:      createTestDescriptorData(0, 0, 0x02, 0, 1),
			wantKind:  types.NodeKindMap,
			wantCount: 1,
		},
		{
			name:       "descriptor at non-zero offset",
			data:       append(make([]byte, 512), createTestDescriptorData(1, 2, 0xFF, 1, 4)...),
			offset:     512,
			wantKind:   types.NodeKindLeaf,
			wantFLink:  1,
			wantBLink:  2,
			wantHeight: 1,
			wantCount:  4,
		},
		{
			name:      "invalid kind",
			data:      createTestDescriptorData(0, 0, 0x03, 0, 0),
			wantErr:   true,
			wantErrIs: types.ErrInvalidNodeKind,
		},
		{
			name:      "negative invalid kind",
			data:      createTestDescriptorData(0, 0, 0xFE, 0, 0),
			wantErr:   true,
			wantErrIs: types.ErrInvalidNodeKind,
		},
		{
			name:    "too small",
			data:    make([]byte, 10),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewNodeDescriptorReader(tt.data, tt.offset)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.True(t, errors.Is(err, tt.wantErrIs), "expected %v, got %v", tt.wantErrIs, err)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, reader.Kind())
			assert.Equal(t, tt.wantFLink, reader.ForwardLink())
			assert.Equal(t, tt.wantBLink, reader.BackwardLink())
			assert.Equal(t, tt.wantHeight, reader.Height())
			assert.Equal(t, tt.wantCount, reader.NumRecords())
			assert.Equal(t, tt.data[tt.offset:tt.offset+types.NodeDescriptorSize], reader.Bytes())
		})
	}
}

func TestRecordOffsets(t *testing.T) {
	node := testutil.BuildNode(512, types.NodeKindLeaf, 1, 0, 0,
		[]byte("alpha"), []byte("bravo!"), []byte("c"))
	descriptor, err := NewNodeDescriptorReader(node, 0)
	require.NoError(t, err)

	offsets, err := RecordOffsets(descriptor, node, 0, 512)
	require.NoError(t, err)
	assert.Equal(t, []int{14, 19, 25, 26}, offsets)
}

func TestCarveRecordsPartition(t *testing.T) {
	tests := []struct {
		name    string
		records [][]byte
	}{
		{name: "empty node", records: nil},
		{name: "single record", records: [][]byte{[]byte("only")}},
		{name: "several records", records: [][]byte{[]byte("a"), []byte("bb"), []byte("ccc"), []byte("dddd")}},
		{name: "zero length record", records: [][]byte{[]byte("x"), {}, []byte("z")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const nodeSize = 512
			node := testutil.BuildNode(nodeSize, types.NodeKindLeaf, 1, 0, 0, tt.records...)
			descriptor, err := NewNodeDescriptorReader(node, 0)
			require.NoError(t, err)

			var spans [][2]int
			records, err := CarveRecords[*Record](descriptor, node, 0, nodeSize,
				func(data []byte, offset, length, index int) (*Record, error) {
					assert.Equal(t, len(spans), index)
					spans = append(spans, [2]int{offset, offset + length})
					return NewRecord(data, offset, length)
				})
			require.NoError(t, err)
			require.Len(t, records, len(tt.records))

			offsets, err := RecordOffsets(descriptor, node, 0, nodeSize)
			require.NoError(t, err)

			// spans are contiguous and cover [first record, free space)
			expectedStart := offsets[0]
			for i, span := range spans {
				assert.Equal(t, expectedStart, span[0], "span %d start", i)
				assert.GreaterOrEqual(t, span[1], span[0])
				expectedStart = span[1]
				assert.Equal(t, tt.records[i], records[i].Bytes())
			}
			assert.Equal(t, offsets[len(offsets)-1], expectedStart)
		})
	}
}

func TestCarveRecordsAtOffset(t *testing.T) {
	const nodeSize = 512
	node := testutil.BuildNode(nodeSize, types.NodeKindLeaf, 1, 0, 0, []byte("first"), []byte("second"))
	data := append(make([]byte, 3*nodeSize), node...)

	descriptor, err := NewNodeDescriptorReader(data, 3*nodeSize)
	require.NoError(t, err)

	records, err := CarveRecords[*Record](descriptor, data, 3*nodeSize, nodeSize, RawRecordFactory)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", string(records[0].Bytes()))
	assert.Equal(t, "second", string(records[1].Bytes()))
}

func TestCarveRecordsOutOfBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(node []byte)
	}{
		{
			name: "decreasing offsets",
			mutate: func(node []byte) {
				// second record starts before the first
				binary.BigEndian.PutUint16(node[512-4:512-2], 10)
			},
		},
		{
			name: "offset inside descriptor",
			mutate: func(node []byte) {
				binary.BigEndian.PutUint16(node[512-2:512], 4)
			},
		},
		{
			name: "free space beyond offset table",
			mutate: func(node []byte) {
				binary.BigEndian.PutUint16(node[512-6:512-4], 511)
			},
		},
		{
			name: "record count larger than node",
			mutate: func(node []byte) {
				binary.BigEndian.PutUint16(node[10:12], 400)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := testutil.BuildNode(512, types.NodeKindLeaf, 1, 0, 0, []byte("abc"), []byte("def"))
			tt.mutate(node)

			descriptor, err := NewNodeDescriptorReader(node, 0)
			require.NoError(t, err)

			_, err = CarveRecords[*Record](descriptor, node, 0, 512, RawRecordFactory)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrRecordOutOfBounds)
		})
	}
}

func TestCarveRecordsFactoryError(t *testing.T) {
	node := testutil.BuildNode(512, types.NodeKindLeaf, 1, 0, 0, []byte("abc"))
	descriptor, err := NewNodeDescriptorReader(node, 0)
	require.NoError(t, err)

	sentinel := errors.New("boom")
	_, err = CarveRecords[int](descriptor, node, 0, 512, func([]byte, int, int, int) (int, error) {
		return 0, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestCarveRecordsNodeLargerThanData(t *testing.T) {
	node := testutil.BuildNode(512, types.NodeKindLeaf, 1, 0, 0, []byte("abc"))
	descriptor, err := NewNodeDescriptorReader(node, 0)
	require.NoError(t, err)

	_, err = CarveRecords[*Record](descriptor, node[:300], 0, 512, RawRecordFactory)
	assert.Error(t, err)
}
