package btrees

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/interfaces"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

var (
	_ interfaces.BTreeHeaderReader = (*HeaderRecord)(nil)
	_ interfaces.BTreeRecord       = (*HeaderRecord)(nil)
	_ interfaces.BTreeRecord       = (*Record)(nil)
)

func testHeaderOptions() testutil.HeaderRecordOptions {
	return testutil.HeaderRecordOptions{
		Depth:          2,
		Root:           3,
		LeafRecords:    42,
		FirstLeaf:      1,
		LastLeaf:       2,
		NodeSize:       512,
		MaxKeyLength:   516,
		TotalNodes:     16,
		FreeNodes:      12,
		KeyCompareType: uint8(types.KeyCompareBinary),
		Attributes:     types.BTBigKeysMask | types.BTVariableIndexKeysMask,
	}
}

func TestDecodeHeaderNode(t *testing.T) {
	opts := testHeaderOptions()
	node := testutil.BuildHeaderNode(opts, 4)

	headerNode, err := DecodeHeaderNode(node, 0, 512, types.DialectHFSX)
	require.NoError(t, err)

	hr := headerNode.HeaderRecord()
	assert.Equal(t, uint16(2), hr.TreeDepth())
	assert.Equal(t, uint32(3), hr.RootNode())
	assert.Equal(t, uint32(42), hr.LeafRecords())
	assert.Equal(t, uint32(1), hr.FirstLeafNode())
	assert.Equal(t, uint32(2), hr.LastLeafNode())
	assert.Equal(t, uint16(512), hr.NodeSize())
	assert.Equal(t, uint16(516), hr.MaxKeyLength())
	assert.Equal(t, uint32(16), hr.TotalNodes())
	assert.Equal(t, uint32(12), hr.FreeNodes())
	assert.True(t, hr.HasBigKeys())
	assert.True(t, hr.HasVariableIndexKeys())
	assert.Equal(t, types.KeyCompareBinary, hr.KeyCompareType())

	assert.Len(t, headerNode.UserData(), types.BTUserDataRecordSize)
	assert.True(t, headerNode.IsNodeAllocated(0))
	assert.True(t, headerNode.IsNodeAllocated(3))
	assert.False(t, headerNode.IsNodeAllocated(4))
	assert.False(t, headerNode.IsNodeAllocated(100000))
}

func TestHeaderRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		mutate  func(b []byte)
	}{
		{name: "HFS+", dialect: types.DialectHFSPlus},
		{name: "HFSX", dialect: types.DialectHFSX},
		{
			name:    "HFS keeps reserved bytes",
			dialect: types.DialectHFS,
			mutate: func(b []byte) {
				for i := 30; i < len(b); i++ {
					b[i] = byte(i)
				}
			},
		},
		{
			name:    "HFS+ reserved words",
			dialect: types.DialectHFSPlus,
			mutate: func(b []byte) {
				binary.BigEndian.PutUint32(b[32:36], 0x1000)
				b[36] = 128
				binary.BigEndian.PutUint32(b[42:46], 0xDEADBEEF)
				binary.BigEndian.PutUint32(b[102:106], 0xCAFEBABE)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := testutil.BuildHeaderRecord(testHeaderOptions())
			if tt.mutate != nil {
				tt.mutate(raw)
			}
			hr, err := DecodeHeaderRecord(raw, 0, tt.dialect)
			require.NoError(t, err)
			if diff := cmp.Diff(raw, hr.Bytes()); diff != "" {
				t.Errorf("header record round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHeaderRecordKeyCompareType(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		raw     uint8
		want    types.KeyCompareType
	}{
		{name: "HFS always compares bytes", dialect: types.DialectHFS, raw: uint8(types.KeyCompareBinary), want: types.KeyCompareBytes},
		{name: "HFS+ always folds case", dialect: types.DialectHFSPlus, raw: uint8(types.KeyCompareBinary), want: types.KeyCompareCaseFolding},
		{name: "HFSX binary", dialect: types.DialectHFSX, raw: uint8(types.KeyCompareBinary), want: types.KeyCompareBinary},
		{name: "HFSX case folding", dialect: types.DialectHFSX, raw: uint8(types.KeyCompareCaseFolding), want: types.KeyCompareCaseFolding},
		{name: "HFSX unset flag folds case", dialect: types.DialectHFSX, raw: 0, want: types.KeyCompareCaseFolding},
		{name: "HFSX literal one is not binary", dialect: types.DialectHFSX, raw: 1, want: types.KeyCompareCaseFolding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testHeaderOptions()
			opts.KeyCompareType = tt.raw
			hr, err := DecodeHeaderRecord(testutil.BuildHeaderRecord(opts), 0, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hr.KeyCompareType())
		})
	}
}

func TestDecodeHeaderNodeErrors(t *testing.T) {
	t.Run("wrong record count", func(t *testing.T) {
		node := testutil.BuildNode(512, types.NodeKindHeader, 0, 0, 0,
			testutil.BuildHeaderRecord(testHeaderOptions()), make([]byte, 128))
		_, err := DecodeHeaderNode(node, 0, 512, types.DialectHFSPlus)
		assert.ErrorIs(t, err, types.ErrHeaderRecordCount)
	})

	t.Run("not a header node", func(t *testing.T) {
		node := testutil.BuildNode(512, types.NodeKindLeaf, 1, 0, 0, []byte("a"), []byte("b"), []byte("c"))
		_, err := DecodeHeaderNode(node, 0, 512, types.DialectHFSPlus)
		assert.ErrorIs(t, err, types.ErrInvalidNodeKind)
	})

	t.Run("short header record", func(t *testing.T) {
		node := testutil.BuildNode(512, types.NodeKindHeader, 0, 0, 0, make([]byte, 50), make([]byte, 128), make([]byte, 8))
		_, err := DecodeHeaderNode(node, 0, 512, types.DialectHFSPlus)
		assert.Error(t, err)
	})
}

func TestDecodeIndexNode(t *testing.T) {
	rawKey := func(data []byte, offset int) (*RawKey, error) {
		n := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		return NewRawKey(data[offset : offset+2+n]), nil
	}

	rec := func(key string, child uint32) []byte {
		b := make([]byte, 2, 2+len(key)+4)
		binary.BigEndian.PutUint16(b, uint16(len(key)))
		b = append(b, key...)
		return binary.BigEndian.AppendUint32(b, child)
	}

	records := [][]byte{rec("aa", 5), rec("bbbb", 9), rec("cc", 12)}
	node := testutil.BuildNode(512, types.NodeKindIndex, 2, 0, 0, records...)

	indexNode, err := DecodeIndexNode[*RawKey](node, 0, 512, rawKey)
	require.NoError(t, err)
	assert.Equal(t, []uint32{5, 9, 12}, indexNode.ChildNodes())
	assert.Equal(t, 3, indexNode.NumRecords())

	for i, r := range indexNode.Records() {
		assert.Equal(t, records[i], r.Bytes(), "record %d round trip", i)
		assert.Equal(t, len(records[i]), r.Size())
	}

	assert.Negative(t, indexNode.Record(0).Key().Compare(indexNode.Record(1).Key()))

	_, err = DecodeIndexNode[*RawKey](testutil.BuildNode(512, types.NodeKindLeaf, 1, 0, 0, records...), 0, 512, rawKey)
	assert.ErrorIs(t, err, types.ErrInvalidNodeKind)
}

func TestDecodeMapNode(t *testing.T) {
	bitmap := make([]byte, 512-types.NodeDescriptorSize-4)
	bitmap[0] = 0xF0
	node := testutil.BuildNode(512, types.NodeKindMap, 0, 0, 0, bitmap)

	mapNode, err := DecodeMapNode(node, 0, 512)
	require.NoError(t, err)
	require.Equal(t, 1, mapNode.NumRecords())
	assert.Equal(t, bitmap, mapNode.Record(0).Bytes())
}
