package dsstore

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/internal/types"
)

func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }
func u64(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) }

func leafStore() []byte {
	return testutil.BuildDSStore(testutil.DSStoreNodeBlock(0), 0, testutil.DSStoreNode{
		Records: [][]byte{
			testutil.DSStoreRecord(".", "ICVO", "bool", []byte{1}),
			testutil.DSStoreRecord(".", "vSrn", "long", u32(1)),
			testutil.DSStoreRecord("a.txt", "Iloc", "blob", append(u32(16), append(append(u32(120), u32(48)...), make([]byte, 8)...)...)),
			testutil.DSStoreRecord("a.txt", "cmmt", "ustr", append(u32(5), testutil.UTF16BE("hello")...)),
			testutil.DSStoreRecord("b", "fwvh", "shor", []byte{0, 0, 0x01, 0x2C}),
			testutil.DSStoreRecord("b", "vstl", "type", []byte("icnv")),
			testutil.DSStoreRecord("b", "logS", "comp", u64(4096)),
			testutil.DSStoreRecord("b", "moDD", "dutc", u64(uint64(types.MacEpochOffset)<<16)),
		},
	})
}

func TestOpen(t *testing.T) {
	s, err := Open(leafStore())
	require.NoError(t, err)

	assert.Equal(t, uint32(2048), s.Header().RootBlockOffset)
	assert.Equal(t, 3, s.RootBlock().BlockCount())
	assert.Equal(t, []TOCEntry{{Name: "DSDB", BlockID: 1}}, s.RootBlock().TableOfContents())
	assert.Equal(t, uint32(0x1000), s.TreeHeader().PageSize)
	assert.Equal(t, uint32(8), s.TreeHeader().Records)

	id, addr := s.TreeBlock()
	assert.Equal(t, uint32(1), id)
	assert.Equal(t, uint32(4096), addr.Offset())
	assert.Equal(t, uint32(2048), addr.Size())
	assert.Equal(t, 4100, addr.FileOffset())
}

func TestRecordValues(t *testing.T) {
	s, err := Open(leafStore())
	require.NoError(t, err)

	records, err := s.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 8)

	want := []any{
		true,
		uint32(1),
		append(append(u32(120), u32(48)...), make([]byte, 8)...),
		"hello",
		int16(300),
		types.NewFourCC("icnv"),
		uint64(4096),
		Timestamp(uint64(types.MacEpochOffset) << 16),
	}
	for i, rec := range records {
		assert.Equal(t, want[i], rec.Value, "record %d (%s)", i, rec.StructType)
	}
	assert.Equal(t, "a.txt", records[2].Filename)
	assert.Equal(t, "Iloc", records[2].StructID.String())
	assert.Equal(t, time.Unix(0, 0).UTC(), records[7].Value.(Timestamp).Time())

	loc, err := InterpretBlob(records[2].StructID, records[2].Value.([]byte))
	require.NoError(t, err)
	assert.Equal(t, IconLocation{X: 120, Y: 48}, loc)
}

func TestUnknownStructTypeIsFatal(t *testing.T) {
	data := testutil.BuildDSStore(testutil.DSStoreNodeBlock(0), 0, testutil.DSStoreNode{
		Records: [][]byte{
			testutil.DSStoreRecord("x", "ptbL", "long", u32(1)),
			testutil.DSStoreRecord("x", "ptbN", "zzzz", u32(1)),
		},
	})
	s, err := Open(data)
	require.NoError(t, err)

	_, err = s.Records(context.Background())
	assert.ErrorIs(t, err, types.ErrUnknownStructType)
}

func TestIndexTree(t *testing.T) {
	leaf := func(name string) testutil.DSStoreNode {
		return testutil.DSStoreNode{Records: [][]byte{testutil.DSStoreRecord(name, "vSrn", "long", u32(1))}}
	}
	data := testutil.BuildDSStore(testutil.DSStoreNodeBlock(0), 1,
		testutil.DSStoreNode{
			Mode:     testutil.DSStoreNodeBlock(3),
			Children: []uint32{testutil.DSStoreNodeBlock(1), testutil.DSStoreNodeBlock(2)},
			Records: [][]byte{
				testutil.DSStoreRecord("b", "vSrn", "long", u32(1)),
				testutil.DSStoreRecord("d", "vSrn", "long", u32(1)),
			},
		},
		leaf("a"), leaf("c"), leaf("e"),
	)
	s, err := Open(data)
	require.NoError(t, err)

	records, err := s.Records(context.Background())
	require.NoError(t, err)
	var names []string
	for _, r := range records {
		names = append(names, r.Filename)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)

	var visits []string
	err = s.Walk(context.Background(), func(depth int, n *Node) error {
		visits = append(visits, n.Records[0].Filename)
		if depth == 0 {
			assert.False(t, n.IsLeaf())
			assert.Equal(t, testutil.DSStoreNodeBlock(3), n.RightmostChild())
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "e"}, visits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Walk(ctx, func(int, *Node) error { return nil }), context.Canceled)
}

func TestDecodeHeaderErrors(t *testing.T) {
	data := leafStore()

	bad := append([]byte(nil), data...)
	copy(bad[4:8], "Bud2")
	_, err := Open(bad)
	assert.ErrorIs(t, err, types.ErrInvalidMagic)

	mismatch := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(mismatch[16:20], 4096)
	_, err = Open(mismatch)
	assert.ErrorIs(t, err, types.ErrInvalidMagic)

	_, err = Open(data[:20])
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}

func TestInterpretBlob(t *testing.T) {
	bplist, err := plist.Marshal(map[string]any{"ShowSidebar": true}, plist.BinaryFormat)
	require.NoError(t, err)

	tests := []struct {
		name     string
		structID string
		blob     []byte
		want     any
	}{
		{
			name:     "window info",
			structID: "fwi0",
			blob:     []byte{0, 10, 0, 20, 0, 30, 0, 40, 'N', 'l', 's', 'v', 0, 0, 0, 0},
			want:     WindowInfo{Top: 10, Left: 20, Bottom: 30, Right: 40, View: types.NewFourCC("Nlsv")},
		},
		{
			name:     "solid background",
			structID: "BKGD",
			blob:     []byte{'C', 'l', 'r', 'B', 0xFF, 0xFF, 0, 0, 0x80, 0, 0, 0},
			want: Background{
				Kind: types.NewFourCC("ClrB"),
				Red:  0xFFFF,
				Blue: 0x8000,
				Raw:  [8]byte{0xFF, 0xFF, 0, 0, 0x80, 0, 0, 0},
			},
		},
		{
			name:     "unrecognized blob",
			structID: "pict",
			blob:     []byte{1, 2, 3},
			want:     nil,
		},
		{
			name:     "unknown icvo magic",
			structID: "icvo",
			blob:     []byte("abcdefgh"),
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InterpretBlob(types.NewFourCC(tt.structID), tt.blob)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("binary plist", func(t *testing.T) {
		got, err := InterpretBlob(types.NewFourCC("bwsp"), bplist)
		require.NoError(t, err)
		pl, ok := got.(*PropertyList)
		require.True(t, ok)
		assert.Equal(t, plist.BinaryFormat, pl.Format)
		assert.Equal(t, map[string]any{"ShowSidebar": true}, pl.Value)
		xml, err := pl.XML()
		require.NoError(t, err)
		assert.Contains(t, xml, "<key>ShowSidebar</key>")
	})

	t.Run("icv4", func(t *testing.T) {
		blob := append([]byte("icv4"), 0, 64, 'n', 'o', 'n', 'e', 'b', 'o', 't', 'm')
		flags := make([]byte, 12)
		flags[1] = 1
		got, err := InterpretBlob(types.NewFourCC("icvo"), append(blob, flags...))
		require.NoError(t, err)
		o := got.(*IconViewOptions)
		assert.Equal(t, uint16(64), o.IconSize)
		assert.Equal(t, "none", o.ArrangeBy.String())
		assert.True(t, o.ShowItemInfo)
		assert.False(t, o.ShowIconPreview)
	})
}
