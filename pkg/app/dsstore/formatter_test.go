package dsstore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockResponse() *Response {
	return &Response{
		Source:    ".DS_Store",
		Size:      8196,
		Allocator: AllocatorInfo{RootBlockOffset: 0x800, RootBlockSize: 0x800, BlockCount: 3, TOC: []TOCEntry{{Name: "DSDB", BlockID: 1}}},
		Tree:      TreeInfo{HeaderBlock: 1, RootNode: 4, Levels: 1, Records: 3, Nodes: 3, PageSize: 0x1000},
		Nodes: []NodeInfo{
			{BlockID: 4, Depth: 0, Records: 1, Children: []uint32{2, 3}},
			{BlockID: 2, Depth: 1, Leaf: true, Records: 1},
			{BlockID: 3, Depth: 1, Leaf: true, Records: 1},
		},
		Records: []RecordInfo{
			{Filename: "a.txt", StructID: "Iloc", StructType: "blob", Value: "blob (16 bytes)", Detail: "x=1 y=2"},
			{Filename: "b.txt", StructID: "cmmt", StructType: "ustr", Value: `"hi"`},
			{Filename: "b.txt", StructID: "bwsp", StructType: "blob", Value: "blob (60 bytes)", Plist: "<plist/>"},
		},
	}
}

func TestWriteOutputTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, mockResponse(), "table"))

	out := buf.String()
	assert.Contains(t, out, "DSDB -> block 1")
	assert.Contains(t, out, "index 4: 1 records, children [2 3]\n")
	assert.Contains(t, out, "  leaf 2: 1 records\n")
	assert.Regexp(t, `a\.txt\s+Iloc\s+blob\s+blob \(16 bytes\): x=1 y=2`, out)
	assert.Contains(t, out, "\nb.txt bwsp:\n<plist/>\n")
}

func TestWriteOutputUnsupported(t *testing.T) {
	assert.Error(t, WriteOutput(&bytes.Buffer{}, mockResponse(), "csv"))
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "3 records for 2 items in 3 nodes", FormatSummary(mockResponse()))
}
