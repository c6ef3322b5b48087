package discover

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func mockResponse() *Response {
	modified := time.Date(2017, 3, 28, 12, 0, 0, 0, time.UTC)
	return &Response{
		Files: []app.FileEntry{
			{Path: "/readme.md", Name: "readme.md", CNID: 19, Type: "file", Size: 0, Modified: modified, Compressed: true},
			{Path: "/Documents/notes.txt", Name: "notes.txt", CNID: 17, Type: "file", Size: 1400, Modified: modified},
		},
		TotalFound: 3,
		SearchTime: 150 * time.Millisecond,
		VolumeInfo: VolumeInfo{Name: "Sample", Dialect: "HFS+", Journaled: true, Partition: -1},
		Truncated:  true,
		SearchQuery: SearchQuery{
			Extensions: []string{"txt", "md"},
			MaxResults: 2,
		},
	}
}

func TestWriteOutputTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, mockResponse(), "table"))

	out := buf.String()
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "readme.md (compressed)")
	assert.Contains(t, out, "Volume: Sample (HFS+)")
	assert.Contains(t, out, "Found 3 files (showing first 2)")

	// Rows are sorted by path
	assert.Less(t, strings.Index(out, "/Documents/notes.txt"), strings.Index(out, "/readme.md"))
}

func TestWriteOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, &Response{}, "table"))
	assert.Equal(t, "No files found matching the search criteria.\n", buf.String())
}

func TestWriteOutputStructured(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, mockResponse(), "json"))

		var decoded Response
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 3, decoded.TotalFound)
		assert.Len(t, decoded.Files, 2)
		assert.True(t, decoded.Files[0].Compressed)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, mockResponse(), "yaml"))

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 3, decoded["total_found"])
		assert.Equal(t, true, decoded["truncated"])
	})

	t.Run("unsupported", func(t *testing.T) {
		err := WriteOutput(&bytes.Buffer{}, mockResponse(), "xml")
		assert.EqualError(t, err, "unsupported output format: xml")
	})
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "No files found", FormatSummary(&Response{}))

	summary := FormatSummary(mockResponse())
	assert.Equal(t, "Found 3 files (showing 2) totaling 1.367KiB [1 tiny, 1 small] in 150ms", summary)
}
