package list

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func testResponse() *Response {
	modified := time.Date(2021, 3, 4, 5, 6, 0, 0, time.UTC)
	return &Response{
		Path:       "/Documents",
		VolumeName: "Sample",
		Entries: []app.FileEntry{
			{Path: "/Documents/a.txt", Name: "a.txt", CNID: 20, Type: "file", Size: 2048, Modified: modified, Permissions: "-rw-r--r--"},
			{Path: "/Documents/b", Name: "b", CNID: 21, Type: "folder", Modified: modified, Permissions: "drwxr-xr-x"},
			{Path: "/Documents/c.bin", Name: "c.bin", CNID: 22, Type: "file", Size: 10, Modified: modified, Permissions: "-rw-------", Compressed: true},
		},
		TotalFiles: 2,
		TotalDirs:  1,
		TotalSize:  2058,
	}
}

func TestWriteOutput(t *testing.T) {
	tests := []struct {
		name     string
		response *Response
		format   string
		validate func(*testing.T, string)
	}{
		{
			name:     "table format",
			response: testResponse(),
			format:   "table",
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, "PERMISSIONS")
				assert.Contains(t, output, "/Documents/a.txt")
				assert.Contains(t, output, "2KiB")
				assert.Contains(t, output, "/Documents/c.bin (compressed)")
				assert.Contains(t, output, "2021-03-04 05:06")
				assert.Contains(t, output, "2 files, 1 folders")
			},
		},
		{
			name:     "empty table",
			response: &Response{Path: "/empty"},
			format:   "table",
			validate: func(t *testing.T, output string) {
				assert.Equal(t, "/empty is empty.\n", output)
			},
		},
		{
			name:     "json format",
			response: testResponse(),
			format:   "json",
			validate: func(t *testing.T, output string) {
				var decoded Response
				require.NoError(t, json.Unmarshal([]byte(output), &decoded))
				assert.Len(t, decoded.Entries, 3)
				assert.Equal(t, "/Documents", decoded.Path)
			},
		},
		{
			name:     "yaml format",
			response: testResponse(),
			format:   "yaml",
			validate: func(t *testing.T, output string) {
				var decoded map[string]any
				require.NoError(t, yaml.Unmarshal([]byte(output), &decoded))
				assert.Equal(t, "Sample", decoded["volume_name"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteOutput(&buf, tt.response, tt.format))
			tt.validate(t, buf.String())
		})
	}
}

func TestWriteOutputUnsupported(t *testing.T) {
	assert.Error(t, WriteOutput(&bytes.Buffer{}, testResponse(), "csv"))
}
