package scan

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-hfs/internal/services"
)

func mockResponse() *Response {
	return &Response{
		VolumeName: "Sample",
		Entries: []services.DecmpfsEntry{
			{CNID: 19, CompressionType: 3, CompressionName: "zlib (inline)", UncompressedSize: 29, Path: "/readme.md"},
			{CNID: 42, CompressionType: 4, CompressionName: "zlib (resource fork)", UncompressedSize: 4096},
		},
		Warnings: []services.ScanWarning{
			{CNID: 77, Reason: "has com.apple.decmpfs attribute with non-0 start block (3)"},
		},
		ByType:            map[string]int{"zlib (inline)": 1, "zlib (resource fork)": 1},
		TotalUncompressed: 4125,
	}
}

func TestWriteOutputTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, mockResponse(), "table"))

	out := buf.String()
	assert.Regexp(t, `19\s+3 zlib \(inline\)\s+29\s+/readme.md`, out)
	assert.Regexp(t, `42\s+4 zlib \(resource fork\)\s+4096\s+-`, out)
	assert.Contains(t, out, "warning: CNID 77 has com.apple.decmpfs attribute with non-0 start block (3)\n")
}

func TestWriteOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, &Response{}, "table"))
	assert.Equal(t, "No compressed files found.\n", buf.String())
}

func TestWriteOutputYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, mockResponse(), "yaml"))

	var decoded struct {
		Entries []struct {
			CNID uint32 `yaml:"cnid"`
			Path string `yaml:"path"`
		} `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, uint32(19), decoded.Entries[0].CNID)
	assert.Equal(t, "", decoded.Entries[1].Path)
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "2 compressed files (4.028KiB uncompressed) [1 zlib (inline), 1 zlib (resource fork)], 1 warnings",
		FormatSummary(mockResponse()))
	assert.Equal(t, "0 compressed files (0B uncompressed)", FormatSummary(&Response{}))
}
