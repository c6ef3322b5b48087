package dump

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/services"
)

func mockResponse() *Response {
	return &Response{
		Source:          "disk.img",
		OutputPath:      "meta.img",
		SectorCount:     256,
		MetadataSectors: 24,
		BytesWritten:    256 * 512,
		Ranges:          []services.SectorRange{{Start: 0, End: 16}, {Start: 248, End: 256}},
		Duration:        2 * time.Second,
	}
}

func TestWriteOutput(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, mockResponse(), "table"))
		out := buf.String()
		assert.Contains(t, out, "Output:")
		assert.Contains(t, out, "meta.img")
		assert.Contains(t, out, "24 (12KiB)")
		assert.Regexp(t, `248\s+256\s+8`, out)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, mockResponse(), "json"))
		var decoded Response
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, mockResponse().Ranges, decoded.Ranges)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, WriteOutput(&bytes.Buffer{}, mockResponse(), "csv"))
	})
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "Dumped 24 of 256 sectors in 2 ranges to meta.img in 2s", FormatSummary(mockResponse()))
}
