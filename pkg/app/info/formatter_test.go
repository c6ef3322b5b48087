package info

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func sampleResponse(t *testing.T) *Response {
	t.Helper()
	resp, err := Handle(newContext(), &Request{
		Target:             app.ImageTarget{Path: testutil.WriteSampleImage(t), Partition: device.AutoPartition},
		IncludeSystemFiles: true,
	})
	require.NoError(t, err)
	return resp
}

func TestWriteOutput(t *testing.T) {
	resp := sampleResponse(t)

	tests := []struct {
		name     string
		format   string
		validate func(*testing.T, string)
	}{
		{
			name:   "table format",
			format: "table",
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, "Name:")
				assert.Contains(t, output, testutil.SampleName)
				assert.Contains(t, output, "HFS+ (H+)")
				assert.Contains(t, output, "catalog")
				assert.Contains(t, output, "Journal:")
			},
		},
		{
			name:   "json format",
			format: "json",
			validate: func(t *testing.T, output string) {
				var decoded map[string]any
				require.NoError(t, json.Unmarshal([]byte(output), &decoded))
				volume, ok := decoded["volume"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, testutil.SampleName, volume["name"])
			},
		},
		{
			name:   "yaml format",
			format: "yaml",
			validate: func(t *testing.T, output string) {
				var decoded map[string]any
				require.NoError(t, yaml.Unmarshal([]byte(output), &decoded))
				assert.Contains(t, decoded, "image")
				assert.Contains(t, decoded, "volume")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteOutput(&buf, resp, tt.format))
			tt.validate(t, buf.String())
		})
	}

	assert.Error(t, WriteOutput(&bytes.Buffer{}, resp, "xml"))
}

func TestFormatSummary(t *testing.T) {
	summary := FormatSummary(sampleResponse(t))
	assert.Contains(t, summary, `HFS+ volume "Sample"`)
	assert.Contains(t, summary, "3 files, 1 folders")
}
