package list

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/testutil"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func newContext() *app.Context {
	ctx := app.NewContext()
	ctx.Quiet = true
	return ctx
}

func TestHandle(t *testing.T) {
	image := testutil.WriteSampleImage(t)
	notesSize := uint64(len(testutil.SampleNotes))

	tests := []struct {
		name      string
		path      string
		recursive bool
		hidden    bool
		wantPaths []string
		wantFiles int
		wantDirs  int
		wantSize  uint64
	}{
		{
			name:      "root",
			path:      "/",
			wantPaths: []string{"/Documents", "/readme.md"},
			wantFiles: 1,
			wantDirs:  1,
		},
		{
			name:      "empty path lists the root",
			wantPaths: []string{"/Documents", "/readme.md"},
			wantFiles: 1,
			wantDirs:  1,
		},
		{
			name:      "folder without hidden files",
			path:      "/Documents",
			wantPaths: []string{"/Documents/notes.txt"},
			wantFiles: 1,
			wantSize:  notesSize,
		},
		{
			name:      "folder with hidden files",
			path:      "Documents/",
			hidden:    true,
			wantPaths: []string{"/Documents/.DS_Store", "/Documents/notes.txt"},
			wantFiles: 2,
			wantSize:  notesSize + uint64(len(testutil.SampleDSStore())),
		},
		{
			name:      "recursive",
			path:      "/",
			recursive: true,
			wantPaths: []string{"/Documents", "/readme.md", "/Documents/notes.txt"},
			wantFiles: 2,
			wantDirs:  1,
			wantSize:  notesSize,
		},
		{
			name:      "single file",
			path:      "/Documents/notes.txt",
			wantPaths: []string{"/Documents/notes.txt"},
			wantFiles: 1,
			wantSize:  notesSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Handle(newContext(), &Request{
				Target:     app.ImageTarget{Path: image, Partition: device.AutoPartition},
				Path:       tt.path,
				Recursive:  tt.recursive,
				ShowHidden: tt.hidden,
			})
			require.NoError(t, err)

			var paths []string
			for _, e := range resp.Entries {
				paths = append(paths, e.Path)
			}
			if diff := cmp.Diff(tt.wantPaths, paths); diff != "" {
				t.Errorf("Handle() paths mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, testutil.SampleName, resp.VolumeName)
			assert.Equal(t, tt.wantFiles, resp.TotalFiles)
			assert.Equal(t, tt.wantDirs, resp.TotalDirs)
			assert.Equal(t, tt.wantSize, resp.TotalSize)
		})
	}
}

func TestHandleEntries(t *testing.T) {
	resp, err := Handle(newContext(), &Request{
		Target: app.ImageTarget{Path: testutil.WriteSampleImage(t), Partition: device.AutoPartition},
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)

	docs, readme := resp.Entries[0], resp.Entries[1]
	assert.Equal(t, "folder", docs.Type)
	assert.Equal(t, "drwxr-xr-x", docs.Permissions)
	assert.Equal(t, "-", docs.FormatSize())
	assert.Empty(t, docs.Extension)

	assert.Equal(t, "file", readme.Type)
	assert.Equal(t, "-rw-r--r--", readme.Permissions)
	assert.Equal(t, "md", readme.Extension)
	assert.True(t, readme.Compressed)
	assert.Empty(t, readme.FileType)
}

func TestHandleMissingPath(t *testing.T) {
	_, err := Handle(newContext(), &Request{
		Target: app.ImageTarget{Path: testutil.WriteSampleImage(t), Partition: device.AutoPartition},
		Path:   "/Documents/missing",
	})
	var ce *app.CommonError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, app.ErrCodeNotFound, ce.Code)
}
