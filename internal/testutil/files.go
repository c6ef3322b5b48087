package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteImage stores data as an image file in a temporary directory and returns its path
func WriteImage(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

// WriteSampleImage writes SampleVolume to a temporary file
func WriteSampleImage(t testing.TB) string {
	t.Helper()
	return WriteImage(t, SampleVolume())
}
