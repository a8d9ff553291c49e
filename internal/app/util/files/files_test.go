package files

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"recording.wav", "recording.wav"},
		{"../../etc/passwd", "passwd"},
		{"/tmp/abs path.mp3", "abs_path.mp3"},
		{"voice memo (1).m4a", "voice_memo__1_.m4a"},
		{"", "upload"},
		{"..", "upload"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSaveUpload(t *testing.T) {
	content := []byte("fake audio bytes")

	path, cleanup, err := SaveUpload(bytes.NewReader(content), "clip.wav")
	require.NoError(t, err)
	defer cleanup()

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "clip.wav", filepath.Base(path))
}

func TestSaveUpload_CleanupRemovesDirectory(t *testing.T) {
	path, cleanup, err := SaveUpload(bytes.NewReader([]byte("x")), "clip.wav")
	require.NoError(t, err)

	cleanup()

	_, err = os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveUpload_EmptyRejected(t *testing.T) {
	_, _, err := SaveUpload(bytes.NewReader(nil), "empty.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestSaveUpload_PathTraversalContained(t *testing.T) {
	path, cleanup, err := SaveUpload(bytes.NewReader([]byte("x")), "../../escape.wav")
	require.NoError(t, err)
	defer cleanup()

	// The saved file must stay inside the created temp directory
	assert.Equal(t, "escape.wav", filepath.Base(path))
	assert.NotContains(t, path, "..")
}
