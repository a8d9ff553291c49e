package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SanitizeFilename strips any directory components and unsafe characters
// from an uploaded filename, keeping the extension intact.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSpace(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "upload"
	}
	return cleaned
}

// SaveUpload writes an uploaded stream into a fresh temp directory and
// returns the file path together with a cleanup function that removes the
// whole directory. The cleanup function is safe to call unconditionally.
func SaveUpload(src io.Reader, originalName string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "whisper-upload-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	path := filepath.Join(dir, SanitizeFilename(originalName))
	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if written == 0 {
		cleanup()
		return "", nil, fmt.Errorf("uploaded file is empty")
	}

	return path, cleanup, nil
}
