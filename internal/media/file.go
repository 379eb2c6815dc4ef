package media

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveDataURI decodes uri and writes it to dir/name plus an extension
// matching its MIME type. It returns the written path.
func SaveDataURI(dir, name, uri string) (string, error) {
	mime, data, err := ParseDataURI(uri)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+Extension(mime))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
