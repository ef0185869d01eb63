// Package export holds the downloadable artifacts produced by the tools and writes them to disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	MIMEText = "text/plain"
	MIMEJSON = "application/json"
)

// Artifact is a file offered to the user for download
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// ContentDisposition returns the header value that makes a browser save the artifact under its filename
func (a Artifact) ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", a.Filename)
}

// ContentType returns the artifact's MIME type with an explicit UTF-8 charset
func (a Artifact) ContentType() string {
	return a.MIMEType + "; charset=utf-8"
}

// FileStore writes artifacts into a directory, keyed by artifact filename
type FileStore struct {
	dir string // The directory artifact filenames are relative to
}

func NewFileStore(dir string) FileStore {
	return FileStore{
		dir: dir,
	}
}

// Save writes the artifact, replacing any previous file of the same name, and returns the path written
func (fs FileStore) Save(a Artifact) (string, error) {
	if a.Filename == "" || filepath.Base(a.Filename) != a.Filename {
		return "", fmt.Errorf("invalid artifact filename %q", a.Filename)
	}
	err := os.MkdirAll(fs.dir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(fs.dir, a.Filename)
	err = os.WriteFile(path, a.Data, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}
