package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

// DefaultFilename is the name every exported table is saved under.
const DefaultFilename = "table.csv"

// Saver stores an exported table and returns where it went.
type Saver interface {
	Save(ctx context.Context, data []byte) (string, error)
}

// FileSaver writes tables into a directory under a fixed filename.
type FileSaver struct {
	Dir      string
	Filename string
}

// NewFileSaver validates filename and returns a saver. Empty values fall
// back to the working directory and [DefaultFilename].
func NewFileSaver(dir, filename string) (*FileSaver, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if err := errors.ValidateExportFilename(filename); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	return &FileSaver{Dir: dir, Filename: filename}, nil
}

// Path is the file the saver writes.
func (s *FileSaver) Path() string { return filepath.Join(s.Dir, s.Filename) }

// Save writes data, replacing any previous export.
func (s *FileSaver) Save(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.Dir, err)
	}
	path := s.Path()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
