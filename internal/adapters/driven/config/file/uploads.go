package file

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure UploadStore implements the interface.
var _ driven.UploadStore = (*UploadStore)(nil)

// UploadStore keeps copies of uploaded documents in <dataDir>/uploads,
// named <field>-<unix millis><ext>.
type UploadStore struct {
	dir string
	now func() time.Time
}

// NewUploadStore creates an upload store under dataDir.
// If dataDir is empty, defaults to ~/.docchat/data.
func NewUploadStore(dataDir string) (*UploadStore, error) {
	if dataDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(dir, "data")
	}
	return &UploadStore{
		dir: filepath.Join(dataDir, "uploads"),
		now: time.Now,
	}, nil
}

// Dir returns the uploads directory.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save copies the file at path into the store and returns its file:// URL.
func (s *UploadStore) Save(ctx context.Context, path, fieldName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return "", fmt.Errorf("create uploads directory: %w", err)
	}

	name := fmt.Sprintf("%s-%d%s", sanitiseField(fieldName), s.now().UnixMilli(), strings.ToLower(filepath.Ext(path)))
	dest := filepath.Join(s.dir, name)

	if err := copyFile(path, dest); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("resolve upload path: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// copyFile writes src to a new file at dest. An existing dest is an error.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("create upload copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("copy upload: %w", err)
	}
	return out.Close()
}

// sanitiseField keeps the field name safe for use in a file name.
func sanitiseField(field string) string {
	field = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, field)
	if field == "" {
		return "upload"
	}
	return field
}
