// Package assets handles binary uploads. The core only ever persists the URL
// an Uploader returns; the storage itself is a collaborator behind the
// interface.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Uploader stores an uploaded file and returns a public URL for it.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Dir stores uploads on local disk and serves them under a URL prefix.
type Dir struct {
	path      string
	urlPrefix string
}

// NewDir creates the upload directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Dir{path: path, urlPrefix: "/uploads"}, nil
}

var _ Uploader = (*Dir)(nil)

// Upload writes the file under a random name, keeping the original extension.
func (d *Dir) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fname := uuid.NewString() + filepath.Ext(name)
	dst := filepath.Join(d.path, fname)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return d.urlPrefix + "/" + fname, nil
}
