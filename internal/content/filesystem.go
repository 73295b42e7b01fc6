package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSystemBucket stores each object as a file directly under root.
// Writes go to a temp file in root and are renamed into place.
type FileSystemBucket struct {
	root string
}

var _ Bucket = (*FileSystemBucket)(nil)

// NewFileSystemBucket creates root if needed.
func NewFileSystemBucket(root string) (*FileSystemBucket, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating content directory: %w", err)
	}
	return &FileSystemBucket{root: root}, nil
}

// Root returns the directory objects are written to.
func (b *FileSystemBucket) Root() string { return b.root }

// Path returns the file backing key.
func (b *FileSystemBucket) Path(key string) string { return filepath.Join(b.root, key) }

func (b *FileSystemBucket) checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}

func (b *FileSystemBucket) Get(ctx context.Context, key string, w io.Writer) error {
	if err := b.checkKey(key); err != nil {
		return err
	}
	f, err := os.Open(b.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	if err != nil {
		return fmt.Errorf("opening object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading object: %w", err)
	}
	return nil
}

func (b *FileSystemBucket) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := b.checkKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("writing object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}
	if err := os.Rename(tmpPath, b.Path(key)); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	committed = true
	return nil
}

func (b *FileSystemBucket) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(b.root)
	if err != nil {
		return fmt.Errorf("content root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content root is not a directory: %s", b.root)
	}
	return nil
}
