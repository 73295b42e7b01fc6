package content

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemBucket(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "content")
	b, err := NewFileSystemBucket(root)
	if err != nil {
		t.Fatalf("NewFileSystemBucket() error = %v", err)
	}
	if err := b.ValidateSetup(context.Background()); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}

func TestFileSystemBucket_PutGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "stores object", key: "content.json", data: "[]", size: 2},
		{name: "empty object", key: "empty", data: "", size: 0},
		{name: "size mismatch", key: "bad", data: "abc", size: 10, wantErr: true},
		{name: "rejects path traversal", key: "../escape", data: "x", size: 1, wantErr: true},
		{name: "rejects nested key", key: "a/b", data: "x", size: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewFileSystemBucket(t.TempDir())
			if err != nil {
				t.Fatalf("NewFileSystemBucket() error = %v", err)
			}

			err = b.Put(ctx, tt.key, strings.NewReader(tt.data), tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Put() expected error")
				}
				entries, _ := os.ReadDir(b.Root())
				if len(entries) != 0 {
					t.Errorf("left %d files behind after failed Put", len(entries))
				}
				return
			}
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			var buf bytes.Buffer
			if err := b.Get(ctx, tt.key, &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if buf.String() != tt.data {
				t.Errorf("Get() = %q, want %q", buf.String(), tt.data)
			}
		})
	}
}

func TestFileSystemBucket_Overwrite(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileSystemBucket(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemBucket() error = %v", err)
	}

	for _, v := range []string{"first", "second"} {
		if err := b.Put(ctx, "k", strings.NewReader(v), int64(len(v))); err != nil {
			t.Fatalf("Put(%q) error = %v", v, err)
		}
	}
	data, err := os.ReadFile(b.Path("k"))
	if err != nil {
		t.Fatalf("reading object file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("object = %q, want second", data)
	}
}

func TestFileSystemBucket_GetMissing(t *testing.T) {
	b, err := NewFileSystemBucket(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemBucket() error = %v", err)
	}
	var buf bytes.Buffer
	if err := b.Get(context.Background(), "content.json", &buf); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Get() error = %v, want ErrObjectNotFound", err)
	}
}

func TestFileSystemBucket_ValidateSetup_NotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	b := &FileSystemBucket{root: file}
	if err := b.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error for file root")
	}
}
