package content

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Bucket.Get for keys that were never written.
var ErrObjectNotFound = errors.New("object not found")

// Bucket is a flat key/blob store the content tree is serialised into.
type Bucket interface {
	// Get writes the object stored under key to w.
	Get(ctx context.Context, key string, w io.Writer) error
	// Put replaces the object stored under key. Readers never observe a
	// partially written object.
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	// ValidateSetup checks that the bucket is reachable.
	ValidateSetup(ctx context.Context) error
}
