package content

import (
	"context"
	"fmt"

	"catalog-go/internal/catalog"
	"catalog-go/internal/config"
	"catalog-go/internal/database"
)

// Store is a configured content store plus what the caller needs to run
// and release it.
type Store struct {
	catalog.ContentStore

	// WatchDir is set when the document lives on local disk and watching
	// was requested.
	WatchDir  string
	WatchFile string

	close func() error
}

// Close releases connections held by the store.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewContentStoreFromConfig creates the content store selected by cfg.Type.
// With cfg.Encrypt the blob backends seal the document with enc; dec may be
// nil when the key has not been unlocked, which makes loads fail.
func NewContentStoreFromConfig(ctx context.Context, cfg config.ContentConfig, enc catalog.Encryptor, dec catalog.DecryptionContext) (*Store, error) {
	if cfg.Encrypt && enc == nil {
		return nil, fmt.Errorf("encrypt requires an encryptor")
	}
	blob := func(b Bucket) *BlobStore {
		if cfg.Encrypt {
			return NewSealedBlobStore(b, enc, dec)
		}
		return NewBlobStore(b)
	}

	switch cfg.Type {
	case "memory":
		return &Store{ContentStore: blob(NewMemoryBucket())}, nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem content store requires fs_root to be set")
		}
		b, err := NewFileSystemBucket(cfg.FSRoot)
		if err != nil {
			return nil, err
		}
		bs := blob(b)
		s := &Store{ContentStore: bs}
		if cfg.Watch {
			s.WatchDir, s.WatchFile = b.Root(), bs.Key()
		}
		return s, nil
	case "s3":
		b, err := NewS3Bucket(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return &Store{ContentStore: blob(b)}, nil
	case "sqlite":
		if cfg.Encrypt {
			return nil, fmt.Errorf("encrypt is not supported for the sqlite content store")
		}
		db, err := database.OpenDataDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return &Store{ContentStore: db, close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unknown content type: %s", cfg.Type)
	}
}
