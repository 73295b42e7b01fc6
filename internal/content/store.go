package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"catalog-go/internal/catalog"
)

// Object keys the tree is stored under.
const (
	TreeKey       = "content.json"
	SealedTreeKey = "content.json.age"
)

// BlobStore keeps the whole tree as one JSON document in a Bucket.
// With an Encryptor the document is sealed before upload; loading a
// sealed document needs the DecryptionContext from Encryptor.Unlock.
type BlobStore struct {
	bucket Bucket
	enc    catalog.Encryptor
	dec    catalog.DecryptionContext
}

var _ catalog.ContentStore = (*BlobStore)(nil)

// NewBlobStore stores the tree in plain JSON.
func NewBlobStore(bucket Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// NewSealedBlobStore seals the tree with enc. dec may be nil for a
// write-only store, in which case LoadTree fails.
func NewSealedBlobStore(bucket Bucket, enc catalog.Encryptor, dec catalog.DecryptionContext) *BlobStore {
	return &BlobStore{bucket: bucket, enc: enc, dec: dec}
}

// Key returns the object key this store reads and writes.
func (s *BlobStore) Key() string {
	if s.enc != nil {
		return SealedTreeKey
	}
	return TreeKey
}

// Sealed reports whether the store encrypts its document.
func (s *BlobStore) Sealed() bool { return s.enc != nil }

func (s *BlobStore) LoadTree(ctx context.Context) (catalog.Tree, error) {
	var raw bytes.Buffer
	if err := s.bucket.Get(ctx, s.Key(), &raw); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, catalog.ErrNoContent
		}
		return nil, fmt.Errorf("reading content: %w", err)
	}

	data := raw.Bytes()
	if s.enc != nil {
		if s.dec == nil {
			return nil, fmt.Errorf("content is sealed and the key is locked")
		}
		var plain bytes.Buffer
		if err := s.dec.Decrypt(&raw, &plain); err != nil {
			return nil, fmt.Errorf("opening sealed content: %w", err)
		}
		data = plain.Bytes()
	}
	return DecodeTree(data)
}

func (s *BlobStore) SaveTree(ctx context.Context, t catalog.Tree) error {
	data, err := EncodeTree(t)
	if err != nil {
		return err
	}
	if s.enc != nil {
		var sealed bytes.Buffer
		if err := s.enc.Encrypt(bytes.NewReader(data), &sealed); err != nil {
			return fmt.Errorf("sealing content: %w", err)
		}
		data = sealed.Bytes()
	}
	if err := s.bucket.Put(ctx, s.Key(), bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("writing content: %w", err)
	}
	return nil
}

// EncodeTree renders t as indented JSON. A nil tree encodes as [].
func EncodeTree(t catalog.Tree) ([]byte, error) {
	data, err := json.MarshalIndent(t.Normalize(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	return data, nil
}

// DecodeTree parses a JSON document written by EncodeTree or by hand.
func DecodeTree(data []byte) (catalog.Tree, error) {
	var t catalog.Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	return t.Normalize(), nil
}
