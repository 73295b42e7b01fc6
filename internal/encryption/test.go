package encryption

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"catalog-go/internal/catalog"
)

// sealMarker prefixes everything TestEncryptor seals.
var sealMarker = []byte("CATSEAL\n")

// TestEncryptor is a deterministic stand-in for AgeEncryptor. Sealing only
// prepends sealMarker, so sealed output differs from plaintext without any
// crypto. When Setup has been called, Unlock checks the passphrase.
type TestEncryptor struct {
	mu         sync.Mutex
	passphrase string
	setup      bool
}

var _ catalog.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passphrase = passphrase
	e.setup = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(sealMarker); err != nil {
		return fmt.Errorf("writing seal marker: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (catalog.DecryptionContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.setup && passphrase != e.passphrase {
		return nil, fmt.Errorf("unlocking private key: wrong passphrase")
	}
	return TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

// TestDecryptionContext strips sealMarker.
type TestDecryptionContext struct{}

var _ catalog.DecryptionContext = TestDecryptionContext{}

func (TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	marker := make([]byte, len(sealMarker))
	if _, err := io.ReadFull(r, marker); err != nil {
		return fmt.Errorf("reading seal marker: %w", err)
	}
	if !bytes.Equal(marker, sealMarker) {
		return fmt.Errorf("data is not sealed")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
