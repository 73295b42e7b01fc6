package testutil

import (
	"catalog-go/internal/catalog"
	"catalog-go/internal/encryption"
)

// NewTestEncryptor returns the deterministic marker encryptor.
func NewTestEncryptor() catalog.Encryptor {
	return encryption.NewTestEncryptor()
}
