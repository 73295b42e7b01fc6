package database

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the database file created inside a data_dir.
const FileName = "catalog.db"

// OpenDataDir opens (creating if needed) the catalog database inside dataDir.
func OpenDataDir(dataDir string) (*SQLiteStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data_dir required for sqlite store")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return Open(filepath.Join(dataDir, FileName))
}
