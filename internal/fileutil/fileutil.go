// Package fileutil provides file permission constants and atomic output writes.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// OwnerReadWrite is the file permission mode for persisted settings documents
// that may carry private paths or URLs (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated source code
// files intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// DirPerm is the permission mode for output directories created on demand.
const DirPerm os.FileMode = 0o755

// WriteAtomic writes data to path via a temporary file in the same directory
// followed by a rename, so readers never observe a partially written file.
// Missing parent directories are created; existing ones are left untouched.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, DirPerm); err != nil {
			return fmt.Errorf("fileutil: creating directory %s: %w", dir, err)
		}
	}
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("fileutil: writing %s: %w", path, err)
	}
	return nil
}
