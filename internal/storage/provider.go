// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/laguz/internal/models"

// Provider is the interface for read access to vault files. The vault model
// is rebuilt from disk on every connect, so no write operations exist here.
type Provider interface {
	// List walks the vault root recursively and returns every file whose
	// extension (with leading dot) is in exts. Paths are relative to the
	// root with forward-slash separators. A nil exts set lists every file.
	List(exts map[string]struct{}) ([]models.FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Root returns the absolute vault root directory.
	Root() string
}
