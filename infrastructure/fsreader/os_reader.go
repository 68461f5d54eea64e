// Package fsreader adapts the host filesystem to ports.FileReader.
package fsreader

import (
	"io/fs"
	"os"

	"github.com/wheelkit/wheelhost/domain/ports"
)

// OSReader reads from the host filesystem.
type OSReader struct{}

// New returns a FileReader backed by the os package.
func New() ports.FileReader {
	return OSReader{}
}

// ReadFile reads the whole named file.
func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns the named file's info, following symlinks.
func (OSReader) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
