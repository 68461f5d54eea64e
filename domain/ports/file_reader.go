package ports

import "io/fs"

// FileReader reads whole files.
type FileReader interface {
	// ReadFile returns the entire contents of the named file.
	ReadFile(path string) ([]byte, error)

	// Stat describes the named file without reading it.
	Stat(path string) (fs.FileInfo, error)
}
