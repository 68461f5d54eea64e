// Package files implements the file commands: whole-file reads returned as
// base64 text or as a data URL.
package files

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	domainerrors "github.com/wheelkit/wheelhost/domain/errors"
	"github.com/wheelkit/wheelhost/domain/ports"
)

// Service reads files on behalf of callers.
//
// With no options it applies no path validation and no size limit: the caller
// is the paired front-end and paths are trusted. Allowed roots and a size limit
// are opt-in host policy.
type Service struct {
	reader  ports.FileReader
	roots   []string
	maxSize int64
}

// Option configures a Service.
type Option func(*Service)

// WithAllowedRoots restricts reads to files under the given directories.
// Relative roots are resolved against the working directory and symlinks in
// them are resolved once, here.
func WithAllowedRoots(roots ...string) Option {
	return func(s *Service) {
		for _, r := range roots {
			if r == "" {
				continue
			}
			if resolved, err := resolvePath(r); err == nil {
				s.roots = append(s.roots, resolved)
			}
		}
	}
}

// WithMaxSize rejects files larger than n bytes. Zero or less means unlimited.
func WithMaxSize(n int64) Option {
	return func(s *Service) {
		s.maxSize = n
	}
}

// NewService creates a Service reading through reader.
func NewService(reader ports.FileReader, opts ...Option) *Service {
	s := &Service{reader: reader}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadBase64 reads the whole file and returns it as standard padded base64.
// Filesystem failures are returned as-is so their message names the operation,
// the path and the cause.
func (s *Service) ReadBase64(path string) (string, error) {
	data, err := s.read(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ReadDataURL reads the whole file and returns "data:<mime>;base64,<data>",
// with the MIME type sniffed from the content.
func (s *Service) ReadDataURL(path string) (string, error) {
	data, err := s.read(path)
	if err != nil {
		return "", err
	}
	mime := strings.ReplaceAll(mimetype.Detect(data).String(), " ", "")
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (s *Service) read(path string) ([]byte, error) {
	if err := s.checkPath(path); err != nil {
		return nil, err
	}

	if s.maxSize > 0 {
		info, err := s.reader.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > s.maxSize {
			return nil, &domainerrors.FileAccessError{
				Err:    domainerrors.ErrFileTooLarge,
				Path:   path,
				Detail: fmt.Sprintf("%d > %d bytes", info.Size(), s.maxSize),
			}
		}
	}

	return s.reader.ReadFile(path)
}

func (s *Service) checkPath(path string) error {
	if len(s.roots) == 0 {
		return nil
	}

	target, err := resolvePath(path)
	if err != nil {
		return &domainerrors.FileAccessError{Err: domainerrors.ErrPathNotAllowed, Path: path, Detail: err.Error()}
	}

	for _, root := range s.roots {
		rel, err := filepath.Rel(root, target)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return &domainerrors.FileAccessError{Err: domainerrors.ErrPathNotAllowed, Path: path}
}

// resolvePath returns the absolute path with symlinks resolved. A path that
// does not exist keeps its lexical form so the reader reports the failure.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}
