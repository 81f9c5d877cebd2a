// Package upload stores article images on local disk.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperr "newsroom/internal/errors"
)

// URLPrefix is where the static file server exposes the upload directory.
const URLPrefix = "/uploads/"

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes uploaded images into a directory.
type Store struct {
	dir string
}

// NewStore returns a Store writing into dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save copies fh into the store as <unix-millis><ext> and returns its public path.
// Only image extensions are accepted.
func (s *Store) Save(fh *multipart.FileHeader, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", apperr.ErrInvalidImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name, dst, err := s.create(now, ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return URLPrefix + name, nil
}

// Remove deletes an image previously returned by Save. Paths outside the
// store are rejected.
func (s *Store) Remove(path string) error {
	name := strings.TrimPrefix(path, URLPrefix)
	if name == path || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("remove upload: %q is not a stored image", path)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// create opens a new file named after now, stepping forward a millisecond
// while the name is taken.
func (s *Store) create(now time.Time, ext string) (string, *os.File, error) {
	ms := now.UnixMilli()
	for i := 0; i < 1000; i++ {
		name := strconv.FormatInt(ms+int64(i), 10) + ext
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return name, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("create upload: %w", err)
		}
	}
	return "", nil, fmt.Errorf("create upload: no free name near %d", ms)
}
