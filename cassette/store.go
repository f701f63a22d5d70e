package cassette

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/imagen/image"
)

// Store serializes cassettes to and from a file on disk. It is the only
// place that knows the on-disk encoding.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path this store reads and writes.
func (s *Store) Path() string { return s.path }

// Write serializes the cassette and atomically replaces the file.
// The artifact is written to a temporary file in the same directory and
// renamed into place, so a concurrent reader never sees a partial write.
func (s *Store) Write(c *Cassette) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return &image.Error{Code: image.ErrStoreWrite, Message: fmt.Sprintf("marshal cassette: %v", err)}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &image.Error{Code: image.ErrStoreWrite, Message: fmt.Sprintf("create cassette dir %s: %v", dir, err)}
	}

	tmp, err := os.CreateTemp(dir, ".cassette-*.yaml")
	if err != nil {
		return &image.Error{Code: image.ErrStoreWrite, Message: fmt.Sprintf("create temp cassette: %v", err)}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &image.Error{Code: image.ErrStoreWrite, Message: fmt.Sprintf("write temp cassette: %v", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &image.Error{Code: image.ErrStoreWrite, Message: fmt.Sprintf("close temp cassette: %v", err)}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &image.Error{Code: image.ErrStoreWrite, Message: fmt.Sprintf("rename cassette into place: %v", err)}
	}
	return nil
}

// Read deserializes and validates the cassette. A cassette that fails
// validation is rejected whole; nothing is partially loaded.
func (s *Store) Read() (*Cassette, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		code := image.ErrStoreRead
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &image.Error{Code: code, Message: fmt.Sprintf("cassette %s does not exist", s.path)}
		}
		return nil, &image.Error{Code: code, Message: fmt.Sprintf("read cassette %s: %v", s.path, err)}
	}

	var c Cassette
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &image.Error{Code: image.ErrStoreCorrupt, Message: fmt.Sprintf("parse cassette %s: %v", s.path, err)}
	}
	if err := c.validate(); err != nil {
		return nil, &image.Error{Code: image.ErrStoreCorrupt, Message: fmt.Sprintf("cassette %s: %v", s.path, err)}
	}
	return &c, nil
}
