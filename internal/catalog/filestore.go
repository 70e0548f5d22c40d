package catalog

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore writes uploaded image bytes under a base directory with
// uuid-based names so user-supplied file names never touch the disk.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir}, nil
}

// Save stores data and returns the generated file name.
func (f *FileStore) Save(origName string, data []byte) (string, error) {
	name := uuid.NewString() + filepath.Ext(origName)
	if err := os.WriteFile(filepath.Join(f.Dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// Delete removes a stored file. A missing file is not an error.
func (f *FileStore) Delete(name string) error {
	err := os.Remove(filepath.Join(f.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
