package accounts

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ImageStore keeps profile images. Store returns an opaque reference
// that goes on the account record; Remove releases a previously stored
// reference.
type ImageStore interface {
	Store(ctx context.Context, name string, content io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// FileImageStore keeps images on the local filesystem under a root
// directory, each with a generated unique name.
type FileImageStore struct {
	Root string
}

var _ ImageStore = (*FileImageStore)(nil)

func NewFileImageStore(root string) *FileImageStore {
	return &FileImageStore{Root: root}
}

func (s *FileImageStore) Store(_ context.Context, name string, content io.Reader) (string, error) {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "unable to prepare image directory")
	}

	ext := filepath.Ext(name)

	var ref string
	for {
		ref = uuid.NewString() + ext
		if _, err := os.Stat(filepath.Join(s.Root, ref)); errors.Is(err, fs.ErrNotExist) {
			break
		}
	}

	f, err := os.Create(filepath.Join(s.Root, ref))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "unable to store image")
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "unable to write image content")
	}

	return ref, nil
}

func (s *FileImageStore) Remove(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.Root, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
