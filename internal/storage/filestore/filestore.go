package filestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

const tempPrefix = ".upload-"

// FileStore keeps every blob as a file directly under Root.
type FileStore struct {
	Root string
}

func New(root string) (store *FileStore, err error) {
	store = &FileStore{
		Root: root,
	}

	info, err := os.Stat(root)
	if err == nil {
		if !info.IsDir() {
			log.Error().Str("root", root).Msg("not a directory")
			err = storage.ErrNotDir
		}
		return
	}

	if errors.Is(err, os.ErrNotExist) {
		err = os.MkdirAll(root, 0o755)
	}

	if err != nil {
		log.Error().Err(err).Msg("internal error when setting up storage")
		err = storage.ErrInternal
	}

	return
}

func (s *FileStore) path(name string) (string, error) {
	if err := storage.ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.Root, name), nil
}

func (s *FileStore) Location(name string) string {
	return filepath.Join(s.Root, name)
}

func (s *FileStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotExist
		}
		log.Error().Err(err).Str("path", path).Msg("failed to open file")
		return nil, storage.ErrInternal
	}
	return f, nil
}

func (s *FileStore) Size(ctx context.Context, name string) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, storage.ErrNotExist
		}
		log.Error().Err(err).Str("path", path).Msg("stat failed")
		return 0, storage.ErrInternal
	}
	if !info.Mode().IsRegular() {
		return 0, storage.ErrNotExist
	}
	return info.Size(), nil
}

func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Size(ctx, name)
	if errors.Is(err, storage.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		log.Error().Err(err).Str("path", path).Msg("file deletion error")
		return storage.ErrInternal
	}

	return nil
}

// Write copies content into a temporary file and links it to its final name, so that a blob is
// never visible half written and an existing blob is never replaced.
func (s *FileStore) Write(ctx context.Context, name string, content io.Reader) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Root, tempPrefix+"*")
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to create temporary file")
		return storage.ErrCreate
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, content)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to copy from reader")
		return storage.ErrInternal
	}

	if err = os.Link(tmp.Name(), path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return storage.ErrAlreadyExists
		}
		log.Error().Err(err).Str("path", path).Msg("failed to create file")
		return storage.ErrCreate
	}

	return nil
}

func (s *FileStore) List(ctx context.Context, fn func(storage.BlobInfo) error) error {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		log.Error().Err(err).Str("root", s.Root).Msg("failed to list storage root")
		return storage.ErrInternal
	}

	for _, e := range entries {
		if err = ctx.Err(); err != nil {
			return err
		}
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed since ReadDir.
			continue
		}
		if err = fn(storage.BlobInfo{
			Name:       e.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		}); err != nil {
			return err
		}
	}
	return nil
}
