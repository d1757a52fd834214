package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrNotDir        = errors.New("given root is not a directory")
	ErrInternal      = errors.New("internal error")
	ErrCreate        = errors.New("failed to create file")
	ErrAlreadyExists = errors.New("filename already exists")
	ErrNotExist      = errors.New("file does not exist")
	ErrInvalidName   = errors.New("invalid blob name")
)

// Storage is a flat store of blobs addressed by name.
type Storage interface {
	// Write stores content under name. It fails with ErrAlreadyExists if the name is taken.
	Write(ctx context.Context, name string, content io.Reader) error
	// Open returns the content of the blob. The reader also implements io.Seeker when the backend allows it.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Size(ctx context.Context, name string) (int64, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// Location is the physical location of the blob, for operators and logs.
	Location(name string) string
	// List calls fn for every stored blob, stopping at the first error fn returns.
	List(ctx context.Context, fn func(BlobInfo) error) error
}

type BlobInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// ValidateName rejects names that could address anything outside the store's flat namespace.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("null bytes not allowed: %w", ErrInvalidName)
	case strings.Contains(name, ".."):
		return fmt.Errorf("path traversal not allowed: %w", ErrInvalidName)
	case path.IsAbs(name), strings.ContainsAny(name, `/\`):
		return fmt.Errorf("path separators not allowed: %w", ErrInvalidName)
	case len(name) >= 2 && name[1] == ':':
		return fmt.Errorf("drive letters not allowed: %w", ErrInvalidName)
	}
	return nil
}
