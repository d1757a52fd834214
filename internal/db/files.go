package db

import (
	"context"

	"github.com/sidereusnuntius/filecat/internal/domain"
)

type Files interface {
	// SaveUpload writes the upload, its file and the link between them in one catalog update.
	SaveUpload(ctx context.Context, upload domain.Upload) error
	// GetUploadResource returns the upload resource with the given id.
	GetUploadResource(ctx context.Context, id string) (domain.UploadResource, error)
	// GetUpload returns the upload resource with the given id together with the file derived from it.
	GetUpload(ctx context.Context, id string) (domain.Upload, error)
	// GetFile returns the file resource with the given id.
	GetFile(ctx context.Context, id string) (domain.FileResource, error)
	// DeleteUpload removes both records of the upload in one catalog update. Triples that no longer
	// match the expected shape are left in place.
	DeleteUpload(ctx context.Context, upload domain.Upload) error
	// FileNameExists reports whether any file record uses the stored name.
	FileNameExists(ctx context.Context, storedName string) (bool, error)
}
