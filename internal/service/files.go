package service

import (
	"context"
	"io"

	"github.com/sidereusnuntius/filecat/internal/domain"
)

type FileService interface {
	// CreateFile stores content and catalogues it as an upload and the file derived from it.
	CreateFile(ctx context.Context, filename string, content io.Reader, format string) (domain.Upload, error)
	GetMetadata(ctx context.Context, uploadID string) (domain.UploadResource, error)
	// ResolvePhysicalLocation returns where the blob of an upload lives, after checking that it does.
	ResolvePhysicalLocation(ctx context.Context, uploadID string) (location string, upload domain.Upload, err error)
	Download(ctx context.Context, uploadID string) (content io.ReadCloser, upload domain.Upload, err error)
	DeleteFile(ctx context.Context, uploadID string) error
}
