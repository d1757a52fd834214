package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/domain"
	"github.com/sidereusnuntius/filecat/internal/naming"
	"github.com/sidereusnuntius/filecat/internal/service"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

func (s *AppService) GetMetadata(ctx context.Context, uploadID string) (domain.UploadResource, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.DB.GetUploadResource(ctx, uploadID)
	return r, translate(err)
}

func (s *AppService) ResolvePhysicalLocation(ctx context.Context, uploadID string) (location string, upload domain.Upload, err error) {
	unlock, err := s.lock(ctx, uploadID)
	if err != nil {
		return
	}
	defer unlock()

	upload, err = s.resolve(ctx, uploadID)
	if err != nil {
		return
	}
	location = s.Storage.Location(upload.File.StoredName)
	return
}

func (s *AppService) Download(ctx context.Context, uploadID string) (content io.ReadCloser, upload domain.Upload, err error) {
	unlock, err := s.lock(ctx, uploadID)
	if err != nil {
		return
	}
	defer unlock()

	upload, err = s.resolve(ctx, uploadID)
	if err != nil {
		return
	}

	// The reader outlives this call, so it is not bound to the operation timeout.
	content, err = s.Storage.Open(ctx, upload.File.StoredName)
	if errors.Is(err, storage.ErrNotExist) {
		err = s.missingBlob(upload)
	}
	return
}

// resolve finds the file derived from an upload and checks that its blob is present.
func (s *AppService) resolve(ctx context.Context, uploadID string) (upload domain.Upload, err error) {
	qctx, cancel := s.withTimeout(ctx)
	defer cancel()
	upload, err = s.DB.GetUpload(qctx, uploadID)
	if err != nil {
		err = translate(err)
		return
	}

	if name, ok := naming.StoredNameFromShareURI(upload.File.URI); ok && name != upload.File.StoredName {
		log.Error().
			Str("upload_id", uploadID).
			Str("uri", upload.File.URI).
			Str("stored_name", upload.File.StoredName).
			Msg("file URI and stored name disagree")
		err = fmt.Errorf("%w: file %s is named %s but located at %s", service.ErrInconsistent, upload.File.ID, upload.File.StoredName, upload.File.URI)
		return
	}

	ectx, cancel := s.withTimeout(ctx)
	defer cancel()
	exists, err := s.Storage.Exists(ectx, upload.File.StoredName)
	if err != nil {
		return
	}
	if !exists {
		err = s.missingBlob(upload)
	}
	return
}

func (s *AppService) missingBlob(upload domain.Upload) error {
	log.Error().
		Str("upload_id", upload.Resource.ID).
		Str("file_id", upload.File.ID).
		Str("stored_name", upload.File.StoredName).
		Str("path", s.Storage.Location(upload.File.StoredName)).
		Msg("catalogued file has no blob")
	return fmt.Errorf("%w: %s", service.ErrMissingBlob, upload.File.StoredName)
}
