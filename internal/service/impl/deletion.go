package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// DeleteFile removes the records of an upload and then its blob. Deleting metadata first means a crash
// in between leaves an orphaned blob for the sweep, never a record without a blob.
func (s *AppService) DeleteFile(ctx context.Context, uploadID string) error {
	unlock, err := s.lock(ctx, uploadID)
	if err != nil {
		return err
	}
	defer unlock()

	qctx, cancel := s.withTimeout(ctx)
	defer cancel()
	upload, err := s.DB.GetUpload(qctx, uploadID)
	if err != nil {
		return translate(err)
	}

	uctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err = s.DB.DeleteUpload(uctx, upload); err != nil {
		return fmt.Errorf("deleting records of upload %s: %w", uploadID, err)
	}

	name := upload.File.StoredName
	dctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err = s.Storage.Delete(dctx, name); err != nil {
		// The upload is already gone from the catalog; the blob is now an orphan.
		log.Error().
			Err(err).
			Str("upload_id", uploadID).
			Str("stored_name", name).
			Str("path", s.Storage.Location(name)).
			Msg("failed to delete blob of deleted upload")
		s.enqueueDelete(ctx, name, 0)
	}

	log.Debug().Str("upload_id", uploadID).Str("stored_name", name).Msg("upload deleted")
	return nil
}
