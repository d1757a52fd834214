package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/db"
	"github.com/sidereusnuntius/filecat/internal/domain"
	"github.com/sidereusnuntius/filecat/internal/naming"
	"github.com/sidereusnuntius/filecat/internal/service"
	"github.com/sidereusnuntius/filecat/internal/validate"
)

// stage is how far an upload got. Each stage is reached only after the previous one succeeded.
type stage uint8

const (
	stageNamed stage = iota
	stageBlobWritten
	stageMetadataWritten
	stageValidated
)

func (s stage) String() string {
	switch s {
	case stageNamed:
		return "named"
	case stageBlobWritten:
		return "blob written"
	case stageMetadataWritten:
		return "metadata written"
	case stageValidated:
		return "validated"
	}
	return "unknown"
}

// exit is a failure point of an upload. deleteBlob is the only compensation an exit may run:
// metadata is never removed on the upload path.
type exit struct {
	name       string
	err        error
	deleteBlob bool
}

var (
	exitBlobWrite     = exit{name: "blob write", err: service.ErrBlobWriteFailed}
	exitMeasure       = exit{name: "size measurement", err: service.ErrBlobWriteFailed, deleteBlob: true}
	exitMetadataWrite = exit{name: "metadata write", err: service.ErrMetadataWriteFailed, deleteBlob: true}
	exitValidation    = exit{name: "validation", err: service.ErrValidationFailed, deleteBlob: true}
)

type pendingUpload struct {
	stage stage
	domain.Upload
}

func (s *AppService) CreateFile(ctx context.Context, filename string, content io.Reader, format string) (domain.Upload, error) {
	if content == nil {
		return domain.Upload{}, fmt.Errorf("%w: missing file", service.ErrInvalidInput)
	}
	if err := validate.Upload(filename, format); err != nil {
		return domain.Upload{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}

	u := s.name(filename, format)
	l := log.With().Str("upload_id", u.Resource.ID).Str("file_id", u.File.ID).Str("stored_name", u.File.StoredName).Logger()

	if err := s.writeBlob(ctx, u.File.StoredName, content); err != nil {
		return s.fail(ctx, u, exitBlobWrite, err)
	}
	u.stage = stageBlobWritten

	size, err := s.measure(ctx, u.File.StoredName)
	if err != nil {
		return s.fail(ctx, u, exitMeasure, err)
	}
	u.Resource.SizeBytes = size
	u.File.SizeBytes = size

	if err = s.writeMetadata(ctx, u.Upload); err != nil {
		return s.fail(ctx, u, exitMetadataWrite, err)
	}
	u.stage = stageMetadataWritten

	if s.Config.ValidateReadback {
		if err = s.readBack(ctx, u.File.ID); err != nil {
			return s.fail(ctx, u, exitValidation, err)
		}
	}
	u.stage = stageValidated

	l.Debug().Int64("size", size).Str("format", format).Msg("upload stored")
	return u.Upload, nil
}

// name assigns identifiers, the stored name and every attribute except the size.
func (s *AppService) name(filename, format string) *pendingUpload {
	uploadID := naming.NextIdentifier()
	fileID := naming.NextIdentifier()
	storedName := naming.StoredName(fileID, filename)
	now := time.Now().UTC().Truncate(time.Millisecond)

	meta := domain.FileMetadata{
		Format:     format,
		Extension:  naming.Extension(filename),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	return &pendingUpload{
		stage: stageNamed,
		Upload: domain.Upload{
			Resource: domain.UploadResource{
				FileMetadata: meta,
				ID:           uploadID,
				Name:         filename,
				URI:          naming.UploadURI(s.Config.FileResourceBase, uploadID),
			},
			File: domain.FileResource{
				FileMetadata: meta,
				ID:           fileID,
				StoredName:   storedName,
				URI:          naming.ShareURI(s.Config.RelativeStoragePath, storedName),
			},
		},
	}
}

func (s *AppService) writeBlob(ctx context.Context, name string, content io.Reader) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.Storage.Write(ctx, name, content)
}

// measure returns the size the store reports for a blob, never the size the caller sent.
func (s *AppService) measure(ctx context.Context, name string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.Storage.Size(ctx, name)
}

func (s *AppService) writeMetadata(ctx context.Context, upload domain.Upload) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.DB.SaveUpload(ctx, upload)
}

func (s *AppService) readBack(ctx context.Context, fileID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	_, err := s.DB.GetFile(ctx, fileID)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("file %s not visible in the catalog: %w", fileID, err)
	}
	return err
}

// fail runs the compensations of x and returns x's error. The outcome of a compensation is logged, never returned.
func (s *AppService) fail(ctx context.Context, u *pendingUpload, x exit, cause error) (domain.Upload, error) {
	name := u.File.StoredName
	l := log.With().Str("upload_id", u.Resource.ID).Str("stored_name", name).Str("stage", u.stage.String()).Logger()
	l.Warn().Err(cause).Str("exit", x.name).Msg("upload failed")

	if x.deleteBlob {
		if x == exitMetadataWrite && errors.Is(cause, context.DeadlineExceeded) {
			// The insert may still have landed. The queued job runs once the insert has had time to settle and
			// deletes the blob only if no record names it.
			l.Error().Msg("metadata write timed out with unknown outcome; deferring blob removal to the reconciliation queue")
			s.enqueueDelete(ctx, name, s.Config.SweepGrace)
		} else {
			s.compensate(ctx, name)
		}
	}

	return domain.Upload{}, fmt.Errorf("%w: %w", x.err, cause)
}

// compensate deletes a blob written by a failed upload.
func (s *AppService) compensate(ctx context.Context, name string) {
	// The request context may be what failed the upload.
	cctx, cancel := s.withTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.Storage.Delete(cctx, name); err != nil {
		log.Error().
			Err(err).
			Str("stored_name", name).
			Str("path", s.Storage.Location(name)).
			Msg("error when trying to delete blob after failed upload")
		s.enqueueDelete(ctx, name, 0)
	}
}

func (s *AppService) enqueueDelete(ctx context.Context, name string, after time.Duration) {
	if s.Queue == nil {
		log.Error().Str("stored_name", name).Msg("no reconciliation queue; blob left for the orphan sweep")
		return
	}
	if err := s.Queue.DeleteBlob(context.WithoutCancel(ctx), name, after); err != nil {
		log.Error().Err(err).Str("stored_name", name).Msg("failed to enqueue blob deletion")
	}
}
