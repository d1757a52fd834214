package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid")
	ErrNotFound     = errors.New("not found")

	// ErrBlobWriteFailed and ErrMetadataWriteFailed leave both stores as they were; the whole operation may be retried.
	ErrBlobWriteFailed     = errors.New("blob write failed")
	ErrMetadataWriteFailed = errors.New("metadata write failed")
	// ErrValidationFailed means the catalog did not return the record right after writing it.
	ErrValidationFailed = errors.New("read-back validation failed")

	// ErrInconsistent and ErrMissingBlob report divergence between the stores. They are never repaired on the request path.
	ErrInconsistent = errors.New("catalog holds more than one record for the identifier")
	ErrMissingBlob  = errors.New("blob missing for catalogued file")
)

type Service interface {
	FileService
}
