package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/service"
)

func Upload(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseMultipartForm(MaxMemory); err != nil {
			log.Debug().
				Err(err).
				Msg("failed to read multipart form from request")
			renderError(w, r, fmt.Errorf("%w: file parameter is required", service.ErrInvalidInput))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			renderError(w, r, fmt.Errorf("%w: file parameter is required", service.ErrInvalidInput))
			return
		}
		defer file.Close()

		format, err := mimetype.DetectReader(file)
		if err != nil {
			renderError(w, r, fmt.Errorf("%w: failed to read file body", service.ErrInvalidInput))
			return
		}
		if _, err = file.Seek(0, io.SeekStart); err != nil {
			renderError(w, r, err)
			return
		}

		upload, err := h.service.CreateFile(ctx, header.Filename, file, format.String())
		if err != nil {
			renderError(w, r, err)
			return
		}

		respond(w, r, http.StatusCreated, NewFileResponse(upload.Resource, uploadLink(r, upload.Resource.ID)))
	}
}

func GetFile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		resource, err := h.service.GetMetadata(r.Context(), id)
		if err != nil {
			renderError(w, r, err)
			return
		}

		respond(w, r, http.StatusOK, NewFileResponse(resource, selfLink(r)))
	}
}

func Download(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		content, upload, err := h.service.Download(r.Context(), id)
		if err != nil {
			renderError(w, r, err)
			return
		}
		defer content.Close()

		name := r.URL.Query().Get("name")
		if name == "" {
			name = upload.File.StoredName
		}
		disposition := "attachment"
		if strings.EqualFold(r.URL.Query().Get("content-disposition"), "inline") {
			disposition = "inline"
		}

		w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
		if upload.File.Format != "" {
			w.Header().Set("Content-Type", upload.File.Format)
		}

		if rs, ok := content.(io.ReadSeeker); ok {
			http.ServeContent(w, r, name, upload.File.ModifiedAt, rs)
			return
		}

		w.Header().Set("Content-Length", strconv.FormatInt(upload.File.SizeBytes, 10))
		w.WriteHeader(http.StatusOK)
		if _, err = io.Copy(w, content); err != nil && !errors.Is(err, r.Context().Err()) {
			log.Error().Err(err).Str("upload_id", id).Msg("failed to stream file")
		}
	}
}

func DeleteFile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.service.DeleteFile(r.Context(), id); err != nil {
			renderError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
