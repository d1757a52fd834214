package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/domain"
	"github.com/sidereusnuntius/filecat/internal/service"
)

type FileAttributes struct {
	Name      string `json:"name"`
	Format    string `json:"format"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
}

type FileData struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Attributes FileAttributes `json:"attributes"`
}

type Links struct {
	Self string `json:"self"`
}

type FileResponse struct {
	Data  FileData `json:"data"`
	Links Links    `json:"links"`
}

func NewFileResponse(r domain.UploadResource, self string) *FileResponse {
	return &FileResponse{
		Data: FileData{
			Type: "files",
			ID:   r.ID,
			Attributes: FileAttributes{
				Name:      r.Name,
				Format:    r.Format,
				Size:      r.SizeBytes,
				Extension: r.Extension,
			},
		},
		Links: Links{Self: self},
	}
}

func (f *FileResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ErrorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
}

type ErrResponse struct {
	Err            error         `json:"-"`
	HTTPStatusCode int           `json:"-"`
	Errors         []ErrorObject `json:"errors"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ErrorResponse builds the error document for err. Only the title of the status is exposed to the client.
func ErrorResponse(err error) *ErrResponse {
	status := statusFor(err)
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		Errors: []ErrorObject{{
			Status: strconv.Itoa(status),
			Title:  title(err, status),
		}},
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func title(err error, status int) string {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, service.ErrValidationFailed):
		return "Could not read metadata of file."
	case errors.Is(err, service.ErrMissingBlob):
		return "Could not find file in path. Check if the physical file is available on the server and if this service has the right mountpoint."
	}
	return http.StatusText(status)
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse(err)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}
	respond(w, r, resp.HTTPStatusCode, resp)
}

// selfLink is the public URL of the request as rewritten by the dispatcher, falling back to the request path.
func selfLink(r *http.Request) string {
	if u := r.Header.Get("X-Rewrite-URL"); u != "" {
		return u
	}
	return r.URL.Path
}

func uploadLink(r *http.Request, id string) string {
	return strings.TrimSuffix(selfLink(r), "/") + "/" + id
}
