package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/config"
	"github.com/sidereusnuntius/filecat/internal/service"
)

const (
	FilesPath          = "/files"
	ContentTypeJSONAPI = "application/vnd.api+json"
	// MaxMemory is how much of a multipart body is kept in memory; the rest spills to temporary files.
	MaxMemory = 32 << 20
)

type Handler struct {
	Config  *config.Configuration
	service service.Service
}

func New(config *config.Configuration, service service.Service) Handler {
	return Handler{
		Config:  config,
		service: service,
	}
}

// respond sends v as a JSON:API document with the given status.
func respond(w http.ResponseWriter, r *http.Request, status int, v render.Renderer) {
	if err := v.Render(w, r); err != nil {
		log.Error().Err(err).Msg("failed to render response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSONAPI)
	w.WriteHeader(status)
	if _, err = w.Write(body); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
