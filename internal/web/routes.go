package web

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Mount(r chi.Router) {
	r.Use(MuHeadersMiddleware)

	r.Route(FilesPath, func(r chi.Router) {
		r.Post("/", Upload(h))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", GetFile(h))
			r.Delete("/", DeleteFile(h))
			r.Get("/download", Download(h))
		})
	})
}
