// Package http exposes the checklist operations as a JSON API over chi.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/termblocks/checklist/internal/logging"
)

// NewRouter mounts all endpoints with request id, panic recovery, request
// logging and CORS middleware.
func NewRouter(cs ChecklistService, us UserService, logger logging.Logger) http.Handler {
	ch := &ChecklistHandler{Checklists: cs, Logger: logger}
	uh := &UserHandler{Users: us, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(CORS)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, logger, http.StatusOK, map[string]string{"message": banner})
	})

	r.Post("/users", uh.Declare)

	r.Route("/checklists", func(r chi.Router) {
		r.Get("/", ch.List)
		r.Post("/", ch.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", ch.Get)
			r.Put("/", ch.Replace)
			r.Delete("/", ch.Delete)
			r.Post("/make_public", ch.Publish)
			r.Post("/make_private", ch.Unpublish)
			r.Post("/clone", ch.Clone)
		})
	})

	r.Get("/public/{token}", ch.GetPublic)
	r.Post("/items/{id}/upload", ch.Upload)
	r.Delete("/uploads/{id}", ch.DeleteUpload)
	r.Get("/public_uploads/{id}", ch.ServeUpload)

	return r
}
