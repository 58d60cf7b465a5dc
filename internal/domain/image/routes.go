package image

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the public catalog router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/related", h.Related)
	r.Get("/slug/{slug}", h.GetBySlug)

	return r
}

// AdminRoutes returns the admin catalog router
func (h *Handler) AdminRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)

	r.Post("/", h.Publish)
	r.Delete("/{id}", h.Delete)

	return r
}
