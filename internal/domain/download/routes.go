package download

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the download-gate router, mounted at /downloads
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{token}", h.Status)
	r.Delete("/{token}", h.Cancel)
	r.Get("/{token}/file", h.Fetch)
	r.Get("/{token}/ws", h.Countdown)

	return r
}
