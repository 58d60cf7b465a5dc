package download

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/snapvault/snapvault-api/internal/domain/image"
	"github.com/snapvault/snapvault-api/internal/pkg/response"
)

// Handler handles download-gate HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates download handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Open handles POST /images/{id}/download
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid image ID")
		return
	}

	resp, err := h.service.Open(r.Context(), id)
	if err != nil {
		switch err {
		case image.ErrImageNotFound:
			response.NotFound(w, "Image not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, resp)
}

// Status handles GET /downloads/{token}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Status(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		switch err {
		case ErrSessionNotFound:
			response.NotFound(w, "Session not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// Cancel handles DELETE /downloads/{token}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "token")); err != nil {
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Fetch handles GET /downloads/{token}/file
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Fetch(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		var redirect *RedirectError
		switch {
		case errors.As(err, &redirect):
			// Byte fetch failed; send the client straight to the host
			http.Redirect(w, r, redirect.URL, http.StatusFound)
		case err == ErrSessionNotFound:
			response.NotFound(w, "Session not found")
		case err == ErrNotReady:
			response.Conflict(w, "Download not ready yet")
		default:
			response.InternalError(w)
		}
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename=`+strconv.Quote(result.Filename))
	if _, err := io.Copy(w, result.Body); err != nil {
		log.Error().Err(err).Msg("Error streaming download")
	}
}
