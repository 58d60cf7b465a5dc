package image

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/snapvault/snapvault-api/internal/pkg/response"
	"github.com/snapvault/snapvault-api/internal/pkg/validator"
)

const maxUploadBytes = 32 << 20 // 32MB

// Handler handles catalog HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates image handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /images?q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records := h.service.List(r.Context(), r.URL.Query().Get("q"))
	response.OK(w, ImageResponsesFromEntities(records))
}

// GetByID handles GET /images/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid image ID")
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch err {
		case ErrImageNotFound:
			response.NotFound(w, "Image not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ImageResponseFromEntity(record))
}

// GetBySlug handles GET /images/slug/{slug}
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.BadRequest(w, "Missing slug")
		return
	}

	record, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		switch err {
		case ErrImageNotFound:
			response.NotFound(w, "Image not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ImageResponseFromEntity(record))
}

// Related handles GET /images/{id}/related?limit=
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid image ID")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.BadRequest(w, "Invalid limit")
			return
		}
	}

	records, err := h.service.Related(r.Context(), id, limit)
	if err != nil {
		switch err {
		case ErrImageNotFound:
			response.NotFound(w, "Image not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ImageResponsesFromEntities(records))
}

// Publish handles POST /admin/images (multipart form)
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Please select an image first")
		return
	}
	defer file.Close()

	req := PublishRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Keywords:    r.FormValue("keywords"),
		Slug:        r.FormValue("slug"),
		Author:      r.FormValue("author"),
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded file")
		return
	}

	record, err := h.service.Publish(r.Context(), &req, header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		switch err {
		case ErrMissingFile:
			response.BadRequest(w, "Please select an image first")
		default:
			// Surface the provider's error text; writes fail loudly
			response.BadGateway(w, "Upload failed: "+err.Error())
		}
		return
	}

	response.Created(w, ImageResponseFromEntity(record))
}

// Delete handles DELETE /admin/images/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid image ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch err {
		case ErrImageNotFound:
			response.NotFound(w, "Image not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// Stats handles GET /admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, stats)
}
