package nav

import (
	"net/http"

	"github.com/snapvault/snapvault-api/internal/pkg/response"
)

// Handler handles navigation HTTP requests
type Handler struct {
	resolver *Resolver
}

// NewHandler creates navigation handler
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Resolve handles GET /navigation/resolve?fragment=
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("fragment")
	route := h.resolver.Resolve(r.Context(), fragment)
	response.OK(w, route)
}
