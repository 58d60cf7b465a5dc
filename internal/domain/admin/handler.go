package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/snapvault/snapvault-api/internal/pkg/jwt"
	"github.com/snapvault/snapvault-api/internal/pkg/password"
	"github.com/snapvault/snapvault-api/internal/pkg/response"
	"github.com/snapvault/snapvault-api/internal/pkg/suggest"
	"github.com/snapvault/snapvault-api/internal/pkg/validator"
)

// Handler handles admin session and tooling requests
type Handler struct {
	passwordHash string
	jwtService   *jwt.Service
	suggester    *suggest.Client
}

// NewHandler creates admin handler. The configured password is hashed once
// at startup so login always goes through a bcrypt compare.
func NewHandler(adminPassword string, jwtService *jwt.Service, suggester *suggest.Client) (*Handler, error) {
	hash, err := password.Hash(adminPassword)
	if err != nil {
		return nil, err
	}
	return &Handler{
		passwordHash: hash,
		jwtService:   jwtService,
		suggester:    suggester,
	}, nil
}

// Login handles POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if !password.Verify(req.Password, h.passwordHash) {
		response.Unauthorized(w, "Invalid password")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateSessionToken()
	if err != nil {
		log.Error().Err(err).Msg("Error generating session token")
		response.InternalError(w)
		return
	}

	response.OK(w, LoginResponse{Token: token, ExpiresAt: expiresAt.UnixMilli()})
}

// Suggest handles POST /admin/suggest. Suggestions are advisory: any upstream
// failure comes back as an error response the client can shrug off.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	suggestion, err := h.suggester.AnalyzeImage(r.Context(), req.MimeType, req.ImageBase64)
	if err != nil {
		log.Error().Err(err).Msg("Error analyzing image")
		if errors.Is(err, suggest.ErrInvalidSuggestion) {
			response.BadGateway(w, "Suggestion response was malformed")
			return
		}
		response.BadGateway(w, "Suggestion service unavailable")
		return
	}

	response.OK(w, suggestion)
}
