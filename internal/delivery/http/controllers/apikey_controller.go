package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/delivery/http/middleware"
	"sheeets/internal/domain"
)

const maxKeyLifetimeDays = 365

// CreateAPIKeyRequest is the request body for POST /api/keys.
type CreateAPIKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
	// ExpiresInDays is optional; 0 means the key does not expire.
	ExpiresInDays int `json:"expires_in_days"`
}

// Validate implements Validator.
func (c CreateAPIKeyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if len(c.Scopes) == 0 {
		errs = append(errs, "scopes is required")
	}
	if c.ExpiresInDays < 0 || c.ExpiresInDays > maxKeyLifetimeDays {
		errs = append(errs, "expires_in_days must be between 0 and 365")
	}
	return errs
}

// CreateAPIKeyResponse is the data payload for POST /api/keys. Secret is
// shown once and cannot be recovered.
type CreateAPIKeyResponse struct {
	Key    *domain.APIKey `json:"key"`
	Secret string         `json:"secret"`
}

type APIKeyController struct {
	Logger  *slog.Logger
	Service domain.APIKeyService
}

func NewAPIKeyController(logger *slog.Logger, svc domain.APIKeyService) *APIKeyController {
	return &APIKeyController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create an API key
// @Description A key can only carry scopes the caller already holds.
// @Tags keys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateAPIKeyRequest true "Key name and scopes"
// @Success 201 {object} helpers.APIResponse "data.key and data.secret"
// @Failure 400 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Router /api/keys [post]
func (c *APIKeyController) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || p.UserID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CreateAPIKeyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	for _, sc := range req.Scopes {
		if !p.HasScope(sc) {
			helpers.WriteJSONError(w, http.StatusForbidden, "cannot grant scope not held by caller: "+sc)
			return
		}
	}
	ttl := time.Duration(req.ExpiresInDays) * 24 * time.Hour
	key, secret, err := c.Service.Create(r.Context(), p.UserID, req.Name, req.Scopes, ttl)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, CreateAPIKeyResponse{Key: key, Secret: secret})
}
