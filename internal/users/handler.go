package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/ai"
	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PUT("/user/api-key", h.updateAPIKey)
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.EnsureUser(c.Request.Context(), User{ID: userID, Email: middleware.UserEmailFromContext(c)}); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"fullName":        user.FullName,
		"useAzureGateway": user.UseAzureGateway,
		"azureEndpoint":   user.AzureEndpoint,
		"azureDeployment": user.AzureDeployment,
		"hasOpenAiKey":    user.HasOpenAIKey(),
		"hasAzureKey":     user.HasAzureKey(),
	})
}

type apiKeyRequest struct {
	OpenAIAPIKey    *string `json:"openAiApiKey"`
	UseAzureGateway *bool   `json:"useAzureGateway"`
	AzureEndpoint   *string `json:"azureEndpoint"`
	AzureAPIKey     *string `json:"azureApiKey"`
	AzureAPIVersion *string `json:"azureApiVersion"`
	AzureDeployment *string `json:"azureDeployment"`
}

func (h *Handler) updateAPIKey(c *gin.Context) {
	var req apiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid json body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.UpdateProviderSettings(c.Request.Context(), userID, ProviderSettingsUpdate{
		OpenAIAPIKey:    req.OpenAIAPIKey,
		UseAzureGateway: req.UseAzureGateway,
		AzureEndpoint:   req.AzureEndpoint,
		AzureAPIKey:     req.AzureAPIKey,
		AzureAPIVersion: req.AzureAPIVersion,
		AzureDeployment: req.AzureDeployment,
	})
	if err != nil {
		var cfgErr *ai.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			respond.Error(c, http.StatusBadRequest, "invalid_configuration", cfgErr.Error(), gin.H{"missing": cfgErr.Missing})
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update settings", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"useAzureGateway": user.UseAzureGateway,
		"azureEndpoint":   user.AzureEndpoint,
		"azureDeployment": user.AzureDeployment,
		"hasOpenAiKey":    user.HasOpenAIKey(),
		"hasAzureKey":     user.HasAzureKey(),
	})
}
