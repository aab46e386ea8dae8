package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/ai"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/documents"
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
	rg.POST("/documents/:documentId/analyze", h.analyze)
	rg.POST("/documents/:documentId/extract-bills", h.extractBills)
	rg.POST("/cases/:caseId/generate-letter", h.generateLetter)
	rg.POST("/chat", h.chat)
}

type letterRequest struct {
	Recipient string `json:"recipient"`
}

func (h *Handler) generateLetter(c *gin.Context) {
	var req letterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	letter, err := h.Svc.GenerateLetter(c.Request.Context(), userID, c.Param("caseId"), req.Recipient)
	if err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
			return
		}
		h.respondPipelineError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"letter": letter})
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set("documentId", c.Param("documentId"))
	result, err := h.Svc.Analyze(c.Request.Context(), userID, c.Param("documentId"))
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}
	c.Set("analysisQuality", result.Quality)

	respond.JSON(c, http.StatusOK, gin.H{
		"document": documents.ToResponse(result.Document),
		"analysis": gin.H{
			"summary":         result.Summary,
			"keyFindings":     result.KeyFindings,
			"extractedData":   result.Extracted,
			"analysisQuality": result.Quality,
			"billsCreated":    result.BillsCreated,
		},
	})
}

func (h *Handler) extractBills(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	created, extracted, err := h.Svc.ExtractBills(c.Request.Context(), userID, c.Param("documentId"))
	if err != nil {
		if errors.Is(err, ErrNoTextCapability) {
			respond.Error(c, http.StatusServiceUnavailable, "no_text_capability", err.Error(), nil)
			return
		}
		h.respondPipelineError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"extractedCount": extracted,
		"createdCount":   len(created),
		"bills":          created,
	})
}

type chatRequest struct {
	Messages []ai.ChatMessage `json:"messages"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "messages are required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	reply, err := h.Svc.Chat(c.Request.Context(), userID, req.Messages)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) respondPipelineError(c *gin.Context, err error) {
	var cfgErr *ai.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		respond.Error(c, http.StatusBadRequest, "configuration_error", cfgErr.Error(), gin.H{"missing": cfgErr.Missing})
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, documents.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "document belongs to another user", nil)
	case errors.Is(err, ErrLocked):
		respond.Error(c, http.StatusConflict, "analysis_in_progress", "another analysis is already running for this document", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
	}
}
