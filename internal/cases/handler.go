package cases

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

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
	rg.POST("/cases", h.create)
	rg.GET("/cases", h.list)
	rg.GET("/cases/:caseId", h.get)
	rg.PUT("/cases/:caseId", h.update)
	rg.DELETE("/cases/:caseId", h.delete)
}

type caseRequest struct {
	Title        string  `json:"title"`
	ClientName   string  `json:"clientName"`
	IncidentDate *string `json:"incidentDate"`
	Status       *string `json:"status"`
	Description  *string `json:"description"`
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) create(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	incidentDate, err := parseDate(req.IncidentDate)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "incidentDate must be YYYY-MM-DD", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	kase, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Title:        req.Title,
		ClientName:   req.ClientName,
		IncidentDate: incidentDate,
		Description:  deref(req.Description),
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create case", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, kase)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list cases", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	kase, err := h.Svc.GetOwned(c.Request.Context(), userID, c.Param("caseId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch case", nil)
		return
	}
	respond.JSON(c, http.StatusOK, kase)
}

func (h *Handler) update(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	incidentDate, err := parseDate(req.IncidentDate)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "incidentDate must be YYYY-MM-DD", nil)
		return
	}

	in := UpdateInput{
		IncidentDate: incidentDate,
		Status:       req.Status,
		Description:  req.Description,
	}
	if req.Title != "" {
		in.Title = &req.Title
	}
	if req.ClientName != "" {
		in.ClientName = &req.ClientName
	}

	userID := middleware.UserIDFromContext(c)
	kase, err := h.Svc.Update(c.Request.Context(), userID, c.Param("caseId"), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update case", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, kase)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("caseId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete case", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
