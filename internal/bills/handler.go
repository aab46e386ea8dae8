package bills

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/cases"
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
	rg.POST("/cases/:caseId/bills", h.create)
	rg.GET("/cases/:caseId/bills", h.list)
	rg.PATCH("/bills/:billId/status", h.updateStatus)
	rg.DELETE("/bills/:billId", h.delete)
}

type createBillRequest struct {
	DocumentID  string `json:"documentId"`
	Provider    string `json:"provider"`
	Amount      string `json:"amount"`
	ServiceDate string `json:"serviceDate"`
	BillDate    string `json:"billDate"`
	Description string `json:"description"`
	Insurance   string `json:"insurance"`
}

func (h *Handler) create(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	serviceDate, ok := parseOptionalDate(req.ServiceDate)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "serviceDate must be YYYY-MM-DD", nil)
		return
	}
	billDate, ok := parseOptionalDate(req.BillDate)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "billDate must be YYYY-MM-DD", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	bill, err := h.Svc.Create(c.Request.Context(), userID, c.Param("caseId"), CreateInput{
		DocumentID:  req.DocumentID,
		Provider:    req.Provider,
		Amount:      req.Amount,
		ServiceDate: serviceDate,
		BillDate:    billDate,
		Description: req.Description,
		Insurance:   req.Insurance,
	})
	if err != nil {
		switch {
		case errors.Is(err, cases.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create bill", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, bill)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.ListByCase(c.Request.Context(), userID, c.Param("caseId"))
	if err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list bills", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	bill, err := h.Svc.UpdateStatus(c.Request.Context(), userID, c.Param("billId"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "bill not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update bill", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, bill)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("billId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "bill not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete bill", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func parseOptionalDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, false
	}
	return &t, true
}
