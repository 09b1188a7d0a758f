package handlers

import (
	"errors"
	"net/http"
	"time"

	"nyaalaya-backend/models"
	"nyaalaya-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseHandler handles HTTP requests for court cases
type CaseHandler struct {
	caseService *service.CaseService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// CreateCaseRequest represents the request body for registering a case
type CreateCaseRequest struct {
	CaseNumber  string `json:"case_number" binding:"required"`
	CaseType    string `json:"case_type" binding:"required"`
	Description string `json:"description"`
	FiledIn     string `json:"filed_in"` // "2006-01-02", defaults to today
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var filedIn time.Time
	if req.FiledIn != "" {
		parsed, err := time.Parse("2006-01-02", req.FiledIn)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_FILED_IN", "filed_in must be YYYY-MM-DD")
			return
		}
		filedIn = parsed
	}

	result, err := h.caseService.CreateCase(c.Request.Context(), service.CreateCaseRequest{
		CaseNumber:  req.CaseNumber,
		CaseType:    models.CaseType(req.CaseType),
		Description: req.Description,
		FiledIn:     filedIn,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCase) || errors.Is(err, service.ErrCaseNumberRequired) {
			respondError(c, http.StatusBadRequest, "INVALID_CASE", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Case,
	})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.caseService.GetCase(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "CASE_NOT_FOUND", "Case not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ListCases handles GET /api/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	cases, err := h.caseService.ListCases(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cases,
	})
}

// UpdateCaseRequest represents the request body for updating a case
type UpdateCaseRequest struct {
	CaseNumber  *string `json:"case_number"`
	CaseType    *string `json:"case_type"`
	Description *string `json:"description"`
	IsResolved  *bool   `json:"is_resolved"`
}

// UpdateCase handles PUT /api/cases/:id
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	existing, err := h.caseService.GetCase(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "CASE_NOT_FOUND", "Case not found")
		return
	}

	if req.CaseNumber != nil {
		existing.CaseNumber = *req.CaseNumber
	}
	if req.CaseType != nil {
		existing.CaseType = models.CaseType(*req.CaseType)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.IsResolved != nil {
		existing.IsResolved = *req.IsResolved
	}

	if err := h.caseService.UpdateCase(c.Request.Context(), existing); err != nil {
		if errors.Is(err, service.ErrInvalidCase) {
			respondError(c, http.StatusBadRequest, "INVALID_CASE", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    existing,
	})
}

// DeleteCase handles DELETE /api/cases/:id
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.caseService.DeleteCase(c.Request.Context(), id); err != nil {
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// AnalyzeCase handles POST /api/cases/:id/analyze
func (h *CaseHandler) AnalyzeCase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.caseService.AnalyzeCase(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			respondError(c, http.StatusNotFound, "CASE_NOT_FOUND", "Case not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "ANALYSIS_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Case,
	})
}

// parseID extracts the :id path parameter; on failure it writes the error
// response and returns false
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
