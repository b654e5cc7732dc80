package handlers

import (
	"errors"
	"net/http"

	"casevalue-backend/models"
	"casevalue-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseHandler handles HTTP requests for the historical case corpus
type CaseHandler struct {
	analysisService *service.AnalysisService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(analysisService *service.AnalysisService) *CaseHandler {
	return &CaseHandler{analysisService: analysisService}
}

// IndexCaseRequest represents the request body for adding a corpus case
type IndexCaseRequest struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Metadata        models.CaseMetadata `json:"metadata"`
	SettlementValue *float64            `json:"settlement_value"`
}

// IndexCase handles POST /api/cases
func (h *CaseHandler) IndexCase(c *gin.Context) {
	var req IndexCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var id uuid.UUID
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid case ID format")
			return
		}
		id = parsed
	}

	result, err := h.analysisService.IndexCase(c.Request.Context(), service.IndexCaseRequest{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		Metadata:        req.Metadata,
		SettlementValue: req.SettlementValue,
	})
	switch {
	case errors.Is(err, service.ErrInvalidCase):
		respondError(c, http.StatusBadRequest, "INVALID_CASE", err.Error())
		return
	case err != nil:
		respondError(c, http.StatusBadGateway, "INDEX_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Case,
	})
}
