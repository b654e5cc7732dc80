package handlers

import (
	"errors"
	"net/http"

	"casevalue-backend/models"
	"casevalue-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AnalysisHandler handles HTTP requests for case analyses
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	log             *logrus.Entry
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, log *logrus.Entry) *AnalysisHandler {
	if log == nil {
		log = logrus.WithField("component", "analysis_handler")
	}
	return &AnalysisHandler{
		analysisService: analysisService,
		log:             log,
	}
}

// AnalyzeCaseRequest is the case record plus an optional comparable count
type AnalyzeCaseRequest struct {
	models.CaseRecord
	TopK int `json:"top_k" binding:"omitempty,min=1,max=50"`
}

// AnalyzeCase handles POST /api/cases/analyze
func (h *AnalysisHandler) AnalyzeCase(c *gin.Context) {
	var req AnalyzeCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.analysisService.AnalyzeCase(c.Request.Context(), service.AnalyzeCaseRequest{
		Case: req.CaseRecord,
		TopK: req.TopK,
	})
	if err != nil {
		h.log.WithError(err).Warn("Analysis failed")
		body := gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		}
		if result != nil {
			body["data"] = result.Analysis
		}
		c.JSON(http.StatusBadGateway, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Analysis,
	})
}

// GetAnalysis handles GET /api/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid analysis ID format")
		return
	}

	analysis, err := h.analysisService.GetAnalysis(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrAnalysisNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Analysis not found")
		return
	case errors.Is(err, service.ErrStoreUnavailable):
		respondError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    analysis,
	})
}

// ExtractFeatures handles POST /api/features
func (h *AnalysisHandler) ExtractFeatures(c *gin.Context) {
	var req models.CaseRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.analysisService.ExtractFeatures(req),
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
