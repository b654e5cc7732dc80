package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"casevalue-backend/service"
	"casevalue-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler serves archived analysis reports
type ReportHandler struct {
	analysisService *service.AnalysisService
	storage         storage.Storage
}

// NewReportHandler creates a new report handler
func NewReportHandler(analysisService *service.AnalysisService, storage storage.Storage) *ReportHandler {
	return &ReportHandler{
		analysisService: analysisService,
		storage:         storage,
	}
}

// GetReport handles GET /api/analyses/:id/report
func (h *ReportHandler) GetReport(c *gin.Context) {
	if h.storage == nil {
		respondError(c, http.StatusNotFound, "ARCHIVE_DISABLED", "Report archiving is not configured")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid analysis ID format")
		return
	}

	analysis, err := h.analysisService.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAnalysisNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Analysis not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}
	if analysis.ReportPath == nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Analysis has no archived report")
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), *analysis.ReportPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Report not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "DOWNLOAD_FAILED", fmt.Sprintf("Failed to download report: %v", err))
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s-%s\"", id, storage.ReportFilename))
	c.DataFromReader(http.StatusOK, -1, "application/json", reader, nil)
}
