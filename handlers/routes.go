package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API endpoints under /api. A nil report handler
// leaves the report route unregistered.
func RegisterRoutes(r gin.IRouter, analysis *AnalysisHandler, cases *CaseHandler, reports *ReportHandler) {
	api := r.Group("/api")
	{
		// Analysis endpoints
		api.POST("/cases/analyze", analysis.AnalyzeCase)
		api.POST("/features", analysis.ExtractFeatures)
		api.GET("/analyses/:id", analysis.GetAnalysis)

		// Corpus endpoints
		api.POST("/cases", cases.IndexCase)

		if reports != nil {
			api.GET("/analyses/:id/report", reports.GetReport)
		}
	}
}
