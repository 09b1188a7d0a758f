package handlers

import (
	"io"
	"log"
	"net/http"

	"nyaalaya-backend/repository"
	"nyaalaya-backend/storage"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles HTTP requests for archived run reports
type ReportHandler struct {
	reports *repository.ReportRepository
	archive storage.Archive
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *repository.ReportRepository, archive storage.Archive) *ReportHandler {
	return &ReportHandler{reports: reports, archive: archive}
}

// GetReport handles GET /api/reports/:id — streams the archived report
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	report, err := h.reports.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found")
		return
	}

	body, err := h.archive.Download(c.Request.Context(), report.StoragePath)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DOWNLOAD_FAILED", err.Error())
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", "attachment; filename="+report.Filename)
	c.Header("Content-Type", "application/json")
	if _, err := io.Copy(c.Writer, body); err != nil {
		log.Printf("failed to stream report %s: %v", report.ID, err)
	}
}

// GetRunReport handles GET /api/planner/runs/:id/report — streams the report
// for a planning run
func (h *ReportHandler) GetRunReport(c *gin.Context) {
	runID, ok := parseID(c)
	if !ok {
		return
	}

	report, err := h.reports.GetByRunID(c.Request.Context(), runID)
	if err != nil {
		respondError(c, http.StatusNotFound, "REPORT_NOT_FOUND", "No report archived for this run")
		return
	}

	body, err := h.archive.Download(c.Request.Context(), report.StoragePath)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DOWNLOAD_FAILED", err.Error())
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", "attachment; filename="+report.Filename)
	c.Header("Content-Type", "application/json")
	if _, err := io.Copy(c.Writer, body); err != nil {
		log.Printf("failed to stream report %s: %v", report.ID, err)
	}
}
