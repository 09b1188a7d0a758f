package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"nyaalaya-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlannerHandler handles HTTP requests for planning runs and schedules
type PlannerHandler struct {
	planner   *service.PlannerService
	schedules service.ScheduleStore
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(planner *service.PlannerService, schedules service.ScheduleStore) *PlannerHandler {
	return &PlannerHandler{planner: planner, schedules: schedules}
}

// StartRunRequest represents the request body for starting a planning run
type StartRunRequest struct {
	TargetDay string `json:"target_day"` // "2006-01-02", defaults to tomorrow
	Legacy    bool   `json:"legacy"`
}

// StartRun handles POST /api/planner/runs. The run is processed in the
// background; poll GET /api/planner/runs/:id for progress.
func (h *PlannerHandler) StartRun(c *gin.Context) {
	// An empty body is a valid request for a default run
	var req StartRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	targetDay := time.Now().AddDate(0, 0, 1)
	if req.TargetDay != "" {
		parsed, err := time.Parse("2006-01-02", req.TargetDay)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_TARGET_DAY", "target_day must be YYYY-MM-DD")
			return
		}
		targetDay = parsed
	}

	result, err := h.planner.StartRun(c.Request.Context(), service.StartRunRequest{
		TargetDay: targetDay,
		Legacy:    req.Legacy,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RUN_CREATION_FAILED", err.Error())
		return
	}

	// Detach from the request context; the run outlives the request
	go func(runID uuid.UUID, legacy bool) {
		ctx := context.Background()
		var err error
		if legacy {
			err = h.planner.ProcessLegacyRun(ctx, runID)
		} else {
			err = h.planner.ProcessRun(ctx, runID)
		}
		if err != nil {
			log.Printf("planning run %s failed: %v", runID, err)
		}
	}(result.RunID, req.Legacy)

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"run_id": result.RunID,
			"status": "pending",
		},
	})
}

// GetRun handles GET /api/planner/runs/:id
func (h *PlannerHandler) GetRun(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.planner.GetRun(c.Request.Context(), service.GetRunRequest{RunID: id})
	if err != nil {
		respondError(c, http.StatusNotFound, "RUN_NOT_FOUND", "Planning run not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Run,
	})
}

// ListSchedules handles GET /api/schedules
func (h *PlannerHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.schedules.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    schedules,
	})
}
