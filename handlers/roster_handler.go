package handlers

import (
	"net/http"

	"nyaalaya-backend/models"
	"nyaalaya-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RosterHandler handles HTTP requests for the judge and lawyer rosters
type RosterHandler struct {
	judges  service.JudgeStore
	lawyers service.LawyerStore
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(judges service.JudgeStore, lawyers service.LawyerStore) *RosterHandler {
	return &RosterHandler{judges: judges, lawyers: lawyers}
}

// CreateJudgeRequest represents the request body for registering a judge
type CreateJudgeRequest struct {
	Name            string             `json:"name" binding:"required"`
	Court           string             `json:"court"`
	Specialization  string             `json:"specialization" binding:"required"`
	ExperienceYears int                `json:"experience_years"`
	MaxDailyCases   int                `json:"max_daily_cases"`
	Availability    models.TimeWindows `json:"availability"`
	PhoneNumber     *string            `json:"phone_number"`
}

// CreateJudge handles POST /api/judges
func (h *RosterHandler) CreateJudge(c *gin.Context) {
	var req CreateJudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	judge := &models.Judge{
		ID:              uuid.New(),
		Name:            req.Name,
		Court:           req.Court,
		Specialization:  models.Specialization(req.Specialization),
		ExperienceYears: req.ExperienceYears,
		MaxDailyCases:   req.MaxDailyCases,
		Availability:    req.Availability,
		PhoneNumber:     req.PhoneNumber,
	}
	if err := judge.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JUDGE", err.Error())
		return
	}

	if err := h.judges.Create(c.Request.Context(), judge); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    judge,
	})
}

// ListJudges handles GET /api/judges
func (h *RosterHandler) ListJudges(c *gin.Context) {
	judges, err := h.judges.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    judges,
	})
}

// CreateLawyerRequest represents the request body for registering a lawyer
type CreateLawyerRequest struct {
	Name            string             `json:"name" binding:"required"`
	Specialization  string             `json:"specialization" binding:"required"`
	ExperienceYears int                `json:"experience_years"`
	HourlyRate      float64            `json:"hourly_rate"`
	BusySlots       models.TimeWindows `json:"busy_slots"`
	MaxCases        int                `json:"max_cases"`
	PhoneNumber     *string            `json:"phone_number"`
}

// CreateLawyer handles POST /api/lawyers
func (h *RosterHandler) CreateLawyer(c *gin.Context) {
	var req CreateLawyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	lawyer := &models.Lawyer{
		ID:              uuid.New(),
		Name:            req.Name,
		Specialization:  models.Specialization(req.Specialization),
		ExperienceYears: req.ExperienceYears,
		HourlyRate:      req.HourlyRate,
		BusySlots:       req.BusySlots,
		MaxCases:        req.MaxCases,
		PhoneNumber:     req.PhoneNumber,
	}
	if err := lawyer.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_LAWYER", err.Error())
		return
	}

	if err := h.lawyers.Create(c.Request.Context(), lawyer); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    lawyer,
	})
}

// ListLawyers handles GET /api/lawyers
func (h *RosterHandler) ListLawyers(c *gin.Context) {
	lawyers, err := h.lawyers.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    lawyers,
	})
}
