package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PlanRunStatus represents the status of a planning run
type PlanRunStatus string

const (
	RunStatusPending    PlanRunStatus = "pending"
	RunStatusInProgress PlanRunStatus = "in_progress"
	RunStatusCompleted  PlanRunStatus = "completed"
	RunStatusFailed     PlanRunStatus = "failed"
)

// PlanStep represents a step in a planning run
type PlanStep struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pending", "in_progress", "completed", "failed"
}

// PlanSteps represents the ordered steps of a planning run
type PlanSteps []PlanStep

// Value implements driver.Valuer for JSONB
func (s PlanSteps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *PlanSteps) Scan(value interface{}) error {
	if value == nil {
		*s = make(PlanSteps, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = make(PlanSteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*s = make(PlanSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// PlanOutcome classifies how a planning run ended
type PlanOutcome string

const (
	OutcomeCommitted     PlanOutcome = "committed"
	OutcomePartial       PlanOutcome = "partial"        // stage 2 left items without a lawyer
	OutcomeInfeasible    PlanOutcome = "infeasible"     // no assignment satisfies the hard constraints
	OutcomeNoSolution    PlanOutcome = "no_solution"    // solver budget exhausted without any feasible solution
	OutcomeCommitFailed  PlanOutcome = "commit_failed"  // persistence failure, prior schedules left intact
	OutcomeConflictsHeld PlanOutcome = "conflicts_held" // legacy flow refused to commit a conflicted draft
)

// PlanSummary is the structured result every planning run ends with,
// including full-fallback and zero-assignment scenarios
type PlanSummary struct {
	TargetDay     string      `json:"target_day"`
	Outcome       PlanOutcome `json:"outcome"`
	Observed      int         `json:"observed"`
	Analyzed      int         `json:"analyzed"`
	Assigned      int         `json:"assigned"`
	Skipped       int         `json:"skipped"`
	PolicySummary string      `json:"policy_summary,omitempty"`
	Reasoning     []string    `json:"reasoning"`
}

// Value implements driver.Valuer for JSONB
func (p PlanSummary) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *PlanSummary) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// PlanRun represents one planning run entity
type PlanRun struct {
	ID           uuid.UUID     `json:"id"`
	TargetDay    time.Time     `json:"target_day"`
	Status       PlanRunStatus `json:"status"`
	CurrentStep  *string       `json:"current_step,omitempty"`
	Steps        PlanSteps     `json:"steps"`
	Summary      *PlanSummary  `json:"summary,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}
