package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CaseType represents the category of a court case
type CaseType string

const (
	CaseTypeCriminal CaseType = "criminal"
	CaseTypeCivil    CaseType = "civil"
	CaseTypeFamily   CaseType = "family"
	CaseTypeOther    CaseType = "other"
)

// Valid reports whether the case type is one of the closed set.
// Unknown values must be rejected at the boundary, not coerced.
func (t CaseType) Valid() bool {
	switch t {
	case CaseTypeCriminal, CaseTypeCivil, CaseTypeFamily, CaseTypeOther:
		return true
	}
	return false
}

// Complexity represents the advisory complexity tier of a case
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Valid reports whether the complexity is one of the closed set
func (c Complexity) Valid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	}
	return false
}

// AIAnalysis stores the raw advisory analysis for a case, including the
// unnormalized urgency representation used to derive the urgency multiplier
type AIAnalysis map[string]interface{}

// Value implements driver.Valuer for JSONB
func (a AIAnalysis) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB
func (a *AIAnalysis) Scan(value interface{}) error {
	if value == nil {
		*a = make(AIAnalysis)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*a = make(AIAnalysis)
		return nil
	}

	if len(bytes) == 0 {
		*a = make(AIAnalysis)
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Case represents a court case entity.
// Urgency, EstimatedDuration and Priority are derived fields: they are
// populated by analysis and scoring, never authored by clients.
type Case struct {
	ID                uuid.UUID   `json:"id"`
	CaseNumber        string      `json:"case_number"`
	CaseType          CaseType    `json:"case_type"`
	Description       string      `json:"description"`
	FiledIn           time.Time   `json:"filed_in"`
	Urgency           float64     `json:"urgency"`
	EstimatedDuration int         `json:"estimated_duration"` // minutes, >= 30
	Priority          float64     `json:"priority"`
	Complexity        Complexity  `json:"complexity"`
	AIAnalysis        AIAnalysis  `json:"ai_analysis,omitempty"`
	AssignedJudgeID   *uuid.UUID  `json:"assigned_judge_id,omitempty"`
	LawyerIDs         []uuid.UUID `json:"lawyer_ids"`
	IsResolved        bool        `json:"is_resolved"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Validate checks the closed enums and derived-field ranges
func (c *Case) Validate() error {
	if !c.CaseType.Valid() {
		return fmt.Errorf("unknown case type: %q", c.CaseType)
	}
	if c.Complexity != "" && !c.Complexity.Valid() {
		return fmt.Errorf("unknown complexity: %q", c.Complexity)
	}
	if c.Urgency < 0 || c.Urgency > 1 {
		return fmt.Errorf("urgency out of range: %v", c.Urgency)
	}
	if c.EstimatedDuration != 0 && c.EstimatedDuration < 30 {
		return fmt.Errorf("estimated duration below 30 minutes: %d", c.EstimatedDuration)
	}
	return nil
}
