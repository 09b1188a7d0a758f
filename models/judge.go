package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Specialization represents a declared practice area for judges and lawyers
type Specialization string

const (
	SpecializationCriminal   Specialization = "criminal"
	SpecializationCivil      Specialization = "civil"
	SpecializationFamily     Specialization = "family"
	SpecializationCommercial Specialization = "commercial"
	SpecializationCorporate  Specialization = "corporate"
	SpecializationGeneral    Specialization = "general"
)

// Valid reports whether the specialization is one of the closed set.
// "general" is the defined default, not a silent catch-all for unknowns.
func (s Specialization) Valid() bool {
	switch s {
	case SpecializationCriminal, SpecializationCivil, SpecializationFamily,
		SpecializationCommercial, SpecializationCorporate, SpecializationGeneral:
		return true
	}
	return false
}

// Matches reports whether the practice area equals the case type
func (s Specialization) Matches(t CaseType) bool {
	return string(s) == string(t)
}

// TimeWindow is a recurring weekly availability or busy window
type TimeWindow struct {
	Day   string `json:"day"`   // e.g. "Monday"
	Start string `json:"start"` // "15:30"
	End   string `json:"end"`   // "19:00"
}

// TimeWindows represents a list of time windows stored as JSONB
type TimeWindows []TimeWindow

// Value implements driver.Valuer for JSONB
func (w TimeWindows) Value() (driver.Value, error) {
	return json.Marshal(w)
}

// Scan implements sql.Scanner for JSONB
func (w *TimeWindows) Scan(value interface{}) error {
	if value == nil {
		*w = make(TimeWindows, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*w = make(TimeWindows, 0)
		return nil
	}

	if len(bytes) == 0 {
		*w = make(TimeWindows, 0)
		return nil
	}

	return json.Unmarshal(bytes, w)
}

// DefaultMaxDailyCases is the per-judge daily capacity when none is configured
const DefaultMaxDailyCases = 8

// Judge represents a judge entity
type Judge struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Court           string         `json:"court"`
	Specialization  Specialization `json:"specialization"`
	ExperienceYears int            `json:"experience_years"`
	MaxDailyCases   int            `json:"max_daily_cases"`
	Availability    TimeWindows    `json:"availability"`
	PhoneNumber     *string        `json:"phone_number,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// DailyCapacity returns the configured capacity, defaulting to 8
func (j *Judge) DailyCapacity() int {
	if j.MaxDailyCases <= 0 {
		return DefaultMaxDailyCases
	}
	return j.MaxDailyCases
}

// Validate checks the closed enums
func (j *Judge) Validate() error {
	if !j.Specialization.Valid() {
		return fmt.Errorf("unknown specialization: %q", j.Specialization)
	}
	return nil
}
