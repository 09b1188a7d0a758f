package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lawyer represents a lawyer entity
type Lawyer struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Specialization  Specialization `json:"specialization"`
	ExperienceYears int            `json:"experience_years"`
	HourlyRate      float64        `json:"hourly_rate"`
	BusySlots       TimeWindows    `json:"busy_slots"`
	MaxCases        int            `json:"max_cases"` // max concurrent cases
	PhoneNumber     *string        `json:"phone_number,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Validate checks the closed enums
func (l *Lawyer) Validate() error {
	if !l.Specialization.Valid() {
		return fmt.Errorf("unknown specialization: %q", l.Specialization)
	}
	return nil
}
