package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan versions recorded on committed schedules. Schedules from a prior
// planning run are wholly superseded on commit, never merged.
const (
	PlanVersionLegacy = 1
	PlanVersionHybrid = 2
)

// Schedule represents a committed hearing slot for a case
type Schedule struct {
	ID        uuid.UUID `json:"id"`
	CaseID    uuid.UUID `json:"case_id"`
	JudgeID   uuid.UUID `json:"judge_id"`
	LawyerID  uuid.UUID `json:"lawyer_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Room      string    `json:"room"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}
