package models

import (
	"time"

	"github.com/google/uuid"
)

// Report represents an archived plan-run report artifact
type Report struct {
	ID          uuid.UUID `json:"id"`
	RunID       uuid.UUID `json:"run_id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
