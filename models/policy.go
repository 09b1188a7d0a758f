package models

import (
	"time"

	"github.com/google/uuid"
)

// Policy represents a scheduling policy document used to enrich advisory
// prompts. The embedding is produced once at ingest time.
type Policy struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Distance  float64   `json:"distance,omitempty"` // vector distance, search results only
	CreatedAt time.Time `json:"created_at"`
}
