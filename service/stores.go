package service

import (
	"context"

	"github.com/google/uuid"

	"nyaalaya-backend/models"
)

// Store contracts consumed by the services. The repository package provides
// the Postgres implementations; tests substitute in-memory fakes.

// CaseStore persists court cases
type CaseStore interface {
	Create(ctx context.Context, c *models.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error)
	List(ctx context.Context) ([]*models.Case, error)
	ListPending(ctx context.Context) ([]*models.Case, error)
	Update(ctx context.Context, c *models.Case) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateAnalysis persists the derived fields only: urgency, estimated
	// duration, priority, complexity and the raw analysis payload.
	UpdateAnalysis(ctx context.Context, c *models.Case) error

	// UpdateAssignment persists the judge and lawyer linkage for a case
	UpdateAssignment(ctx context.Context, caseID uuid.UUID, judgeID *uuid.UUID, lawyerIDs []uuid.UUID) error
}

// JudgeStore persists judges
type JudgeStore interface {
	Create(ctx context.Context, j *models.Judge) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Judge, error)
	List(ctx context.Context) ([]*models.Judge, error)
}

// LawyerStore persists lawyers
type LawyerStore interface {
	Create(ctx context.Context, l *models.Lawyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lawyer, error)
	List(ctx context.Context) ([]*models.Lawyer, error)
}

// ScheduleStore persists committed hearing schedules
type ScheduleStore interface {
	List(ctx context.Context) ([]*models.Schedule, error)

	// ReplaceAll atomically replaces the full schedule set. On error the
	// previous schedules must remain intact.
	ReplaceAll(ctx context.Context, schedules []*models.Schedule) error
}

// RunStore persists planning runs
type RunStore interface {
	Create(ctx context.Context, r *models.PlanRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PlanRun, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.PlanSteps) error
	Complete(ctx context.Context, id uuid.UUID, summary models.PlanSummary) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
}

// PolicySearcher retrieves policy documents by embedding similarity
type PolicySearcher interface {
	Search(ctx context.Context, embedding []float64, limit int) ([]*models.Policy, error)
}

// Embedder produces a query embedding for policy retrieval
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ReportArchive stores run reports and records their metadata
type ReportArchive interface {
	Save(ctx context.Context, filename string, data []byte) (*models.Report, error)
}
