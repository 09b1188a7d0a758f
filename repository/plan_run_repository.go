package repository

import (
	"context"
	"fmt"

	"nyaalaya-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanRunRepository handles database operations for planning runs
type PlanRunRepository struct {
	db *pgxpool.Pool
}

// NewPlanRunRepository creates a new plan run repository
func NewPlanRunRepository(db *pgxpool.Pool) *PlanRunRepository {
	return &PlanRunRepository{db: db}
}

// Create creates a new planning run
func (r *PlanRunRepository) Create(ctx context.Context, run *models.PlanRun) error {
	query := `
		INSERT INTO plan_runs (id, target_day, status, steps)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		run.ID,
		run.TargetDay,
		run.Status,
		run.Steps,
	).Scan(&run.CreatedAt, &run.UpdatedAt)
}

// GetByID retrieves a planning run by ID
func (r *PlanRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PlanRun, error) {
	run := &models.PlanRun{}
	query := `
		SELECT id, target_day, status, current_step, steps, summary,
			error_message, created_at, updated_at, completed_at
		FROM plan_runs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.TargetDay,
		&run.Status,
		&run.CurrentStep,
		&run.Steps,
		&run.Summary,
		&run.ErrorMessage,
		&run.CreatedAt,
		&run.UpdatedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan run: %w", err)
	}
	return run, nil
}

// UpdateProgress updates the current step and step statuses of a run
func (r *PlanRunRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.PlanSteps) error {
	query := `
		UPDATE plan_runs SET
			status = $2,
			current_step = $3,
			steps = $4,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.RunStatusInProgress, currentStep, steps)
	return err
}

// Complete marks a run completed and records its summary
func (r *PlanRunRepository) Complete(ctx context.Context, id uuid.UUID, summary models.PlanSummary) error {
	query := `
		UPDATE plan_runs SET
			status = $2,
			summary = $3,
			current_step = NULL,
			completed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.RunStatusCompleted, summary)
	return err
}

// Fail marks a run failed with an error message
func (r *PlanRunRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE plan_runs SET
			status = $2,
			error_message = $3,
			completed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.RunStatusFailed, errorMessage)
	return err
}
