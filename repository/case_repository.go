package repository

import (
	"context"
	"fmt"

	"nyaalaya-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository handles database operations for court cases
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

const caseColumns = `id, case_number, case_type, description, filed_in,
	urgency, estimated_duration, priority, complexity, ai_analysis,
	assigned_judge_id, lawyer_ids, is_resolved, created_at, updated_at`

// Create creates a new case
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	query := `
		INSERT INTO cases (
			id, case_number, case_type, description, filed_in,
			urgency, estimated_duration, priority, complexity, ai_analysis,
			assigned_judge_id, lawyer_ids, is_resolved
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		c.ID,
		c.CaseNumber,
		c.CaseType,
		c.Description,
		c.FiledIn,
		c.Urgency,
		c.EstimatedDuration,
		c.Priority,
		nullableComplexity(c.Complexity),
		c.AIAnalysis,
		c.AssignedJudgeID,
		uuidSlice(c.LawyerIDs),
		c.IsResolved,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// nullableComplexity maps the unset complexity to NULL
func nullableComplexity(c models.Complexity) interface{} {
	if c == "" {
		return nil
	}
	return c
}

// uuidSlice never sends a NULL array
func uuidSlice(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

func scanCase(row pgx.Row) (*models.Case, error) {
	c := &models.Case{}
	var complexity *string
	err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.CaseType,
		&c.Description,
		&c.FiledIn,
		&c.Urgency,
		&c.EstimatedDuration,
		&c.Priority,
		&complexity,
		&c.AIAnalysis,
		&c.AssignedJudgeID,
		&c.LawyerIDs,
		&c.IsResolved,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if complexity != nil {
		c.Complexity = models.Complexity(*complexity)
	}
	return c, nil
}

// GetByID retrieves a case by ID
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases WHERE id = $1`, caseColumns)
	c, err := scanCase(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return c, nil
}

// List retrieves all cases, newest first
func (r *CaseRepository) List(ctx context.Context) ([]*models.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases ORDER BY created_at DESC`, caseColumns)
	return r.queryCases(ctx, query)
}

// ListPending retrieves the unresolved cases considered by a planning run,
// oldest filing first
func (r *CaseRepository) ListPending(ctx context.Context) ([]*models.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases WHERE is_resolved = FALSE ORDER BY filed_in ASC`, caseColumns)
	return r.queryCases(ctx, query)
}

func (r *CaseRepository) queryCases(ctx context.Context, query string, args ...interface{}) ([]*models.Case, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Update updates the client-editable fields of a case
func (r *CaseRepository) Update(ctx context.Context, c *models.Case) error {
	query := `
		UPDATE cases SET
			case_number = $2,
			case_type = $3,
			description = $4,
			filed_in = $5,
			is_resolved = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(
		ctx, query,
		c.ID,
		c.CaseNumber,
		c.CaseType,
		c.Description,
		c.FiledIn,
		c.IsResolved,
	).Scan(&c.UpdatedAt)
}

// UpdateAnalysis persists only the derived fields produced by analysis and
// scoring
func (r *CaseRepository) UpdateAnalysis(ctx context.Context, c *models.Case) error {
	query := `
		UPDATE cases SET
			urgency = $2,
			estimated_duration = $3,
			priority = $4,
			complexity = $5,
			ai_analysis = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(
		ctx, query,
		c.ID,
		c.Urgency,
		c.EstimatedDuration,
		c.Priority,
		nullableComplexity(c.Complexity),
		c.AIAnalysis,
	).Scan(&c.UpdatedAt)
}

// UpdateAssignment persists the judge and lawyer linkage for a case
func (r *CaseRepository) UpdateAssignment(ctx context.Context, caseID uuid.UUID, judgeID *uuid.UUID, lawyerIDs []uuid.UUID) error {
	query := `
		UPDATE cases SET
			assigned_judge_id = $2,
			lawyer_ids = $3,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, caseID, judgeID, uuidSlice(lawyerIDs))
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case %s not found", caseID)
	}
	return nil
}

// Delete removes a case
func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case %s not found", id)
	}
	return nil
}
