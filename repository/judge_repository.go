package repository

import (
	"context"
	"fmt"

	"nyaalaya-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JudgeRepository handles database operations for judges
type JudgeRepository struct {
	db *pgxpool.Pool
}

// NewJudgeRepository creates a new judge repository
func NewJudgeRepository(db *pgxpool.Pool) *JudgeRepository {
	return &JudgeRepository{db: db}
}

const judgeColumns = `id, name, court, specialization, experience_years,
	max_daily_cases, availability, phone_number, created_at, updated_at`

// Create creates a new judge
func (r *JudgeRepository) Create(ctx context.Context, j *models.Judge) error {
	query := `
		INSERT INTO judges (
			id, name, court, specialization, experience_years,
			max_daily_cases, availability, phone_number
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		j.ID,
		j.Name,
		j.Court,
		j.Specialization,
		j.ExperienceYears,
		j.MaxDailyCases,
		j.Availability,
		j.PhoneNumber,
	).Scan(&j.CreatedAt, &j.UpdatedAt)
}

func scanJudge(row pgx.Row) (*models.Judge, error) {
	j := &models.Judge{}
	err := row.Scan(
		&j.ID,
		&j.Name,
		&j.Court,
		&j.Specialization,
		&j.ExperienceYears,
		&j.MaxDailyCases,
		&j.Availability,
		&j.PhoneNumber,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// GetByID retrieves a judge by ID
func (r *JudgeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Judge, error) {
	query := fmt.Sprintf(`SELECT %s FROM judges WHERE id = $1`, judgeColumns)
	j, err := scanJudge(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get judge: %w", err)
	}
	return j, nil
}

// List retrieves all judges ordered by name
func (r *JudgeRepository) List(ctx context.Context) ([]*models.Judge, error) {
	query := fmt.Sprintf(`SELECT %s FROM judges ORDER BY name`, judgeColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list judges: %w", err)
	}
	defer rows.Close()

	var judges []*models.Judge
	for rows.Next() {
		j, err := scanJudge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan judge: %w", err)
		}
		judges = append(judges, j)
	}
	return judges, rows.Err()
}
