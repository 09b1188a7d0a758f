package repository

import (
	"context"
	"fmt"

	"nyaalaya-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LawyerRepository handles database operations for lawyers
type LawyerRepository struct {
	db *pgxpool.Pool
}

// NewLawyerRepository creates a new lawyer repository
func NewLawyerRepository(db *pgxpool.Pool) *LawyerRepository {
	return &LawyerRepository{db: db}
}

const lawyerColumns = `id, name, specialization, experience_years,
	hourly_rate, busy_slots, max_cases, phone_number, created_at, updated_at`

// Create creates a new lawyer
func (r *LawyerRepository) Create(ctx context.Context, l *models.Lawyer) error {
	query := `
		INSERT INTO lawyers (
			id, name, specialization, experience_years,
			hourly_rate, busy_slots, max_cases, phone_number
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		l.ID,
		l.Name,
		l.Specialization,
		l.ExperienceYears,
		l.HourlyRate,
		l.BusySlots,
		l.MaxCases,
		l.PhoneNumber,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func scanLawyer(row pgx.Row) (*models.Lawyer, error) {
	l := &models.Lawyer{}
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Specialization,
		&l.ExperienceYears,
		&l.HourlyRate,
		&l.BusySlots,
		&l.MaxCases,
		&l.PhoneNumber,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetByID retrieves a lawyer by ID
func (r *LawyerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lawyer, error) {
	query := fmt.Sprintf(`SELECT %s FROM lawyers WHERE id = $1`, lawyerColumns)
	l, err := scanLawyer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get lawyer: %w", err)
	}
	return l, nil
}

// List retrieves all lawyers ordered by name
func (r *LawyerRepository) List(ctx context.Context) ([]*models.Lawyer, error) {
	query := fmt.Sprintf(`SELECT %s FROM lawyers ORDER BY name`, lawyerColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lawyers: %w", err)
	}
	defer rows.Close()

	var lawyers []*models.Lawyer
	for rows.Next() {
		l, err := scanLawyer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lawyer: %w", err)
		}
		lawyers = append(lawyers, l)
	}
	return lawyers, rows.Err()
}
