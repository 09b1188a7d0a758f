package repository

import (
	"context"
	"fmt"

	"nyaalaya-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository handles database operations for archived run reports
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create records the metadata of an archived report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, run_id, filename, size, storage_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		report.ID,
		report.RunID,
		report.Filename,
		report.Size,
		report.StoragePath,
	).Scan(&report.CreatedAt)
}

// GetByID retrieves report metadata by ID
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report := &models.Report{}
	query := `
		SELECT id, run_id, filename, size, storage_path, created_at
		FROM reports
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.RunID,
		&report.Filename,
		&report.Size,
		&report.StoragePath,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// GetByRunID retrieves the report for a planning run
func (r *ReportRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*models.Report, error) {
	report := &models.Report{}
	query := `
		SELECT id, run_id, filename, size, storage_path, created_at
		FROM reports
		WHERE run_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, runID).Scan(
		&report.ID,
		&report.RunID,
		&report.Filename,
		&report.Size,
		&report.StoragePath,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}
