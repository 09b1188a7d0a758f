package repository

import (
	"context"
	"fmt"

	"nyaalaya-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleRepository handles database operations for committed schedules
type ScheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List retrieves all schedules in hearing order
func (r *ScheduleRepository) List(ctx context.Context) ([]*models.Schedule, error) {
	query := `
		SELECT id, case_id, judge_id, lawyer_id, start_time, end_time,
			room, version, created_at
		FROM schedules
		ORDER BY start_time, judge_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		s := &models.Schedule{}
		err := rows.Scan(
			&s.ID,
			&s.CaseID,
			&s.JudgeID,
			&s.LawyerID,
			&s.StartTime,
			&s.EndTime,
			&s.Room,
			&s.Version,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// ReplaceAll replaces the entire schedule set in one transaction. A planning
// run's output wholly supersedes the previous plan; on any error the previous
// schedules remain intact.
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, schedules []*models.Schedule) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM schedules`); err != nil {
		return fmt.Errorf("failed to clear schedules: %w", err)
	}

	query := `
		INSERT INTO schedules (
			id, case_id, judge_id, lawyer_id, start_time, end_time, room, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	for _, s := range schedules {
		err := tx.QueryRow(
			ctx, query,
			s.ID,
			s.CaseID,
			s.JudgeID,
			s.LawyerID,
			s.StartTime,
			s.EndTime,
			s.Room,
			s.Version,
		).Scan(&s.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert schedule for case %s: %w", s.CaseID, err)
		}
	}

	return tx.Commit(ctx)
}
