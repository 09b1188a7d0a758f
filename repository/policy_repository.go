package repository

import (
	"context"
	"fmt"
	"strings"

	"nyaalaya-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PolicyRepository handles database operations for scheduling policies
type PolicyRepository struct {
	db *pgxpool.Pool
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Create stores a policy document with its embedding
func (r *PolicyRepository) Create(ctx context.Context, p *models.Policy, embedding []float64) error {
	if len(embedding) != 768 {
		return fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	query := `
		INSERT INTO policies (id, title, content, source, embedding)
		VALUES ($1, $2, $3, $4, $5::vector)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		p.ID,
		p.Title,
		p.Content,
		p.Source,
		formatVector(embedding),
	).Scan(&p.CreatedAt)
}

// Search retrieves the policies nearest to the query embedding by cosine
// distance
func (r *PolicyRepository) Search(ctx context.Context, embedding []float64, limit int) ([]*models.Policy, error) {
	if len(embedding) != 768 {
		return nil, fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}
	if limit <= 0 {
		limit = 3
	}

	query := `
		SELECT id, title, content, source,
			embedding <=> $1::vector AS distance,
			created_at
		FROM policies
		ORDER BY distance
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, formatVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search policies: %w", err)
	}
	defer rows.Close()

	var policies []*models.Policy
	for rows.Next() {
		p := &models.Policy{}
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Content,
			&p.Source,
			&p.Distance,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
