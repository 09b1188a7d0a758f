package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nyaalaya-backend/models"
)

var (
	ErrCaseNotFound       = errors.New("case not found")
	ErrCaseStoreNotSet    = errors.New("case store not set")
	ErrInvalidCase        = errors.New("invalid case")
	ErrAnalyzerNotSet     = errors.New("analyzer not set")
	ErrCaseNumberRequired = errors.New("case number is required")
)

// CaseService handles case lifecycle and on-demand analysis
type CaseService struct {
	store    CaseStore
	analyzer *AnalyzerService
	profile  WeightProfile
	now      func() time.Time
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// CaseWithStore sets the case store
func CaseWithStore(store CaseStore) CaseServiceOption {
	return func(s *CaseService) {
		s.store = store
	}
}

// CaseWithAnalyzer sets the analyzer used by AnalyzeCase
func CaseWithAnalyzer(a *AnalyzerService) CaseServiceOption {
	return func(s *CaseService) {
		s.analyzer = a
	}
}

// CaseWithProfile sets the priority weight profile
func CaseWithProfile(p WeightProfile) CaseServiceOption {
	return func(s *CaseService) {
		s.profile = p
	}
}

// CaseWithClock overrides the wall clock, for tests
func CaseWithClock(now func() time.Time) CaseServiceOption {
	return func(s *CaseService) {
		s.now = now
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{profile: ProfileUrgency, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCaseRequest represents a request to register a case. Urgency,
// duration, priority and complexity are derived later; clients supply only
// intake facts.
type CreateCaseRequest struct {
	CaseNumber  string
	CaseType    models.CaseType
	Description string
	FiledIn     time.Time
}

// CreateCaseResult represents the result of registering a case
type CreateCaseResult struct {
	Case *models.Case
}

// CreateCase validates and persists a new case
func (s *CaseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*CreateCaseResult, error) {
	if s.store == nil {
		return nil, ErrCaseStoreNotSet
	}
	if req.CaseNumber == "" {
		return nil, ErrCaseNumberRequired
	}

	filedIn := req.FiledIn
	if filedIn.IsZero() {
		filedIn = s.now()
	}

	c := &models.Case{
		ID:          uuid.New(),
		CaseNumber:  req.CaseNumber,
		CaseType:    req.CaseType,
		Description: req.Description,
		FiledIn:     filedIn,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCase, err)
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return &CreateCaseResult{Case: c}, nil
}

// GetCase retrieves a case by ID
func (s *CaseService) GetCase(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	if s.store == nil {
		return nil, ErrCaseStoreNotSet
	}
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCaseNotFound
	}
	return c, nil
}

// ListCases lists all cases
func (s *CaseService) ListCases(ctx context.Context) ([]*models.Case, error) {
	if s.store == nil {
		return nil, ErrCaseStoreNotSet
	}
	return s.store.List(ctx)
}

// UpdateCase validates and persists changes to a case
func (s *CaseService) UpdateCase(ctx context.Context, c *models.Case) error {
	if s.store == nil {
		return ErrCaseStoreNotSet
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCase, err)
	}
	return s.store.Update(ctx, c)
}

// DeleteCase removes a case
func (s *CaseService) DeleteCase(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return ErrCaseStoreNotSet
	}
	return s.store.Delete(ctx, id)
}

// AnalyzeCaseResult represents the result of an on-demand analysis
type AnalyzeCaseResult struct {
	Case     *models.Case
	Analysis Analysis
}

// AnalyzeCase runs the analyzer and the priority scorer for one case and
// persists the derived fields
func (s *CaseService) AnalyzeCase(ctx context.Context, id uuid.UUID) (*AnalyzeCaseResult, error) {
	if s.store == nil {
		return nil, ErrCaseStoreNotSet
	}
	if s.analyzer == nil {
		return nil, ErrAnalyzerNotSet
	}

	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	a := s.analyzer.Analyze(ctx, c.CaseNumber, c.CaseType, c.Description, c.FiledIn)
	c.Urgency = a.Urgency
	c.EstimatedDuration = a.EstimatedDuration
	c.Complexity = a.Complexity
	c.AIAnalysis = models.AIAnalysis{
		"urgency":            a.RawUrgency,
		"estimated_duration": a.EstimatedDuration,
		"complexity":         string(a.Complexity),
		"reasoning":          a.Reasoning,
		"source":             a.Source,
	}
	c.Priority = ComputePriority(c, s.profile, s.now())

	if err := s.store.UpdateAnalysis(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}
	return &AnalyzeCaseResult{Case: c, Analysis: a}, nil
}
