package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"nyaalaya-backend/models"
)

// In-memory fakes for the store contracts. They are deliberately simple:
// maps guarded by one mutex, no copies, errors injectable per method.

type fakeCaseStore struct {
	mu    sync.Mutex
	cases map[uuid.UUID]*models.Case

	listPendingErr error
}

func newFakeCaseStore(cases ...*models.Case) *fakeCaseStore {
	s := &fakeCaseStore{cases: make(map[uuid.UUID]*models.Case)}
	for _, c := range cases {
		s.cases[c.ID] = c
	}
	return s
}

func (s *fakeCaseStore) Create(ctx context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = c
	return nil
}

func (s *fakeCaseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (s *fakeCaseStore) List(ctx context.Context) ([]*models.Case, error) {
	return s.ListPending(ctx)
}

func (s *fakeCaseStore) ListPending(ctx context.Context) ([]*models.Case, error) {
	if s.listPendingErr != nil {
		return nil, s.listPendingErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Case
	for _, c := range s.cases {
		if !c.IsResolved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCaseStore) Update(ctx context.Context, c *models.Case) error {
	return s.Create(ctx, c)
}

func (s *fakeCaseStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cases, id)
	return nil
}

func (s *fakeCaseStore) UpdateAnalysis(ctx context.Context, c *models.Case) error {
	return s.Create(ctx, c)
}

func (s *fakeCaseStore) UpdateAssignment(ctx context.Context, caseID uuid.UUID, judgeID *uuid.UUID, lawyerIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return errors.New("not found")
	}
	c.AssignedJudgeID = judgeID
	c.LawyerIDs = lawyerIDs
	return nil
}

type fakeJudgeStore struct {
	judges []*models.Judge
}

func (s *fakeJudgeStore) Create(ctx context.Context, j *models.Judge) error {
	s.judges = append(s.judges, j)
	return nil
}

func (s *fakeJudgeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Judge, error) {
	for _, j := range s.judges {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *fakeJudgeStore) List(ctx context.Context) ([]*models.Judge, error) {
	return s.judges, nil
}

type fakeLawyerStore struct {
	lawyers []*models.Lawyer
}

func (s *fakeLawyerStore) Create(ctx context.Context, l *models.Lawyer) error {
	s.lawyers = append(s.lawyers, l)
	return nil
}

func (s *fakeLawyerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Lawyer, error) {
	for _, l := range s.lawyers {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *fakeLawyerStore) List(ctx context.Context) ([]*models.Lawyer, error) {
	return s.lawyers, nil
}

type fakeScheduleStore struct {
	mu         sync.Mutex
	schedules  []*models.Schedule
	replaceErr error
	replaces   int
}

func (s *fakeScheduleStore) List(ctx context.Context) ([]*models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules, nil
}

func (s *fakeScheduleStore) ReplaceAll(ctx context.Context, schedules []*models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.schedules = schedules
	s.replaces++
	return nil
}

type fakeRunStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*models.PlanRun
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: make(map[uuid.UUID]*models.PlanRun)}
}

func (s *fakeRunStore) Create(ctx context.Context, r *models.PlanRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

func (s *fakeRunStore) GetByID(ctx context.Context, id uuid.UUID) (*models.PlanRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (s *fakeRunStore) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.PlanSteps) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return errors.New("not found")
	}
	r.Status = models.RunStatusInProgress
	r.CurrentStep = &currentStep
	r.Steps = steps
	return nil
}

func (s *fakeRunStore) Complete(ctx context.Context, id uuid.UUID, summary models.PlanSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return errors.New("not found")
	}
	r.Status = models.RunStatusCompleted
	r.Summary = &summary
	r.CurrentStep = nil
	return nil
}

func (s *fakeRunStore) Fail(ctx context.Context, id uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return errors.New("not found")
	}
	r.Status = models.RunStatusFailed
	r.ErrorMessage = &message
	return nil
}

// fakeAdvisor is a canned advisory backend
type fakeAdvisor struct {
	text  string
	err   error
	calls int
}

func (f *fakeAdvisor) Name() string { return "fake" }

func (f *fakeAdvisor) Chat(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.text, f.err
}
