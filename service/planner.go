package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nyaalaya-backend/advisory"
	"nyaalaya-backend/models"
	"nyaalaya-backend/solver"
)

var (
	ErrRunInProgress  = errors.New("a planning run is already in progress")
	ErrRunNotFound    = errors.New("planning run not found")
	ErrRunStoreNotSet = errors.New("run store not set")
	ErrNoJudges       = errors.New("no judges available")
)

// Specialization affinity scores. The urgency multiplier amplifies these, so
// urgent cases pull harder toward matching specialists.
const (
	specMatch          = 50
	specGeneral        = 10
	specMismatchJudge  = -30
	specMismatchLawyer = -20
)

// DefaultLawyerMaxCases is the per-lawyer daily capacity when none is configured
const DefaultLawyerMaxCases = 5

// loadPenalty is the quadratic balancing coefficient in both stages
const loadPenalty = 10

const (
	// DefaultHearingSpacing separates consecutive hearing slots for a judge
	DefaultHearingSpacing = 90 * time.Minute
	// DefaultCourtRoom labels committed schedules; room allocation is out of scope
	DefaultCourtRoom = "Courtroom 1"
	// DefaultDayStartHour is the hour of the first slot on the target day
	DefaultDayStartHour = 10
	// advisoryPriorityNudge is added to the priority of cases the advisory
	// service flags, clamped to 1
	advisoryPriorityNudge = 0.05
)

// PlannerService runs court-day planning: observe pending cases, analyze and
// score them, assign judges and lawyers with the constraint solver, and commit
// the resulting schedule. A mutex serializes runs; only one may be in flight.
type PlannerService struct {
	mu sync.Mutex

	caseStore     CaseStore
	judgeStore    JudgeStore
	lawyerStore   LawyerStore
	scheduleStore ScheduleStore
	runStore      RunStore

	analyzer *AnalyzerService
	policies *PolicyService
	advisor  advisory.Client
	archive  ReportArchive

	profile         WeightProfile
	advisoryTimeout time.Duration
	solveBudget     time.Duration
	dayStartHour    int
	hearingSpacing  time.Duration
	room            string

	now func() time.Time
}

// PlannerServiceOption is a functional option for PlannerService
type PlannerServiceOption func(*PlannerService)

// PlannerWithStores sets the record stores
func PlannerWithStores(cases CaseStore, judges JudgeStore, lawyers LawyerStore, schedules ScheduleStore, runs RunStore) PlannerServiceOption {
	return func(s *PlannerService) {
		s.caseStore = cases
		s.judgeStore = judges
		s.lawyerStore = lawyers
		s.scheduleStore = schedules
		s.runStore = runs
	}
}

// PlannerWithAnalyzer sets the case analyzer
func PlannerWithAnalyzer(a *AnalyzerService) PlannerServiceOption {
	return func(s *PlannerService) {
		s.analyzer = a
	}
}

// PlannerWithPolicyService sets the policy retrieval service
func PlannerWithPolicyService(p *PolicyService) PlannerServiceOption {
	return func(s *PlannerService) {
		s.policies = p
	}
}

// PlannerWithAdvisor sets the advisory backend used for the scheduling
// context step; nil skips the step
func PlannerWithAdvisor(c advisory.Client) PlannerServiceOption {
	return func(s *PlannerService) {
		s.advisor = c
	}
}

// PlannerWithArchive sets the run report archive; nil skips archiving
func PlannerWithArchive(a ReportArchive) PlannerServiceOption {
	return func(s *PlannerService) {
		s.archive = a
	}
}

// PlannerWithProfile sets the priority weight profile
func PlannerWithProfile(p WeightProfile) PlannerServiceOption {
	return func(s *PlannerService) {
		s.profile = p
	}
}

// PlannerWithAdvisoryTimeout bounds the scheduling-context advisory call
func PlannerWithAdvisoryTimeout(d time.Duration) PlannerServiceOption {
	return func(s *PlannerService) {
		s.advisoryTimeout = d
	}
}

// PlannerWithSolveBudget bounds each optimization stage
func PlannerWithSolveBudget(d time.Duration) PlannerServiceOption {
	return func(s *PlannerService) {
		s.solveBudget = d
	}
}

// PlannerWithSchedulingWindow overrides the day start hour, slot spacing and room
func PlannerWithSchedulingWindow(startHour int, spacing time.Duration, room string) PlannerServiceOption {
	return func(s *PlannerService) {
		if startHour > 0 {
			s.dayStartHour = startHour
		}
		if spacing > 0 {
			s.hearingSpacing = spacing
		}
		if room != "" {
			s.room = room
		}
	}
}

// PlannerWithClock overrides the wall clock, for tests
func PlannerWithClock(now func() time.Time) PlannerServiceOption {
	return func(s *PlannerService) {
		s.now = now
	}
}

// NewPlannerService creates a new planner service
func NewPlannerService(opts ...PlannerServiceOption) *PlannerService {
	s := &PlannerService{
		profile:         ProfileUrgency,
		advisoryTimeout: DefaultAnalysisTimeout,
		solveBudget:     solver.DefaultTimeLimit,
		dayStartHour:    DefaultDayStartHour,
		hearingSpacing:  DefaultHearingSpacing,
		room:            DefaultCourtRoom,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartRunRequest represents a request to start a planning run
type StartRunRequest struct {
	TargetDay time.Time
	Legacy    bool
}

// StartRunResult represents the result of creating a planning run
type StartRunResult struct {
	RunID uuid.UUID
}

// GetRunRequest represents a request to get run status
type GetRunRequest struct {
	RunID uuid.UUID
}

// GetRunResult represents the result of getting run status
type GetRunResult struct {
	Run *models.PlanRun
}

// StartRun creates the run record and returns immediately; the caller is
// expected to invoke ProcessRun or ProcessLegacyRun in the background.
func (s *PlannerService) StartRun(ctx context.Context, req StartRunRequest) (*StartRunResult, error) {
	if s.runStore == nil {
		return nil, ErrRunStoreNotSet
	}

	run := &models.PlanRun{
		ID:        uuid.New(),
		TargetDay: req.TargetDay,
		Status:    models.RunStatusPending,
		Steps:     initialSteps(req.Legacy),
	}
	if err := s.runStore.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create planning run: %w", err)
	}

	return &StartRunResult{RunID: run.ID}, nil
}

// GetRun retrieves the status of a planning run
func (s *PlannerService) GetRun(ctx context.Context, req GetRunRequest) (*GetRunResult, error) {
	if s.runStore == nil {
		return nil, ErrRunStoreNotSet
	}

	run, err := s.runStore.GetByID(ctx, req.RunID)
	if err != nil {
		return nil, ErrRunNotFound
	}
	return &GetRunResult{Run: run}, nil
}

const (
	stepObserve   = "Observing Cases"
	stepPolicy    = "Gathering Scheduling Context"
	stepAnalyze   = "Analyzing Cases"
	stepJudges    = "Assigning Judges"
	stepLawyers   = "Assigning Lawyers"
	stepDraft     = "Drafting Assignments"
	stepValidate  = "Validating Conflicts"
	stepCommit    = "Committing Schedule"
)

func initialSteps(legacy bool) models.PlanSteps {
	var names []string
	if legacy {
		names = []string{stepObserve, stepAnalyze, stepDraft, stepValidate, stepCommit}
	} else {
		names = []string{stepObserve, stepPolicy, stepAnalyze, stepJudges, stepLawyers, stepCommit}
	}
	steps := make(models.PlanSteps, 0, len(names))
	for _, n := range names {
		steps = append(steps, models.PlanStep{Name: n, Status: "pending"})
	}
	return steps
}

// runState carries the in-flight state of one planning run
type runState struct {
	run       *models.PlanRun
	targetDay time.Time
	steps     models.PlanSteps

	cases   []*models.Case
	judges  []*models.Judge
	lawyers []*models.Lawyer

	analyzed      int
	policySummary string
	advisoryPicks []string
	reasoning     []string
}

func (st *runState) note(format string, args ...interface{}) {
	st.reasoning = append(st.reasoning, fmt.Sprintf(format, args...))
}

func (s *PlannerService) setStep(ctx context.Context, st *runState, name, status string) {
	for i := range st.steps {
		if st.steps[i].Name == name {
			st.steps[i].Status = status
		}
	}
	if err := s.runStore.UpdateProgress(ctx, st.run.ID, name, st.steps); err != nil {
		log.Printf("failed to update run progress: %v", err)
	}
}

// PlanItem is one judge-assigned case in a draft plan. Slot is the 0-based
// hearing index within the judge's day; Lawyer is nil until stage 2 assigns
// one, and stays nil for skipped items.
type PlanItem struct {
	Case   *models.Case
	Judge  *models.Judge
	Slot   int
	Lawyer *models.Lawyer
}

// ProcessRun executes the hybrid planning pipeline for a created run. It is
// intended to run in a background goroutine; failures are recorded on the run
// and returned.
func (s *PlannerService) ProcessRun(ctx context.Context, runID uuid.UUID) error {
	if s.runStore == nil {
		return ErrRunStoreNotSet
	}
	if !s.mu.TryLock() {
		s.failRun(ctx, runID, ErrRunInProgress.Error())
		return ErrRunInProgress
	}
	defer s.mu.Unlock()

	run, err := s.runStore.GetByID(ctx, runID)
	if err != nil {
		return ErrRunNotFound
	}
	st := &runState{run: run, targetDay: run.TargetDay, steps: run.Steps}

	// 1. Observe
	s.setStep(ctx, st, stepObserve, "in_progress")
	if err := s.observe(ctx, st); err != nil {
		return s.failRun(ctx, runID, err.Error())
	}
	s.setStep(ctx, st, stepObserve, "completed")

	if len(st.cases) == 0 {
		st.note("No pending cases to schedule.")
		return s.completeRun(ctx, st, models.OutcomeCommitted, 0, 0)
	}
	if len(st.judges) == 0 {
		return s.failRun(ctx, runID, ErrNoJudges.Error())
	}

	// 2. Scheduling context (best-effort)
	s.setStep(ctx, st, stepPolicy, "in_progress")
	s.gatherContext(ctx, st)
	s.setStep(ctx, st, stepPolicy, "completed")

	// 3. Analyze and score
	s.setStep(ctx, st, stepAnalyze, "in_progress")
	s.analyzeCases(ctx, st)
	s.applyAdvisoryNudges(ctx, st)
	s.setStep(ctx, st, stepAnalyze, "completed")

	// 4. Stage 1: judges
	s.setStep(ctx, st, stepJudges, "in_progress")
	items, sol := s.assignJudges(ctx, st)
	if sol.Status == solver.StatusInfeasible || sol.Status == solver.StatusTimeout {
		s.setStep(ctx, st, stepJudges, "failed")
		outcome := models.OutcomeInfeasible
		if sol.Status == solver.StatusTimeout {
			outcome = models.OutcomeNoSolution
		}
		st.note("Judge assignment ended with status %s; no schedule committed.", sol.Status)
		return s.completeRun(ctx, st, outcome, 0, len(st.cases))
	}
	s.setStep(ctx, st, stepJudges, "completed")
	st.note("Judge assignment %s (objective %d).", sol.Status, sol.Objective)

	// 5. Stage 2: lawyers
	s.setStep(ctx, st, stepLawyers, "in_progress")
	skipped := s.assignLawyers(ctx, st, items)
	s.setStep(ctx, st, stepLawyers, "completed")

	// 6. Commit
	s.setStep(ctx, st, stepCommit, "in_progress")
	committed, err := s.commit(ctx, st, items, models.PlanVersionHybrid)
	if err != nil {
		s.setStep(ctx, st, stepCommit, "failed")
		st.note("Commit failed: %v. Prior schedules left intact.", err)
		summary := s.buildSummary(st, models.OutcomeCommitFailed, 0, len(st.cases))
		if cerr := s.runStore.Complete(ctx, st.run.ID, summary); cerr != nil {
			log.Printf("failed to record run summary: %v", cerr)
		}
		return fmt.Errorf("schedule commit failed: %w", err)
	}
	s.setStep(ctx, st, stepCommit, "completed")

	outcome := models.OutcomeCommitted
	if skipped > 0 {
		outcome = models.OutcomePartial
		st.note("%d case(s) left without a lawyer and skipped.", skipped)
	}
	return s.completeRun(ctx, st, outcome, committed, skipped)
}

func (s *PlannerService) observe(ctx context.Context, st *runState) error {
	cases, err := s.caseStore.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending cases: %w", err)
	}
	judges, err := s.judgeStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list judges: %w", err)
	}
	lawyers, err := s.lawyerStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list lawyers: %w", err)
	}

	st.cases = cases
	st.judges = judges
	st.lawyers = lawyers
	st.note("Observed %d pending case(s), %d judge(s), %d lawyer(s).",
		len(cases), len(judges), len(lawyers))
	return nil
}

// gatherContext retrieves policy documents and asks the advisory service for
// scheduling guidance. Everything here is best-effort.
func (s *PlannerService) gatherContext(ctx context.Context, st *runState) {
	var policies []*models.Policy
	if s.policies != nil {
		query := fmt.Sprintf("court day scheduling priorities for %d pending cases on %s",
			len(st.cases), st.targetDay.Format("2006-01-02"))
		policies = s.policies.Retrieve(ctx, query)
	}
	if len(policies) > 0 {
		st.note("Retrieved %d scheduling policy document(s).", len(policies))
	}

	if s.advisor == nil {
		return
	}

	prompt := buildContextPrompt(policies, st.cases, st.judges, st.targetDay)
	text, err := advisory.CallWithTimeout(ctx, s.advisor, s.advisoryTimeout,
		"You assist an Indian court with daily hearing scheduling. Respond with JSON when asked.", prompt)
	if err != nil {
		log.Printf("scheduling context advisory call failed: %v. Proceeding without it.", err)
		return
	}

	var parsed struct {
		Priorities    []string `json:"priorities"`
		PolicySummary string   `json:"policy_summary"`
	}
	if jerr := json.Unmarshal([]byte(advisory.ExtractJSON(text)), &parsed); jerr != nil {
		// Free-text answers still carry value as a summary
		st.policySummary = strings.TrimSpace(text)
		return
	}
	st.policySummary = parsed.PolicySummary
	st.advisoryPicks = parsed.Priorities
}

func buildContextPrompt(policies []*models.Policy, cases []*models.Case, judges []*models.Judge, day time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scheduling hearings for %s.\n\n", day.Format("2006-01-02"))
	b.WriteString("Policies:\n")
	b.WriteString(FormatPolicies(policies))
	b.WriteString("\n\nPending cases:\n")
	for _, c := range cases {
		fmt.Fprintf(&b, "- %s (%s): %s\n", c.CaseNumber, c.CaseType, firstLine(c.Description))
	}
	b.WriteString("\nJudges:\n")
	for _, j := range judges {
		fmt.Fprintf(&b, "- %s (%s)\n", j.Name, j.Specialization)
	}
	b.WriteString(`
Which case numbers deserve elevated priority today, and how do the policies
apply? Respond ONLY with JSON:
{"priorities": ["case numbers"], "policy_summary": "one short paragraph"}`)
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 160 {
		s = s[:160]
	}
	return s
}

// analyzeCases runs the case analyzer and the priority scorer over every
// observed case, persisting the derived fields
func (s *PlannerService) analyzeCases(ctx context.Context, st *runState) {
	today := s.now()
	analyzed := 0
	for _, c := range st.cases {
		if s.analyzer != nil {
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
			analyzed++
		}
		c.Priority = ComputePriority(c, s.profile, today)

		if err := s.caseStore.UpdateAnalysis(ctx, c); err != nil {
			log.Printf("failed to persist analysis for case %s: %v", c.CaseNumber, err)
		}
	}
	st.analyzed = analyzed
	st.note("Analyzed %d case(s) under the %q profile.", analyzed, s.profile.Name)
}

// applyAdvisoryNudges bumps the priority of cases the advisory context step
// flagged. The nudge is small on purpose: guidance, not override.
func (s *PlannerService) applyAdvisoryNudges(ctx context.Context, st *runState) {
	if len(st.advisoryPicks) == 0 {
		return
	}
	flagged := make(map[string]bool, len(st.advisoryPicks))
	for _, n := range st.advisoryPicks {
		flagged[strings.TrimSpace(n)] = true
	}
	for _, c := range st.cases {
		if !flagged[c.CaseNumber] {
			continue
		}
		c.Priority = round3(math.Min(c.Priority+advisoryPriorityNudge, 1.0))
		if err := s.caseStore.UpdateAnalysis(ctx, c); err != nil {
			log.Printf("failed to persist advisory nudge for case %s: %v", c.CaseNumber, err)
		}
		st.note("Advisory guidance elevated case %s.", c.CaseNumber)
	}
}

// specScore returns the specialization affinity term before urgency scaling
func specScore(spec models.Specialization, t models.CaseType, mismatch int) int {
	switch {
	case spec.Matches(t):
		return specMatch
	case spec == models.SpecializationGeneral:
		return specGeneral
	default:
		return mismatch
	}
}

// assignJudges builds and solves the stage-1 model. Cases are ordered by
// descending priority so earlier slots go to higher-priority cases.
func (s *PlannerService) assignJudges(ctx context.Context, st *runState) ([]*PlanItem, solver.Solution) {
	cases := append([]*models.Case(nil), st.cases...)
	sort.SliceStable(cases, func(a, b int) bool {
		if cases[a].Priority != cases[b].Priority {
			return cases[a].Priority > cases[b].Priority
		}
		return cases[a].CaseNumber < cases[b].CaseNumber
	})

	p := solver.Problem{
		NumRows:     len(cases),
		NumCols:     len(st.judges),
		Gain:        make([][]int64, len(cases)),
		Capacity:    make([]int, len(st.judges)),
		LoadPenalty: loadPenalty,
		TimeLimit:   s.solveBudget,
	}
	for j, judge := range st.judges {
		p.Capacity[j] = judge.DailyCapacity()
	}
	for i, c := range cases {
		mult := CaseUrgencyMultiplier(c)
		row := make([]int64, len(st.judges))
		base := int64(math.Round(c.Priority * 100))
		for j, judge := range st.judges {
			spec := specScore(judge.Specialization, c.CaseType, specMismatchJudge)
			row[j] = base + int64(math.Round(float64(spec)*mult))
		}
		p.Gain[i] = row
	}

	sol := solver.Solve(ctx, p)
	if sol.Status == solver.StatusInfeasible || sol.Status == solver.StatusTimeout {
		return nil, sol
	}

	// Slot indices are per judge, 0-based, in assignment order
	nextSlot := make([]int, len(st.judges))
	items := make([]*PlanItem, 0, len(cases))
	for i, c := range cases {
		j := sol.Assign[i]
		if j < 0 {
			continue
		}
		items = append(items, &PlanItem{
			Case:  c,
			Judge: st.judges[j],
			Slot:  nextSlot[j],
		})
		nextSlot[j]++
	}
	return items, sol
}

// assignLawyers solves the stage-2 model over the judge-assigned items and
// returns the number of items left without a lawyer. Items sharing a slot
// index hear simultaneously, so a lawyer may serve at most one of them.
func (s *PlannerService) assignLawyers(ctx context.Context, st *runState, items []*PlanItem) int {
	if len(items) == 0 {
		return 0
	}
	if len(st.lawyers) == 0 {
		st.note("No lawyers available; all %d assignment(s) skipped.", len(items))
		return len(items)
	}

	p := solver.Problem{
		NumRows:     len(items),
		NumCols:     len(st.lawyers),
		Gain:        make([][]int64, len(items)),
		Capacity:    make([]int, len(st.lawyers)),
		LoadPenalty: loadPenalty,
		TimeLimit:   s.solveBudget,
	}
	for j, l := range st.lawyers {
		capacity := l.MaxCases
		if capacity <= 0 {
			capacity = DefaultLawyerMaxCases
		}
		p.Capacity[j] = capacity
	}
	for i, item := range items {
		mult := CaseUrgencyMultiplier(item.Case)
		row := make([]int64, len(st.lawyers))
		for j, l := range st.lawyers {
			spec := specScore(l.Specialization, item.Case.CaseType, specMismatchLawyer)
			row[j] = int64(math.Round(float64(spec) * mult))
		}
		p.Gain[i] = row
	}

	groups := make(map[int][]int)
	for i, item := range items {
		groups[item.Slot] = append(groups[item.Slot], i)
	}
	slots := make([]int, 0, len(groups))
	for slot := range groups {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	for _, slot := range slots {
		if rows := groups[slot]; len(rows) > 1 {
			p.SlotGroups = append(p.SlotGroups, rows)
		}
	}

	sol := solver.Solve(ctx, p)
	if sol.Status == solver.StatusInfeasible || sol.Status == solver.StatusTimeout {
		st.note("Lawyer assignment ended with status %s; all assignments skipped.", sol.Status)
		return len(items)
	}

	skipped := 0
	for i, item := range items {
		if j := sol.Assign[i]; j >= 0 {
			item.Lawyer = st.lawyers[j]
		} else {
			skipped++
		}
	}
	st.note("Lawyer assignment %s (objective %d).", sol.Status, sol.Objective)
	return skipped
}

// dayStart returns the first slot time on the target day, in its location
func (s *PlannerService) dayStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.dayStartHour, 0, 0, 0, day.Location())
}

// commit materializes complete plan items into schedules and replaces the
// previous schedule set in one transaction. Items without a lawyer are
// skipped, never half-committed. Returns the number of committed hearings.
func (s *PlannerService) commit(ctx context.Context, st *runState, items []*PlanItem, version int) (int, error) {
	base := s.dayStart(st.targetDay)

	schedules := make([]*models.Schedule, 0, len(items))
	for _, item := range items {
		if item.Lawyer == nil {
			continue
		}
		start := base.Add(time.Duration(item.Slot) * s.hearingSpacing)
		duration := item.Case.EstimatedDuration
		if duration < 30 {
			duration = 30
		}
		schedules = append(schedules, &models.Schedule{
			ID:        uuid.New(),
			CaseID:    item.Case.ID,
			JudgeID:   item.Judge.ID,
			LawyerID:  item.Lawyer.ID,
			StartTime: start,
			EndTime:   start.Add(time.Duration(duration) * time.Minute),
			Room:      s.room,
			Version:   version,
		})
	}

	if err := s.scheduleStore.ReplaceAll(ctx, schedules); err != nil {
		return 0, err
	}

	for _, item := range items {
		if item.Lawyer == nil {
			continue
		}
		judgeID := item.Judge.ID
		if err := s.caseStore.UpdateAssignment(ctx, item.Case.ID, &judgeID, []uuid.UUID{item.Lawyer.ID}); err != nil {
			log.Printf("failed to persist assignment for case %s: %v", item.Case.CaseNumber, err)
		}
	}

	st.note("Committed %d hearing(s) starting %s.", len(schedules), base.Format("15:04"))
	return len(schedules), nil
}

func (s *PlannerService) buildSummary(st *runState, outcome models.PlanOutcome, assigned, skipped int) models.PlanSummary {
	return models.PlanSummary{
		TargetDay:     st.targetDay.Format("2006-01-02"),
		Outcome:       outcome,
		Observed:      len(st.cases),
		Analyzed:      st.analyzed,
		Assigned:      assigned,
		Skipped:       skipped,
		PolicySummary: st.policySummary,
		Reasoning:     st.reasoning,
	}
}

func (s *PlannerService) completeRun(ctx context.Context, st *runState, outcome models.PlanOutcome, assigned, skipped int) error {
	summary := s.buildSummary(st, outcome, assigned, skipped)
	if err := s.runStore.Complete(ctx, st.run.ID, summary); err != nil {
		return fmt.Errorf("failed to record run summary: %w", err)
	}
	s.archiveSummary(ctx, st.run.ID, summary)
	return nil
}

func (s *PlannerService) failRun(ctx context.Context, runID uuid.UUID, message string) error {
	if err := s.runStore.Fail(ctx, runID, message); err != nil {
		log.Printf("failed to mark run %s failed: %v", runID, err)
	}
	return errors.New(message)
}

// archiveSummary stores the run report; failures are logged, never fatal
func (s *PlannerService) archiveSummary(ctx context.Context, runID uuid.UUID, summary models.PlanSummary) {
	if s.archive == nil {
		return
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Printf("failed to encode run report: %v", err)
		return
	}
	filename := fmt.Sprintf("plan-run-%s.json", runID)
	if _, err := s.archive.Save(ctx, filename, data); err != nil {
		log.Printf("failed to archive run report %s: %v", filename, err)
	}
}
