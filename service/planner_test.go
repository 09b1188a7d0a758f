package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"nyaalaya-backend/models"
)

var (
	planToday = time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	planDay   = time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)

	errReplaceBoom = errors.New("replace failed")
)

func newJudge(name string, spec models.Specialization, capacity int) *models.Judge {
	return &models.Judge{
		ID:             uuid.New(),
		Name:           name,
		Specialization: spec,
		MaxDailyCases:  capacity,
	}
}

func newLawyer(name string, spec models.Specialization) *models.Lawyer {
	return &models.Lawyer{
		ID:             uuid.New(),
		Name:           name,
		Specialization: spec,
	}
}

func newPendingCase(number string, caseType models.CaseType, description string) *models.Case {
	return &models.Case{
		ID:          uuid.New(),
		CaseNumber:  number,
		CaseType:    caseType,
		Description: description,
		FiledIn:     planToday.AddDate(0, -2, 0),
	}
}

func newTestPlanner(cases *fakeCaseStore, judges *fakeJudgeStore, lawyers *fakeLawyerStore, schedules *fakeScheduleStore, runs *fakeRunStore) *PlannerService {
	return NewPlannerService(
		PlannerWithStores(cases, judges, lawyers, schedules, runs),
		PlannerWithAnalyzer(NewAnalyzerService()),
		PlannerWithProfile(ProfileUrgency),
		PlannerWithClock(func() time.Time { return planToday }),
	)
}

func startRun(t *testing.T, p *PlannerService, legacy bool) uuid.UUID {
	t.Helper()
	result, err := p.StartRun(context.Background(), StartRunRequest{TargetDay: planDay, Legacy: legacy})
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	return result.RunID
}

func TestProcessRunEndToEnd(t *testing.T) {
	criminal := newPendingCase("CR-1", models.CaseTypeCriminal, "urgent bail application")
	family := newPendingCase("FM-1", models.CaseTypeFamily, "custody dispute")
	civil := newPendingCase("CV-1", models.CaseTypeCivil, "simple contract dispute")

	crimJudge := newJudge("Judge Rao", models.SpecializationCriminal, 8)
	genJudge := newJudge("Judge Mehta", models.SpecializationGeneral, 8)

	caseStore := newFakeCaseStore(criminal, family, civil)
	scheduleStore := &fakeScheduleStore{}
	runStore := newFakeRunStore()
	p := newTestPlanner(
		caseStore,
		&fakeJudgeStore{judges: []*models.Judge{crimJudge, genJudge}},
		&fakeLawyerStore{lawyers: []*models.Lawyer{
			newLawyer("Adv. Iyer", models.SpecializationFamily),
			newLawyer("Adv. Bose", models.SpecializationGeneral),
		}},
		scheduleStore,
		runStore,
	)

	runID := startRun(t, p, false)
	if err := p.ProcessRun(context.Background(), runID); err != nil {
		t.Fatalf("ProcessRun: %v", err)
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Status != models.RunStatusCompleted {
		t.Fatalf("run status = %s, want completed", run.Status)
	}
	if run.Summary == nil {
		t.Fatal("run summary missing")
	}
	if run.Summary.Outcome != models.OutcomeCommitted {
		t.Fatalf("outcome = %s, want committed (reasoning: %v)", run.Summary.Outcome, run.Summary.Reasoning)
	}
	if run.Summary.Observed != 3 || run.Summary.Assigned != 3 || run.Summary.Skipped != 0 {
		t.Errorf("summary counts observed=%d assigned=%d skipped=%d, want 3/3/0",
			run.Summary.Observed, run.Summary.Assigned, run.Summary.Skipped)
	}

	schedules := scheduleStore.schedules
	if len(schedules) != 3 {
		t.Fatalf("committed %d schedules, want 3", len(schedules))
	}

	// The criminal case must land on the criminal specialist
	for _, s := range schedules {
		if s.CaseID == criminal.ID && s.JudgeID != crimJudge.ID {
			t.Errorf("criminal case assigned to judge %s, want the specialist", s.JudgeID)
		}
		if s.Version != models.PlanVersionHybrid {
			t.Errorf("schedule version = %d, want %d", s.Version, models.PlanVersionHybrid)
		}
		if s.Room != DefaultCourtRoom {
			t.Errorf("room = %q, want %q", s.Room, DefaultCourtRoom)
		}
	}

	// Invariants: every case scheduled once, slots 90 minutes apart per
	// judge, base start 10:00, no lawyer double-booked in one slot
	seen := make(map[uuid.UUID]bool)
	lawyersBySlot := make(map[time.Time]map[uuid.UUID]bool)
	base := time.Date(2025, 12, 2, 10, 0, 0, 0, time.UTC)
	for _, s := range schedules {
		if seen[s.CaseID] {
			t.Errorf("case %s scheduled twice", s.CaseID)
		}
		seen[s.CaseID] = true

		offset := s.StartTime.Sub(base)
		if offset < 0 || offset%DefaultHearingSpacing != 0 {
			t.Errorf("start time %s not on the slot grid", s.StartTime)
		}
		if !s.EndTime.After(s.StartTime) {
			t.Errorf("schedule ends before it starts: %v", s)
		}

		slot := lawyersBySlot[s.StartTime]
		if slot == nil {
			slot = make(map[uuid.UUID]bool)
			lawyersBySlot[s.StartTime] = slot
		}
		if slot[s.LawyerID] {
			t.Errorf("lawyer %s double-booked at %s", s.LawyerID, s.StartTime)
		}
		slot[s.LawyerID] = true
	}

	// Assignments were written back to the cases
	got, _ := caseStore.GetByID(context.Background(), criminal.ID)
	if got.AssignedJudgeID == nil || *got.AssignedJudgeID != crimJudge.ID {
		t.Error("criminal case assignment not persisted")
	}
	if got.Priority <= 0 {
		t.Error("priority not persisted")
	}
}

func TestProcessRunInfeasibleCommitsNothing(t *testing.T) {
	// One judge with capacity 1 cannot hear two cases
	judge := newJudge("Judge Rao", models.SpecializationGeneral, 1)

	scheduleStore := &fakeScheduleStore{}
	runStore := newFakeRunStore()
	p := newTestPlanner(
		newFakeCaseStore(
			newPendingCase("CV-1", models.CaseTypeCivil, "dispute one"),
			newPendingCase("CV-2", models.CaseTypeCivil, "dispute two"),
		),
		&fakeJudgeStore{judges: []*models.Judge{judge}},
		&fakeLawyerStore{lawyers: []*models.Lawyer{newLawyer("Adv. Bose", models.SpecializationGeneral)}},
		scheduleStore,
		runStore,
	)

	runID := startRun(t, p, false)
	if err := p.ProcessRun(context.Background(), runID); err != nil {
		t.Fatalf("ProcessRun: %v", err)
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Status != models.RunStatusCompleted {
		t.Fatalf("run status = %s, want completed", run.Status)
	}
	if run.Summary.Outcome != models.OutcomeInfeasible {
		t.Errorf("outcome = %s, want infeasible", run.Summary.Outcome)
	}
	if scheduleStore.replaces != 0 {
		t.Error("infeasible run must not touch the schedule store")
	}
}

func TestProcessRunPartialWhenLawyersExhausted(t *testing.T) {
	// Two specialist judges each take one case at slot 0; the single lawyer
	// cannot serve two simultaneous hearings
	scheduleStore := &fakeScheduleStore{}
	runStore := newFakeRunStore()
	p := newTestPlanner(
		newFakeCaseStore(
			newPendingCase("CR-1", models.CaseTypeCriminal, "assault case"),
			newPendingCase("CV-1", models.CaseTypeCivil, "contract dispute"),
		),
		&fakeJudgeStore{judges: []*models.Judge{
			newJudge("Judge Rao", models.SpecializationCriminal, 8),
			newJudge("Judge Mehta", models.SpecializationCivil, 8),
		}},
		&fakeLawyerStore{lawyers: []*models.Lawyer{newLawyer("Adv. Bose", models.SpecializationGeneral)}},
		scheduleStore,
		runStore,
	)

	runID := startRun(t, p, false)
	if err := p.ProcessRun(context.Background(), runID); err != nil {
		t.Fatalf("ProcessRun: %v", err)
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Summary.Outcome != models.OutcomePartial {
		t.Fatalf("outcome = %s, want partial (reasoning: %v)", run.Summary.Outcome, run.Summary.Reasoning)
	}
	if run.Summary.Assigned+run.Summary.Skipped != 2 {
		t.Errorf("assigned=%d skipped=%d, want them to cover both cases",
			run.Summary.Assigned, run.Summary.Skipped)
	}
	if run.Summary.Skipped == 0 {
		t.Error("expected at least one skipped case")
	}
	for _, s := range scheduleStore.schedules {
		if s.LawyerID == uuid.Nil {
			t.Error("committed schedule without a lawyer")
		}
	}
}

func TestProcessRunNoPendingCases(t *testing.T) {
	runStore := newFakeRunStore()
	p := newTestPlanner(
		newFakeCaseStore(),
		&fakeJudgeStore{},
		&fakeLawyerStore{},
		&fakeScheduleStore{},
		runStore,
	)

	runID := startRun(t, p, false)
	if err := p.ProcessRun(context.Background(), runID); err != nil {
		t.Fatalf("ProcessRun: %v", err)
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Status != models.RunStatusCompleted {
		t.Fatalf("run status = %s, want completed", run.Status)
	}
	if run.Summary.Observed != 0 {
		t.Errorf("observed = %d, want 0", run.Summary.Observed)
	}
}

func TestProcessRunNoJudgesFails(t *testing.T) {
	runStore := newFakeRunStore()
	p := newTestPlanner(
		newFakeCaseStore(newPendingCase("CV-1", models.CaseTypeCivil, "dispute")),
		&fakeJudgeStore{},
		&fakeLawyerStore{},
		&fakeScheduleStore{},
		runStore,
	)

	runID := startRun(t, p, false)
	if err := p.ProcessRun(context.Background(), runID); err == nil {
		t.Fatal("expected error with no judges")
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Status != models.RunStatusFailed {
		t.Errorf("run status = %s, want failed", run.Status)
	}
}

func TestProcessRunCommitFailureMarksRun(t *testing.T) {
	scheduleStore := &fakeScheduleStore{replaceErr: errReplaceBoom}
	runStore := newFakeRunStore()
	p := newTestPlanner(
		newFakeCaseStore(newPendingCase("CV-1", models.CaseTypeCivil, "dispute")),
		&fakeJudgeStore{judges: []*models.Judge{newJudge("Judge Rao", models.SpecializationGeneral, 8)}},
		&fakeLawyerStore{lawyers: []*models.Lawyer{newLawyer("Adv. Bose", models.SpecializationGeneral)}},
		scheduleStore,
		runStore,
	)

	runID := startRun(t, p, false)
	if err := p.ProcessRun(context.Background(), runID); err == nil {
		t.Fatal("expected commit error to propagate")
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Summary == nil || run.Summary.Outcome != models.OutcomeCommitFailed {
		t.Errorf("expected commit_failed outcome, got %+v", run.Summary)
	}
}

func TestProcessRunAdvisoryNudgeLiftsFlaggedCase(t *testing.T) {
	flagged := newPendingCase("CV-9", models.CaseTypeCivil, "contract dispute")
	caseStore := newFakeCaseStore(flagged)
	runStore := newFakeRunStore()
	p := NewPlannerService(
		PlannerWithStores(
			caseStore,
			&fakeJudgeStore{judges: []*models.Judge{newJudge("Judge Rao", models.SpecializationGeneral, 8)}},
			&fakeLawyerStore{lawyers: []*models.Lawyer{newLawyer("Adv. Bose", models.SpecializationGeneral)}},
			&fakeScheduleStore{},
			runStore,
		),
		PlannerWithAnalyzer(NewAnalyzerService()),
		PlannerWithAdvisor(&fakeAdvisor{text: `{"priorities": ["CV-9"], "policy_summary": "civil backlog first"}`}),
		PlannerWithProfile(ProfileUrgency),
		PlannerWithClock(func() time.Time { return planToday }),
	)

	runID := startRun(t, p, false)
	if err := p.ProcessRun(context.Background(), runID); err != nil {
		t.Fatalf("ProcessRun: %v", err)
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Summary.PolicySummary != "civil backlog first" {
		t.Errorf("policy summary = %q", run.Summary.PolicySummary)
	}

	// Same case scored without the nudge for comparison
	control := newPendingCase("CV-9", models.CaseTypeCivil, "contract dispute")
	a := NewAnalyzerService().Analyze(context.Background(), control.CaseNumber, control.CaseType, control.Description, control.FiledIn)
	control.Urgency = a.Urgency
	base := ComputePriority(control, ProfileUrgency, planToday)

	got, _ := caseStore.GetByID(context.Background(), flagged.ID)
	want := round3(base + advisoryPriorityNudge)
	if got.Priority != want {
		t.Errorf("priority = %v, want %v (base %v + nudge)", got.Priority, want, base)
	}
}

func TestProcessLegacyRunCommitsCleanDraft(t *testing.T) {
	caseA := newPendingCase("CV-1", models.CaseTypeCivil, "dispute one")
	caseB := newPendingCase("CV-2", models.CaseTypeCivil, "dispute two")
	caseA.EstimatedDuration = 60
	caseB.EstimatedDuration = 60

	scheduleStore := &fakeScheduleStore{}
	runStore := newFakeRunStore()
	p := newTestPlanner(
		newFakeCaseStore(caseA, caseB),
		&fakeJudgeStore{judges: []*models.Judge{newJudge("Judge Rao", models.SpecializationGeneral, 8)}},
		&fakeLawyerStore{lawyers: []*models.Lawyer{newLawyer("Adv. Bose", models.SpecializationGeneral)}},
		scheduleStore,
		runStore,
	)

	runID := startRun(t, p, true)
	if err := p.ProcessLegacyRun(context.Background(), runID); err != nil {
		t.Fatalf("ProcessLegacyRun: %v", err)
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Summary.Outcome != models.OutcomeCommitted {
		t.Fatalf("outcome = %s, want committed (reasoning: %v)", run.Summary.Outcome, run.Summary.Reasoning)
	}
	if len(scheduleStore.schedules) != 2 {
		t.Fatalf("committed %d schedules, want 2", len(scheduleStore.schedules))
	}
	for _, s := range scheduleStore.schedules {
		if s.Version != models.PlanVersionLegacy {
			t.Errorf("schedule version = %d, want %d", s.Version, models.PlanVersionLegacy)
		}
	}
}

func TestProcessLegacyRunHoldsConflictedDraft(t *testing.T) {
	// 120-minute hearings on a 90-minute grid overlap for the same judge
	caseA := newPendingCase("CV-1", models.CaseTypeCivil, "dispute one")
	caseB := newPendingCase("CV-2", models.CaseTypeCivil, "dispute two")
	caseA.EstimatedDuration = 120
	caseB.EstimatedDuration = 120

	scheduleStore := &fakeScheduleStore{}
	runStore := newFakeRunStore()
	p := newTestPlanner(
		newFakeCaseStore(caseA, caseB),
		&fakeJudgeStore{judges: []*models.Judge{newJudge("Judge Rao", models.SpecializationGeneral, 8)}},
		&fakeLawyerStore{lawyers: []*models.Lawyer{newLawyer("Adv. Bose", models.SpecializationGeneral)}},
		scheduleStore,
		runStore,
	)

	runID := startRun(t, p, true)
	if err := p.ProcessLegacyRun(context.Background(), runID); err != nil {
		t.Fatalf("ProcessLegacyRun: %v", err)
	}

	run, _ := runStore.GetByID(context.Background(), runID)
	if run.Summary.Outcome != models.OutcomeConflictsHeld {
		t.Fatalf("outcome = %s, want conflicts_held", run.Summary.Outcome)
	}
	if scheduleStore.replaces != 0 {
		t.Error("conflicted draft must not be committed")
	}
}

func TestSelectLawyerPreference(t *testing.T) {
	criminal := newLawyer("Adv. Iyer", models.SpecializationCriminal)
	general := newLawyer("Adv. Bose", models.SpecializationGeneral)
	civil := newLawyer("Adv. Sen", models.SpecializationCivil)
	lawyers := []*models.Lawyer{civil, general, criminal}

	loads := map[uuid.UUID]int{}
	if got := selectLawyer(lawyers, models.CaseTypeCriminal, loads); got != criminal {
		t.Errorf("expected the criminal specialist, got %v", got.Name)
	}

	// Specialist at capacity: fall through to the general practitioner
	loads[criminal.ID] = DefaultLawyerMaxCases
	if got := selectLawyer(lawyers, models.CaseTypeCriminal, loads); got != general {
		t.Errorf("expected the general practitioner, got %v", got.Name)
	}

	// Everyone at capacity: no pick
	loads[general.ID] = DefaultLawyerMaxCases
	loads[civil.ID] = DefaultLawyerMaxCases
	if got := selectLawyer(lawyers, models.CaseTypeCriminal, loads); got != nil {
		t.Errorf("expected no lawyer, got %v", got.Name)
	}
}
