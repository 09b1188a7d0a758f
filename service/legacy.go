package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"nyaalaya-backend/models"
)

// legacySlotsPerDay caps how many sequential slots the legacy flow spreads
// hearings over before wrapping
const legacySlotsPerDay = 8

// ProcessLegacyRun executes the first-generation greedy pipeline: priority
// sort, round-robin judges, sequential slots, greedy lawyer pick. The draft
// passes through the conflict validator and is only committed when clean;
// a conflicted draft is held and recorded, never partially applied.
func (s *PlannerService) ProcessLegacyRun(ctx context.Context, runID uuid.UUID) error {
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

	// Plain scoring, no advisory involvement
	s.setStep(ctx, st, stepAnalyze, "in_progress")
	today := s.now()
	for _, c := range st.cases {
		c.Priority = ComputePriority(c, ProfileBalanced, today)
		if err := s.caseStore.UpdateAnalysis(ctx, c); err != nil {
			log.Printf("failed to persist score for case %s: %v", c.CaseNumber, err)
		}
	}
	st.note("Scored %d case(s) under the %q profile.", len(st.cases), ProfileBalanced.Name)
	s.setStep(ctx, st, stepAnalyze, "completed")

	s.setStep(ctx, st, stepDraft, "in_progress")
	items, skipped := s.draftGreedy(st)
	s.setStep(ctx, st, stepDraft, "completed")

	s.setStep(ctx, st, stepValidate, "in_progress")
	feasible, conflicts := CheckConflicts(s.draftAssignments(st, items))
	if !feasible {
		s.setStep(ctx, st, stepValidate, "failed")
		for _, c := range conflicts {
			st.note("Conflict: %s", c)
		}
		st.note("Draft held: %d conflict(s) found, nothing committed.", len(conflicts))
		return s.completeRun(ctx, st, models.OutcomeConflictsHeld, 0, len(st.cases))
	}
	s.setStep(ctx, st, stepValidate, "completed")

	s.setStep(ctx, st, stepCommit, "in_progress")
	committed, err := s.commit(ctx, st, items, models.PlanVersionLegacy)
	if err != nil {
		s.setStep(ctx, st, stepCommit, "failed")
		st.note("Commit failed: %v. Prior schedules left intact.", err)
		summary := s.buildSummary(st, models.OutcomeCommitFailed, 0, len(st.cases))
		if cerr := s.runStore.Complete(ctx, st.run.ID, summary); cerr != nil {
			return fmt.Errorf("failed to record run summary: %w", cerr)
		}
		return fmt.Errorf("schedule commit failed: %w", err)
	}
	s.setStep(ctx, st, stepCommit, "completed")

	outcome := models.OutcomeCommitted
	if skipped > 0 {
		outcome = models.OutcomePartial
		st.note("%d case(s) had no available lawyer and were skipped.", skipped)
	}
	return s.completeRun(ctx, st, outcome, committed, skipped)
}

// draftGreedy builds the legacy draft: cases by descending priority, a
// pre-assigned judge is kept, everything else round-robins; slots advance
// sequentially and wrap after legacySlotsPerDay.
func (s *PlannerService) draftGreedy(st *runState) ([]*PlanItem, int) {
	cases := append([]*models.Case(nil), st.cases...)
	sort.SliceStable(cases, func(a, b int) bool {
		if cases[a].Priority != cases[b].Priority {
			return cases[a].Priority > cases[b].Priority
		}
		return cases[a].CaseNumber < cases[b].CaseNumber
	})

	judgeByID := make(map[uuid.UUID]*models.Judge, len(st.judges))
	for _, j := range st.judges {
		judgeByID[j.ID] = j
	}

	lawyerLoads := make(map[uuid.UUID]int, len(st.lawyers))

	items := make([]*PlanItem, 0, len(cases))
	skipped := 0
	rr := 0
	for i, c := range cases {
		judge := st.judges[rr%len(st.judges)]
		if c.AssignedJudgeID != nil {
			if kept, ok := judgeByID[*c.AssignedJudgeID]; ok {
				judge = kept
			} else {
				rr++
			}
		} else {
			rr++
		}

		lawyer := selectLawyer(st.lawyers, c.CaseType, lawyerLoads)
		if lawyer == nil {
			skipped++
			continue
		}
		lawyerLoads[lawyer.ID]++

		items = append(items, &PlanItem{
			Case:   c,
			Judge:  judge,
			Slot:   i % legacySlotsPerDay,
			Lawyer: lawyer,
		})
	}
	return items, skipped
}

// selectLawyer is the greedy pick: exact specialization first, then general
// practitioners, then anyone; among candidates, the fewest-loaded lawyer with
// room under their case cap wins
func selectLawyer(lawyers []*models.Lawyer, t models.CaseType, loads map[uuid.UUID]int) *models.Lawyer {
	pools := [][]*models.Lawyer{
		filterLawyers(lawyers, func(l *models.Lawyer) bool { return l.Specialization.Matches(t) }),
		filterLawyers(lawyers, func(l *models.Lawyer) bool { return l.Specialization == models.SpecializationGeneral }),
		lawyers,
	}

	for _, pool := range pools {
		var best *models.Lawyer
		for _, l := range pool {
			maxCases := l.MaxCases
			if maxCases <= 0 {
				maxCases = DefaultLawyerMaxCases
			}
			if loads[l.ID] >= maxCases {
				continue
			}
			if best == nil || loads[l.ID] < loads[best.ID] {
				best = l
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

func filterLawyers(lawyers []*models.Lawyer, keep func(*models.Lawyer) bool) []*models.Lawyer {
	var out []*models.Lawyer
	for _, l := range lawyers {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// draftAssignments projects plan items into the validator's shape
func (s *PlannerService) draftAssignments(st *runState, items []*PlanItem) []Assignment {
	base := s.dayStart(st.targetDay)
	out := make([]Assignment, 0, len(items))
	for _, item := range items {
		start := base.Add(time.Duration(item.Slot) * s.hearingSpacing)
		duration := item.Case.EstimatedDuration
		if duration <= 0 {
			duration = 60
		}
		out = append(out, Assignment{
			CaseNumber: item.Case.CaseNumber,
			JudgeName:  item.Judge.Name,
			Start:      start,
			End:        start.Add(time.Duration(duration) * time.Minute),
		})
	}
	return out
}
