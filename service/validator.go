package service

import (
	"fmt"
	"time"
)

// MinHearingDuration is the shortest hearing the court will schedule
const MinHearingDuration = 30 * time.Minute

// Assignment is a draft (case, judge, time window) entry checked by the
// conflict validator before the legacy planner commits
type Assignment struct {
	CaseNumber string
	JudgeName  string
	Start      time.Time
	End        time.Time
}

// CheckConflicts scans a draft assignment set for judge double-booking and
// sub-minimum hearing durations. Overlap is half-open: hearings that touch at
// a boundary do not conflict. Feasible iff no conflicts were recorded.
func CheckConflicts(assignments []Assignment) (bool, []string) {
	var conflicts []string

	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			a, b := assignments[i], assignments[j]
			if a.JudgeName != b.JudgeName {
				continue
			}
			if a.Start.Before(b.End) && b.Start.Before(a.End) {
				conflicts = append(conflicts, fmt.Sprintf(
					"Judge %s double-booked for %s and %s", a.JudgeName, a.CaseNumber, b.CaseNumber))
			}
		}
	}

	for _, a := range assignments {
		if a.End.Sub(a.Start) < MinHearingDuration {
			conflicts = append(conflicts, fmt.Sprintf(
				"Case %s has too short duration (<30 min)", a.CaseNumber))
		}
	}

	return len(conflicts) == 0, conflicts
}
