// Package solver provides a time-boxed exact solver for boolean row-to-column
// assignment models: each row is assigned exactly one column, columns have
// capacities, rows sharing a slot group may not share a column, and the
// objective is a linear gain minus a quadratic per-column load penalty.
//
// The package boundary matches the narrow contract an external CP/ILP solver
// would satisfy, so one can be swapped in without touching callers.
package solver

import (
	"context"
	"math"
	"sort"
	"time"
)

// Status reports how a solve ended
type Status int

const (
	// StatusOptimal means the search space was exhausted and the returned
	// solution is a true optimum.
	StatusOptimal Status = iota
	// StatusFeasible means the time budget ran out; the returned solution is
	// the best feasible one found so far.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the hard constraints.
	StatusInfeasible
	// StatusTimeout means the budget ran out before any feasible solution
	// was found.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeout:
		return "timeout-no-solution"
	}
	return "unknown"
}

// DefaultTimeLimit bounds a solve when the problem does not set one
const DefaultTimeLimit = 5 * time.Second

// Problem is a boolean assignment model. Gain must be NumRows x NumCols.
// Capacity is per column. SlotGroups lists row index sets whose members may
// not be assigned the same column. LoadPenalty is subtracted as
// penalty * load^2 per column.
type Problem struct {
	NumRows     int
	NumCols     int
	Gain        [][]int64
	Capacity    []int
	LoadPenalty int64
	SlotGroups  [][]int
	TimeLimit   time.Duration
}

// Solution carries the solve status, the chosen column per row (-1 when the
// row is unassigned), and the objective value of the assignment.
type Solution struct {
	Status    Status
	Assign    []int
	Objective int64
}

type search struct {
	p         Problem
	order     [][]int // per row, column indices by descending gain
	ubSuffix  []int64 // upper bound on gain obtainable from row i onward
	rowGroup  []int   // slot group per row, -1 for none
	loads     []int
	groupUsed [][]bool // group x column
	assign    []int
	obj       int64

	best      []int
	bestObj   int64
	bestFound bool

	deadline time.Time
	nodes    int
	timedOut bool
}

// Solve runs a branch-and-bound search over the model. It returns the best
// feasible solution found within the time budget; exceeding the budget with
// no solution is reported as a status, never an error.
func Solve(ctx context.Context, p Problem) Solution {
	unassigned := make([]int, p.NumRows)
	for i := range unassigned {
		unassigned[i] = -1
	}

	if p.NumRows == 0 {
		return Solution{Status: StatusOptimal, Assign: unassigned}
	}
	if p.NumCols == 0 {
		return Solution{Status: StatusInfeasible, Assign: unassigned}
	}

	totalCap := 0
	for _, c := range p.Capacity {
		totalCap += c
	}
	if totalCap < p.NumRows {
		return Solution{Status: StatusInfeasible, Assign: unassigned}
	}

	limit := p.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	deadline := time.Now().Add(limit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	s := &search{
		p:        p,
		loads:    make([]int, p.NumCols),
		assign:   make([]int, p.NumRows),
		rowGroup: make([]int, p.NumRows),
		bestObj:  math.MinInt64,
		deadline: deadline,
	}
	for i := range s.assign {
		s.assign[i] = -1
		s.rowGroup[i] = -1
	}
	for g, rows := range p.SlotGroups {
		for _, r := range rows {
			s.rowGroup[r] = g
		}
	}
	s.groupUsed = make([][]bool, len(p.SlotGroups))
	for g := range s.groupUsed {
		s.groupUsed[g] = make([]bool, p.NumCols)
	}

	// Columns in descending gain order per row, so the greedy branch is
	// explored first and pruning bites early.
	s.order = make([][]int, p.NumRows)
	for i := 0; i < p.NumRows; i++ {
		cols := make([]int, p.NumCols)
		for j := range cols {
			cols[j] = j
		}
		row := p.Gain[i]
		sort.Slice(cols, func(a, b int) bool { return row[cols[a]] > row[cols[b]] })
		s.order[i] = cols
	}

	// The load penalty only lowers the objective, so the sum of per-row
	// maximum gains is an admissible bound for pruning.
	s.ubSuffix = make([]int64, p.NumRows+1)
	for i := p.NumRows - 1; i >= 0; i-- {
		s.ubSuffix[i] = s.ubSuffix[i+1] + p.Gain[i][s.order[i][0]]
	}

	s.dfs(0)

	switch {
	case s.bestFound && !s.timedOut:
		return Solution{Status: StatusOptimal, Assign: s.best, Objective: s.bestObj}
	case s.bestFound:
		return Solution{Status: StatusFeasible, Assign: s.best, Objective: s.bestObj}
	case s.timedOut:
		return Solution{Status: StatusTimeout, Assign: unassigned}
	default:
		return Solution{Status: StatusInfeasible, Assign: unassigned}
	}
}

func (s *search) expired() bool {
	s.nodes++
	if s.nodes%1024 == 0 && time.Now().After(s.deadline) {
		s.timedOut = true
	}
	return s.timedOut
}

func (s *search) dfs(row int) {
	if s.expired() {
		return
	}
	if row == s.p.NumRows {
		if s.obj > s.bestObj || !s.bestFound {
			s.bestObj = s.obj
			s.bestFound = true
			s.best = append([]int(nil), s.assign...)
		}
		return
	}
	if s.bestFound && s.obj+s.ubSuffix[row] <= s.bestObj {
		return
	}

	g := s.rowGroup[row]
	for _, col := range s.order[row] {
		if s.loads[col] >= s.p.Capacity[col] {
			continue
		}
		if g >= 0 && s.groupUsed[g][col] {
			continue
		}

		// Marginal penalty of raising this column's load by one:
		// (l+1)^2 - l^2 = 2l+1.
		delta := s.p.Gain[row][col] - s.p.LoadPenalty*int64(2*s.loads[col]+1)

		s.assign[row] = col
		s.loads[col]++
		if g >= 0 {
			s.groupUsed[g][col] = true
		}
		s.obj += delta

		s.dfs(row + 1)

		s.obj -= delta
		if g >= 0 {
			s.groupUsed[g][col] = false
		}
		s.loads[col]--
		s.assign[row] = -1

		if s.timedOut {
			return
		}
	}
}
