package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nyaalaya-backend/models"
)

var testFiledIn = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func heuristicOnly() *AnalyzerService {
	return NewAnalyzerService()
}

func TestHeuristicBaseValuesByType(t *testing.T) {
	tests := []struct {
		caseType     models.CaseType
		wantUrgency  float64
		wantDuration int
	}{
		{models.CaseTypeCriminal, 0.75, 90},
		{models.CaseTypeFamily, 0.65, 75},
		{models.CaseTypeCivil, 0.45, 60},
		{models.CaseTypeOther, 0.35, 45},
	}
	s := heuristicOnly()
	for _, tt := range tests {
		a := s.Analyze(context.Background(), "C-1", tt.caseType, "", testFiledIn)
		if a.Urgency != tt.wantUrgency {
			t.Errorf("%s: urgency = %v, want %v", tt.caseType, a.Urgency, tt.wantUrgency)
		}
		if a.EstimatedDuration != tt.wantDuration {
			t.Errorf("%s: duration = %d, want %d", tt.caseType, a.EstimatedDuration, tt.wantDuration)
		}
		if a.Complexity != models.ComplexityMedium {
			t.Errorf("%s: complexity = %s, want medium", tt.caseType, a.Complexity)
		}
	}
}

func TestHeuristicCriticalKeywordMaxBoost(t *testing.T) {
	s := heuristicOnly()
	// "urgent" (+0.25) and "bail" (+0.30) both present; only the max applies
	a := s.Analyze(context.Background(), "C-2", models.CaseTypeCivil,
		"urgent bail application", testFiledIn)
	if a.Urgency != 0.75 {
		t.Errorf("urgency = %v, want 0.75 (base 0.45 + max boost 0.30)", a.Urgency)
	}
}

func TestHeuristicUrgencyClampedToOne(t *testing.T) {
	s := heuristicOnly()
	a := s.Analyze(context.Background(), "C-3", models.CaseTypeCriminal,
		"emergency habeas corpus with life threat", testFiledIn)
	if a.Urgency != 1.0 {
		t.Errorf("urgency = %v, want clamped 1.0", a.Urgency)
	}
}

func TestHeuristicComplexityIndicators(t *testing.T) {
	s := heuristicOnly()

	// Two complex indicators: high complexity, +45 minutes
	a := s.Analyze(context.Background(), "C-4", models.CaseTypeCivil,
		"expert testimony and forensic analysis required", testFiledIn)
	if a.Complexity != models.ComplexityHigh {
		t.Errorf("complexity = %s, want high", a.Complexity)
	}
	if a.EstimatedDuration != 105 {
		t.Errorf("duration = %d, want 105", a.EstimatedDuration)
	}

	// One simple indicator: low complexity, -15 minutes
	a = s.Analyze(context.Background(), "C-5", models.CaseTypeCivil,
		"an uncontested matter", testFiledIn)
	if a.Complexity != models.ComplexityLow {
		t.Errorf("complexity = %s, want low", a.Complexity)
	}
	if a.EstimatedDuration != 45 {
		t.Errorf("duration = %d, want 45", a.EstimatedDuration)
	}
}

func TestHeuristicWitnessCountCapped(t *testing.T) {
	s := heuristicOnly()
	// "witnesses" is also a complex indicator (+20 for a single match);
	// 12 witnesses add min(120, 60) = 60
	a := s.Analyze(context.Background(), "C-6", models.CaseTypeCivil,
		"12 witnesses to examine", testFiledIn)
	want := 60 + 20 + 60
	if a.EstimatedDuration != want {
		t.Errorf("duration = %d, want %d", a.EstimatedDuration, want)
	}
}

func TestHeuristicSpecialCaseFirstMatchWins(t *testing.T) {
	s := heuristicOnly()
	a := s.Analyze(context.Background(), "C-7", models.CaseTypeCriminal,
		"murder trial", testFiledIn)
	if a.Complexity != models.ComplexityHigh {
		t.Errorf("complexity = %s, want high", a.Complexity)
	}
	// base 0.75 + 0.30 = 1.05, clamped
	if a.Urgency != 1.0 {
		t.Errorf("urgency = %v, want 1.0", a.Urgency)
	}
	if a.EstimatedDuration != 150 {
		t.Errorf("duration = %d, want 150", a.EstimatedDuration)
	}
}

func TestHeuristicTrafficLowersEverything(t *testing.T) {
	s := heuristicOnly()
	a := s.Analyze(context.Background(), "C-8", models.CaseTypeOther,
		"traffic violation", testFiledIn)
	if a.Urgency != 0.35 {
		// -0.2 modifier never lifts urgency; the max() keeps the base
		t.Errorf("urgency = %v, want 0.35", a.Urgency)
	}
	if a.EstimatedDuration != 30 {
		t.Errorf("duration = %d, want clamped 30", a.EstimatedDuration)
	}
	if a.Complexity != models.ComplexityLow {
		t.Errorf("complexity = %s, want low", a.Complexity)
	}
}

func TestHeuristicDurationClampedToMax(t *testing.T) {
	s := heuristicOnly()
	a := s.Analyze(context.Background(), "C-9", models.CaseTypeCriminal,
		"lengthy and extensive evidence, detailed cross-examination of 6 witnesses, expert testimony, multiple parties", testFiledIn)
	if a.EstimatedDuration != 240 {
		t.Errorf("duration = %d, want clamped 240", a.EstimatedDuration)
	}
}

func TestHeuristicIdempotent(t *testing.T) {
	s := heuristicOnly()
	first := s.Analyze(context.Background(), "C-10", models.CaseTypeFamily,
		"custody dispute with domestic violence allegations", testFiledIn)
	second := s.Analyze(context.Background(), "C-10", models.CaseTypeFamily,
		"custody dispute with domestic violence allegations", testFiledIn)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("analysis not deterministic (-first +second):\n%s", diff)
	}
}

func TestHeuristicReasoningMentionsIndicators(t *testing.T) {
	s := heuristicOnly()
	a := s.Analyze(context.Background(), "C-11", models.CaseTypeCriminal,
		"bail hearing", testFiledIn)
	if !strings.Contains(a.Reasoning, "high-priority indicators") {
		t.Errorf("reasoning %q should mention high-priority indicators", a.Reasoning)
	}
	if a.Source != "heuristic" {
		t.Errorf("source = %q, want heuristic", a.Source)
	}
}

func TestAnalyzeEmptyDescriptionSkipsAdvisory(t *testing.T) {
	advisor := &fakeAdvisor{text: `{"urgency": 0.9}`}
	s := NewAnalyzerService(AnalyzerWithAdvisor(advisor))

	a := s.Analyze(context.Background(), "C-12", models.CaseTypeCivil, "   ", testFiledIn)
	if advisor.calls != 0 {
		t.Errorf("advisory called %d times for empty description", advisor.calls)
	}
	if a.Source != "heuristic" {
		t.Errorf("source = %q, want heuristic", a.Source)
	}
}

func TestAnalyzeAdvisoryResponseNormalized(t *testing.T) {
	advisor := &fakeAdvisor{
		text: "```json\n{\"urgency\": 1.4, \"estimated_duration\": 500}\n```",
	}
	s := NewAnalyzerService(AnalyzerWithAdvisor(advisor))

	a := s.Analyze(context.Background(), "C-13", models.CaseTypeCivil, "contract dispute", testFiledIn)
	if a.Source != "advisory" {
		t.Fatalf("source = %q, want advisory", a.Source)
	}
	if a.Urgency != 1.0 {
		t.Errorf("urgency = %v, want clamped 1.0", a.Urgency)
	}
	if a.EstimatedDuration != 300 {
		t.Errorf("duration = %d, want clamped 300", a.EstimatedDuration)
	}
	if a.Complexity != models.ComplexityMedium {
		t.Errorf("complexity = %s, want defaulted medium", a.Complexity)
	}
	if a.Reasoning == "" {
		t.Error("reasoning should be defaulted, got empty")
	}
}

func TestAnalyzeAdvisoryFailureFallsBack(t *testing.T) {
	advisor := &fakeAdvisor{err: errors.New("connection refused")}
	s := NewAnalyzerService(AnalyzerWithAdvisor(advisor))

	a := s.Analyze(context.Background(), "C-14", models.CaseTypeCriminal, "theft case", testFiledIn)
	if a.Source != "heuristic" {
		t.Errorf("source = %q, want heuristic fallback", a.Source)
	}
	if advisor.calls != 1 {
		t.Errorf("advisor calls = %d, want 1", advisor.calls)
	}
}

func TestAnalyzeAdvisoryGarbageFallsBack(t *testing.T) {
	advisor := &fakeAdvisor{text: "I cannot help with that."}
	s := NewAnalyzerService(AnalyzerWithAdvisor(advisor))

	a := s.Analyze(context.Background(), "C-15", models.CaseTypeCivil, "land dispute", testFiledIn)
	if a.Source != "heuristic" {
		t.Errorf("source = %q, want heuristic fallback", a.Source)
	}
}

func TestAnalyzeAdvisoryKeepsRawUrgencyString(t *testing.T) {
	advisor := &fakeAdvisor{text: `{"urgency": 0.8, "complexity": "high", "reasoning": "serious"}`}
	s := NewAnalyzerService(AnalyzerWithAdvisor(advisor))

	a := s.Analyze(context.Background(), "C-16", models.CaseTypeCriminal, "assault", testFiledIn)
	if a.RawUrgency != 0.8 {
		t.Errorf("raw urgency = %v, want 0.8", a.RawUrgency)
	}
	if a.Complexity != models.ComplexityHigh {
		t.Errorf("complexity = %s, want high", a.Complexity)
	}
}
