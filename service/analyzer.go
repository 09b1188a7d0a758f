package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"nyaalaya-backend/advisory"
	"nyaalaya-backend/models"
)

// DefaultAnalysisTimeout bounds the advisory call when AI-assisted analysis
// is requested
const DefaultAnalysisTimeout = 30 * time.Second

// Analysis is the derived assessment for a case. RawUrgency preserves the
// advisory service's unnormalized urgency representation, which later feeds
// the urgency multiplier.
type Analysis struct {
	Urgency           float64           `json:"urgency"`
	EstimatedDuration int               `json:"estimated_duration"`
	Complexity        models.Complexity `json:"complexity"`
	Reasoning         string            `json:"reasoning"`
	RawUrgency        interface{}       `json:"-"`
	Source            string            `json:"-"` // "advisory" or "heuristic"
}

// AnalyzerService derives urgency, duration and complexity for a case,
// preferring the advisory service and falling back to a deterministic
// heuristic model on any failure
type AnalyzerService struct {
	advisor advisory.Client
	timeout time.Duration
}

// AnalyzerServiceOption is a functional option for AnalyzerService
type AnalyzerServiceOption func(*AnalyzerService)

// AnalyzerWithAdvisor sets the advisory client; without one, analysis is
// purely heuristic
func AnalyzerWithAdvisor(c advisory.Client) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.advisor = c
	}
}

// AnalyzerWithTimeout bounds the advisory call. Zero means an unbounded wait.
func AnalyzerWithTimeout(d time.Duration) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.timeout = d
	}
}

// NewAnalyzerService creates a new analyzer with the default advisory timeout
func NewAnalyzerService(opts ...AnalyzerServiceOption) *AnalyzerService {
	s := &AnalyzerService{timeout: DefaultAnalysisTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const analyzerSystemInstruction = "Respond only with valid JSON. No markdown."

// Analyze derives the assessment for one case. Advisory failures never
// propagate: any service error, timeout or malformed response falls back to
// the heuristic model.
func (s *AnalyzerService) Analyze(ctx context.Context, caseNumber string, caseType models.CaseType, description string, filedIn time.Time) Analysis {
	if strings.TrimSpace(description) == "" {
		return s.analyzeHeuristic(caseType, description)
	}

	if s.advisor != nil {
		prompt := buildAnalysisPrompt(caseNumber, caseType, description, filedIn)
		text, err := advisory.CallWithTimeout(ctx, s.advisor, s.timeout, analyzerSystemInstruction, prompt)
		if err == nil {
			analysis, perr := normalizeAnalysis(text, caseType)
			if perr == nil {
				return analysis
			}
			log.Printf("advisory analysis for %s unparseable: %v. Falling back to heuristic.", caseNumber, perr)
		} else {
			log.Printf("advisory analysis for %s failed: %v. Falling back to heuristic.", caseNumber, err)
		}
	}

	return s.analyzeHeuristic(caseType, description)
}

func buildAnalysisPrompt(caseNumber string, caseType models.CaseType, description string, filedIn time.Time) string {
	return fmt.Sprintf(`You are a legal case analyzer for an Indian court system (Nya-Alaya). Analyze the following case and provide assessments.

Case Number: %s
Case Type: %s
Filed Date: %s
Description: %s

Based on the description, analyze:

1. Urgency (0.0 to 1.0): How urgently does this case need to be heard?
   - Consider: victim safety, time-sensitive matters, statute of limitations, Indian legal context
   - 0.9-1.0: Extremely urgent (e.g., habeas corpus, domestic violence, bail matters)
   - 0.7-0.8: High urgency (e.g., serious criminal cases, child custody)
   - 0.5-0.6: Moderate urgency (e.g., civil disputes, property matters)
   - 0.2-0.4: Low urgency (e.g., routine civil/property disputes)

2. Estimated Duration (in minutes): How long will the hearing take?
   - Consider: complexity, number of witnesses, evidence volume, arguments needed
   - Simple: 30-60, Standard: 60-120, Complex: 120-240

3. Complexity: "low" | "medium" | "high"

Respond ONLY with strict JSON (no markdown, no extra text):
{
  "urgency": 0 to 1,
  "estimated_duration": 30 to 240,
  "complexity": "low" | "medium" | "high",
  "reasoning": "Brief explanation of your assessment"
}`, caseNumber, caseType, filedIn.Format("2006-01-02"), description)
}

// normalizeAnalysis validates an advisory response: extract the JSON object,
// clamp urgency to [0,1] and duration to [30,300], and fill missing
// complexity and reasoning
func normalizeAnalysis(text string, caseType models.CaseType) (Analysis, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(advisory.ExtractJSON(text)), &data); err != nil {
		return Analysis{}, fmt.Errorf("invalid JSON: %w", err)
	}

	rawUrgency, ok := data["urgency"]
	urgency := 0.5
	if ok {
		f, ferr := toFloat(rawUrgency)
		if ferr != nil {
			return Analysis{}, ferr
		}
		urgency = f
	}
	urgency = clampFloat(urgency, 0, 1)

	duration := 60
	if rawDuration, ok := data["estimated_duration"]; ok {
		f, ferr := toFloat(rawDuration)
		if ferr != nil {
			return Analysis{}, ferr
		}
		duration = int(f)
	}
	duration = clampInt(duration, 30, 300)

	complexity := models.ComplexityMedium
	if rawComplexity, ok := data["complexity"].(string); ok && models.Complexity(rawComplexity).Valid() {
		complexity = models.Complexity(rawComplexity)
	}

	reasoning, _ := data["reasoning"].(string)
	if reasoning == "" {
		reasoning = fmt.Sprintf("Model analysis for %s case", caseType)
	}

	return Analysis{
		Urgency:           urgency,
		EstimatedDuration: duration,
		Complexity:        complexity,
		Reasoning:         reasoning,
		RawUrgency:        rawUrgency,
		Source:            "advisory",
	}, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Heuristic model tables. Keyword matching is case-insensitive substring
// matching against the description.

var baseUrgencyByType = map[models.CaseType]float64{
	models.CaseTypeCriminal: 0.75,
	models.CaseTypeFamily:   0.65,
	models.CaseTypeCivil:    0.45,
	models.CaseTypeOther:    0.35,
}

var baseDurationByType = map[models.CaseType]int{
	models.CaseTypeCriminal: 90,
	models.CaseTypeFamily:   75,
	models.CaseTypeCivil:    60,
	models.CaseTypeOther:    45,
}

// criticalKeywords boost urgency; only the maximum matching boost applies
var criticalKeywords = map[string]float64{
	"emergency":         0.35,
	"immediate":         0.3,
	"urgent":            0.25,
	"bail":              0.3,
	"habeas corpus":     0.35,
	"life threat":       0.35,
	"domestic violence": 0.3,
	"child abuse":       0.35,
	"danger":            0.25,
	"custody":           0.2,
	"injunction":        0.2,
	"restraining":       0.2,
}

var complexIndicators = []string{
	"multiple parties", "witnesses", "expert testimony", "forensic",
	"extensive evidence", "complex", "cross-examination", "appeal",
	"precedent", "constitutional", "interpretation",
}

var simpleIndicators = []string{
	"simple", "straightforward", "uncontested", "agreed",
	"minor", "routine", "procedural",
}

var timeKeywords = map[string]int{
	"brief":     -15,
	"quick":     -10,
	"lengthy":   30,
	"detailed":  20,
	"extensive": 30,
	"summary":   -20,
}

// specialCaseTerm applies a fixed override; first match wins, with urgency
// taking the max against any prior keyword boost
type specialCaseTerm struct {
	term       string
	urgency    float64
	duration   int
	complexity models.Complexity
}

var specialCaseTerms = []specialCaseTerm{
	{"murder", 0.3, 60, models.ComplexityHigh},
	{"rape", 0.35, 60, models.ComplexityHigh},
	{"kidnapping", 0.35, 45, models.ComplexityHigh},
	{"fraud", 0.1, 30, models.ComplexityMedium},
	{"divorce", 0.0, -15, models.ComplexityMedium},
	{"property dispute", -0.1, 15, models.ComplexityMedium},
	{"traffic", -0.2, -20, models.ComplexityLow},
}

var witnessCountRe = regexp.MustCompile(`(\d+)\s+witness`)

// analyzeHeuristic is the deterministic fallback model. It is guaranteed to
// produce a valid result with no external dependency.
func (s *AnalyzerService) analyzeHeuristic(caseType models.CaseType, description string) Analysis {
	baseUrgency, ok := baseUrgencyByType[caseType]
	if !ok {
		baseUrgency = 0.5
	}
	baseDuration, ok := baseDurationByType[caseType]
	if !ok {
		baseDuration = 60
	}

	complexity := models.ComplexityMedium
	urgencyModifier := 0.0
	durationModifier := 0

	if description != "" {
		descLower := strings.ToLower(description)

		for keyword, boost := range criticalKeywords {
			if strings.Contains(descLower, keyword) && boost > urgencyModifier {
				urgencyModifier = boost
			}
		}

		complexCount := 0
		for _, ind := range complexIndicators {
			if strings.Contains(descLower, ind) {
				complexCount++
			}
		}
		simpleCount := 0
		for _, ind := range simpleIndicators {
			if strings.Contains(descLower, ind) {
				simpleCount++
			}
		}

		switch {
		case complexCount >= 2:
			complexity = models.ComplexityHigh
			durationModifier += 45
		case complexCount == 1:
			complexity = models.ComplexityMedium
			durationModifier += 20
		case simpleCount >= 1:
			complexity = models.ComplexityLow
			durationModifier -= 15
		}

		// 10 minutes per counted witness, capped at +60
		if m := witnessCountRe.FindStringSubmatch(descLower); m != nil {
			n := 0
			fmt.Sscanf(m[1], "%d", &n)
			extra := n * 10
			if extra > 60 {
				extra = 60
			}
			durationModifier += extra
		}

		for keyword, mod := range timeKeywords {
			if strings.Contains(descLower, keyword) {
				durationModifier += mod
			}
		}

		for _, sc := range specialCaseTerms {
			if strings.Contains(descLower, sc.term) {
				if sc.urgency > urgencyModifier {
					urgencyModifier = sc.urgency
				}
				durationModifier += sc.duration
				complexity = sc.complexity
				break
			}
		}
	}

	finalUrgency := clampFloat(baseUrgency+urgencyModifier, 0, 1)
	finalDuration := clampInt(baseDuration+durationModifier, 30, 240)

	reasoning := fmt.Sprintf("Enhanced rule-based analysis: %s case", caseType)
	if urgencyModifier > 0 {
		reasoning += fmt.Sprintf(" with high-priority indicators (urgency +%.2f)", urgencyModifier)
	}
	if complexity != models.ComplexityMedium {
		reasoning += fmt.Sprintf(", %s complexity", complexity)
	}

	urgency := round2(finalUrgency)
	return Analysis{
		Urgency:           urgency,
		EstimatedDuration: finalDuration,
		Complexity:        complexity,
		Reasoning:         reasoning,
		RawUrgency:        urgency,
		Source:            "heuristic",
	}
}
