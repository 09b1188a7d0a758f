package service

import (
	"fmt"
	"math"
	"time"

	"nyaalaya-backend/models"
)

// WeightProfile combines urgency, case age and case-type weight into a
// priority score. Two profiles are in active use and neither is canonical;
// callers select one by name.
type WeightProfile struct {
	Name       string  `yaml:"name"`
	Urgency    float64 `yaml:"urgency"`
	Age        float64 `yaml:"age"`
	TypeWeight float64 `yaml:"type_weight"`
}

var (
	// ProfileBalanced is the plain heuristic weighting
	ProfileBalanced = WeightProfile{Name: "balanced", Urgency: 0.5, Age: 0.3, TypeWeight: 0.2}

	// ProfileUrgency is the urgency-dominant weighting used after AI analysis
	ProfileUrgency = WeightProfile{Name: "urgency", Urgency: 0.7, Age: 0.15, TypeWeight: 0.15}
)

// ProfileByName resolves a configured profile name
func ProfileByName(name string) (WeightProfile, error) {
	switch name {
	case ProfileBalanced.Name:
		return ProfileBalanced, nil
	case ProfileUrgency.Name:
		return ProfileUrgency, nil
	}
	return WeightProfile{}, fmt.Errorf("unknown weight profile: %q", name)
}

// caseTypeWeights orders case types by institutional priority
var caseTypeWeights = map[models.CaseType]float64{
	models.CaseTypeCriminal: 0.9,
	models.CaseTypeFamily:   0.8,
	models.CaseTypeCivil:    0.7,
	models.CaseTypeOther:    0.6,
}

const defaultTypeWeight = 0.7

// TypeWeight returns the fixed weight for a case type
func TypeWeight(t models.CaseType) float64 {
	if w, ok := caseTypeWeights[t]; ok {
		return w
	}
	return defaultTypeWeight
}

// AgeScore normalizes the days since filing against one year, saturating at 1
func AgeScore(filedIn, today time.Time) float64 {
	days := today.Sub(filedIn).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Min(days/365, 1)
}

// ComputePriority scores a case under the given profile, clamped to 1.0 and
// rounded to 3 decimals
func ComputePriority(c *models.Case, profile WeightProfile, today time.Time) float64 {
	priority := profile.Urgency*c.Urgency +
		profile.Age*AgeScore(c.FiledIn, today) +
		profile.TypeWeight*TypeWeight(c.CaseType)

	return round3(math.Min(priority, 1.0))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
