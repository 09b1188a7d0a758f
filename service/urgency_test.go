package service

import (
	"testing"

	"nyaalaya-backend/models"
)

func TestUrgencyMultiplier(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want float64
	}{
		{"numeric above one", 2.5, 2.5},
		{"numeric below one clamped", 0.4, 1},
		{"int", 3, 3},
		{"high", "High", 3},
		{"medium", "medium", 1.5},
		{"low", "LOW", 1},
		{"numeric string", "2", 2},
		{"numeric string below one", "0.3", 1},
		{"garbage string", "whenever", 1},
		{"nil", nil, 1},
		{"unsupported type", []string{"high"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UrgencyMultiplier(tt.raw); got != tt.want {
				t.Errorf("UrgencyMultiplier(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCaseUrgencyMultiplierPrefersRawAnalysis(t *testing.T) {
	c := &models.Case{
		Urgency:    0.9,
		AIAnalysis: models.AIAnalysis{"urgency": "High"},
	}
	if got := CaseUrgencyMultiplier(c); got != 3 {
		t.Errorf("multiplier = %v, want 3 from raw analysis", got)
	}
}

func TestCaseUrgencyMultiplierFallsBackToField(t *testing.T) {
	c := &models.Case{Urgency: 0.9}
	// 0.9 clamps up to 1
	if got := CaseUrgencyMultiplier(c); got != 1 {
		t.Errorf("multiplier = %v, want 1", got)
	}
}
