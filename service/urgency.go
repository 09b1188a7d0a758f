package service

import (
	"strconv"
	"strings"

	"nyaalaya-backend/models"
)

// UrgencyMultiplier normalizes a raw urgency representation into the scalar
// (>= 1) that amplifies the specialization term in both optimization stages.
// Numeric values are used as-is, clamped to >= 1. Ordinal strings map to
// fixed scalars. Anything else defaults to 1.
//
// This is the single copy of the normalization; both stages must call it.
func UrgencyMultiplier(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		if v < 1 {
			return 1
		}
		return v
	case int:
		if v < 1 {
			return 1
		}
		return float64(v)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "high":
			return 3
		case "medium":
			return 1.5
		case "low":
			return 1
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			if f < 1 {
				return 1
			}
			return f
		}
	}
	return 1
}

// CaseUrgencyMultiplier derives the multiplier for a case from the raw
// advisory urgency when present, falling back to the normalized field
func CaseUrgencyMultiplier(c *models.Case) float64 {
	if c.AIAnalysis != nil {
		if raw, ok := c.AIAnalysis["urgency"]; ok {
			return UrgencyMultiplier(raw)
		}
	}
	return UrgencyMultiplier(c.Urgency)
}
