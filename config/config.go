// Package config loads planner settings from an optional YAML file with
// environment overrides. Connection strings and credentials stay in the
// environment; the YAML file carries scheduling behavior only.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the planner and server settings
type Config struct {
	// Server
	Port string `yaml:"port"`

	// Scheduling behavior
	WeightProfile   string        `yaml:"weight_profile"`   // "balanced" or "urgency"
	AdvisoryTimeout time.Duration `yaml:"advisory_timeout"` // 0 means unbounded
	SolveBudget     time.Duration `yaml:"solve_budget"`
	DayStartHour    int           `yaml:"day_start_hour"`
	HearingSpacing  time.Duration `yaml:"hearing_spacing"`
	Room            string        `yaml:"room"`
	PolicyTopK      int           `yaml:"policy_top_k"`

	// Advisory backends
	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`
	GeminiModel string `yaml:"gemini_model"`
}

// Default returns the baseline configuration
func Default() Config {
	return Config{
		Port:            "8080",
		WeightProfile:   "urgency",
		AdvisoryTimeout: 30 * time.Second,
		SolveBudget:     5 * time.Second,
		DayStartHour:    10,
		HearingSpacing:  90 * time.Minute,
		Room:            "Courtroom 1",
		PolicyTopK:      3,
	}
}

// Load reads the config file at path (skipped when empty or missing) and
// applies environment overrides on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.WeightProfile, "WEIGHT_PROFILE")
	setDuration(&cfg.AdvisoryTimeout, "ADVISORY_TIMEOUT")
	setDuration(&cfg.SolveBudget, "SOLVE_BUDGET")
	setInt(&cfg.DayStartHour, "DAY_START_HOUR")
	setDuration(&cfg.HearingSpacing, "HEARING_SPACING")
	setString(&cfg.Room, "COURT_ROOM")
	setInt(&cfg.PolicyTopK, "POLICY_TOP_K")
	setString(&cfg.OllamaURL, "OLLAMA_URL")
	setString(&cfg.OllamaModel, "OLLAMA_MODEL")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
