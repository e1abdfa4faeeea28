package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResourceConfig fixes the department's pool capacities.
type ResourceConfig struct {
	TriageNurses int `yaml:"triage_nurses"`
	Doctors      int `yaml:"doctors"`
	Cubicles     int `yaml:"cubicles"`
	Beds         int `yaml:"beds"`
}

// ArrivalConfig parameterizes the stochastic arrival stream.
type ArrivalConfig struct {
	RatePerHour float64 `yaml:"rate_per_hour"`
	// HourlyPattern optionally modulates the rate by hour of day; empty means
	// a flat rate, otherwise exactly 24 non-negative multipliers.
	HourlyPattern []float64 `yaml:"hourly_pattern,omitempty"`
	// DurationMin limits arrival generation to [0, DurationMin); zero means
	// arrivals continue for the whole horizon.
	DurationMin float64 `yaml:"duration_min,omitempty"`
}

// TriageDelayConfig parameterizes the clamped-positive normal triage delay.
type TriageDelayConfig struct {
	MeanMin float64 `yaml:"mean_min"`
	StdMin  float64 `yaml:"std_min"`
	// PatienceMeanMin is the mean patience of a patient still waiting to be
	// triaged; zero disables pre-triage abandonment.
	PatienceMeanMin float64 `yaml:"patience_mean_min,omitempty"`
}

// CategoryParams holds per-category clinical and queueing parameters.
type CategoryParams struct {
	TargetWaitMin        float64 `yaml:"target_wait_min"`
	ConsultMeanMin       float64 `yaml:"consult_mean_min"`
	ConsultStdMin        float64 `yaml:"consult_std_min"`
	AdmissionProbability float64 `yaml:"admission_probability"`
	// PatienceMeanMin is the mean of the exponential patience draw used by
	// the default abandonment policy; zero disables abandonment for the
	// category.
	PatienceMeanMin float64 `yaml:"patience_mean_min"`
}

// BoardingConfig parameterizes how long an admitted patient occupies a bed
// before it is freed for the next admission.
type BoardingConfig struct {
	MeanMin float64 `yaml:"mean_min"`
	StdMin  float64 `yaml:"std_min"`
}

// Config is the full scenario configuration. Validate rejects bad scalar
// parameters before the clock starts.
type Config struct {
	Seed                int64   `yaml:"seed"`
	HorizonMin          float64 `yaml:"horizon_min"`
	WarmupMin           float64 `yaml:"warmup_min"`
	SnapshotIntervalMin float64 `yaml:"snapshot_interval_min"`

	Resources ResourceConfig    `yaml:"resources"`
	Arrival   ArrivalConfig     `yaml:"arrival"`
	Triage    TriageDelayConfig `yaml:"triage"`
	Boarding  BoardingConfig    `yaml:"boarding"`

	// Categories indexed in urgency order RED..BLUE.
	Categories [NumCategories]CategoryParams `yaml:"categories"`
}

// DefaultConfig returns a runnable single-day scenario with the documented
// category table.
func DefaultConfig() Config {
	cfg := Config{
		Seed:                42,
		HorizonMin:          1440,
		WarmupMin:           60,
		SnapshotIntervalMin: 15,
		Resources: ResourceConfig{
			TriageNurses: 2,
			Doctors:      4,
			Cubicles:     8,
			Beds:         12,
		},
		Arrival:  ArrivalConfig{RatePerHour: 8},
		Triage:   TriageDelayConfig{MeanMin: 5, StdMin: 1.5},
		Boarding: BoardingConfig{MeanMin: 240, StdMin: 60},
	}
	for _, c := range Categories() {
		cfg.Categories[c] = CategoryParams{
			TargetWaitMin:        c.TargetWaitMinutes(),
			ConsultMeanMin:       c.BaseConsultMinutes(),
			ConsultStdMin:        c.BaseConsultMinutes() * 0.25,
			AdmissionProbability: c.DefaultAdmissionProbability(),
			PatienceMeanMin:      0,
		}
	}
	return cfg
}

// Validate rejects invalid scalar parameters. It is called before any event
// is scheduled; a config error never reaches the event loop.
func (c *Config) Validate() error {
	if c.HorizonMin <= 0 {
		return fmt.Errorf("horizon_min must be positive, got %v", c.HorizonMin)
	}
	if c.WarmupMin < 0 || c.WarmupMin >= c.HorizonMin {
		return fmt.Errorf("warmup_min must be in [0, horizon), got %v", c.WarmupMin)
	}
	if c.SnapshotIntervalMin <= 0 {
		return fmt.Errorf("snapshot_interval_min must be positive, got %v", c.SnapshotIntervalMin)
	}
	caps := map[string]int{
		"triage_nurses": c.Resources.TriageNurses,
		"doctors":       c.Resources.Doctors,
		"cubicles":      c.Resources.Cubicles,
		"beds":          c.Resources.Beds,
	}
	for name, capacity := range caps {
		if capacity <= 0 {
			return fmt.Errorf("resource %s: capacity must be positive, got %d", name, capacity)
		}
	}
	if c.Arrival.RatePerHour < 0 {
		return fmt.Errorf("arrival rate_per_hour must be non-negative, got %v", c.Arrival.RatePerHour)
	}
	if n := len(c.Arrival.HourlyPattern); n != 0 && n != 24 {
		return fmt.Errorf("hourly_pattern must have 24 entries, got %d", n)
	}
	for i, m := range c.Arrival.HourlyPattern {
		if m < 0 {
			return fmt.Errorf("hourly_pattern[%d] must be non-negative, got %v", i, m)
		}
	}
	if c.Arrival.DurationMin < 0 {
		return fmt.Errorf("arrival duration_min must be non-negative, got %v", c.Arrival.DurationMin)
	}
	if c.Triage.MeanMin <= 0 || c.Triage.StdMin < 0 {
		return fmt.Errorf("triage delay: mean must be positive and std non-negative, got mean=%v std=%v",
			c.Triage.MeanMin, c.Triage.StdMin)
	}
	if c.Triage.PatienceMeanMin < 0 {
		return fmt.Errorf("triage patience_mean_min must be non-negative, got %v", c.Triage.PatienceMeanMin)
	}
	if c.Boarding.MeanMin <= 0 || c.Boarding.StdMin < 0 {
		return fmt.Errorf("boarding: mean must be positive and std non-negative, got mean=%v std=%v",
			c.Boarding.MeanMin, c.Boarding.StdMin)
	}
	prev := -1.0
	for _, cat := range Categories() {
		params := c.Categories[cat]
		if params.TargetWaitMin <= prev {
			return fmt.Errorf("category %s: target waits must ascend with decreasing urgency (got %v after %v)",
				cat, params.TargetWaitMin, prev)
		}
		prev = params.TargetWaitMin
		if params.ConsultMeanMin <= 0 || params.ConsultStdMin < 0 {
			return fmt.Errorf("category %s: consult mean must be positive and std non-negative", cat)
		}
		if params.AdmissionProbability < 0 || params.AdmissionProbability > 1 {
			return fmt.Errorf("category %s: admission_probability must be in [0,1], got %v",
				cat, params.AdmissionProbability)
		}
		if params.PatienceMeanMin < 0 {
			return fmt.Errorf("category %s: patience_mean_min must be non-negative, got %v",
				cat, params.PatienceMeanMin)
		}
	}
	return nil
}

// LoadConfig reads a YAML scenario file on top of DefaultConfig, so scenarios
// only need to state what they change.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scenario %s: %w", path, err)
	}
	return cfg, nil
}
