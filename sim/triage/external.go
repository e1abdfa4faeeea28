package triage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edsim/edsim/sim"
)

// ExternalVerdict is the narrow contract an alternative triage collaborator
// (for example an LLM-backed assessor) must return.
type ExternalVerdict struct {
	Category string // one of RED, ORANGE, YELLOW, GREEN, BLUE
	Priority int    // 1-5
	WaitTime string // e.g. "immediate", "10 minutes", "2 hours"
}

// ExternalTriage is any collaborator producing ExternalVerdicts from raw
// patient record fields.
type ExternalTriage interface {
	AssessRecord(complaint string, vitals map[string]float64, history []string) (ExternalVerdict, error)
}

// ExternalAdapter lifts an ExternalTriage collaborator into sim.Assessor so
// it can replace the fuzzy service one-for-one.
type ExternalAdapter struct {
	Backend ExternalTriage
}

// Assess converts the external verdict to a sim.TriageVerdict. A category
// outside the contract is an error; a malformed wait time falls back to the
// category's documented target.
func (a *ExternalAdapter) Assess(p *sim.Patient) (*sim.TriageVerdict, error) {
	ev, err := a.Backend.AssessRecord(p.Complaint, p.Vitals, p.History)
	if err != nil {
		return nil, fmt.Errorf("external triage: %w", err)
	}
	cat, ok := sim.CategoryFromName(strings.ToUpper(strings.TrimSpace(ev.Category)))
	if !ok {
		return nil, fmt.Errorf("external triage: unknown category %q", ev.Category)
	}
	if ev.Priority < 1 || ev.Priority > 5 {
		return nil, fmt.Errorf("external triage: priority %d outside 1-5", ev.Priority)
	}
	wait, err := ParseWaitTime(ev.WaitTime)
	if err != nil {
		wait = cat.TargetWaitMinutes()
	}
	return &sim.TriageVerdict{
		Category:      cat,
		Priority:      ev.Priority,
		TargetWaitMin: wait,
		Score:         float64(cat.Priority()),
		Flowchart:     "external",
		Confidence:    1,
		EstimateMin:   cat.BaseConsultMinutes(),
	}, nil
}

// ParseWaitTime parses wait-time strings of the external contract into
// minutes: "immediate", "<n> minutes", "<n> hours", or a bare number of
// minutes.
func ParseWaitTime(s string) (float64, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty wait time")
	}
	if fields[0] == "immediate" || fields[0] == "immediately" || fields[0] == "now" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("unparseable wait time %q", s)
	}
	if len(fields) == 1 {
		return n, nil
	}
	switch strings.TrimSuffix(fields[1], "s") {
	case "minute", "min":
		return n, nil
	case "hour", "hr":
		return n * 60, nil
	default:
		return 0, fmt.Errorf("unknown wait time unit %q", fields[1])
	}
}
