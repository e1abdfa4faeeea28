package triage

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/fuzzy"
)

// severity modifiers recognized in free-text complaints.
var severeModifiers = []string{"severe", "crushing", "unbearable", "intense", "extreme", "worst ever", "agonising", "agonizing"}
var mildModifiers = []string{"mild", "slight", "a little", "minor"}

// Service is the fuzzy triage service: flowchart selection, linguistic
// conversion and inference composed into sim.Assessor.
type Service struct {
	engine       *fuzzy.Engine
	selector     *Selector
	vitals       VitalsPolicy
	consultMeans [sim.NumCategories]float64
}

// Option configures a Service.
type Option func(*Service)

// WithVitalsPolicy replaces the default threshold vitals policy.
func WithVitalsPolicy(p VitalsPolicy) Option {
	return func(s *Service) { s.vitals = p }
}

// WithConsultMeans overrides the per-category mean consultation durations
// used for the estimate, in urgency order RED..BLUE.
func WithConsultMeans(means [sim.NumCategories]float64) Option {
	return func(s *Service) { s.consultMeans = means }
}

// NewService builds the triage service with the default engine, flowchart
// table, vitals policy and the documented category base means.
func NewService(opts ...Option) *Service {
	s := &Service{
		engine:   fuzzy.NewEngine(),
		selector: NewSelector(),
		vitals:   ThresholdVitalsPolicy{},
	}
	for _, c := range sim.Categories() {
		s.consultMeans[c] = c.BaseConsultMinutes()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess produces a triage verdict for the patient: select flowchart,
// convert its symptoms to numeric severities, run inference, and derive the
// consultation-duration estimate. Absent vitals or history never fail the
// assessment; missing symptoms count as none.
func (s *Service) Assess(p *sim.Patient) (*sim.TriageVerdict, error) {
	fc := s.selector.Select(p.Complaint)
	if fc.Name == FallbackFlowchartName {
		logrus.Debugf("triage: no flowchart matched complaint %q, using %s", p.Complaint, fc.Name)
	}

	lowered := strings.ToLower(p.Complaint)
	values := make([]float64, 0, fuzzy.NumInputs)
	for i, sym := range fc.Symptoms {
		values = append(values, s.severityFor(sym, i == 0, lowered, p.Vitals))
	}

	score, err := s.engine.Infer(values)
	if err != nil {
		return nil, err
	}

	cat := sim.CategoryFromScore(score)
	center := float64(cat.Priority())
	confidence := 1 - math.Abs(score-center)
	if confidence < 0 {
		confidence = 0
	}

	return &sim.TriageVerdict{
		Category:      cat,
		Priority:      cat.Priority(),
		TargetWaitMin: cat.TargetWaitMinutes(),
		Score:         score,
		Flowchart:     fc.Name,
		Confidence:    confidence,
		EstimateMin:   s.estimateMinutes(cat, score),
	}, nil
}

// severityFor derives one symptom's severity: vitals first, then complaint
// text. The flowchart's primary symptom is present by construction; text
// modifiers shift it from the moderate default. Symptoms the record says
// nothing about are none.
func (s *Service) severityFor(symptom string, primary bool, lowered string, vitals map[string]float64) float64 {
	if v, ok := s.vitals.SeverityFor(symptom, vitals); ok && v > 0 {
		return v
	}
	mentioned := primary || strings.Contains(lowered, strings.ReplaceAll(symptom, "_", " "))
	if !mentioned {
		return SeverityNone
	}
	for _, mod := range severeModifiers {
		if strings.Contains(lowered, mod) {
			return SeveritySevere
		}
	}
	for _, mod := range mildModifiers {
		if strings.Contains(lowered, mod) {
			return SeverityMild
		}
	}
	return SeverityModerate
}

// estimateMinutes seeds the consultation-duration estimate from the
// category's mean, shifted within the band by how far the crisp score sits
// from the category center (more urgent side of the band = longer).
func (s *Service) estimateMinutes(cat sim.Category, score float64) float64 {
	factor := 1 + 0.3*(float64(cat.Priority())-score)
	if factor < 0.85 {
		factor = 0.85
	}
	if factor > 1.15 {
		factor = 1.15
	}
	return s.consultMeans[cat] * factor
}
