package fuzzy

import (
	"fmt"
	"math"
)

// NumInputs is the fixed width of the symptom vector. Shorter vectors are
// zero-padded (missing symptoms are "none").
const NumInputs = 5

// defaultResolution is the discretization step of the output universe used
// by the centroid defuzzifier.
const defaultResolution = 0.01

// Engine is a stateless Mamdani inference engine: fuzzify, evaluate rules,
// aggregate per output term by max, clip, centroid.
type Engine struct {
	inputs     []*Variable
	output     *Variable
	rules      []Rule
	resolution float64
}

// NewEngine builds the triage engine: five severity inputs, the 1-5 score
// output and the default rule base.
func NewEngine() *Engine {
	inputs := make([]*Variable, NumInputs)
	for i := range inputs {
		inputs[i] = SeverityVariable(fmt.Sprintf("symptom_%d", i))
	}
	return &Engine{
		inputs:     inputs,
		output:     ScoreVariable(),
		rules:      DefaultRules(NumInputs),
		resolution: defaultResolution,
	}
}

// Rules exposes the rule base for inspection.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Infer maps a symptom severity vector to a crisp score in [1,5].
// Vectors shorter than five are zero-padded; values are clamped to the
// input universe. An empty aggregated surface is a rule-base defect and is
// returned as an error, never silently defaulted.
func (e *Engine) Infer(values []float64) (float64, error) {
	if len(values) > NumInputs {
		return 0, fmt.Errorf("fuzzy: got %d symptom values, max %d", len(values), NumInputs)
	}
	padded := make([]float64, NumInputs)
	copy(padded, values)

	// Fuzzification
	memberships := make(Memberships, NumInputs)
	for i, v := range e.inputs {
		memberships[i] = v.Fuzzify(padded[i])
	}

	// Rule evaluation and per-term aggregation by max
	strengths := make([]float64, len(e.output.Terms))
	for _, r := range e.rules {
		s := r.When.Eval(memberships)
		if s > strengths[r.Then] {
			strengths[r.Then] = s
		}
	}

	// Clip each output set at its strength and defuzzify the max-aggregate
	// by centroid over the discretized universe.
	var sumMu, sumXMu float64
	for x := e.output.Min; x <= e.output.Max+e.resolution/2; x += e.resolution {
		mu := 0.0
		for t, term := range e.output.Terms {
			d := term.MF(x)
			if strengths[t] < d {
				d = strengths[t]
			}
			if d > mu {
				mu = d
			}
		}
		sumMu += mu
		sumXMu += x * mu
	}
	if sumMu < 1e-9 {
		return 0, fmt.Errorf("fuzzy: no rule fired for input %v (rule base incomplete)", padded)
	}
	score := sumXMu / sumMu
	// numeric safety at the universe edges
	return math.Min(e.output.Max, math.Max(e.output.Min, score)), nil
}
