// Package fuzzy implements an explicit Mamdani inference pipeline: standard
// membership partitions, a small rule AST (AND=min, OR=max, NOT=1-x) and a
// centroid defuzzifier over a discretized output universe. No third-party
// fuzzy-control abstraction is involved; the numeric contract is fully
// contained here.
package fuzzy

// MembershipFunc maps a numeric value to a degree in [0,1] of belonging to a
// linguistic term.
type MembershipFunc func(x float64) float64

// Triangular returns a triangle rising on [a,b] and falling on [b,c].
func Triangular(a, b, c float64) MembershipFunc {
	return func(x float64) float64 {
		switch {
		case x <= a || x >= c:
			return 0
		case x == b:
			return 1
		case x < b:
			return (x - a) / (b - a)
		default:
			return (c - x) / (c - b)
		}
	}
}

// Trapezoidal returns a trapezoid rising on [a,b], flat on [b,c], falling on
// [c,d]. Shoulders at the universe edges use b==min or c==max.
func Trapezoidal(a, b, c, d float64) MembershipFunc {
	return func(x float64) float64 {
		switch {
		case x < a || x > d:
			return 0
		case x >= b && x <= c:
			return 1
		case x < b:
			return (x - a) / (b - a)
		default:
			return (d - x) / (d - c)
		}
	}
}

// Term is one linguistic set of a variable.
type Term struct {
	Name string
	MF   MembershipFunc
}

// Variable is a linguistic variable: a bounded universe partitioned into
// overlapping terms.
type Variable struct {
	Name  string
	Min   float64
	Max   float64
	Terms []Term
}

// Fuzzify returns the membership degree of x in every term, clamping x to
// the universe first.
func (v *Variable) Fuzzify(x float64) map[string]float64 {
	if x < v.Min {
		x = v.Min
	}
	if x > v.Max {
		x = v.Max
	}
	out := make(map[string]float64, len(v.Terms))
	for _, t := range v.Terms {
		out[t.Name] = t.MF(x)
	}
	return out
}

// Severity term names shared by every symptom input variable.
const (
	TermNone       = "none"
	TermMild       = "mild"
	TermModerate   = "moderate"
	TermSevere     = "severe"
	TermVerySevere = "very_severe"
)

// SeverityTerms lists the severity terms in ascending order.
var SeverityTerms = []string{TermNone, TermMild, TermModerate, TermSevere, TermVerySevere}

// severityAnchors are the documented numeric anchors of the linguistic scale.
// Anchoring the partition here (rather than at equal spacing) makes every
// canonical severity word map crisply to its own set, which is what keeps
// category coverage and urgency monotonicity intact through the centroid.
var severityAnchors = [5]float64{0, 2, 5, 8, 10}

// SeverityVariable builds one symptom input variable over [0,10]:
// trapezoidal shoulders at the extremes, triangular sets in between.
func SeverityVariable(name string) *Variable {
	a := severityAnchors
	return &Variable{
		Name: name,
		Min:  a[0],
		Max:  a[4],
		Terms: []Term{
			{Name: TermNone, MF: Trapezoidal(a[0]-1, a[0], a[0], a[1])},
			{Name: TermMild, MF: Triangular(a[0], a[1], a[2])},
			{Name: TermModerate, MF: Triangular(a[1], a[2], a[3])},
			{Name: TermSevere, MF: Triangular(a[2], a[3], a[4])},
			{Name: TermVerySevere, MF: Trapezoidal(a[3], a[4], a[4], a[4]+1)},
		},
	}
}

// Output term names, one per triage category in urgency order.
var OutputTerms = []string{"red", "orange", "yellow", "green", "blue"}

// ScoreVariable builds the output variable over [1,5] with one set per
// category, centered on the integer scores.
func ScoreVariable() *Variable {
	return &Variable{
		Name: "score",
		Min:  1,
		Max:  5,
		Terms: []Term{
			{Name: "red", MF: Trapezoidal(0, 1, 1, 2)},
			{Name: "orange", MF: Triangular(1, 2, 3)},
			{Name: "yellow", MF: Triangular(2, 3, 4)},
			{Name: "green", MF: Triangular(3, 4, 5)},
			{Name: "blue", MF: Trapezoidal(4, 5, 5, 6)},
		},
	}
}
