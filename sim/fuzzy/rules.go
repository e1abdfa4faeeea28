package fuzzy

import "fmt"

// Memberships holds the fuzzified inputs: one term->degree map per input
// variable, indexed by input position.
type Memberships []map[string]float64

// Expr is a boolean-fuzzy expression over named-set memberships.
// AND = min, OR = max, NOT = 1-x.
type Expr interface {
	Eval(m Memberships) float64
}

// Is reads the membership of one input in one term.
type Is struct {
	Input int
	Term  string
}

func (e Is) Eval(m Memberships) float64 {
	return m[e.Input][e.Term]
}

// And is the minimum of its operands.
type And []Expr

func (e And) Eval(m Memberships) float64 {
	v := 1.0
	for _, op := range e {
		if d := op.Eval(m); d < v {
			v = d
		}
	}
	return v
}

// Or is the maximum of its operands.
type Or []Expr

func (e Or) Eval(m Memberships) float64 {
	v := 0.0
	for _, op := range e {
		if d := op.Eval(m); d > v {
			v = d
		}
	}
	return v
}

// Not is the complement of its operand.
type Not struct {
	Op Expr
}

func (e Not) Eval(m Memberships) float64 {
	return 1 - e.Op.Eval(m)
}

// Rule fires its consequent output term with the strength of its antecedent.
type Rule struct {
	Name string
	When Expr
	Then int // output term index, 0 = red .. 4 = blue
}

// anyTerm is an OR over all n inputs being in the given term.
func anyTerm(term string, n int) Expr {
	or := make(Or, n)
	for i := 0; i < n; i++ {
		or[i] = Is{Input: i, Term: term}
	}
	return or
}

// combinations yields every k-subset of [0,n).
func combinations(n, k int) [][]int {
	var out [][]int
	idx := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), idx...))
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}

// DefaultRules builds the triage rule base over n=5 symptom inputs.
//
// The required set maps severity evidence to categories:
//
//	(a) any very_severe                  => RED
//	(b) three or more severe (10 combos) => RED
//	(c) exactly two severe (10 combos)   => ORANGE
//	(d) any severe                       => YELLOW
//	(e) three or more moderate           => YELLOW
//	(f) any moderate                     => GREEN
//	(g) any mild                         => BLUE
//	(h) all none                         => BLUE (explicit default)
//
// Rules (c)-(g) carry NOT-guards so that lower-urgency rules yield when
// stronger evidence is present; without the guards, residual mass from a
// mild symptom would drag the centroid of a critical patient toward BLUE.
// The guards only sharpen consequents: every input combination still fires
// at least one rule.
func DefaultRules(n int) []Rule {
	anyVS := anyTerm(TermVerySevere, n)
	anySev := anyTerm(TermSevere, n)
	anyMod := anyTerm(TermModerate, n)

	var rules []Rule

	// (a) any very_severe => RED
	rules = append(rules, Rule{Name: "any_very_severe", When: anyVS, Then: 0})

	// (b) >=3 severe => RED, one rule per 3-combination
	for _, combo := range combinations(n, 3) {
		and := make(And, 0, 3)
		for _, i := range combo {
			and = append(and, Is{Input: i, Term: TermSevere})
		}
		rules = append(rules, Rule{
			Name: fmt.Sprintf("severe_triple_%v", combo),
			When: and,
			Then: 0,
		})
	}

	// (c) exactly 2 severe => ORANGE, one rule per 2-combination
	for _, combo := range combinations(n, 2) {
		and := And{
			Is{Input: combo[0], Term: TermSevere},
			Is{Input: combo[1], Term: TermSevere},
			Not{Op: anyVS},
		}
		for i := 0; i < n; i++ {
			if i != combo[0] && i != combo[1] {
				and = append(and, Not{Op: Is{Input: i, Term: TermSevere}})
			}
		}
		rules = append(rules, Rule{
			Name: fmt.Sprintf("severe_pair_%v", combo),
			When: and,
			Then: 1,
		})
	}

	// (d) any severe (alone) => YELLOW, one rule per input
	for i := 0; i < n; i++ {
		and := And{Is{Input: i, Term: TermSevere}, Not{Op: anyVS}}
		for j := 0; j < n; j++ {
			if j != i {
				and = append(and, Not{Op: Is{Input: j, Term: TermSevere}})
			}
		}
		rules = append(rules, Rule{
			Name: fmt.Sprintf("severe_single_%d", i),
			When: and,
			Then: 2,
		})
	}

	// (e) >=3 moderate => YELLOW, one rule per 3-combination
	for _, combo := range combinations(n, 3) {
		and := And{Not{Op: anyVS}, Not{Op: anySev}}
		for _, i := range combo {
			and = append(and, Is{Input: i, Term: TermModerate})
		}
		rules = append(rules, Rule{
			Name: fmt.Sprintf("moderate_triple_%v", combo),
			When: and,
			Then: 2,
		})
	}

	// (f) any moderate (fewer than three) => GREEN, one rule per input
	for i := 0; i < n; i++ {
		and := And{
			Is{Input: i, Term: TermModerate},
			Not{Op: anyVS},
			Not{Op: anySev},
		}
		// no pair of the remaining inputs may both be moderate
		var pairs Or
		for _, combo := range combinations(n, 2) {
			if combo[0] != i && combo[1] != i {
				pairs = append(pairs, And{
					Is{Input: combo[0], Term: TermModerate},
					Is{Input: combo[1], Term: TermModerate},
				})
			}
		}
		and = append(and, Not{Op: pairs})
		rules = append(rules, Rule{
			Name: fmt.Sprintf("moderate_single_%d", i),
			When: and,
			Then: 3,
		})
	}

	// (g) any mild => BLUE
	rules = append(rules, Rule{
		Name: "any_mild",
		When: And{anyTerm(TermMild, n), Not{Op: anyMod}, Not{Op: anySev}, Not{Op: anyVS}},
		Then: 4,
	})

	// (h) all none => BLUE, the explicit default so every input resolves
	all := make(And, n)
	for i := 0; i < n; i++ {
		all[i] = Is{Input: i, Term: TermNone}
	}
	rules = append(rules, Rule{Name: "all_none", When: all, Then: 4})

	return rules
}
