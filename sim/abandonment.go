package sim

import "math/rand"

// AbandonmentPolicy decides whether and when a waiting patient gives up and
// leaves without being seen. Abandonment is cooperative cancellation of a
// suspended journey, deliverable only in a WAITING_* state; it is a modeled
// outcome, never an error.
type AbandonmentPolicy interface {
	// Patience returns how many ticks the patient will tolerate the given
	// waiting state before abandoning, and false if they never abandon
	// from it.
	Patience(p *Patient, state PatientState, rng *rand.Rand) (int64, bool)
}

// NoAbandonment never signals; pools have infinite patience.
type NoAbandonment struct{}

func (NoAbandonment) Patience(*Patient, PatientState, *rand.Rand) (int64, bool) {
	return 0, false
}

// PatienceTimeout is the default policy: patience is drawn from an
// exponential distribution whose mean depends on the triage category (a flat
// pre-triage mean before a verdict exists). A zero mean disables abandonment
// for that state, RED patients never abandon, and patients who have already
// been seen (WAITING_ADMISSION) stay.
type PatienceTimeout struct {
	PreTriageMeanMin float64
	CategoryMeanMin  [NumCategories]float64
}

func (pt PatienceTimeout) Patience(p *Patient, state PatientState, rng *rand.Rand) (int64, bool) {
	var mean float64
	switch state {
	case StateWaitingTriage:
		mean = pt.PreTriageMeanMin
	case StateWaitingConsultation:
		if p.Verdict == nil || p.Verdict.Category == CategoryRed {
			return 0, false
		}
		mean = pt.CategoryMeanMin[p.Verdict.Category]
	default:
		return 0, false
	}
	if mean <= 0 {
		return 0, false
	}
	return MinutesToTicks(rng.ExpFloat64() * mean), true
}
