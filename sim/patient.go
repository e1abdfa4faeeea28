// Defines the Patient struct that models an individual patient in the
// simulation, the triage category table, and the immutable TriageVerdict.

package sim

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Category is a triage category ordered by urgency. Lower value = more urgent.
type Category int

const (
	CategoryRed Category = iota
	CategoryOrange
	CategoryYellow
	CategoryGreen
	CategoryBlue

	NumCategories = 5
)

var categoryNames = [NumCategories]string{"RED", "ORANGE", "YELLOW", "GREEN", "BLUE"}

// targetWaitMinutes is the maximum acceptable wait before consultation.
// RED is immediate.
var targetWaitMinutes = [NumCategories]float64{0, 10, 60, 120, 240}

// baseConsultMinutes is the mean consultation duration per category.
var baseConsultMinutes = [NumCategories]float64{45, 35, 25, 20, 15}

// defaultAdmissionProbability is the per-category probability of admission
// at disposition.
var defaultAdmissionProbability = [NumCategories]float64{0.55, 0.45, 0.25, 0.10, 0.02}

func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Priority returns the 1-5 priority rank (1 = most urgent).
func (c Category) Priority() int { return int(c) + 1 }

// TargetWaitMinutes returns the category's maximum acceptable wait.
func (c Category) TargetWaitMinutes() float64 { return targetWaitMinutes[c] }

// BaseConsultMinutes returns the category's mean consultation duration.
func (c Category) BaseConsultMinutes() float64 { return baseConsultMinutes[c] }

// DefaultAdmissionProbability returns the category's default admission
// probability.
func (c Category) DefaultAdmissionProbability() float64 { return defaultAdmissionProbability[c] }

// Categories returns all categories in urgency order.
func Categories() []Category {
	return []Category{CategoryRed, CategoryOrange, CategoryYellow, CategoryGreen, CategoryBlue}
}

// CategoryFromScore maps a crisp fuzzy score in [1,5] to a category:
// clamp(round(score)-1, 0, 4).
func CategoryFromScore(score float64) Category {
	idx := int(math.Round(score)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > 4 {
		idx = 4
	}
	return Category(idx)
}

// CategoryFromName returns the category for a name like "RED", and false for
// unknown names.
func CategoryFromName(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return CategoryBlue, false
}

// TriageVerdict is the immutable outcome of a triage assessment.
type TriageVerdict struct {
	Category      Category
	Priority      int     // 1-5, 1 = most urgent
	TargetWaitMin float64 // maximum acceptable wait before consultation
	Score         float64 // crisp fuzzy score in [1,5]
	Flowchart     string  // flowchart used for the assessment
	Confidence    float64 // in [0,1]
	EstimateMin   float64 // estimated consultation duration in minutes
}

// PatientState represents the lifecycle state of a patient.
type PatientState string

const (
	StateArrived             PatientState = "ARRIVED"
	StateWaitingTriage       PatientState = "WAITING_TRIAGE"
	StateInTriage            PatientState = "IN_TRIAGE"
	StateWaitingConsultation PatientState = "WAITING_CONSULTATION"
	StateInConsultation      PatientState = "IN_CONSULTATION"
	StateWaitingAdmission    PatientState = "WAITING_ADMISSION"
	StateAdmitted            PatientState = "ADMITTED"
	StateDischarged          PatientState = "DISCHARGED"
	StateLeftWithoutBeingSeen PatientState = "LEFT_WITHOUT_BEING_SEEN"
)

// validNext encodes the monotonic lifecycle. The side exit to
// LEFT_WITHOUT_BEING_SEEN from any WAITING_* state is handled separately.
var validNext = map[PatientState][]PatientState{
	StateArrived:             {StateWaitingTriage},
	StateWaitingTriage:       {StateInTriage},
	StateInTriage:            {StateWaitingConsultation},
	StateWaitingConsultation: {StateInConsultation},
	StateInConsultation:      {StateWaitingAdmission, StateDischarged},
	StateWaitingAdmission:    {StateAdmitted},
}

// IsWaiting reports whether the state is one of the WAITING_* states, the
// only states an abandonment signal may interrupt.
func (s PatientState) IsWaiting() bool {
	return s == StateWaitingTriage || s == StateWaitingConsultation || s == StateWaitingAdmission
}

// IsTerminal reports whether the state ends the journey.
func (s PatientState) IsTerminal() bool {
	return s == StateAdmitted || s == StateDischarged || s == StateLeftWithoutBeingSeen
}

// Patient models a single patient's journey through the department.
type Patient struct {
	ID          string
	ArrivalTime int64

	Age       int
	Sex       string
	Complaint string
	Vitals    map[string]float64
	History   []string

	State   PatientState
	Verdict *TriageVerdict // immutable once set

	ConsultEstimateMin float64 // estimated consultation duration from triage

	// Timestamps in ticks; -1 until recorded.
	TriageDoneTime   int64
	ConsultStartTime int64
	ConsultEndTime   int64
	DepartureTime    int64
}

// NewPatient creates a patient in the ARRIVED state.
func NewPatient(arrivalTime int64, age int, sex, complaint string, vitals map[string]float64, history []string) *Patient {
	return &Patient{
		ID:               uuid.NewString(),
		ArrivalTime:      arrivalTime,
		Age:              age,
		Sex:              sex,
		Complaint:        complaint,
		Vitals:           vitals,
		History:          history,
		State:            StateArrived,
		TriageDoneTime:   -1,
		ConsultStartTime: -1,
		ConsultEndTime:   -1,
		DepartureTime:    -1,
	}
}

// TransitionTo moves the patient to next, enforcing the monotonic lifecycle
// plus the LWBS side exit from any WAITING_* state.
func (p *Patient) TransitionTo(next PatientState) error {
	if next == StateLeftWithoutBeingSeen {
		if !p.State.IsWaiting() {
			return fmt.Errorf("patient %s: LWBS only reachable from a waiting state, not %s", p.ID, p.State)
		}
		p.State = next
		return nil
	}
	for _, allowed := range validNext[p.State] {
		if allowed == next {
			p.State = next
			return nil
		}
	}
	return fmt.Errorf("patient %s: invalid transition %s -> %s", p.ID, p.State, next)
}

// SetVerdict records the triage verdict. A verdict is immutable once set.
func (p *Patient) SetVerdict(v *TriageVerdict) error {
	if p.Verdict != nil {
		return fmt.Errorf("patient %s: verdict already set", p.ID)
	}
	if v == nil {
		return fmt.Errorf("patient %s: nil verdict", p.ID)
	}
	p.Verdict = v
	return nil
}

// WaitedMinutes returns how long the patient waited between triage completion
// and consultation start, or between triage completion and departure for
// patients who never reached a consultation.
func (p *Patient) WaitedMinutes() float64 {
	if p.TriageDoneTime < 0 {
		return 0
	}
	end := p.ConsultStartTime
	if end < 0 {
		end = p.DepartureTime
	}
	if end < 0 {
		return 0
	}
	return TicksToMinutes(end - p.TriageDoneTime)
}

// SystemMinutes returns total time from arrival to departure.
func (p *Patient) SystemMinutes() float64 {
	if p.DepartureTime < 0 {
		return 0
	}
	return TicksToMinutes(p.DepartureTime - p.ArrivalTime)
}

func (p *Patient) String() string {
	return fmt.Sprintf("Patient(ID: %s, State: %s, ArrivalTime: %d)", p.ID, p.State, p.ArrivalTime)
}

// Assessor produces a triage verdict for a patient. The fuzzy triage service
// is the default implementation; any collaborator honouring the same
// contract (category, priority 1-5, target wait) can replace it.
type Assessor interface {
	Assess(p *Patient) (*TriageVerdict, error)
}
