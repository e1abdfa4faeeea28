// The per-patient journey state machine: Arrival -> Triage -> Queued ->
// Consultation -> Disposition, expressed as an explicit FSM stepped by the
// scheduler. Each stage suspends on a timer or a resource grant and resumes
// through a callback; abandonment cancels a suspended journey cooperatively.

package sim

import (
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/edsim/edsim/sim/trace"
)

// consultFloorMin is the minimum consultation duration.
const consultFloorMin = 5.0

// minPositiveDelayMin clamps normal draws that must stay positive.
const minPositiveDelayMin = 0.1

// highAcuityKeywords flag complaints that add consultation complexity.
var highAcuityKeywords = []string{
	"chest pain", "breath", "unconscious", "unresponsive", "stroke",
	"bleeding", "overdose", "seizure", "cardiac", "anaphylaxis",
}

// Journey drives one patient through the department. All methods run inside
// scheduler steps; epoch increments on every transition so stale abandonment
// timers can recognize themselves.
type Journey struct {
	dept    *Department
	patient *Patient
	epoch   int
	ticket  *Ticket // pending single-pool acquisition, cancellable
}

func newJourney(dept *Department, p *Patient) *Journey {
	return &Journey{dept: dept, patient: p}
}

// Start records the arrival and requests a triage nurse.
func (j *Journey) Start(sim *Simulator) {
	p := j.patient
	j.dept.Metrics.RecordArrival(p)
	j.dept.Recorder.RecordArrival(trace.ArrivalRecord{
		TimeMin:   TicksToMinutes(sim.Now()),
		PatientID: p.ID,
		Age:       p.Age,
		Complaint: p.Complaint,
	})
	j.transition(StateWaitingTriage)
	j.armAbandonment(sim)
	j.ticket = j.dept.TriageNurses.Acquire(sim, j.onTriageNurse)
}

// onTriageNurse holds the nurse for a clamped-positive normal delay, then
// assesses.
func (j *Journey) onTriageNurse(sim *Simulator, token *Token) {
	j.ticket = nil
	j.transition(StateInTriage)
	cfg := j.dept.cfg.Triage
	delay := clampedNormalTicks(sim.RNG.ForSubsystem(SubsystemTriage), cfg.MeanMin, cfg.StdMin)
	sim.ScheduleAfter(delay, func(sim *Simulator) {
		j.finishTriage(sim, token)
	})
}

// finishTriage records the verdict, releases the nurse and queues the
// patient for consultation.
func (j *Journey) finishTriage(sim *Simulator, token *Token) {
	p := j.patient
	verdict, err := j.dept.Assessor.Assess(p)
	if err != nil {
		// A rule base that cannot resolve an input is a programming defect,
		// never defaulted at runtime.
		logrus.Panicf("triage assessment failed for patient %s: %v", p.ID, err)
	}
	if err := p.SetVerdict(verdict); err != nil {
		logrus.Panicf("journey: %v", err)
	}
	p.ConsultEstimateMin = verdict.EstimateMin
	p.TriageDoneTime = sim.Now()
	j.dept.Metrics.RecordTriage(p)
	j.dept.Recorder.RecordTriage(trace.TriageRecord{
		TimeMin:       TicksToMinutes(sim.Now()),
		PatientID:     p.ID,
		Category:      verdict.Category.String(),
		Priority:      verdict.Priority,
		Score:         verdict.Score,
		Flowchart:     verdict.Flowchart,
		Confidence:    verdict.Confidence,
		TargetWaitMin: verdict.TargetWaitMin,
		EstimateMin:   verdict.EstimateMin,
	})
	j.dept.TriageNurses.Release(sim, token)
	j.transition(StateWaitingConsultation)
	j.dept.Queues.Enqueue(p)
	j.armAbandonment(sim)
	j.dept.pumpConsultations(sim)
}

// startConsultation is invoked by the dispatcher once a doctor and a cubicle
// are simultaneously held for this patient.
func (j *Journey) startConsultation(sim *Simulator, tokens []*Token) {
	p := j.patient
	j.transition(StateInConsultation)
	p.ConsultStartTime = sim.Now()
	j.dept.Metrics.RecordConsultStart(p)
	j.dept.Recorder.RecordConsultation(trace.ConsultationRecord{
		TimeMin:   TicksToMinutes(sim.Now()),
		PatientID: p.ID,
		Category:  p.Verdict.Category.String(),
		Completed: false,
		WaitedMin: p.WaitedMinutes(),
	})
	duration := j.consultationTicks(sim.RNG.ForSubsystem(SubsystemConsultation))
	sim.ScheduleAfter(duration, func(sim *Simulator) {
		j.finishConsultation(sim, tokens)
	})
}

// consultationTicks samples the consultation duration: a normal draw seeded
// from the verdict's estimate, scaled by the complexity multiplier, floored
// at five minutes.
func (j *Journey) consultationTicks(rng *rand.Rand) int64 {
	p := j.patient
	mean := p.ConsultEstimateMin
	std := j.dept.cfg.Categories[p.Verdict.Category].ConsultStdMin
	minutes := (rng.NormFloat64()*std + mean) * complexityMultiplier(p)
	if minutes < consultFloorMin {
		minutes = consultFloorMin
	}
	return MinutesToTicks(minutes)
}

// complexityMultiplier adjusts consultation length for pediatric/elderly age
// bands, documented history, and high-acuity complaints.
func complexityMultiplier(p *Patient) float64 {
	m := 1.0
	if p.Age < 12 || p.Age >= 75 {
		m += 0.3
	}
	if len(p.History) > 0 {
		m += 0.2
	}
	lowered := strings.ToLower(p.Complaint)
	for _, kw := range highAcuityKeywords {
		if strings.Contains(lowered, kw) {
			m += 0.25
			break
		}
	}
	return m
}

// finishConsultation releases doctor and cubicle together and draws the
// disposition.
func (j *Journey) finishConsultation(sim *Simulator, tokens []*Token) {
	p := j.patient
	p.ConsultEndTime = sim.Now()
	j.dept.Metrics.RecordConsultEnd(p)
	j.dept.Recorder.RecordConsultation(trace.ConsultationRecord{
		TimeMin:   TicksToMinutes(sim.Now()),
		PatientID: p.ID,
		Category:  p.Verdict.Category.String(),
		Completed: true,
		WaitedMin: p.WaitedMinutes(),
	})
	ReleaseAll(sim, tokens)
	j.dept.pumpConsultations(sim)

	rng := sim.RNG.ForSubsystem(SubsystemDisposition)
	admitProb := j.dept.cfg.Categories[p.Verdict.Category].AdmissionProbability
	if rng.Float64() < admitProb {
		j.transition(StateWaitingAdmission)
		j.armAbandonment(sim)
		j.ticket = j.dept.Beds.Acquire(sim, j.onBed)
		return
	}
	j.transition(StateDischarged)
	j.complete(sim)
}

// onBed marks the patient admitted and frees the bed after the boarding
// time, so admission queues can drain.
func (j *Journey) onBed(sim *Simulator, token *Token) {
	j.ticket = nil
	j.transition(StateAdmitted)
	j.complete(sim)
	cfg := j.dept.cfg.Boarding
	boarding := clampedNormalTicks(sim.RNG.ForSubsystem(SubsystemDisposition), cfg.MeanMin, cfg.StdMin)
	bed := j.dept.Beds
	sim.ScheduleAfter(boarding, func(sim *Simulator) {
		bed.Release(sim, token)
	})
}

// abandon performs the LWBS side exit from a waiting state.
func (j *Journey) abandon(sim *Simulator) {
	if j.ticket != nil {
		j.ticket.Cancel(sim)
		j.ticket = nil
	}
	j.transition(StateLeftWithoutBeingSeen)
	j.complete(sim)
}

// complete stamps the departure and records the disposition.
func (j *Journey) complete(sim *Simulator) {
	p := j.patient
	p.DepartureTime = sim.Now()
	category := ""
	if p.Verdict != nil {
		category = p.Verdict.Category.String()
	}
	j.dept.Metrics.RecordDeparture(p)
	j.dept.Recorder.RecordDisposition(trace.DispositionRecord{
		TimeMin:   TicksToMinutes(sim.Now()),
		PatientID: p.ID,
		Category:  category,
		Outcome:   string(p.State),
		SystemMin: p.SystemMinutes(),
	})
	j.dept.finish(j)
}

// armAbandonment schedules an LWBS timer for the current waiting state. The
// timer fires harmlessly if the journey has moved on.
func (j *Journey) armAbandonment(sim *Simulator) {
	p := j.patient
	state := p.State
	if !state.IsWaiting() {
		return
	}
	patience, ok := j.dept.Policy.Patience(p, state, sim.RNG.ForSubsystem(SubsystemAbandonment))
	if !ok {
		return
	}
	epoch := j.epoch
	sim.ScheduleAfter(patience, func(sim *Simulator) {
		if j.epoch == epoch && p.State == state {
			j.abandon(sim)
		}
	})
}

// transition advances the patient state, treating an invalid transition as a
// programming defect.
func (j *Journey) transition(next PatientState) {
	if err := j.patient.TransitionTo(next); err != nil {
		logrus.Panicf("journey: %v", err)
	}
	j.epoch++
}

// clampedNormalTicks draws a normal duration in minutes, clamped positive.
func clampedNormalTicks(rng *rand.Rand, meanMin, stdMin float64) int64 {
	minutes := rng.NormFloat64()*stdMin + meanMin
	if minutes < minPositiveDelayMin {
		minutes = minPositiveDelayMin
	}
	return MinutesToTicks(minutes)
}
