// The stochastic patient arrival process: Poisson inter-arrival times,
// optionally modulated by an hourly time-of-day pattern via thinning.

package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// PatientRecord is the opaque record an arrival is built from. The provider
// decides its contents; absent vitals or history degrade gracefully
// downstream.
type PatientRecord struct {
	Age       int
	Sex       string
	Complaint string
	Vitals    map[string]float64
	History   []string
}

// RecordProvider supplies patient records for the arrival stream.
type RecordProvider interface {
	Next(rng *rand.Rand) PatientRecord
}

// ArrivalProcess spawns patient journeys from a Poisson stream.
type ArrivalProcess struct {
	dept          *Department
	ratePerMin    float64
	pattern       []float64 // empty = flat rate, else 24 hourly multipliers
	cutoff        int64     // ticks; arrivals occur strictly before cutoff
	totalArrivals int
}

func newArrivalProcess(dept *Department) *ArrivalProcess {
	cfg := dept.cfg.Arrival
	cutoff := MinutesToTicks(dept.cfg.HorizonMin)
	if cfg.DurationMin > 0 {
		cutoff = MinutesToTicks(cfg.DurationMin)
	}
	return &ArrivalProcess{
		dept:       dept,
		ratePerMin: cfg.RatePerHour / 60,
		pattern:    cfg.HourlyPattern,
		cutoff:     cutoff,
	}
}

// Start schedules the first arrival. A zero rate produces no arrivals and no
// errors.
func (a *ArrivalProcess) Start(sim *Simulator) {
	if a.ratePerMin <= 0 {
		logrus.Debug("arrivals: rate is zero, no patients will arrive")
		return
	}
	a.scheduleNext(sim)
}

// Total returns the number of patients spawned so far.
func (a *ArrivalProcess) Total() int {
	return a.totalArrivals
}

func (a *ArrivalProcess) scheduleNext(sim *Simulator) {
	rng := sim.RNG.ForSubsystem(SubsystemArrivals)
	iat, ok := a.sampleIAT(sim.Now(), rng)
	if !ok {
		return
	}
	sim.ScheduleAfter(iat, func(sim *Simulator) {
		a.spawn(sim)
		a.scheduleNext(sim)
	})
}

// sampleIAT draws the next inter-arrival gap. With an hourly pattern the
// homogeneous candidate stream at the peak rate is thinned by the current
// hour's multiplier, which preserves Poisson statistics per hour.
func (a *ArrivalProcess) sampleIAT(now int64, rng *rand.Rand) (int64, bool) {
	peak := a.ratePerMin * a.maxMultiplier()
	t := now
	for {
		gapMin := rng.ExpFloat64() / peak
		gap := MinutesToTicks(gapMin)
		if gap < 1 {
			gap = 1
		}
		t += gap
		if t >= a.cutoff {
			return 0, false
		}
		if len(a.pattern) == 0 {
			return t - now, true
		}
		if rng.Float64() < a.multiplierAt(t)/a.maxMultiplier() {
			return t - now, true
		}
	}
}

func (a *ArrivalProcess) maxMultiplier() float64 {
	if len(a.pattern) == 0 {
		return 1
	}
	m := 0.0
	for _, v := range a.pattern {
		if v > m {
			m = v
		}
	}
	if m <= 0 {
		return 1
	}
	return m
}

func (a *ArrivalProcess) multiplierAt(t int64) float64 {
	hour := int(TicksToMinutes(t)/60) % 24
	return a.pattern[hour]
}

func (a *ArrivalProcess) spawn(sim *Simulator) {
	record := a.dept.provider.Next(sim.RNG.ForSubsystem(SubsystemRecords))
	p := NewPatient(sim.Now(), record.Age, record.Sex, record.Complaint, record.Vitals, record.History)
	a.totalArrivals++
	logrus.Debugf("<< Arrival: %s (%q) at %d ticks", p.ID, p.Complaint, sim.Now())
	a.dept.admit(sim, p)
}

// SyntheticProvider generates plausible records when no external provider is
// plugged in. Complaints are drawn from a weighted pool aligned with the
// flowchart table; pain correlates with the complaint's typical acuity.
type SyntheticProvider struct{}

type syntheticComplaint struct {
	text     string
	weight   float64
	painMean float64
	historyP float64
	vitalsFn func(rng *rand.Rand, v map[string]float64)
}

var syntheticComplaints = []syntheticComplaint{
	{text: "crushing chest pain", weight: 4, painMean: 8.5, historyP: 0.6, vitalsFn: func(rng *rand.Rand, v map[string]float64) {
		v["heart_rate"] = 95 + rng.Float64()*50
	}},
	{text: "difficulty breathing", weight: 5, painMean: 4, historyP: 0.5, vitalsFn: func(rng *rand.Rand, v map[string]float64) {
		v["spo2"] = 86 + rng.Float64()*12
		v["respiratory_rate"] = 18 + rng.Float64()*16
	}},
	{text: "severe abdominal pain", weight: 8, painMean: 7, historyP: 0.3},
	{text: "abdominal pain and vomiting", weight: 7, painMean: 5, historyP: 0.3},
	{text: "twisted ankle", weight: 9, painMean: 4.5, historyP: 0.1},
	{text: "deep cut on hand", weight: 6, painMean: 4, historyP: 0.1},
	{text: "headache that will not settle", weight: 7, painMean: 5.5, historyP: 0.2},
	{text: "fever and shivering", weight: 8, painMean: 2, historyP: 0.2, vitalsFn: func(rng *rand.Rand, v map[string]float64) {
		v["temperature"] = 37.8 + rng.Float64()*2.6
	}},
	{text: "fell over at home", weight: 6, painMean: 4, historyP: 0.5},
	{text: "sore throat for three days", weight: 6, painMean: 2.5, historyP: 0.1},
	{text: "rash on both arms", weight: 4, painMean: 1.5, historyP: 0.1},
	{text: "palpitations since this morning", weight: 4, painMean: 2, historyP: 0.4, vitalsFn: func(rng *rand.Rand, v map[string]float64) {
		v["heart_rate"] = 90 + rng.Float64()*70
	}},
	{text: "feeling dizzy and weak", weight: 5, painMean: 1.5, historyP: 0.4},
	{text: "back pain after lifting", weight: 6, painMean: 5, historyP: 0.2},
	{text: "earache", weight: 4, painMean: 3, historyP: 0.1},
	{text: "found unresponsive", weight: 1, painMean: 0, historyP: 0.5},
	{text: "slurred speech and face drooping", weight: 1, painMean: 1, historyP: 0.6},
	{text: "burned hand on stove", weight: 3, painMean: 6, historyP: 0.1},
	{text: "anxiety and panic attack", weight: 3, painMean: 1, historyP: 0.3},
	{text: "cough and cold symptoms", weight: 8, painMean: 1, historyP: 0.1},
}

var historyTags = []string{"hypertension", "diabetes", "asthma", "ischemic_heart_disease", "copd", "anticoagulated"}

func (SyntheticProvider) Next(rng *rand.Rand) PatientRecord {
	c := pickComplaint(rng)

	// age mixture: children, adults, elderly
	var age int
	switch roll := rng.Float64(); {
	case roll < 0.15:
		age = rng.Intn(12)
	case roll < 0.80:
		age = 12 + rng.Intn(63)
	default:
		age = 75 + rng.Intn(20)
	}

	sex := "F"
	if rng.Float64() < 0.5 {
		sex = "M"
	}

	vitals := map[string]float64{}
	pain := c.painMean + rng.NormFloat64()*1.5
	if pain < 0 {
		pain = 0
	}
	if pain > 10 {
		pain = 10
	}
	vitals["pain"] = pain
	if c.vitalsFn != nil {
		c.vitalsFn(rng, vitals)
	}

	var history []string
	if rng.Float64() < c.historyP {
		history = append(history, historyTags[rng.Intn(len(historyTags))])
		if rng.Float64() < 0.3 {
			history = append(history, historyTags[rng.Intn(len(historyTags))])
		}
	}

	return PatientRecord{Age: age, Sex: sex, Complaint: c.text, Vitals: vitals, History: history}
}

func pickComplaint(rng *rand.Rand) syntheticComplaint {
	total := 0.0
	for _, c := range syntheticComplaints {
		total += c.weight
	}
	roll := rng.Float64() * total
	for _, c := range syntheticComplaints {
		roll -= c.weight
		if roll < 0 {
			return c
		}
	}
	return syntheticComplaints[len(syntheticComplaints)-1]
}
