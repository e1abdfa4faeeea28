package sim

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsim/edsim/sim/trace"
)

// stubAssessor maps the complaint text to a category by name, so tests can
// control urgency without the fuzzy pipeline.
type stubAssessor struct{}

func (stubAssessor) Assess(p *Patient) (*TriageVerdict, error) {
	cat := CategoryGreen
	for _, c := range Categories() {
		if strings.Contains(strings.ToUpper(p.Complaint), c.String()) {
			cat = c
			break
		}
	}
	return &TriageVerdict{
		Category:      cat,
		Priority:      cat.Priority(),
		TargetWaitMin: cat.TargetWaitMinutes(),
		Score:         float64(cat.Priority()),
		Flowchart:     "stub",
		Confidence:    1,
		EstimateMin:   cat.BaseConsultMinutes(),
	}, nil
}

// fixedPatience abandons a consultation wait after a fixed delay.
type fixedPatience struct{ ticks int64 }

func (f fixedPatience) Patience(p *Patient, state PatientState, rng *rand.Rand) (int64, bool) {
	if state == StateWaitingConsultation {
		return f.ticks, true
	}
	return 0, false
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.HorizonMin = 480
	cfg.WarmupMin = 0
	cfg.Arrival.RatePerHour = 6
	cfg.Triage.StdMin = 0
	return cfg
}

func TestNewDepartment_RejectsInvalidInput(t *testing.T) {
	cfg := testConfig()
	cfg.Resources.Doctors = 0
	_, err := NewDepartment(cfg, stubAssessor{})
	assert.Error(t, err)

	_, err = NewDepartment(testConfig(), nil)
	assert.Error(t, err)
}

func TestDepartment_EveryArrivalIsAccountedFor(t *testing.T) {
	dept, err := NewDepartment(testConfig(), stubAssessor{})
	require.NoError(t, err)

	s := dept.Run()

	assert.Greater(t, s.TotalArrivals, 0)
	assert.Equal(t, s.TotalArrivals,
		s.Admitted+s.Discharged+s.LWBS+dept.InFlight(),
		"every arrival is either departed or still in the department")
	assert.Len(t, dept.Completed(), s.Admitted+s.Discharged+s.LWBS)
	for _, p := range dept.Completed() {
		assert.True(t, p.State.IsTerminal(), "completed patient %s in state %s", p.ID, p.State)
		assert.GreaterOrEqual(t, p.DepartureTime, p.ArrivalTime)
	}
}

func TestDepartment_DrainsAfterArrivalWindow(t *testing.T) {
	// GIVEN arrivals limited to the first two hours of a long day
	cfg := testConfig()
	cfg.HorizonMin = 1440
	cfg.Arrival.DurationMin = 120
	dept, err := NewDepartment(cfg, stubAssessor{})
	require.NoError(t, err)

	s := dept.Run()

	// THEN the department fully drains before the horizon
	assert.Greater(t, s.TotalArrivals, 0)
	assert.Equal(t, 0, dept.InFlight())
	assert.Equal(t, s.TotalArrivals, s.Admitted+s.Discharged+s.LWBS)

	// and no resource is left held
	for _, pool := range dept.Pools() {
		assert.Equal(t, 0, pool.Held(), "pool %s still held at end", pool.Name())
		assert.Equal(t, 0, pool.QueueLength(), "pool %s still has waiters", pool.Name())
	}
}

func TestDepartment_ZeroArrivalRateCompletesEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.Arrival.RatePerHour = 0
	dept, err := NewDepartment(cfg, stubAssessor{})
	require.NoError(t, err)

	s := dept.Run()

	assert.Equal(t, 0, s.TotalArrivals)
	assert.Equal(t, 0, dept.Arrivals().Total())
	assert.Equal(t, 0, dept.InFlight())
}

func TestDepartment_RedOvertakesEarlierGreenAtGrantTime(t *testing.T) {
	// GIVEN one doctor and one cubicle, occupied by a GREEN patient
	cfg := testConfig()
	cfg.Arrival.RatePerHour = 0
	cfg.Resources = ResourceConfig{TriageNurses: 2, Doctors: 1, Cubicles: 1, Beds: 2}
	cfg.Triage.MeanMin = 1
	for i := range cfg.Categories {
		cfg.Categories[i].ConsultStdMin = 0
		cfg.Categories[i].AdmissionProbability = 0
	}
	dept, err := NewDepartment(cfg, stubAssessor{})
	require.NoError(t, err)

	first := NewPatient(0, 30, "F", "GREEN first", nil, nil)
	waiting := NewPatient(0, 30, "M", "GREEN waiting", nil, nil)
	urgent := NewPatient(0, 30, "F", "RED later", nil, nil)

	dept.Sim.ScheduleAfter(0, func(s *Simulator) { dept.admit(s, first) })
	dept.Sim.ScheduleAfter(MinutesToTicks(1), func(s *Simulator) { dept.admit(s, waiting) })
	dept.Sim.ScheduleAfter(MinutesToTicks(2), func(s *Simulator) { dept.admit(s, urgent) })

	// WHEN the day runs
	dept.Sim.RunUntil(MinutesToTicks(cfg.HorizonMin))

	// THEN the RED patient, though queued later, consults before the
	// waiting GREEN patient
	require.GreaterOrEqual(t, urgent.ConsultStartTime, int64(0))
	require.GreaterOrEqual(t, waiting.ConsultStartTime, int64(0))
	assert.Less(t, urgent.ConsultStartTime, waiting.ConsultStartTime)
	assert.Greater(t, urgent.ConsultStartTime, first.ConsultStartTime)
}

func TestDepartment_WaitingPatientAbandonsAndIsRecorded(t *testing.T) {
	// GIVEN a single doctor blocked by a long consultation and a short
	// patience window
	cfg := testConfig()
	cfg.Arrival.RatePerHour = 0
	cfg.Resources = ResourceConfig{TriageNurses: 1, Doctors: 1, Cubicles: 1, Beds: 1}
	cfg.Triage.MeanMin = 1
	for i := range cfg.Categories {
		cfg.Categories[i].ConsultStdMin = 0
		cfg.Categories[i].AdmissionProbability = 0
	}
	rec := trace.NewSimulationTrace()
	dept, err := NewDepartment(cfg, stubAssessor{},
		WithRecorder(rec),
		WithAbandonmentPolicy(fixedPatience{ticks: MinutesToTicks(5)}))
	require.NoError(t, err)

	blocker := NewPatient(0, 30, "F", "GREEN blocker", nil, nil)
	impatient := NewPatient(0, 30, "M", "GREEN impatient", nil, nil)
	dept.Sim.ScheduleAfter(0, func(s *Simulator) { dept.admit(s, blocker) })
	dept.Sim.ScheduleAfter(MinutesToTicks(1), func(s *Simulator) { dept.admit(s, impatient) })

	dept.Sim.RunUntil(MinutesToTicks(cfg.HorizonMin))

	// THEN the waiter left without being seen, with the disposition recorded
	assert.Equal(t, StateLeftWithoutBeingSeen, impatient.State)
	assert.Equal(t, StateDischarged, blocker.State)
	assert.Equal(t, 1, dept.Metrics.LWBS)

	var lwbs []trace.DispositionRecord
	for _, d := range rec.Dispositions {
		if d.Outcome == string(StateLeftWithoutBeingSeen) {
			lwbs = append(lwbs, d)
		}
	}
	require.Len(t, lwbs, 1)
	assert.Equal(t, impatient.ID, lwbs[0].PatientID)

	// the abandoned patient never consumed the doctor
	assert.Equal(t, int64(-1), impatient.ConsultStartTime)
}

func TestDepartment_SnapshotsAreRecordedPeriodically(t *testing.T) {
	cfg := testConfig()
	cfg.HorizonMin = 120
	cfg.SnapshotIntervalMin = 15
	rec := trace.NewSimulationTrace()
	dept, err := NewDepartment(cfg, stubAssessor{}, WithRecorder(rec))
	require.NoError(t, err)

	dept.Run()

	require.Len(t, rec.Snapshots, 8)
	assert.InDelta(t, 15, rec.Snapshots[0].TimeMin, 1e-9)
	for _, s := range rec.Snapshots {
		assert.Contains(t, s.Utilization, "doctor")
		assert.Contains(t, s.Held, "bed")
		assert.Contains(t, s.QueueLengths, "RED")
	}
}

func TestDepartment_IdenticalSeedsGiveIdenticalTraces(t *testing.T) {
	run := func() *trace.SimulationTrace {
		rec := trace.NewSimulationTrace()
		dept, err := NewDepartment(testConfig(), stubAssessor{}, WithRecorder(rec))
		require.NoError(t, err)
		dept.Run()
		return rec
	}

	a, b := run(), run()
	require.Equal(t, len(a.Arrivals), len(b.Arrivals))
	for i := range a.Arrivals {
		assert.Equal(t, a.Arrivals[i].TimeMin, b.Arrivals[i].TimeMin)
		assert.Equal(t, a.Arrivals[i].Complaint, b.Arrivals[i].Complaint)
	}
	assert.Equal(t, len(a.Dispositions), len(b.Dispositions))
}

func TestDepartment_DifferentSeedsDiverge(t *testing.T) {
	run := func(seed int64) []float64 {
		cfg := testConfig()
		cfg.Seed = seed
		rec := trace.NewSimulationTrace()
		dept, err := NewDepartment(cfg, stubAssessor{}, WithRecorder(rec))
		require.NoError(t, err)
		dept.Run()
		times := make([]float64, 0, len(rec.Arrivals))
		for _, a := range rec.Arrivals {
			times = append(times, a.TimeMin)
		}
		return times
	}

	assert.NotEqual(t, run(1), run(99))
}
