package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsim/edsim/sim/trace"
)

func TestArrivalProcess_StopsAtCutoff(t *testing.T) {
	// GIVEN arrivals limited to the first 60 minutes
	cfg := testConfig()
	cfg.HorizonMin = 480
	cfg.Arrival.RatePerHour = 20
	cfg.Arrival.DurationMin = 60
	rec := trace.NewSimulationTrace()
	dept, err := NewDepartment(cfg, stubAssessor{}, WithRecorder(rec))
	require.NoError(t, err)

	dept.Run()

	require.NotEmpty(t, rec.Arrivals)
	for _, a := range rec.Arrivals {
		assert.Less(t, a.TimeMin, 60.0)
	}
}

func TestArrivalProcess_HourlyPatternSuppressesQuietHours(t *testing.T) {
	// GIVEN a pattern with arrivals only in hour 2
	cfg := testConfig()
	cfg.HorizonMin = 240
	cfg.Arrival.RatePerHour = 30
	pattern := make([]float64, 24)
	pattern[2] = 1
	cfg.Arrival.HourlyPattern = pattern
	rec := trace.NewSimulationTrace()
	dept, err := NewDepartment(cfg, stubAssessor{}, WithRecorder(rec))
	require.NoError(t, err)

	dept.Run()

	require.NotEmpty(t, rec.Arrivals)
	for _, a := range rec.Arrivals {
		assert.GreaterOrEqual(t, a.TimeMin, 120.0)
		assert.Less(t, a.TimeMin, 180.0)
	}
}

func TestArrivalProcess_ArrivalCountTracksRate(t *testing.T) {
	// GIVEN a long flat-rate day
	cfg := testConfig()
	cfg.HorizonMin = 1440
	cfg.Arrival.RatePerHour = 10
	dept, err := NewDepartment(cfg, stubAssessor{})
	require.NoError(t, err)

	dept.Run()

	// THEN the count is Poisson(240); 5 sigma covers seed variation
	n := float64(dept.Arrivals().Total())
	assert.InDelta(t, 240, n, 5*15.5)
}

func TestSyntheticProvider_ProducesPlausibleRecords(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	provider := SyntheticProvider{}

	for i := 0; i < 200; i++ {
		r := provider.Next(rng)
		assert.NotEmpty(t, r.Complaint)
		assert.GreaterOrEqual(t, r.Age, 0)
		assert.Less(t, r.Age, 120)
		assert.Contains(t, []string{"F", "M"}, r.Sex)

		pain, ok := r.Vitals["pain"]
		require.True(t, ok, "every record carries a pain score")
		assert.GreaterOrEqual(t, pain, 0.0)
		assert.LessOrEqual(t, pain, 10.0)
	}
}

func TestSyntheticProvider_IsDeterministicPerSeed(t *testing.T) {
	next := func(seed int64) PatientRecord {
		return SyntheticProvider{}.Next(rand.New(rand.NewSource(seed)))
	}

	assert.Equal(t, next(3).Complaint, next(3).Complaint)
	assert.Equal(t, next(3).Age, next(3).Age)
}
