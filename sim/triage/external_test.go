package triage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsim/edsim/sim"
)

type fakeBackend struct {
	verdict ExternalVerdict
	err     error
}

func (f fakeBackend) AssessRecord(string, map[string]float64, []string) (ExternalVerdict, error) {
	return f.verdict, f.err
}

func TestExternalAdapter_ValidVerdict(t *testing.T) {
	a := &ExternalAdapter{Backend: fakeBackend{
		verdict: ExternalVerdict{Category: "orange", Priority: 2, WaitTime: "10 minutes"},
	}}

	v, err := a.Assess(assessedPatient("chest pain", nil))

	require.NoError(t, err)
	assert.Equal(t, sim.CategoryOrange, v.Category)
	assert.Equal(t, 2, v.Priority)
	assert.Equal(t, 10.0, v.TargetWaitMin)
}

func TestExternalAdapter_UnknownCategoryIsRejected(t *testing.T) {
	a := &ExternalAdapter{Backend: fakeBackend{
		verdict: ExternalVerdict{Category: "PURPLE", Priority: 2, WaitTime: "10 minutes"},
	}}

	_, err := a.Assess(assessedPatient("chest pain", nil))
	assert.Error(t, err)
}

func TestExternalAdapter_PriorityOutOfRangeIsRejected(t *testing.T) {
	a := &ExternalAdapter{Backend: fakeBackend{
		verdict: ExternalVerdict{Category: "RED", Priority: 0, WaitTime: "immediate"},
	}}

	_, err := a.Assess(assessedPatient("chest pain", nil))
	assert.Error(t, err)
}

func TestExternalAdapter_MalformedWaitFallsBackToCategoryTarget(t *testing.T) {
	a := &ExternalAdapter{Backend: fakeBackend{
		verdict: ExternalVerdict{Category: "YELLOW", Priority: 3, WaitTime: "soon-ish"},
	}}

	v, err := a.Assess(assessedPatient("chest pain", nil))

	require.NoError(t, err)
	assert.Equal(t, sim.CategoryYellow.TargetWaitMinutes(), v.TargetWaitMin)
}

func TestExternalAdapter_BackendErrorsPropagate(t *testing.T) {
	a := &ExternalAdapter{Backend: fakeBackend{err: errors.New("unavailable")}}

	_, err := a.Assess(assessedPatient("chest pain", nil))
	assert.Error(t, err)
}

func TestParseWaitTime(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"immediate", 0, false},
		{"Immediately", 0, false},
		{"now", 0, false},
		{"10 minutes", 10, false},
		{"1 minute", 1, false},
		{"90 min", 90, false},
		{"2 hours", 120, false},
		{"1.5 hours", 90, false},
		{"45", 45, false},
		{"", 0, true},
		{"soon", 0, true},
		{"-5 minutes", 0, true},
		{"10 fortnights", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseWaitTime(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
