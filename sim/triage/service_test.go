package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsim/edsim/sim"
)

func assessedPatient(complaint string, vitals map[string]float64) *sim.Patient {
	return sim.NewPatient(0, 40, "F", complaint, vitals, nil)
}

func TestService_MaximumPainChestPainIsRed(t *testing.T) {
	// GIVEN crushing chest pain at pain 10/10
	svc := NewService()
	p := assessedPatient("crushing chest pain", map[string]float64{"pain": 10})

	v, err := svc.Assess(p)

	require.NoError(t, err)
	assert.Equal(t, sim.CategoryRed, v.Category)
	assert.Equal(t, 1, v.Priority)
	assert.Equal(t, 0.0, v.TargetWaitMin)
	assert.Equal(t, "chest_pain", v.Flowchart)
}

func TestService_MildComplaintIsLowUrgency(t *testing.T) {
	svc := NewService()
	p := assessedPatient("mild sore throat", map[string]float64{"pain": 2})

	v, err := svc.Assess(p)

	require.NoError(t, err)
	assert.Equal(t, "sore_throat", v.Flowchart)
	assert.GreaterOrEqual(t, v.Priority, 4, "mild single symptom stays GREEN or BLUE")
}

func TestService_MissingVitalsNeverFail(t *testing.T) {
	// Absent vitals degrade to text-derived severities, never an error
	svc := NewService()
	p := assessedPatient("headache that will not settle", nil)

	v, err := svc.Assess(p)

	require.NoError(t, err)
	assert.Equal(t, "headache", v.Flowchart)
	assert.GreaterOrEqual(t, v.Priority, 1)
	assert.LessOrEqual(t, v.Priority, 5)
}

func TestService_UnmatchedComplaintUsesFallbackFlowchart(t *testing.T) {
	svc := NewService()
	p := assessedPatient("feeling generally odd today", nil)

	v, err := svc.Assess(p)

	require.NoError(t, err)
	assert.Equal(t, FallbackFlowchartName, v.Flowchart)
}

func TestService_DangerousVitalsOutrankBenignText(t *testing.T) {
	// GIVEN a vague breathing complaint with critical oxygen saturation
	svc := NewService()
	critical := assessedPatient("difficulty breathing", map[string]float64{"spo2": 82})
	mild := assessedPatient("difficulty breathing", map[string]float64{"spo2": 96})

	vc, err := svc.Assess(critical)
	require.NoError(t, err)
	vm, err := svc.Assess(mild)
	require.NoError(t, err)

	assert.Equal(t, sim.CategoryRed, vc.Category)
	assert.Less(t, vc.Priority, vm.Priority)
}

func TestService_ConfidenceAndScoreAreConsistent(t *testing.T) {
	svc := NewService()
	p := assessedPatient("severe abdominal pain", map[string]float64{"pain": 8})

	v, err := svc.Assess(p)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, v.Score, 1.0)
	assert.LessOrEqual(t, v.Score, 5.0)
	assert.GreaterOrEqual(t, v.Confidence, 0.0)
	assert.LessOrEqual(t, v.Confidence, 1.0)
	assert.Equal(t, v.Category.Priority(), v.Priority)
}

func TestService_EstimateScalesWithinCategoryBand(t *testing.T) {
	svc := NewService()

	// estimate stays within 0.85x..1.15x of the category mean
	p := assessedPatient("severe abdominal pain", map[string]float64{"pain": 8})
	v, err := svc.Assess(p)
	require.NoError(t, err)

	mean := v.Category.BaseConsultMinutes()
	assert.GreaterOrEqual(t, v.EstimateMin, mean*0.85)
	assert.LessOrEqual(t, v.EstimateMin, mean*1.15)
}

func TestService_WithConsultMeansOverridesEstimates(t *testing.T) {
	means := [sim.NumCategories]float64{100, 80, 60, 40, 20}
	svc := NewService(WithConsultMeans(means))
	p := assessedPatient("twisted ankle", map[string]float64{"pain": 3})

	v, err := svc.Assess(p)

	require.NoError(t, err)
	mean := means[v.Category]
	assert.GreaterOrEqual(t, v.EstimateMin, mean*0.85)
	assert.LessOrEqual(t, v.EstimateMin, mean*1.15)
}

func TestSeverityValue_WordsAndFallback(t *testing.T) {
	assert.Equal(t, 10.0, SeverityValue("very_severe"))
	assert.Equal(t, 5.0, SeverityValue(" Moderate "))
	assert.Equal(t, 0.0, SeverityValue("unintelligible"))
}

func TestSeverityWord_NearestAnchor(t *testing.T) {
	assert.Equal(t, "none", SeverityWord(0.4))
	assert.Equal(t, "mild", SeverityWord(2.9))
	assert.Equal(t, "severe", SeverityWord(7))
	assert.Equal(t, "very_severe", SeverityWord(9.5))
}
