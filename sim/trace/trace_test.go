package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTrace() *SimulationTrace {
	st := NewSimulationTrace()
	st.RecordArrival(ArrivalRecord{TimeMin: 1, PatientID: "a"})
	st.RecordArrival(ArrivalRecord{TimeMin: 2, PatientID: "b"})
	st.RecordTriage(TriageRecord{TimeMin: 5, PatientID: "a", Category: "YELLOW"})
	st.RecordTriage(TriageRecord{TimeMin: 6, PatientID: "b", Category: "YELLOW"})
	st.RecordConsultation(ConsultationRecord{TimeMin: 10, PatientID: "a", Completed: false, WaitedMin: 5})
	st.RecordConsultation(ConsultationRecord{TimeMin: 30, PatientID: "a", Completed: true, WaitedMin: 5})
	st.RecordConsultation(ConsultationRecord{TimeMin: 20, PatientID: "b", Completed: false, WaitedMin: 15})
	st.RecordDisposition(DispositionRecord{TimeMin: 30, PatientID: "a", Outcome: "DISCHARGED"})
	st.RecordSnapshot(SnapshotRecord{TimeMin: 15, WaitingTotal: 3})
	st.RecordSnapshot(SnapshotRecord{TimeMin: 30, WaitingTotal: 1})
	return st
}

func TestSummarize_Counts(t *testing.T) {
	s := Summarize(sampleTrace())

	assert.Equal(t, 2, s.TotalArrivals)
	assert.Equal(t, 2, s.TotalTriaged)
	assert.Equal(t, 2, s.TotalConsultations, "only starts are counted")
	assert.Equal(t, 2, s.CategoryCounts["YELLOW"])
	assert.Equal(t, 1, s.OutcomeCounts["DISCHARGED"])
	assert.InDelta(t, 10, s.MeanWaitMin, 1e-9)
	assert.Equal(t, 3, s.PeakWaitingTotal)
}

func TestSummarize_NilTraceIsSafe(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalArrivals)
	assert.NotNil(t, s.CategoryCounts)
	assert.NotNil(t, s.OutcomeCounts)
}

func TestMultiRecorder_FansOut(t *testing.T) {
	a := NewSimulationTrace()
	b := NewSimulationTrace()
	m := MultiRecorder{a, b}

	m.RecordArrival(ArrivalRecord{PatientID: "x"})
	m.RecordSnapshot(SnapshotRecord{TimeMin: 5})

	assert.Len(t, a.Arrivals, 1)
	assert.Len(t, b.Arrivals, 1)
	assert.Len(t, a.Snapshots, 1)
	assert.Len(t, b.Snapshots, 1)
}

func TestNopRecorder_ImplementsRecorder(t *testing.T) {
	var _ Recorder = NopRecorder{}
	var _ Recorder = NewSimulationTrace()
	var _ Recorder = MultiRecorder{}
}
