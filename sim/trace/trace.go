// Package trace defines the event-recording interface the simulation core
// produces into, and an in-memory collector for it. Aggregation, statistics
// and visualization beyond Summarize live outside the core.
package trace

// Recorder consumes per-event records as the simulation emits them.
type Recorder interface {
	RecordArrival(r ArrivalRecord)
	RecordTriage(r TriageRecord)
	RecordConsultation(r ConsultationRecord)
	RecordDisposition(r DispositionRecord)
	RecordSnapshot(r SnapshotRecord)
}

// SimulationTrace collects every record of a run in memory.
type SimulationTrace struct {
	Arrivals      []ArrivalRecord
	Triages       []TriageRecord
	Consultations []ConsultationRecord
	Dispositions  []DispositionRecord
	Snapshots     []SnapshotRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		Arrivals:      make([]ArrivalRecord, 0),
		Triages:       make([]TriageRecord, 0),
		Consultations: make([]ConsultationRecord, 0),
		Dispositions:  make([]DispositionRecord, 0),
		Snapshots:     make([]SnapshotRecord, 0),
	}
}

// RecordArrival appends an arrival record.
func (st *SimulationTrace) RecordArrival(r ArrivalRecord) {
	st.Arrivals = append(st.Arrivals, r)
}

// RecordTriage appends a triage record.
func (st *SimulationTrace) RecordTriage(r TriageRecord) {
	st.Triages = append(st.Triages, r)
}

// RecordConsultation appends a consultation record.
func (st *SimulationTrace) RecordConsultation(r ConsultationRecord) {
	st.Consultations = append(st.Consultations, r)
}

// RecordDisposition appends a disposition record.
func (st *SimulationTrace) RecordDisposition(r DispositionRecord) {
	st.Dispositions = append(st.Dispositions, r)
}

// RecordSnapshot appends a snapshot record.
func (st *SimulationTrace) RecordSnapshot(r SnapshotRecord) {
	st.Snapshots = append(st.Snapshots, r)
}

// NopRecorder discards every record.
type NopRecorder struct{}

func (NopRecorder) RecordArrival(ArrivalRecord)           {}
func (NopRecorder) RecordTriage(TriageRecord)             {}
func (NopRecorder) RecordConsultation(ConsultationRecord) {}
func (NopRecorder) RecordDisposition(DispositionRecord)   {}
func (NopRecorder) RecordSnapshot(SnapshotRecord)         {}

// MultiRecorder fans every record out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordArrival(r ArrivalRecord) {
	for _, rec := range m {
		rec.RecordArrival(r)
	}
}

func (m MultiRecorder) RecordTriage(r TriageRecord) {
	for _, rec := range m {
		rec.RecordTriage(r)
	}
}

func (m MultiRecorder) RecordConsultation(r ConsultationRecord) {
	for _, rec := range m {
		rec.RecordConsultation(r)
	}
}

func (m MultiRecorder) RecordDisposition(r DispositionRecord) {
	for _, rec := range m {
		rec.RecordDisposition(r)
	}
}

func (m MultiRecorder) RecordSnapshot(r SnapshotRecord) {
	for _, rec := range m {
		rec.RecordSnapshot(r)
	}
}
