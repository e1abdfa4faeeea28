package trace

// ArrivalRecord captures a patient entering the department.
type ArrivalRecord struct {
	TimeMin   float64
	PatientID string
	Age       int
	Complaint string
}

// TriageRecord captures a completed triage assessment.
type TriageRecord struct {
	TimeMin      float64
	PatientID    string
	Category     string
	Priority     int
	Score        float64
	Flowchart    string
	Confidence   float64
	TargetWaitMin float64
	EstimateMin  float64 // estimated consultation duration
}

// ConsultationRecord captures a consultation start or completion.
type ConsultationRecord struct {
	TimeMin   float64
	PatientID string
	Category  string
	Completed bool    // false = start, true = completion
	WaitedMin float64 // triage completion -> consultation start
}

// DispositionRecord captures the patient's final outcome.
type DispositionRecord struct {
	TimeMin   float64
	PatientID string
	Category  string // empty for patients abandoning before triage
	Outcome   string // ADMITTED, DISCHARGED or LEFT_WITHOUT_BEING_SEEN
	SystemMin float64
}

// SnapshotRecord captures periodic utilization and queue-length samples.
type SnapshotRecord struct {
	TimeMin      float64
	Utilization  map[string]float64 // pool name -> time-averaged utilization
	Held         map[string]int     // pool name -> units held
	QueueLengths map[string]int     // category name -> consultation queue length
	WaitingTotal int                // patients in any WAITING_* state
}
