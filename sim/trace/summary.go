package trace

// TraceSummary aggregates counts from a SimulationTrace.
type TraceSummary struct {
	TotalArrivals      int
	TotalTriaged       int
	TotalConsultations int
	CategoryCounts     map[string]int // category name -> triaged count
	OutcomeCounts      map[string]int // outcome -> count
	MeanWaitMin        float64        // mean triage-to-consultation wait
	PeakWaitingTotal   int            // max WAITING_* count over snapshots
}

// Summarize computes aggregate counts from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		CategoryCounts: make(map[string]int),
		OutcomeCounts:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalArrivals = len(st.Arrivals)
	summary.TotalTriaged = len(st.Triages)
	for _, tr := range st.Triages {
		summary.CategoryCounts[tr.Category]++
	}

	waitSum := 0.0
	for _, cr := range st.Consultations {
		if !cr.Completed {
			summary.TotalConsultations++
			waitSum += cr.WaitedMin
		}
	}
	if summary.TotalConsultations > 0 {
		summary.MeanWaitMin = waitSum / float64(summary.TotalConsultations)
	}

	for _, dr := range st.Dispositions {
		summary.OutcomeCounts[dr.Outcome]++
	}

	for _, sr := range st.Snapshots {
		if sr.WaitingTotal > summary.PeakWaitingTotal {
			summary.PeakWaitingTotal = sr.WaitingTotal
		}
	}

	return summary
}
