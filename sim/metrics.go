// Tracks run-wide performance metrics: per-category waits and safety
// breaches, consultation and system time distributions, and outcome totals.

package sim

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Samples from patients arriving during the warm-up window are excluded from
// the distributions but still counted in the totals.
type Metrics struct {
	warmupTicks int64

	TotalArrivals int
	TotalTriaged  int
	Admitted      int
	Discharged    int
	LWBS          int

	CategoryCounts [NumCategories]int

	waits       [NumCategories][]float64
	breaches    [NumCategories]int
	consultDurs []float64
	systemTimes []float64
}

// NewMetrics creates a Metrics collector with the given warm-up window.
func NewMetrics(warmupTicks int64) *Metrics {
	return &Metrics{warmupTicks: warmupTicks}
}

func (m *Metrics) measured(p *Patient) bool {
	return p.ArrivalTime >= m.warmupTicks
}

// RecordArrival counts a new patient.
func (m *Metrics) RecordArrival(p *Patient) {
	m.TotalArrivals++
}

// RecordTriage counts the verdict category.
func (m *Metrics) RecordTriage(p *Patient) {
	m.TotalTriaged++
	m.CategoryCounts[p.Verdict.Category]++
}

// RecordConsultStart samples the triage-to-consultation wait and checks it
// against the category's target.
func (m *Metrics) RecordConsultStart(p *Patient) {
	if !m.measured(p) {
		return
	}
	c := p.Verdict.Category
	wait := p.WaitedMinutes()
	m.waits[c] = append(m.waits[c], wait)
	if wait > p.Verdict.TargetWaitMin {
		m.breaches[c]++
	}
}

// RecordConsultEnd samples the consultation duration.
func (m *Metrics) RecordConsultEnd(p *Patient) {
	if !m.measured(p) {
		return
	}
	m.consultDurs = append(m.consultDurs, TicksToMinutes(p.ConsultEndTime-p.ConsultStartTime))
}

// RecordDeparture counts the outcome and samples the system time.
func (m *Metrics) RecordDeparture(p *Patient) {
	switch p.State {
	case StateAdmitted:
		m.Admitted++
	case StateDischarged:
		m.Discharged++
	case StateLeftWithoutBeingSeen:
		m.LWBS++
	}
	if m.measured(p) {
		m.systemTimes = append(m.systemTimes, p.SystemMinutes())
	}
}

// DistStats summarizes one duration distribution in minutes.
type DistStats struct {
	Count int
	Mean  float64
	P50   float64
	P90   float64
	P99   float64
}

func distStats(samples []float64) DistStats {
	if len(samples) == 0 {
		return DistStats{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return DistStats{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
}

// CategorySummary is the per-category slice of the end-of-run summary.
type CategorySummary struct {
	Category      string
	Triaged       int
	TargetWaitMin float64
	Wait          DistStats
	Breaches      int
	BreachRate    float64
}

// Summary is the end-of-run report.
type Summary struct {
	HorizonMin    float64
	TotalArrivals int
	TotalTriaged  int
	Admitted      int
	Discharged    int
	LWBS          int

	Categories  []CategorySummary
	ConsultTime DistStats
	SystemTime  DistStats
	Utilization map[string]float64
}

// BuildSummary computes the final report from the collected samples and the
// pools' utilization integrals.
func (m *Metrics) BuildSummary(horizonMin float64, now int64, pools []*ResourcePool) *Summary {
	s := &Summary{
		HorizonMin:    horizonMin,
		TotalArrivals: m.TotalArrivals,
		TotalTriaged:  m.TotalTriaged,
		Admitted:      m.Admitted,
		Discharged:    m.Discharged,
		LWBS:          m.LWBS,
		ConsultTime:   distStats(m.consultDurs),
		SystemTime:    distStats(m.systemTimes),
		Utilization:   make(map[string]float64, len(pools)),
	}
	for _, c := range Categories() {
		cs := CategorySummary{
			Category:      c.String(),
			Triaged:       m.CategoryCounts[c],
			TargetWaitMin: c.TargetWaitMinutes(),
			Wait:          distStats(m.waits[c]),
			Breaches:      m.breaches[c],
		}
		if cs.Wait.Count > 0 {
			cs.BreachRate = float64(cs.Breaches) / float64(cs.Wait.Count)
		}
		s.Categories = append(s.Categories, cs)
	}
	for _, p := range pools {
		s.Utilization[p.Name()] = p.Utilization(now)
	}
	return s
}

// Print displays the end-of-run summary.
func (s *Summary) Print() {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Horizon              : %.0f min\n", s.HorizonMin)
	fmt.Printf("Arrivals             : %s\n", humanize.Comma(int64(s.TotalArrivals)))
	fmt.Printf("Triaged              : %s\n", humanize.Comma(int64(s.TotalTriaged)))
	fmt.Printf("Admitted             : %s\n", humanize.Comma(int64(s.Admitted)))
	fmt.Printf("Discharged           : %s\n", humanize.Comma(int64(s.Discharged)))
	fmt.Printf("Left without being seen: %s\n", humanize.Comma(int64(s.LWBS)))
	fmt.Println("--- Waits by category (min) ---")
	for _, c := range s.Categories {
		fmt.Printf("%-7s n=%-5d target=%-4.0f mean=%-7.1f p90=%-7.1f breaches=%d (%.1f%%)\n",
			c.Category, c.Wait.Count, c.TargetWaitMin, c.Wait.Mean, c.Wait.P90,
			c.Breaches, c.BreachRate*100)
	}
	fmt.Printf("Consultation (min)   : mean=%.1f p50=%.1f p90=%.1f p99=%.1f\n",
		s.ConsultTime.Mean, s.ConsultTime.P50, s.ConsultTime.P90, s.ConsultTime.P99)
	fmt.Printf("System time (min)    : mean=%.1f p50=%.1f p90=%.1f p99=%.1f\n",
		s.SystemTime.Mean, s.SystemTime.P50, s.SystemTime.P90, s.SystemTime.P99)
	fmt.Println("--- Utilization ---")
	for _, name := range []string{"triage_nurse", "doctor", "cubicle", "bed"} {
		if u, ok := s.Utilization[name]; ok {
			fmt.Printf("%-13s: %.1f%%\n", name, u*100)
		}
	}
}
