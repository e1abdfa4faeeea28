// Department composes the scheduler, the resource pools, the consultation
// queues and the triage assessor into one runnable emergency department, and
// dispatches doctor+cubicle pairs to the most urgent waiting patient.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edsim/edsim/sim/trace"
)

// Department is the simulation root. Construct with NewDepartment, then Run.
type Department struct {
	cfg Config

	Sim *Simulator

	TriageNurses *ResourcePool
	Doctors      *ResourcePool
	Cubicles     *ResourcePool
	Beds         *ResourcePool

	Queues   *CategoryQueues
	Assessor Assessor
	Policy   AbandonmentPolicy
	Recorder trace.Recorder
	Metrics  *Metrics

	provider RecordProvider
	arrivals *ArrivalProcess

	journeys  map[string]*Journey
	completed []*Patient

	// at most one doctor+cubicle ticket is outstanding at a time; the target
	// patient is chosen at grant time, not at enqueue time
	consultPending bool
}

// Option customizes a Department at construction time.
type Option func(*Department)

// WithRecorder installs a trace recorder. Default is trace.NopRecorder.
func WithRecorder(r trace.Recorder) Option {
	return func(d *Department) { d.Recorder = r }
}

// WithProvider installs the patient record source. Default is
// SyntheticProvider.
func WithProvider(p RecordProvider) Option {
	return func(d *Department) { d.provider = p }
}

// WithAbandonmentPolicy overrides the patience policy derived from the
// configuration.
func WithAbandonmentPolicy(pol AbandonmentPolicy) Option {
	return func(d *Department) { d.Policy = pol }
}

// NewDepartment validates the configuration and wires up a ready-to-run
// department.
func NewDepartment(cfg Config, assessor Assessor, opts ...Option) (*Department, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("department config: %w", err)
	}
	if assessor == nil {
		return nil, fmt.Errorf("department: assessor is required")
	}
	d := &Department{
		cfg:          cfg,
		Sim:          NewSimulator(cfg.Seed),
		TriageNurses: NewResourcePool("triage_nurse", cfg.Resources.TriageNurses),
		Doctors:      NewResourcePool("doctor", cfg.Resources.Doctors),
		Cubicles:     NewResourcePool("cubicle", cfg.Resources.Cubicles),
		Beds:         NewResourcePool("bed", cfg.Resources.Beds),
		Queues:       NewCategoryQueues(),
		Assessor:     assessor,
		Recorder:     trace.NopRecorder{},
		Metrics:      NewMetrics(MinutesToTicks(cfg.WarmupMin)),
		provider:     SyntheticProvider{},
		journeys:     make(map[string]*Journey),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.Policy == nil {
		d.Policy = defaultPolicy(cfg)
	}
	d.arrivals = newArrivalProcess(d)
	return d, nil
}

// defaultPolicy builds the patience policy the configuration implies: the
// exponential timeout when any patience mean is set, otherwise none.
func defaultPolicy(cfg Config) AbandonmentPolicy {
	pt := PatienceTimeout{PreTriageMeanMin: cfg.Triage.PatienceMeanMin}
	any := pt.PreTriageMeanMin > 0
	for _, c := range Categories() {
		pt.CategoryMeanMin[c] = cfg.Categories[c].PatienceMeanMin
		if pt.CategoryMeanMin[c] > 0 {
			any = true
		}
	}
	if !any {
		return NoAbandonment{}
	}
	return pt
}

// Config returns a copy of the validated configuration.
func (d *Department) Config() Config { return d.cfg }

// Arrivals returns the arrival process for inspection.
func (d *Department) Arrivals() *ArrivalProcess { return d.arrivals }

// Completed returns the patients who have left the department.
func (d *Department) Completed() []*Patient { return d.completed }

// InFlight returns the number of patients currently inside the department.
func (d *Department) InFlight() int { return len(d.journeys) }

// Pools returns the four resource pools.
func (d *Department) Pools() []*ResourcePool {
	return []*ResourcePool{d.TriageNurses, d.Doctors, d.Cubicles, d.Beds}
}

// Run executes the whole scenario and returns the final summary. Arrivals
// stop at their cutoff; the horizon bounds the run.
func (d *Department) Run() *Summary {
	logrus.Infof("starting run: horizon=%.0fmin rate=%.1f/h seed=%d",
		d.cfg.HorizonMin, d.cfg.Arrival.RatePerHour, d.cfg.Seed)
	d.arrivals.Start(d.Sim)
	d.scheduleSnapshot(MinutesToTicks(d.cfg.SnapshotIntervalMin))
	d.Sim.RunUntil(MinutesToTicks(d.cfg.HorizonMin))
	logrus.Infof("run complete: %d arrivals, %d still in department, %d events processed",
		d.arrivals.Total(), d.InFlight(), d.Sim.ProcessedEvents())
	return d.Summary()
}

// Summary builds the report for the simulated time elapsed so far.
func (d *Department) Summary() *Summary {
	return d.Metrics.BuildSummary(TicksToMinutes(d.Sim.Now()), d.Sim.Now(), d.Pools())
}

// Admit injects a patient directly, bypassing the arrival process. Intended
// for replaying recorded arrival streams.
func (d *Department) Admit(p *Patient) {
	d.admit(d.Sim, p)
}

func (d *Department) admit(sim *Simulator, p *Patient) {
	j := newJourney(d, p)
	d.journeys[p.ID] = j
	j.Start(sim)
}

func (d *Department) finish(j *Journey) {
	d.completed = append(d.completed, j.patient)
	delete(d.journeys, j.patient.ID)
}

// pumpConsultations keeps one doctor+cubicle request outstanding while anyone
// is waiting. Choosing the patient at grant time means a RED arrival that
// queued after the request was filed still goes first.
func (d *Department) pumpConsultations(sim *Simulator) {
	if d.consultPending || d.Queues.TotalLen() == 0 {
		return
	}
	d.consultPending = true
	AcquireAll(sim, []*ResourcePool{d.Doctors, d.Cubicles}, d.onConsultGrant)
}

func (d *Department) onConsultGrant(sim *Simulator, tokens []*Token) {
	d.consultPending = false
	p := d.Queues.PopMostUrgent()
	if p == nil {
		// every waiter abandoned between request and grant
		ReleaseAll(sim, tokens)
		return
	}
	j, ok := d.journeys[p.ID]
	if !ok {
		logrus.Panicf("department: queued patient %s has no journey", p.ID)
	}
	j.startConsultation(sim, tokens)
	d.pumpConsultations(sim)
}

// waitingTotal counts patients in any WAITING_* state.
func (d *Department) waitingTotal() int {
	n := 0
	for _, j := range d.journeys {
		if j.patient.State.IsWaiting() {
			n++
		}
	}
	return n
}

// scheduleSnapshot emits periodic utilization and queue-length samples for
// the whole run.
func (d *Department) scheduleSnapshot(interval int64) {
	d.Sim.ScheduleAfter(interval, func(sim *Simulator) {
		d.recordSnapshot(sim)
		d.scheduleSnapshot(interval)
	})
}

func (d *Department) recordSnapshot(sim *Simulator) {
	now := sim.Now()
	rec := trace.SnapshotRecord{
		TimeMin:      TicksToMinutes(now),
		Utilization:  make(map[string]float64, 4),
		Held:         make(map[string]int, 4),
		QueueLengths: make(map[string]int, NumCategories),
		WaitingTotal: d.waitingTotal(),
	}
	for _, p := range d.Pools() {
		rec.Utilization[p.Name()] = p.Utilization(now)
		rec.Held[p.Name()] = p.Held()
	}
	for _, c := range Categories() {
		rec.QueueLengths[c.String()] = d.Queues.Len(c)
	}
	d.Recorder.RecordSnapshot(rec)
}
