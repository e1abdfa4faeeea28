// sim/simulator.go
package sim

import (
	"container/heap"

	"github.com/sirupsen/logrus"
)

// Ticks are the simulator's time unit. One tick is one simulated second.
const TicksPerMinute = 60

// MinutesToTicks converts a duration in minutes to ticks, rounding to the
// nearest tick.
func MinutesToTicks(minutes float64) int64 {
	t := int64(minutes*TicksPerMinute + 0.5)
	if t < 0 {
		return 0
	}
	return t
}

// TicksToMinutes converts ticks back to minutes.
func TicksToMinutes(ticks int64) float64 {
	return float64(ticks) / TicksPerMinute
}

// Simulator is the explicit simulation context: the virtual clock, the event
// heap, and the partitioned RNG. Every component receives it explicitly, so
// multiple independent runs can coexist in one process without shared state.
type Simulator struct {
	Clock int64
	// EventQueue has all the simulator events, like arrivals, timers and
	// resource grants
	EventQueue EventQueue
	RNG        *PartitionedRNG

	seq       uint64
	processed int64
}

// NewSimulator creates a Simulator with an empty event queue and a
// deterministic RNG derived from seed.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		Clock:      0,
		EventQueue: make(EventQueue, 0),
		RNG:        NewPartitionedRNG(NewSimulationKey(seed)),
	}
}

// Now returns the current virtual time in ticks.
func (sim *Simulator) Now() int64 {
	return sim.Clock
}

// Schedule pushes an event onto the simulator's event queue. Events scheduled
// for the same tick execute in schedule order.
func (sim *Simulator) Schedule(ev Event) {
	if ev.Timestamp() < sim.Clock {
		logrus.Panicf("event scheduled in the past: t=%d, clock=%d", ev.Timestamp(), sim.Clock)
	}
	heap.Push(&sim.EventQueue, scheduledEvent{ev: ev, seq: sim.seq})
	sim.seq++
}

// ScheduleAfter schedules fn to run delay ticks from now. Negative delays are
// clamped to zero (run at the current tick, after already-queued events).
func (sim *Simulator) ScheduleAfter(delay int64, fn func(*Simulator)) {
	if delay < 0 {
		delay = 0
	}
	sim.Schedule(&TimerEvent{time: sim.Clock + delay, fn: fn})
}

// RunUntil pops and executes events in time order until no event remains at
// or before horizon. Later events stay queued. The clock never moves
// backwards: it advances only by popping the earliest event.
func (sim *Simulator) RunUntil(horizon int64) {
	for len(sim.EventQueue) > 0 {
		if sim.EventQueue[0].ev.Timestamp() > horizon {
			return
		}
		entry := heap.Pop(&sim.EventQueue).(scheduledEvent)
		sim.Clock = entry.ev.Timestamp()
		sim.processed++
		entry.ev.Execute(sim)
	}
}

// Run executes every queued event, including those scheduled by executing
// events, until the queue is empty.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		entry := heap.Pop(&sim.EventQueue).(scheduledEvent)
		sim.Clock = entry.ev.Timestamp()
		sim.processed++
		entry.ev.Execute(sim)
	}
}

// ProcessedEvents returns the number of events executed so far.
func (sim *Simulator) ProcessedEvents() int64 {
	return sim.processed
}
