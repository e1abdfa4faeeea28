package sim

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// scheduledEvent pairs an Event with its insertion sequence number so that
// same-tick events pop in schedule (FIFO) order.
type scheduledEvent struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface and orders events by timestamp,
// breaking ties by schedule order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []scheduledEvent

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Timestamp() != eq[j].ev.Timestamp() {
		return eq[i].ev.Timestamp() < eq[j].ev.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(scheduledEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// TimerEvent resumes a suspended process by invoking a callback at a fixed
// virtual time. Journeys use it for triage delays, consultation durations,
// abandonment deadlines and snapshot sampling.
type TimerEvent struct {
	time int64
	fn   func(*Simulator)
}

// Timestamp returns the scheduled time of the TimerEvent.
func (e *TimerEvent) Timestamp() int64 {
	return e.time
}

// Execute invokes the callback.
func (e *TimerEvent) Execute(sim *Simulator) {
	e.fn(sim)
}
